package tui

import (
	"github.com/google/uuid"

	"github.com/cantoview/canto/internal/loader"
)

// Message types for Bubble Tea update loop.

// imageLoadedMsg carries a finished load, keyed by the loader handle it came from.
type imageLoadedMsg struct {
	ID    uuid.UUID
	Image *loader.Image
	Err   error
}
