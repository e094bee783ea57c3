package tui

import "time"

// Package-level constants to avoid magic numbers and improve readability.
const (
	// keyRepeatWindow is the gap below which an identical key is treated as terminal
	// autorepeat from a held key rather than a new press.
	keyRepeatWindow = 120 * time.Millisecond

	// maxTiles bounds how many revealed grid tiles are kept in memory.
	maxTiles = 256

	// tile geometry in terminal cells (frame included).
	tileInnerWidth = 32
	tileMargin     = 1
	// chromeLines covers the header and the status/footer lines around the content.
	chromeLines = 4
)
