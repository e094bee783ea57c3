package tui

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/cantoview/canto/internal/gallery"
)

// Run starts the Bubble Tea program over nav and blocks until the user quits or ctx
// is canceled.
func Run(ctx context.Context, nav *gallery.Navigator, ld ImageLoader) error {
	model := NewModel(nav, ld)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	// Silence external logs (WARN/ERRO) during TUI to avoid corrupting the view.
	prevOut := logrus.StandardLogger().Out
	logrus.SetOutput(io.Discard)
	defer logrus.SetOutput(prevOut)

	_, err := p.Run()
	return err
}
