package tui

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/cantoview/canto/internal/gallery"
	"github.com/cantoview/canto/internal/loader"
)

//nolint:gochecknoglobals // shared styles.
var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("69"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	pausedStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1).Foreground(lipgloss.Color("208"))
	layoutStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1).Foreground(lipgloss.Color("46"))
	frameStyle   = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("240"))
	currentFrame = frameStyle.BorderForeground(lipgloss.Color("69"))
)

func (m Model) View() string {
	if m.quitting {
		return "Bye.\n"
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	switch {
	case m.nav.Layout().Kind == gallery.Slide || (m.nav.Layout().Suspended() && m.resume.Kind == gallery.Slide):
		b.WriteString(m.renderSlide())
	default:
		b.WriteString(m.renderGrid())
	}

	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m Model) renderHeader() string {
	pos := fmt.Sprintf("%d/%d", m.nav.Position()+1, m.nav.Len())
	badge := layoutStyle.Render(m.nav.Layout().String())
	if m.nav.Layout().Suspended() {
		badge = pausedStyle.Render("PAUSED")
	}
	return titleStyle.Render("canto") + "  " + dimStyle.Render(pos) + " " + badge
}

func (m Model) renderFooter() string {
	current := m.nav.Current()
	if m.width > 0 {
		current = truncate(current, m.width)
	}
	var b strings.Builder
	b.WriteString(dimStyle.Render(current))
	b.WriteString("\n")
	if m.helpVisible {
		b.WriteString(m.help.FullHelpView(m.keys.FullHelp()))
	} else {
		b.WriteString(m.help.ShortHelpView(m.keys.ShortHelp()))
	}
	return b.String()
}

// gridColumns returns how many tiles fit side by side.
func (m Model) gridColumns() int {
	cell := tileInnerWidth + 2 + tileMargin // border + margin
	if m.width <= 0 {
		return 1
	}
	return max(1, m.width/cell)
}

// gridRows returns how many tile rows fit vertically.
func (m Model) gridRows(tileHeight int) int {
	if m.height <= 0 {
		return 1
	}
	return max(1, (m.height-chromeLines)/tileHeight)
}

func (m Model) renderGrid() string {
	if len(m.tiles) == 0 {
		return dimStyle.Render("Press space to reveal the next image.")
	}
	rendered := make([]string, 0, len(m.tiles))
	for i, t := range m.tiles {
		rendered = append(rendered, renderTile(t, i == len(m.tiles)-1))
	}

	cols := m.gridColumns()
	rows := m.gridRows(lipgloss.Height(rendered[len(rendered)-1]))
	if visible := cols * rows; len(rendered) > visible {
		// Keep whole rows so tiles do not shift columns as new ones arrive.
		start := len(rendered) - visible
		start -= start % cols
		if len(rendered)-start > visible {
			start += cols
		}
		rendered = rendered[start:]
	}

	lines := make([]string, 0, (len(rendered)+cols-1)/cols)
	for i := 0; i < len(rendered); i += cols {
		end := min(i+cols, len(rendered))
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, rendered[i:end]...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) renderSlide() string {
	if m.slide == nil {
		return ""
	}
	body := renderTile(*m.slide, true)
	return lipgloss.JoinHorizontal(lipgloss.Top, body, "  "+describe(*m.slide))
}

// renderTile draws one framed thumbnail with its file name underneath.
func renderTile(t tile, current bool) string {
	var body string
	switch {
	case !t.Loaded:
		body = dimStyle.Render("loading…")
	case t.Err != nil:
		body = errStyle.Render(tileError(t.Err))
	default:
		body = renderThumb(t.Image.Thumb)
	}
	caption := truncate(filepath.Base(t.Path), tileInnerWidth)
	content := lipgloss.JoinVertical(lipgloss.Left, body, dimStyle.Render(caption))

	style := frameStyle
	if current {
		style = currentFrame
	}
	return style.Width(tileInnerWidth).MarginRight(tileMargin).Render(content)
}

func tileError(err error) string {
	if errors.Is(err, loader.ErrNotImage) {
		return "✗ not an image"
	}
	return "✗ " + truncate(err.Error(), tileInnerWidth-2)
}

// describe returns the metadata column shown beside a slide.
func describe(t tile) string {
	if !t.Loaded || t.Image == nil {
		return dimStyle.Render(t.Path)
	}
	img := t.Image
	return strings.Join([]string{
		titleStyle.Render(filepath.Base(img.Path)),
		fmt.Sprintf("%d×%d %s", img.Width, img.Height, img.Format),
		img.MIME,
		humanize.IBytes(uint64(max(img.Size, 0))), //nolint:gosec // clamped non-negative
	}, "\n")
}
