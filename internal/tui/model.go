package tui

import (
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/cantoview/canto/internal/gallery"
	"github.com/cantoview/canto/internal/loader"
)

// ImageLoader is the subset of loader.Loader the UI depends on.
type ImageLoader interface {
	Load(baseDir, name string) *loader.Handle
}

// tile is a revealed media entry: a grid cell or the single slide.
type tile struct {
	Path   string
	Loaded bool
	Image  *loader.Image
	Err    error

	handle *loader.Handle
}

// Model is the root Bubble Tea model. It owns the navigator and translates key
// presses into cursor moves according to the navigator's layout.
type Model struct {
	nav    *gallery.Navigator
	loader ImageLoader

	// Grid tiles in reveal order; Slide uses slide only.
	tiles []tile
	slide *tile

	// resume is the layout restored when a pause is lifted.
	resume gallery.Layout

	// edge detection for held keys
	lastKey   string
	lastKeyAt time.Time
	clock     func() time.Time

	width    int
	height   int
	quitting bool

	help        help.Model
	helpVisible bool
	keys        keyMap
}

// NewModel constructs a Model over nav. In Slide layout the current entry is shown
// immediately; in Grid layout nothing is revealed until the first advance.
func NewModel(nav *gallery.Navigator, ld ImageLoader) Model { // nolint:ireturn
	m := Model{
		nav:    nav,
		loader: ld,
		resume: nav.Layout(),
		clock:  time.Now,
		help:   help.New(),
		keys:   newKeyMap(),
	}
	if nav.Layout().Kind == gallery.Slide {
		m.showSlide(nav.Current())
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	if m.slide != nil && !m.slide.Loaded {
		return awaitHandle(m.slide.handle)
	}
	return nil
}

// Navigator exposes the navigator driven by this model.
func (m Model) Navigator() *gallery.Navigator { return m.nav }

// Tiles returns the revealed grid paths in reveal order.
func (m Model) Tiles() []string {
	out := make([]string, 0, len(m.tiles))
	for _, t := range m.tiles {
		out = append(out, t.Path)
	}
	return out
}

// Slide returns the path of the displayed slide, if any.
func (m Model) Slide() (string, bool) {
	if m.slide == nil {
		return "", false
	}
	return m.slide.Path, true
}

func (m *Model) newTile(path string) tile {
	return tile{
		Path:   path,
		handle: m.loader.Load(filepath.Dir(path), filepath.Base(path)),
	}
}

// reveal appends a grid tile for path and returns the command awaiting its image.
func (m *Model) reveal(path string) tea.Cmd {
	t := m.newTile(path)
	m.tiles = append(m.tiles, t)
	if len(m.tiles) > maxTiles {
		m.tiles = m.tiles[len(m.tiles)-maxTiles:]
	}
	return awaitHandle(t.handle)
}

// showSlide replaces the slide with path and returns the command awaiting its image.
func (m *Model) showSlide(path string) tea.Cmd {
	t := m.newTile(path)
	m.slide = &t
	return awaitHandle(t.handle)
}

// awaitHandle blocks on h in the command goroutine and reports the result.
func awaitHandle(h *loader.Handle) tea.Cmd {
	return func() tea.Msg {
		img, err := h.Wait()
		return imageLoadedMsg{ID: h.ID, Image: img, Err: err}
	}
}

// applyLoaded stores a finished load on its tile. Results for tiles that were
// dropped or replaced are discarded.
func (m *Model) applyLoaded(msg imageLoadedMsg) {
	if m.slide != nil && m.slide.handle.ID == msg.ID {
		m.slide.Loaded, m.slide.Image, m.slide.Err = true, msg.Image, msg.Err
		return
	}
	for i := range m.tiles {
		if m.tiles[i].handle.ID == msg.ID {
			m.tiles[i].Loaded, m.tiles[i].Image, m.tiles[i].Err = true, msg.Image, msg.Err
			return
		}
	}
}
