//nolint:testpackage // White-box tests require access to unexported identifiers in this package.
package tui

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cantoview/canto/internal/gallery"
	"github.com/cantoview/canto/internal/loader"
)

var (
	keyRight = tea.KeyMsg{Type: tea.KeyRight}
	keyLeft  = tea.KeyMsg{Type: tea.KeyLeft}
)

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

// fixture writes n small PNGs and returns their paths in order.
func fixture(t *testing.T, n int) []string {
	t.Helper()
	dir := t.TempDir()
	out := make([]string, n)
	for i := 0; i < n; i++ {
		img := image.NewRGBA(image.Rect(0, 0, 4, 4))
		img.Set(0, 0, color.RGBA{R: 255, A: 255})
		path := filepath.Join(dir, fmt.Sprintf("img%02d.png", i))
		f, err := os.Create(path)
		require.NoError(t, err)
		require.NoError(t, png.Encode(f, img))
		require.NoError(t, f.Close())
		out[i] = path
	}
	return out
}

// testClock is a manually advanced clock for autorepeat filtering.
type testClock struct{ now time.Time }

func (c *testClock) Now() time.Time          { return c.now }
func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestModel(t *testing.T, paths []string, layout gallery.Layout) (Model, *testClock) {
	t.Helper()
	nav, err := gallery.New(paths, layout)
	require.NoError(t, err)
	ld := loader.New()
	t.Cleanup(ld.Close)

	m := NewModel(nav, ld)
	clk := &testClock{now: time.Unix(1_700_000_000, 0)}
	m.clock = clk.Now
	return m, clk
}

// press feeds msg to m after moving the clock past the autorepeat window.
func press(t *testing.T, m Model, clk *testClock, msg tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	clk.Advance(time.Second)
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	require.True(t, ok)
	return nm, cmd
}

// drain runs cmd (expanding batches) and feeds resulting messages back into m.
func drain(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		return m
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			m = drain(t, m, c)
		}
		return m
	}
	next, _ := m.Update(msg)
	nm, ok := next.(Model)
	require.True(t, ok)
	return nm
}

func TestGrid_AdvanceRevealsNext(t *testing.T) {
	paths := fixture(t, 4)
	m, clk := newTestModel(t, paths, gallery.GridLayout(2))
	assert.Empty(t, m.Tiles())

	m, cmd := press(t, m, clk, keyRight)
	require.NotNil(t, cmd)
	assert.Equal(t, 1, m.Navigator().Position())
	assert.Equal(t, []string{paths[1]}, m.Tiles())

	m, _ = press(t, m, clk, runes(" "))
	m, _ = press(t, m, clk, runes("l"))
	assert.Equal(t, 3, m.Navigator().Position())
	// From the last index the cursor jumps back to 1.
	m, _ = press(t, m, clk, keyRight)
	assert.Equal(t, 1, m.Navigator().Position())
	assert.Equal(t, []string{paths[1], paths[2], paths[3], paths[1]}, m.Tiles())
}

func TestGrid_RetreatRevealsPrevious(t *testing.T) {
	paths := fixture(t, 4)
	m, clk := newTestModel(t, paths, gallery.GridLayout(2))

	// Retreating from either boundary lands on the last index.
	m, _ = press(t, m, clk, keyLeft)
	assert.Equal(t, 3, m.Navigator().Position())
	m, _ = press(t, m, clk, runes("h"))
	assert.Equal(t, 3, m.Navigator().Position())

	// From an interior index it steps back by one.
	m, _ = press(t, m, clk, keyRight)
	m, _ = press(t, m, clk, keyRight)
	require.Equal(t, 2, m.Navigator().Position())
	m, _ = press(t, m, clk, runes("h"))
	assert.Equal(t, 1, m.Navigator().Position())

	assert.Equal(t, []string{paths[3], paths[3], paths[1], paths[2], paths[1]}, m.Tiles())
}

func TestGrid_PagedRevealsBatch(t *testing.T) {
	paths := fixture(t, 6)
	m, clk := newTestModel(t, paths, gallery.GridLayout(3))

	m, cmd := press(t, m, clk, runes("]"))
	require.NotNil(t, cmd)
	assert.Equal(t, []string{paths[1], paths[2], paths[3]}, m.Tiles())
	assert.Equal(t, 3, m.Navigator().Position())

	m, _ = press(t, m, clk, runes("["))
	assert.Equal(t, 0, m.Navigator().Position())
	assert.Len(t, m.Tiles(), 6)
}

func TestHeldKeyAdvancesOnce(t *testing.T) {
	paths := fixture(t, 5)
	m, clk := newTestModel(t, paths, gallery.GridLayout(2))

	m, _ = press(t, m, clk, keyRight)
	require.Equal(t, 1, m.Navigator().Position())

	// Autorepeat: the same key keeps arriving inside the window.
	for i := 0; i < 5; i++ {
		clk.Advance(keyRepeatWindow / 3)
		next, cmd := m.Update(keyRight)
		m = next.(Model) //nolint:forcetypeassert // Update always returns Model
		assert.Nil(t, cmd)
	}
	assert.Equal(t, 1, m.Navigator().Position())
	assert.Len(t, m.Tiles(), 1)

	// A different key inside the window is a new edge.
	clk.Advance(time.Millisecond)
	next, _ := m.Update(runes("l"))
	m = next.(Model) //nolint:forcetypeassert // Update always returns Model
	assert.Equal(t, 2, m.Navigator().Position())

	// After a release gap the same key counts again.
	m, _ = press(t, m, clk, runes("l"))
	assert.Equal(t, 3, m.Navigator().Position())
}

func TestOpt_NavigationIsNoop(t *testing.T) {
	paths := fixture(t, 4)
	for _, layout := range []gallery.Layout{gallery.GridLayout(2), gallery.SlideLayout(2)} {
		t.Run(layout.Kind.String(), func(t *testing.T) {
			m, clk := newTestModel(t, paths, layout)
			m, _ = press(t, m, clk, keyRight)

			m, _ = press(t, m, clk, runes("p"))
			require.True(t, m.Navigator().Layout().Suspended())

			beforePos := m.Navigator().Position()
			beforePaths := m.Navigator().Paths()
			beforeTiles := m.Tiles()
			beforeSlide, _ := m.Slide()

			for _, k := range []tea.KeyMsg{keyRight, keyLeft, runes("]"), runes("["), runes(" ")} {
				var cmd tea.Cmd
				m, cmd = press(t, m, clk, k)
				assert.Nil(t, cmd)
			}
			assert.Equal(t, beforePos, m.Navigator().Position())
			assert.Equal(t, beforePaths, m.Navigator().Paths())
			assert.Equal(t, beforeTiles, m.Tiles())
			afterSlide, _ := m.Slide()
			assert.Equal(t, beforeSlide, afterSlide)

			m, _ = press(t, m, clk, runes("p"))
			assert.Equal(t, layout, m.Navigator().Layout())
		})
	}
}

func TestSlide_ShowsOneAtATime(t *testing.T) {
	paths := fixture(t, 6)
	m, clk := newTestModel(t, paths, gallery.SlideLayout(2))

	got, ok := m.Slide()
	require.True(t, ok)
	assert.Equal(t, paths[0], got)
	require.NotNil(t, m.Init())

	m, _ = press(t, m, clk, keyRight)
	got, _ = m.Slide()
	assert.Equal(t, paths[1], got)

	m, _ = press(t, m, clk, runes("]"))
	got, _ = m.Slide()
	assert.Equal(t, paths[3], got)

	m, _ = press(t, m, clk, runes("["))
	got, _ = m.Slide()
	assert.Equal(t, paths[1], got)
	assert.Empty(t, m.Tiles())
}

func TestQuitRequiresShift(t *testing.T) {
	m, clk := newTestModel(t, fixture(t, 2), gallery.GridLayout(1))

	m, cmd := press(t, m, clk, runes("q"))
	assert.Nil(t, cmd)
	assert.False(t, m.quitting)

	m, cmd = press(t, m, clk, runes("Q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.True(t, m.quitting)

	m2, _ := newTestModel(t, fixture(t, 2), gallery.GridLayout(1))
	_, cmd = m2.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestImageLoadedUpdatesTile(t *testing.T) {
	paths := fixture(t, 3)
	m, clk := newTestModel(t, paths, gallery.GridLayout(1))

	m, cmd := press(t, m, clk, keyRight)
	m = drain(t, m, cmd)

	require.Len(t, m.tiles, 1)
	assert.True(t, m.tiles[0].Loaded)
	require.NoError(t, m.tiles[0].Err)
	assert.Equal(t, 4, m.tiles[0].Image.Width)
}

func TestStaleSlideLoadIgnored(t *testing.T) {
	paths := fixture(t, 4)
	m, _ := newTestModel(t, paths, gallery.SlideLayout(1))
	first := m.slide.handle.ID

	m.showSlide(paths[2])
	require.NotEqual(t, first, m.slide.handle.ID)
	m.applyLoaded(imageLoadedMsg{ID: first})
	assert.False(t, m.slide.Loaded)
	assert.Equal(t, paths[2], m.slide.Path)

	m.applyLoaded(imageLoadedMsg{ID: m.slide.handle.ID, Err: loader.ErrNotImage})
	assert.True(t, m.slide.Loaded)
	assert.ErrorIs(t, m.slide.Err, loader.ErrNotImage)
}
