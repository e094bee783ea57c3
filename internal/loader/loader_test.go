package loader

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255}) //nolint:gosec // bounded by modulo
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func waitHandle(t *testing.T, h *Handle) (*Image, error) {
	t.Helper()
	select {
	case <-h.Ready():
		return h.Result()
	case <-time.After(5 * time.Second):
		t.Fatalf("handle for %s never became ready", h.Path)
		return nil, nil
	}
}

func TestLoad_PNG(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "wide.png"), 200, 100)

	l := New(WithThumbSize(40, 40))
	defer l.Close()

	h := l.Load(dir, "wide.png")
	require.NotNil(t, h)
	assert.Equal(t, filepath.Join(dir, "wide.png"), h.Path)

	img, err := waitHandle(t, h)
	require.NoError(t, err)
	assert.Equal(t, "png", img.Format)
	assert.Equal(t, "image/png", img.MIME)
	assert.Equal(t, 200, img.Width)
	assert.Equal(t, 100, img.Height)
	assert.Positive(t, img.Size)

	b := img.Thumb.Bounds()
	assert.LessOrEqual(t, b.Dx(), 40)
	assert.LessOrEqual(t, b.Dy(), 40)
	assert.Equal(t, 40, b.Dx())
}

func TestLoad_AbsoluteNameIgnoresBaseDir(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.png")
	writePNG(t, path, 4, 4)

	l := New()
	defer l.Close()

	img, err := l.Load("/nonexistent", path).Wait()
	require.NoError(t, err)
	assert.Equal(t, path, img.Path)

	img, err = l.LoadPath(path).Wait()
	require.NoError(t, err)
	assert.Equal(t, path, img.Path)
}

func TestLoad_NotImage(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hello"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fake.png"), []byte("definitely not a png"), 0o600))

	l := New()
	defer l.Close()

	for _, name := range []string{"notes.txt", "fake.png"} {
		_, err := l.Load(dir, name).Wait()
		require.ErrorIs(t, err, ErrNotImage, name)
	}

	_, err := l.LoadPath(dir).Wait()
	require.ErrorIs(t, err, ErrNotImage)
}

func TestLoad_Missing(t *testing.T) {
	l := New()
	defer l.Close()

	_, err := l.Load(t.TempDir(), "gone.png").Wait()
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_HandlesHaveDistinctIDs(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "a.png"), 2, 2)

	l := New(WithWorkers(4))
	defer l.Close()

	seen := map[string]struct{}{}
	var handles []*Handle
	for i := 0; i < 10; i++ {
		h := l.Load(dir, "a.png")
		handles = append(handles, h)
		seen[h.ID.String()] = struct{}{}
	}
	assert.Len(t, seen, 10)
	for _, h := range handles {
		_, err := waitHandle(t, h)
		require.NoError(t, err)
	}
}

func TestLoad_AfterClose(t *testing.T) {
	l := New()
	l.Close()
	l.Close()

	_, err := l.Load(t.TempDir(), "a.png").Wait()
	require.ErrorIs(t, err, ErrClosed)
}
