// Package loader resolves media paths to decoded, thumbnailed images on a bounded
// worker pool. Load returns a Handle immediately; the image behind it becomes
// available once the handle is ready.
package loader

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // GIF decoder
	_ "image/jpeg" // JPEG decoder
	_ "image/png"  // PNG decoder
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/nfnt/resize"
	"github.com/sirupsen/logrus"
	_ "golang.org/x/image/bmp"  // BMP decoder
	_ "golang.org/x/image/tiff" // TIFF decoder
	_ "golang.org/x/image/webp" // WebP decoder
)

const (
	defaultWorkers     = 2
	defaultQueueSize   = 64
	defaultThumbWidth  = 32
	defaultThumbHeight = 32
)

var (
	// ErrNotImage is returned for directories and files whose content is not a supported image.
	ErrNotImage = errors.New("not an image")
	// ErrClosed is returned by handles requested after Close.
	ErrClosed = errors.New("loader closed")
)

// Image is a decoded media file reduced to a thumbnail.
type Image struct {
	Path   string
	MIME   string
	Format string
	Width  int
	Height int
	Size   int64
	// Thumb fits within the loader's thumbnail box, preserving aspect ratio.
	Thumb image.Image
}

// Handle is the deferred result of a Load call.
type Handle struct {
	ID   uuid.UUID
	Path string

	done chan struct{}
	img  *Image
	err  error
}

func newHandle(path string) *Handle {
	return &Handle{ID: uuid.New(), Path: path, done: make(chan struct{})}
}

// Ready is closed once the result is available.
func (h *Handle) Ready() <-chan struct{} { return h.done }

// Result returns the image or the load error. It must only be called after Ready is closed.
func (h *Handle) Result() (*Image, error) { return h.img, h.err }

// Wait blocks until the handle is ready and returns its result.
func (h *Handle) Wait() (*Image, error) {
	<-h.done
	return h.Result()
}

func (h *Handle) resolve(img *Image, err error) {
	h.img, h.err = img, err
	close(h.done)
}

// Option configures a Loader.
type Option func(*Loader)

// WithWorkers sets the number of decode goroutines.
func WithWorkers(n int) Option {
	return func(l *Loader) {
		if n > 0 {
			l.workerCount = n
		}
	}
}

// WithThumbSize sets the thumbnail bounding box in pixels.
func WithThumbSize(width, height int) Option {
	return func(l *Loader) {
		if width > 0 && height > 0 {
			l.thumbWidth, l.thumbHeight = width, height
		}
	}
}

// Loader decodes images on a fixed pool of workers.
type Loader struct {
	workerCount int
	thumbWidth  int
	thumbHeight int

	mu     sync.Mutex
	closed bool
	queue  chan *Handle
	wg     sync.WaitGroup
	// overflow counts handles waiting in goroutines for queue space.
	overflow sync.WaitGroup
}

// New starts a Loader and its workers. Call Close to stop them.
func New(opts ...Option) *Loader {
	l := &Loader{
		workerCount: defaultWorkers,
		thumbWidth:  defaultThumbWidth,
		thumbHeight: defaultThumbHeight,
		queue:       make(chan *Handle, defaultQueueSize),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.startWorkers()
	return l
}

func (l *Loader) startWorkers() {
	for i := 0; i < l.workerCount; i++ {
		l.wg.Add(1)
		go func() {
			defer l.wg.Done()
			for h := range l.queue {
				h.resolve(l.decode(h.Path))
			}
		}()
	}
}

// Load queues name, resolved against baseDir, for decoding. An absolute name ignores
// baseDir. Load never blocks: when the queue is full the handle is handed over from
// a goroutine. The returned handle is never nil.
func (l *Loader) Load(baseDir, name string) *Handle {
	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, name)
	}
	h := newHandle(path)

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		h.resolve(nil, ErrClosed)
		return h
	}
	select {
	case l.queue <- h:
	default:
		l.overflow.Add(1)
		go func() {
			defer l.overflow.Done()
			l.queue <- h
		}()
	}
	return h
}

// LoadPath is Load with the path split into its directory and base name.
func (l *Loader) LoadPath(path string) *Handle {
	return l.Load(filepath.Dir(path), filepath.Base(path))
}

// Close stops accepting work, finishes queued loads and waits for the workers.
func (l *Loader) Close() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.closed = true
	l.mu.Unlock()
	l.overflow.Wait()
	close(l.queue)
	l.wg.Wait()
}

func (l *Loader) decode(path string) (*Image, error) {
	st, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if st.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrNotImage, path)
	}

	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(mt.String(), "image/") {
		return nil, fmt.Errorf("%w: %s (%s)", ErrNotImage, path, mt.String())
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	src, format, err := image.Decode(f)
	if err != nil {
		logrus.Debugf("decode %s failed: %v", path, err)
		return nil, fmt.Errorf("%w: %s: %w", ErrNotImage, path, err)
	}
	b := src.Bounds()

	return &Image{
		Path:   path,
		MIME:   mt.String(),
		Format: format,
		Width:  b.Dx(),
		Height: b.Dy(),
		Size:   st.Size(),
		Thumb:  resize.Thumbnail(uint(l.thumbWidth), uint(l.thumbHeight), src, resize.Lanczos3), //nolint:gosec // thumbnail box is small and positive
	}, nil
}
