package gallery

import (
	"fmt"
	"strings"
)

// LayoutKind selects how navigation events are interpreted.
type LayoutKind int

const (
	// Grid reveals entries in batches of PageSize.
	Grid LayoutKind = iota
	// Slide shows one entry at a time.
	Slide
	// Opt suspends navigation entirely.
	Opt
)

// DefaultPageSize is the grid batch size used when none is configured.
const DefaultPageSize = 4

func (k LayoutKind) String() string {
	switch k {
	case Grid:
		return "grid"
	case Slide:
		return "slide"
	case Opt:
		return "opt"
	default:
		return fmt.Sprintf("LayoutKind(%d)", int(k))
	}
}

// Layout is the display-mode tag carried by a Navigator.
type Layout struct {
	Kind     LayoutKind
	PageSize int
}

// GridLayout returns a grid layout revealing pageSize entries per page.
func GridLayout(pageSize int) Layout { return Layout{Kind: Grid, PageSize: pageSize} }

// SlideLayout returns a sequential layout; paged moves jump pageSize entries.
func SlideLayout(pageSize int) Layout { return Layout{Kind: Slide, PageSize: pageSize} }

// OptLayout returns the suspended layout.
func OptLayout() Layout { return Layout{Kind: Opt} }

// Suspended reports whether navigation events must be ignored.
func (l Layout) Suspended() bool { return l.Kind == Opt }

func (l Layout) String() string {
	if l.Kind == Opt {
		return l.Kind.String()
	}
	return fmt.Sprintf("%s(%d)", l.Kind, l.PageSize)
}

// Validate checks the page size for layouts that page.
func (l Layout) Validate() error {
	switch l.Kind {
	case Grid, Slide:
		if l.PageSize < 1 {
			return fmt.Errorf("%w: page size %d for %s", ErrInvalidLayout, l.PageSize, l.Kind)
		}
		return nil
	case Opt:
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrInvalidLayout, l.Kind)
	}
}

// ParseLayout builds a Layout from a CLI/config name. Names are case-insensitive.
// Opt is not accepted; it is entered only by suspending a running navigator.
func ParseLayout(name string, pageSize int) (Layout, error) {
	var l Layout
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "grid":
		l = GridLayout(pageSize)
	case "slide":
		l = SlideLayout(pageSize)
	default:
		return Layout{}, fmt.Errorf("%w: %q (want grid or slide)", ErrInvalidLayout, name)
	}
	if err := l.Validate(); err != nil {
		return Layout{}, err
	}
	return l, nil
}
