// Package gallery holds the ordered media list and the cursor moving over it.
//
// The first and last entries are both boundary positions: moving forward from either
// one jumps to index 1, moving backward from either one jumps to the last index. The
// traversal is therefore not a plain modulo wraparound, and callers relying on the
// visit order must not assume one.
package gallery

import "fmt"

// Navigator owns a non-empty path list, a cursor into it, and the active layout.
// It is not safe for concurrent use; the UI event loop is its only caller.
type Navigator struct {
	list     []string
	position int
	layout   Layout
}

// New builds a Navigator positioned at index 0. The paths slice is copied.
func New(paths []string, layout Layout) (*Navigator, error) {
	if len(paths) == 0 {
		return nil, ErrEmptyCollection
	}
	if err := layout.Validate(); err != nil {
		return nil, err
	}
	list := make([]string, len(paths))
	copy(list, paths)
	return &Navigator{list: list, layout: layout}, nil
}

// Current returns the path under the cursor.
func (n *Navigator) Current() string { return n.list[n.position] }

// Position returns the cursor index.
func (n *Navigator) Position() int { return n.position }

// Len returns the number of paths.
func (n *Navigator) Len() int { return len(n.list) }

// Paths returns a copy of the ordered path list.
func (n *Navigator) Paths() []string {
	out := make([]string, len(n.list))
	copy(out, n.list)
	return out
}

// Layout returns the active layout.
func (n *Navigator) Layout() Layout { return n.layout }

// SetLayout replaces the active layout. The cursor is left untouched.
func (n *Navigator) SetLayout(l Layout) error {
	if err := l.Validate(); err != nil {
		return err
	}
	n.layout = l
	return nil
}

// InBound reports whether the cursor sits strictly between the first and last index.
func (n *Navigator) InBound() bool {
	return n.position != 0 && n.position != n.last()
}

// InRange reports whether advancing by step keeps the cursor inside the list.
func (n *Navigator) InRange(step int) bool {
	return len(n.list)-step > n.position
}

// Advance moves one entry forward and returns the new current path.
// From either boundary the cursor jumps to index 1.
func (n *Navigator) Advance() string {
	if n.InBound() {
		n.position++
	} else {
		n.position = n.restart()
	}
	return n.Current()
}

// Retreat moves one entry backward and returns the new current path.
// From either boundary the cursor jumps to the last index.
func (n *Navigator) Retreat() string {
	if n.InBound() {
		n.position--
	} else {
		n.position = n.last()
	}
	return n.Current()
}

// AdvanceBy moves step entries forward. When the cursor is on a boundary or the
// move would run past the last index, the cursor jumps to index 1 instead.
// AdvanceBy(1) behaves exactly like Advance.
func (n *Navigator) AdvanceBy(step int) (string, error) {
	if step < 1 {
		return "", fmt.Errorf("%w: %d", ErrInvalidStep, step)
	}
	if n.InBound() && n.InRange(step) {
		n.position += step
	} else {
		n.position = n.restart()
	}
	return n.Current(), nil
}

// RetreatBy moves step entries backward. When the cursor is on a boundary or the
// move would run past index 0, the cursor jumps to the last index instead.
// RetreatBy(1) behaves exactly like Retreat.
func (n *Navigator) RetreatBy(step int) (string, error) {
	if step < 1 {
		return "", fmt.Errorf("%w: %d", ErrInvalidStep, step)
	}
	if n.InBound() && n.position-step >= 0 {
		n.position -= step
	} else {
		n.position = n.last()
	}
	return n.Current(), nil
}

func (n *Navigator) last() int { return len(n.list) - 1 }

// restart is the forward jump target; a single-entry list stays on index 0.
func (n *Navigator) restart() int { return min(1, n.last()) }
