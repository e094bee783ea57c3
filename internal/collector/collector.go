// Package collector builds the ordered media list from user-supplied paths.
//
// Explicit file arguments come first, in argument order, followed by every entry of a
// bounded walk over the directory arguments (or the working directory when no
// arguments are given). No file-type filtering happens here: directories and non-image
// files are kept, and deciding what is displayable is left to the image loader.
package collector

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
)

// DefaultMaxDepth is how far below each root the walk descends (root = depth 0).
const DefaultMaxDepth = 3

// Sentinel errors returned by this package.
var (
	ErrWorkDir        = errors.New("cannot determine working directory")
	ErrInvalidPattern = errors.New("invalid pattern")
	// ErrUnknownFormat is returned for an output format other than text, json or yaml.
	ErrUnknownFormat  = errors.New("unknown output format")
)

// Options configures a collection run. The zero value walks the process working
// directory to depth 0; use DefaultOptions for the standard permissive walk.
type Options struct {
	// WorkDir resolves relative arguments and is the walk root when no arguments are
	// given. Empty means os.Getwd().
	WorkDir  string
	MaxDepth int
	// SkipHidden prunes dot-entries. Hidden entries are included by default.
	SkipHidden bool
	// RespectIgnore honors .ignore and .gitignore files found at each walk root.
	RespectIgnore bool
	// Exclude holds glob patterns matched against root-relative paths and base names.
	Exclude []string
	// Dedupe drops entries whose canonical path was already collected.
	Dedupe bool
	// Workers bounds the walker's goroutines; 0 uses the walker default.
	Workers int
}

// DefaultOptions returns the permissive walk: depth 3, hidden entries included,
// ignore files disregarded.
func DefaultOptions() Options {
	return Options{MaxDepth: DefaultMaxDepth}
}

// Collection is the result of a collection run.
type Collection struct {
	// Paths is the ordered media list.
	Paths []string `json:"paths" yaml:"paths"`
	// Roots are the walked directories in walk order.
	Roots []string `json:"roots" yaml:"roots"`
	// Explicit is the number of leading Paths that came from file arguments.
	Explicit   int `json:"explicit" yaml:"explicit"`
	Skipped    int `json:"skipped" yaml:"skipped"`
	Duplicates int `json:"duplicates,omitempty" yaml:"duplicates,omitempty"`
}

// Collect resolves args against the working directory, walks the directory arguments
// and returns the combined media list. Entry-level walk errors are skipped; the only
// fatal conditions are an undeterminable working directory, an invalid pattern, and
// context cancellation.
func Collect(ctx context.Context, args []string, opts Options) (*Collection, error) {
	wd, err := workDir(opts.WorkDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWorkDir, err)
	}
	excludes, err := compileExcludes(opts.Exclude)
	if err != nil {
		return nil, err
	}

	c := &Collection{}
	var seen map[string]struct{}
	if opts.Dedupe {
		seen = make(map[string]struct{})
	}
	add := func(path string) {
		if seen != nil {
			key := canonical(path)
			if _, ok := seen[key]; ok {
				c.Duplicates++
				return
			}
			seen[key] = struct{}{}
		}
		c.Paths = append(c.Paths, path)
	}

	if len(args) == 0 {
		c.Roots = append(c.Roots, wd)
	}
	for _, arg := range args {
		path, err := resolveArg(arg, wd)
		if err != nil {
			logrus.Debugf("Failed to expand path '%s': %v", arg, err)
			continue
		}
		if st, err := os.Stat(path); err == nil && st.IsDir() {
			c.Roots = append(c.Roots, path)
			continue
		} else if err != nil {
			logrus.Debugf("Explicit path %s is not accessible: %v", path, err)
		}
		add(path)
	}
	c.Explicit = len(c.Paths)

	for _, root := range c.Roots {
		r := rules{skipHidden: opts.SkipHidden, exclude: excludes}
		if opts.RespectIgnore {
			if r.ignore, err = loadIgnore(walkTarget(root)); err != nil {
				return nil, err
			}
		}
		res, err := walkRoot(ctx, root, opts.MaxDepth, opts.Workers, r)
		if err != nil {
			return nil, err
		}
		for _, p := range res.paths {
			add(p)
		}
		c.Skipped += res.skipped
	}

	logrus.Debugf("Collected %d paths (%d explicit, %d roots, %d skipped)", len(c.Paths), c.Explicit, len(c.Roots), c.Skipped)
	return c, nil
}
