package collector

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gobwas/glob"
	"github.com/moby/patternmatcher"
	"github.com/moby/patternmatcher/ignorefile"
	"github.com/sirupsen/logrus"
)

// IgnoreFiles are the per-root ignore files read when RespectIgnore is set.
//
//nolint:gochecknoglobals // immutable lookup table used across the package.
var IgnoreFiles = []string{".ignore", ".gitignore"}

// rules decides which walked entries are pruned. The zero value prunes nothing.
type rules struct {
	skipHidden bool
	ignore     *patternmatcher.PatternMatcher
	exclude    []glob.Glob
}

// compileExcludes compiles exclude globs with '/' as the separator.
func compileExcludes(patterns []string) ([]glob.Glob, error) {
	out := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrInvalidPattern, p, err)
		}
		out = append(out, g)
	}
	return out, nil
}

// loadIgnore reads the ignore files present at root and compiles them into one matcher.
// It returns nil when no patterns were found.
func loadIgnore(root string) (*patternmatcher.PatternMatcher, error) {
	var patterns []string
	for _, name := range IgnoreFiles {
		path := filepath.Join(root, name)
		f, err := os.Open(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("open ignore file %s: %w", path, err)
		}
		ps, err := ignorefile.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("read ignore file %s: %w", path, err)
		}
		logrus.Debugf("Loaded %d ignore patterns from %s", len(ps), path)
		patterns = append(patterns, ps...)
	}
	if len(patterns) == 0 {
		return nil, nil
	}
	pm, err := patternmatcher.New(patterns)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidPattern, root, err)
	}
	return pm, nil
}

// pruned reports whether the entry at rel (relative to its walk root) with base name
// name must be left out of the walk.
func (r rules) pruned(rel, name string) bool {
	if r.skipHidden && isHidden(name) {
		return true
	}
	if r.ignore != nil {
		if ok, err := r.ignore.MatchesOrParentMatches(rel); err == nil && ok {
			return true
		}
	}
	slashed := filepath.ToSlash(rel)
	for _, g := range r.exclude {
		if g.Match(slashed) || g.Match(name) {
			return true
		}
	}
	return false
}
