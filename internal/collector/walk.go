package collector

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/charlievieth/fastwalk"
	"github.com/sirupsen/logrus"
)

// walkEntry is a visited path plus its elements relative to the walk root, used to
// restore a deterministic order after the concurrent walk.
type walkEntry struct {
	path  string
	elems []string
}

// walkResult is what a single root contributes to a Collection.
type walkResult struct {
	paths   []string
	skipped int
}

// walkRoot visits root and everything below it up to maxDepth, returning the entries in
// depth-first pre-order with siblings sorted lexically. The root itself comes first.
// A root that is a symlink is walked through, but entries are reported under root.
// Unreadable entries are skipped and counted.
//
//nolint:gocognit // walk callback keeps depth, pruning and cancellation in one place.
func walkRoot(ctx context.Context, root string, maxDepth, workers int, r rules) (walkResult, error) {
	res := walkResult{paths: []string{root}}
	if maxDepth <= 0 {
		return res, nil
	}

	var (
		mu      sync.Mutex
		entries []walkEntry
	)
	conf := fastwalk.DefaultConfig
	conf.Follow = false
	if workers > 0 {
		conf.NumWorkers = workers
	}

	target := walkTarget(root)
	err := fastwalk.Walk(&conf, target, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logrus.Debugf("Skipping %s: %v", path, err)
			mu.Lock()
			res.skipped++
			mu.Unlock()
			return nil // Skip unreadable entries.
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if path == target {
			return nil
		}
		rel, relErr := filepath.Rel(target, path)
		if relErr != nil {
			return nil
		}
		if r.pruned(rel, d.Name()) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		mu.Lock()
		entries = append(entries, walkEntry{path: filepath.Join(root, rel), elems: strings.Split(rel, string(filepath.Separator))})
		mu.Unlock()

		if d.IsDir() && depthOf(rel) >= maxDepth {
			return fs.SkipDir
		}
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return walkResult{}, ctx.Err()
		}
		logrus.Debugf("Walk of %s stopped early: %v", root, err)
		res.skipped++
	}

	slices.SortFunc(entries, func(a, b walkEntry) int {
		return slices.Compare(a.elems, b.elems)
	})
	for _, e := range entries {
		res.paths = append(res.paths, e.path)
	}
	return res, nil
}

// walkTarget returns the directory fastwalk should start from. A root that is itself a
// symlink is resolved so its contents are walked.
func walkTarget(root string) string {
	fi, err := os.Lstat(root)
	if err != nil || fi.Mode()&os.ModeSymlink == 0 {
		return root
	}
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		return resolved
	}
	return root
}
