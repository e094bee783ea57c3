package collector

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// workDir returns dir when set, otherwise the process working directory.
func workDir(dir string) (string, error) {
	if dir != "" {
		return filepath.Abs(dir)
	}
	return os.Getwd()
}

func expandTilde(path string) (string, error) {
	if len(path) == 0 || path[0] != '~' {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(home, path[1:]), nil
}

// resolveArg turns a CLI argument into an absolute path: absolute arguments are kept,
// relative ones are joined onto wd. A leading ~ is expanded on Unix-like systems.
func resolveArg(arg, wd string) (string, error) {
	path := arg
	if runtime.GOOS != "windows" {
		var err error
		path, err = expandTilde(arg)
		if err != nil {
			return "", err
		}
	}
	if filepath.IsAbs(path) {
		return filepath.Clean(path), nil
	}
	return filepath.Join(wd, path), nil
}

// canonical returns the symlink-free form of path, falling back to the cleaned path
// when it cannot be resolved (missing files, permission errors).
func canonical(path string) string {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		return resolved
	}
	return filepath.Clean(path)
}

func isHidden(name string) bool {
	return len(name) > 1 && strings.HasPrefix(name, ".") && name != ".."
}

// depthOf returns the number of path elements in rel; "." is the root at depth 0.
func depthOf(rel string) int {
	if rel == "." || rel == "" {
		return 0
	}
	return strings.Count(rel, string(filepath.Separator)) + 1
}
