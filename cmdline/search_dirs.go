package cmdline

import (
	"os"
	"path/filepath"
)

// DefaultSearchDirs returns the loader search order: the directory of the
// running executable, the working directory, the system directories, then PATH.
func DefaultSearchDirs() []string {
	var dirs []string

	if exe, err := os.Executable(); err == nil {
		dirs = append(dirs, filepath.Dir(exe))
	}
	if wd, err := os.Getwd(); err == nil {
		dirs = append(dirs, wd)
	}
	dirs = append(dirs, systemDirs()...)
	dirs = append(dirs, filepath.SplitList(os.Getenv("PATH"))...)

	return dedupe(dirs)
}

func dedupe(dirs []string) []string {
	seen := make(map[string]struct{}, len(dirs))
	result := dirs[:0]
	for _, d := range dirs {
		if d == "" {
			continue
		}
		key := filepath.Clean(d)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, d)
	}
	return result
}
