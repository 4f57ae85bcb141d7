// Package cmdline turns a raw command line into the absolute path of the
// executable a loader would start for it.
package cmdline

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

const defaultExtension = ".exe"

// Characters the loader rejects in a path
const invalidPathChars = "\x00<>|"

var (
	ErrNotResolved = errors.New("command line does not name an existing executable")
	ErrInvalidPath = errors.New("invalid path")
)

// Resolver resolves command lines against a filesystem and an ordered list of search directories
type Resolver struct {
	Fs         afero.Fs
	SearchDirs []string
}

// NewResolver resolves against the OS filesystem using the loader's search order
func NewResolver() *Resolver {
	return &Resolver{
		Fs:         afero.NewOsFs(),
		SearchDirs: DefaultSearchDirs(),
	}
}

// ResolveExecutablePath returns the absolute path of the executable named by commandLine.
//
// An unquoted path may contain spaces, so leading whitespace-separated tokens are
// joined one at a time and the first join naming an existing .exe wins. Failing
// that, the first token alone is tried, then looked up in the search directories
// with .exe appended when it carries no extension of its own.
func (r *Resolver) ResolveExecutablePath(commandLine string) (string, error) {
	tokens := strings.Fields(commandLine)
	if len(tokens) == 0 {
		return "", fmt.Errorf("%w: empty command line", ErrNotResolved)
	}

	var candidate strings.Builder
	for i, token := range tokens {
		if i > 0 {
			candidate.WriteByte(' ')
		}
		candidate.WriteString(token)

		full, err := fullPath(strings.Trim(candidate.String(), `"`))
		if err != nil {
			return "", err
		}
		if r.isExecutable(full) {
			return full, nil
		}
	}

	fileName := strings.Trim(tokens[0], `"`)
	extension := defaultExtension
	if hasExtension(fileName) {
		extension = ""
	}

	full, err := fullPath(fileName)
	if err != nil {
		return "", err
	}
	if r.isExecutable(full) {
		return full, nil
	}

	if found, ok := r.searchPath(fileName, extension); ok {
		return found, nil
	}
	return "", fmt.Errorf("%w: %q", ErrNotResolved, fileName)
}

// searchPath looks for fileName+extension the way SearchPath does: an absolute
// name is checked as is, anything else is tried under each search directory in order.
func (r *Resolver) searchPath(fileName, extension string) (string, bool) {
	name := fileName + extension

	if filepath.IsAbs(name) {
		return name, r.isFile(name)
	}

	for _, dir := range r.SearchDirs {
		if dir == "" {
			continue
		}
		p := filepath.Join(dir, name)
		if r.isFile(p) {
			if abs, err := filepath.Abs(p); err == nil {
				return abs, true
			}
			return p, true
		}
	}
	return "", false
}

func (r *Resolver) isExecutable(path string) bool {
	return hasExecutableExtension(path) && r.isFile(path)
}

func (r *Resolver) isFile(path string) bool {
	info, err := r.Fs.Stat(path)
	return err == nil && !info.IsDir()
}

func fullPath(p string) (string, error) {
	if p == "" || strings.ContainsAny(p, invalidPathChars) {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, p)
	}
	full, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrInvalidPath, p, err)
	}
	return full, nil
}

// hasExtension reports whether the last path element has a non-empty name before its extension
func hasExtension(p string) bool {
	base := filepath.Base(p)
	ext := filepath.Ext(base)
	return ext != "" && ext != "." && len(base) > len(ext)
}

func hasExecutableExtension(p string) bool {
	base := filepath.Base(p)
	return len(base) > len(defaultExtension) && strings.EqualFold(filepath.Ext(base), defaultExtension)
}
