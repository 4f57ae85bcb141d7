//go:build !windows

package cmdline

func systemDirs() []string {
	return nil
}
