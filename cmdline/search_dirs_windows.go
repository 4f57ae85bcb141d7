//go:build windows

package cmdline

import "golang.org/x/sys/windows"

func systemDirs() []string {
	var dirs []string
	if dir, err := windows.GetSystemDirectory(); err == nil {
		dirs = append(dirs, dir)
	}
	if dir, err := windows.GetWindowsDirectory(); err == nil {
		dirs = append(dirs, dir)
	}
	return dirs
}
