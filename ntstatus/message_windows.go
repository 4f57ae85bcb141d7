//go:build windows

package ntstatus

import (
	"golang.org/x/sys/windows"
)

var modntdll = windows.NewLazySystemDLL("ntdll.dll")

func lookupMessage(code uint32, isNtStatus bool) string {
	var module uintptr
	flags := uint32(windows.FORMAT_MESSAGE_FROM_SYSTEM | windows.FORMAT_MESSAGE_IGNORE_INSERTS)

	if isNtStatus {
		if err := modntdll.Load(); err == nil {
			module = modntdll.Handle()
			flags |= windows.FORMAT_MESSAGE_FROM_HMODULE
		}
	}

	buf := make([]uint16, 512)
	n, err := windows.FormatMessage(flags, module, code, 0, buf, nil)
	if err != nil || n == 0 {
		return ""
	}
	return windows.UTF16ToString(buf[:n])
}
