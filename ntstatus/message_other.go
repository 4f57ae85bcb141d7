//go:build !windows

package ntstatus

// Only Windows carries the ntdll and system message tables.
func lookupMessage(code uint32, isNtStatus bool) string {
	return ""
}
