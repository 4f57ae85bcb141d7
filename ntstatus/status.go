// Package ntstatus translates kernel status codes and Win32 error codes
// into diagnostics of the form "[ERROR] Code 0x<8 hex digits>[: message]".
package ntstatus

import (
	"fmt"
	"strings"
)

// Status is a raw NTSTATUS value. Zero is success; any other value is a failure.
type Status int32

const (
	StatusSuccess              Status = 0x00000000
	StatusPartialCopy          Status = -0x7FFFFFF3 // 0x8000000D
	StatusAccessViolation      Status = -0x3FFFFFFB // 0xC0000005
	StatusInvalidHandle        Status = -0x3FFFFFF8 // 0xC0000008
	StatusInvalidParameter     Status = -0x3FFFFFF3 // 0xC000000D
	StatusNoMemory             Status = -0x3FFFFFE9 // 0xC0000017
	StatusConflictingAddresses Status = -0x3FFFFFE8 // 0xC0000018
	StatusAccessDenied         Status = -0x3FFFFFDE // 0xC0000022
)

// FromUintptr converts the first return value of a ntdll proc call.
func FromUintptr(r1 uintptr) Status {
	return Status(int32(uint32(r1)))
}

func (s Status) Success() bool {
	return s == StatusSuccess
}

// Code returns the status as the unsigned value the kernel documents.
func (s Status) Code() uint32 {
	return uint32(s)
}

// Error formats on demand; a Status that is never printed never touches the message tables.
func (s Status) Error() string {
	return Format(s.Code(), true)
}

// Format renders code as a diagnostic. isNtStatus selects the ntdll message
// table ahead of the system table; Win32 error codes use the system table only.
func Format(code uint32, isNtStatus bool) string {
	message := strings.TrimSpace(lookupMessage(code, isNtStatus))
	if message == "" {
		return fmt.Sprintf("[ERROR] Code 0x%08X", code)
	}
	return fmt.Sprintf("[ERROR] Code 0x%08X: %s", code, message)
}
