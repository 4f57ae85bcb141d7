package ntstatus

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"testing"
)

var formatPattern = regexp.MustCompile(`^\[ERROR\] Code 0x[0-9A-F]{8}(: .+)?$`)

func TestStatusCodes(t *testing.T) {
	cases := []struct {
		status Status
		code   uint32
	}{
		{StatusSuccess, 0x00000000},
		{StatusPartialCopy, 0x8000000D},
		{StatusAccessViolation, 0xC0000005},
		{StatusInvalidHandle, 0xC0000008},
		{StatusInvalidParameter, 0xC000000D},
		{StatusNoMemory, 0xC0000017},
		{StatusConflictingAddresses, 0xC0000018},
		{StatusAccessDenied, 0xC0000022},
	}

	for _, c := range cases {
		if got := c.status.Code(); got != c.code {
			t.Errorf("Code() = 0x%08X, want 0x%08X", got, c.code)
		}
	}
}

func TestFromUintptr(t *testing.T) {
	if s := FromUintptr(0); !s.Success() {
		t.Fatalf("FromUintptr(0) = %v, want success", s)
	}
	if s := FromUintptr(uintptr(0xC0000005)); s != StatusAccessViolation {
		t.Fatalf("FromUintptr(0xC0000005) = 0x%08X, want access violation", s.Code())
	}
	if StatusAccessViolation.Success() {
		t.Fatal("access violation reported as success")
	}
}

func TestFormat(t *testing.T) {
	for _, isNt := range []bool{true, false} {
		got := Format(0xC0000005, isNt)
		if !formatPattern.MatchString(got) {
			t.Fatalf("Format(0xC0000005, %v) = %q, does not match %s", isNt, got, formatPattern)
		}
		if !strings.HasPrefix(got, "[ERROR] Code 0xC0000005") {
			t.Fatalf("Format(0xC0000005, %v) = %q, wrong code prefix", isNt, got)
		}
	}

	if got := Format(0x5, false); !strings.HasPrefix(got, "[ERROR] Code 0x00000005") {
		t.Fatalf("Format(5) = %q, code not padded to 8 digits", got)
	}
}

func TestStatusAsError(t *testing.T) {
	err := fmt.Errorf("NtReadVirtualMemory at 0x1000: %w", StatusPartialCopy)

	var status Status
	if !errors.As(err, &status) {
		t.Fatal("errors.As did not find the wrapped Status")
	}
	if status != StatusPartialCopy {
		t.Fatalf("unwrapped 0x%08X, want 0x8000000D", status.Code())
	}
	if !formatPattern.MatchString(status.Error()) {
		t.Fatalf("Error() = %q, does not match %s", status.Error(), formatPattern)
	}
}
