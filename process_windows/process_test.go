//go:build windows

package process_windows

import (
	"bytes"
	"errors"
	"testing"
	"unsafe"

	"remotemem/ntstatus"
	"remotemem/peb"
	"remotemem/process"

	"golang.org/x/sys/windows"
)

func TestCurrentProcessMemory(t *testing.T) {
	p := New(windows.CurrentProcess())
	defer p.Close()

	addr, err := p.Allocate(0, 0x1000)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if addr.IsNull() {
		t.Fatal("Allocate returned the null address")
	}

	data, err := p.ReadMemory(addr, 0x40)
	if err != nil {
		t.Fatalf("ReadMemory: %v", err)
	}
	if !bytes.Equal(data, make([]byte, 0x40)) {
		t.Fatalf("fresh allocation is not zeroed: %x", data)
	}

	payload := []byte("remote memory round trip")
	if err := p.WriteMemory(addr+0x10, payload); err != nil {
		t.Fatalf("WriteMemory: %v", err)
	}
	data, err = p.ReadMemory(addr+0x10, process.ProcessMemorySize(len(payload)))
	if err != nil || !bytes.Equal(data, payload) {
		t.Fatalf("read back %q, %v", data, err)
	}

	old, err := p.Protect(addr, 0x1000, process.PageReadOnly)
	if err != nil {
		t.Fatalf("Protect: %v", err)
	}
	if old != process.PageReadWrite {
		t.Fatalf("previous protection = %s, want rw-", old.ToString())
	}
	if _, err := p.Protect(addr, 0x1000, old); err != nil {
		t.Fatalf("restoring protection: %v", err)
	}
}

func TestCurrentProcessReadFailure(t *testing.T) {
	p := New(windows.CurrentProcess())

	data, err := p.ReadMemory(0x10, 8)
	if data != nil {
		t.Fatalf("failed read returned %x", data)
	}
	var status ntstatus.Status
	if !errors.As(err, &status) || status.Success() {
		t.Fatalf("ReadMemory(0x10) error = %v, want a kernel status", err)
	}
}

func TestClosedProcess(t *testing.T) {
	p := New(windows.CurrentProcess())
	if err := p.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := p.ReadMemory(0x1000, 1); !errors.Is(err, process.ErrProcessNotOpen) {
		t.Fatalf("ReadMemory after Close error = %v", err)
	}
	if _, err := p.Allocate(0, 0x1000); !errors.Is(err, process.ErrProcessNotOpen) {
		t.Fatalf("Allocate after Close error = %v", err)
	}
}

func TestCurrentProcessControlBlock(t *testing.T) {
	p := New(windows.CurrentProcess())

	info, err := p.BasicInformation()
	if err != nil {
		t.Fatalf("BasicInformation: %v", err)
	}
	if info.PebAddress.IsNull() || info.PID != process.ProcessID(windows.GetCurrentProcessId()) {
		t.Fatalf("BasicInformation = %+v", info)
	}

	wow64, err := p.IsWow64()
	if err != nil {
		t.Fatalf("IsWow64: %v", err)
	}
	if unsafe.Sizeof(uintptr(0)) == 8 && wow64 {
		t.Fatal("64-bit test binary reported as WOW64")
	}

	image, err := peb.ImageBaseAddress(p, info.PebAddress)
	if err != nil {
		t.Fatalf("ImageBaseAddress: %v", err)
	}

	var self windows.Handle
	if err := windows.GetModuleHandleEx(0, nil, &self); err != nil {
		t.Fatalf("GetModuleHandleEx: %v", err)
	}
	if image != process.ProcessMemoryAddress(self) {
		t.Fatalf("ImageBaseAddress = %s, module handle = 0x%X", image.ToString(), uintptr(self))
	}
}
