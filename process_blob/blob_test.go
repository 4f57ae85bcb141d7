package process_blob

import (
	"bytes"
	"errors"
	"testing"

	"remotemem/ntstatus"
	"remotemem/process"
)

func TestWriteReadRoundTrip(t *testing.T) {
	p := New()

	addr, err := p.Allocate(0, 0x2000)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}

	payload := []byte("MZ\x90\x00\x03\x00\x00\x00")
	if err := p.WriteMemory(addr+0x1FF8, payload); err != nil {
		t.Fatalf("WriteMemory: %v", err)
	}

	got, err := p.ReadMemory(addr+0x1FF8, process.ProcessMemorySize(len(payload)))
	if err != nil {
		t.Fatalf("ReadMemory: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("read back %x, want %x", got, payload)
	}
}

func TestReadReturnsZeroedBufferOfExactSize(t *testing.T) {
	p, err := NewProcessBlob(0x20000, []byte{0xAA})
	if err != nil {
		t.Fatalf("NewProcessBlob: %v", err)
	}

	for _, size := range []process.ProcessMemorySize{1, 7, 0x100, PageSize} {
		got, err := p.ReadMemory(0x20000, size)
		if err != nil {
			t.Fatalf("ReadMemory(%d): %v", size, err)
		}
		if process.ProcessMemorySize(len(got)) != size {
			t.Fatalf("ReadMemory(%d) returned %d bytes", size, len(got))
		}
		for i := 1; i < len(got); i++ {
			if got[i] != 0 {
				t.Fatalf("ReadMemory(%d) byte %d = %x", size, i, got[i])
			}
		}
	}

	got, err := p.ReadMemory(0x20000, 0)
	if err != nil || len(got) != 0 {
		t.Fatalf("ReadMemory(0) = %x, %v", got, err)
	}
}

func TestReadFailureReturnsNil(t *testing.T) {
	p, _ := NewProcessBlob(0x20000, make([]byte, PageSize))

	got, err := p.ReadMemory(0x40000, 8)
	if got != nil {
		t.Fatalf("failed read returned a buffer: %x", got)
	}
	if !errors.Is(err, ntstatus.StatusAccessViolation) {
		t.Fatalf("unmapped read error = %v, want access violation", err)
	}

	got, err = p.ReadMemory(0x20000+PageSize-4, 8)
	if got != nil {
		t.Fatalf("read past region end returned a buffer: %x", got)
	}
	if !errors.Is(err, ntstatus.StatusPartialCopy) {
		t.Fatalf("straddling read error = %v, want partial copy", err)
	}
}

func TestFailedAllocateCommitsNothing(t *testing.T) {
	p, _ := NewProcessBlob(0x400000, make([]byte, PageSize))
	before := len(p.MemoryMap())

	addr, err := p.Allocate(0x400000, 0x3000)
	if addr != 0 {
		t.Fatalf("colliding Allocate returned %s", addr.ToString())
	}
	if !errors.Is(err, ntstatus.StatusConflictingAddresses) {
		t.Fatalf("colliding Allocate error = %v", err)
	}
	if len(p.MemoryMap()) != before {
		t.Fatal("failed Allocate added a region")
	}
	if got, err := p.ReadMemory(0x401000, 8); err == nil {
		t.Fatalf("memory past the original region became readable: %x", got)
	}

	if addr, err := p.Allocate(0x500000, 0); addr != 0 || !errors.Is(err, ntstatus.StatusInvalidParameter) {
		t.Fatalf("Allocate(size 0) = %s, %v", addr.ToString(), err)
	}
	if _, err := p.ReadMemory(0x500000, 1); err == nil {
		t.Fatal("zero-size Allocate mapped memory")
	}
}

func TestAllocatePreferredAddress(t *testing.T) {
	p := New()

	addr, err := p.Allocate(0x140001234, 0x1800)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if addr != 0x140000000 {
		t.Fatalf("Allocate rounded to %s, want 0x140000000", addr.ToString())
	}

	data, err := p.ReadMemory(addr, 0x2000)
	if err != nil || len(data) != 0x2000 {
		t.Fatalf("allocation is not two pages: %d bytes, %v", len(data), err)
	}

	second, err := p.Allocate(0, 0x1000)
	if err != nil || second == addr {
		t.Fatalf("second Allocate = %s, %v", second.ToString(), err)
	}
}

func TestProtectReturnsPreviousProtection(t *testing.T) {
	p := New()
	addr, _ := p.Allocate(0, 0x3000)

	old, err := p.Protect(addr+0x1000, 0x1000, process.PageExecuteRead)
	if err != nil {
		t.Fatalf("Protect: %v", err)
	}
	if old != process.PageReadWrite {
		t.Fatalf("previous protection = %s, want rw-", old.ToString())
	}

	if err := p.WriteMemory(addr+0x1000, []byte{0xC3}); !errors.Is(err, ntstatus.StatusPartialCopy) {
		t.Fatalf("write to r-x page error = %v", err)
	}
	if err := p.WriteMemory(addr, []byte{0xC3}); err != nil {
		t.Fatalf("write to untouched page: %v", err)
	}

	old, err = p.Protect(addr+0x1000, 1, old)
	if err != nil || old != process.PageExecuteRead {
		t.Fatalf("restoring protection = %s, %v", old.ToString(), err)
	}
	if err := p.WriteMemory(addr+0x1000, []byte{0xC3}); err != nil {
		t.Fatalf("write after restoring protection: %v", err)
	}

	if _, err := p.Protect(0x7000000, 0x1000, process.PageReadOnly); !errors.Is(err, ntstatus.StatusAccessViolation) {
		t.Fatalf("Protect on unmapped memory error = %v", err)
	}
}

func TestZeroRemote(t *testing.T) {
	p, _ := NewProcessBlob(0x20000, bytes.Repeat([]byte{0xCC}, 32))

	if err := process.ZeroRemote(p, 0x20008, 16); err != nil {
		t.Fatalf("ZeroRemote: %v", err)
	}

	got, _ := p.ReadMemory(0x20000, 32)
	want := append(append(bytes.Repeat([]byte{0xCC}, 8), make([]byte, 16)...), bytes.Repeat([]byte{0xCC}, 8)...)
	if !bytes.Equal(got, want) {
		t.Fatalf("after ZeroRemote: %x", got)
	}
}

func TestMapRegionValidation(t *testing.T) {
	p := New()
	if err := p.MapRegion(0x20010, []byte{1}, process.PageReadWrite); err == nil {
		t.Fatal("unaligned MapRegion succeeded")
	}
	if err := p.MapRegion(0x20000, nil, process.PageReadWrite); err == nil {
		t.Fatal("empty MapRegion succeeded")
	}
	if err := p.MapRegion(0x20000, []byte{1}, process.PageReadWrite); err != nil {
		t.Fatalf("MapRegion: %v", err)
	}
	if err := p.MapRegion(0x20000, []byte{1}, process.PageReadWrite); !errors.Is(err, ntstatus.StatusConflictingAddresses) {
		t.Fatalf("overlapping MapRegion error = %v", err)
	}
}
