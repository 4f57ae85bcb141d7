package peb

import (
	"encoding/binary"
	"fmt"

	"remotemem/process"

	"golang.org/x/text/encoding/unicode"
)

// Snapshot is a read-only view of a target's control blocks
type Snapshot struct {
	Mode              process.ExecutionMode
	Peb               process.ProcessMemoryAddress
	Wow64Peb          process.ProcessMemoryAddress
	ImageBase         process.ProcessMemoryAddress
	ProcessParameters process.ProcessMemoryAddress
	ImagePathName     string
	CommandLine       string
}

// ControlBlock is the PEB whose layout matches Mode
func (s Snapshot) ControlBlock() process.ProcessMemoryAddress {
	if s.Mode == process.ModeEmulated32 {
		return s.Wow64Peb
	}
	return s.Peb
}

// Inspect reads the PEB fields of t. For a WOW64 target the fields come from
// the 32-bit PEB, which is the one the emulated image runs against.
func Inspect(t process.Target) (Snapshot, error) {
	var s Snapshot
	var err error

	if s.Mode, err = DetectExecutionMode(t); err != nil {
		return s, err
	}
	if s.Peb, err = ControlBlockAddress(t); err != nil {
		return s, err
	}
	if s.Mode == process.ModeEmulated32 {
		if s.Wow64Peb, err = ControlBlockAddressEmulated(t); err != nil {
			return s, err
		}
	}

	controlBlock := s.ControlBlock()
	if s.ImageBase, err = ImageBaseAddress(t, controlBlock); err != nil {
		return s, err
	}
	if s.ProcessParameters, err = ProcessParametersAddress(t, controlBlock); err != nil {
		return s, err
	}
	if s.ProcessParameters.IsNull() {
		return s, nil
	}

	l, err := LayoutFor(s.Mode)
	if err != nil {
		return s, err
	}
	if s.ImagePathName, err = readUnicodeString(t, s.ProcessParameters+process.ProcessMemoryAddress(l.ImagePathNameOffset), l); err != nil {
		return s, fmt.Errorf("read ImagePathName: %w", err)
	}
	if s.CommandLine, err = readUnicodeString(t, s.ProcessParameters+process.ProcessMemoryAddress(l.CommandLineOffset), l); err != nil {
		return s, fmt.Errorf("read CommandLine: %w", err)
	}
	return s, nil
}

// readUnicodeString reads a UNICODE_STRING at addr and the UTF-16 text it points to
func readUnicodeString(mem process.RemoteMemory, addr process.ProcessMemoryAddress, l Layout) (string, error) {
	header, err := mem.ReadMemory(addr, l.StringBufferOffset+l.PointerSize)
	if err != nil {
		return "", err
	}

	length := process.ProcessMemorySize(binary.LittleEndian.Uint16(header[0:2]))
	buffer, err := process.DecodePointer(header[l.StringBufferOffset:], l.PointerSize)
	if err != nil {
		return "", err
	}
	if length == 0 || buffer.IsNull() {
		return "", nil
	}

	raw, err := mem.ReadMemory(buffer, length)
	if err != nil {
		return "", err
	}

	text, err := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder().Bytes(raw)
	if err != nil {
		return "", err
	}
	return string(text), nil
}
