// Package peb locates and rewrites the image base and process parameters
// fields of a target's process environment block. Offsets and pointer
// width always follow the target's execution mode, detected on each call.
package peb

import (
	"errors"
	"fmt"

	"remotemem/process"
)

var (
	ErrUnknownMode    = errors.New("unknown execution mode")
	ErrAddressTooWide = errors.New("address does not fit the target's pointer width")
)

// Layout gives the byte offsets of the fields used here inside a PEB and
// inside the RTL_USER_PROCESS_PARAMETERS block it points to.
type Layout struct {
	PointerSize             process.ProcessMemorySize
	ImageBaseOffset         process.ProcessMemorySize
	ProcessParametersOffset process.ProcessMemorySize

	ImagePathNameOffset process.ProcessMemorySize
	CommandLineOffset   process.ProcessMemorySize

	// UNICODE_STRING.Buffer, after two USHORTs and alignment padding
	StringBufferOffset process.ProcessMemorySize
}

var (
	layout64 = Layout{
		PointerSize:             8,
		ImageBaseOffset:         0x10,
		ProcessParametersOffset: 0x20,
		ImagePathNameOffset:     0x60,
		CommandLineOffset:       0x70,
		StringBufferOffset:      0x08,
	}
	layout32 = Layout{
		PointerSize:             4,
		ImageBaseOffset:         0x08,
		ProcessParametersOffset: 0x10,
		ImagePathNameOffset:     0x38,
		CommandLineOffset:       0x40,
		StringBufferOffset:      0x04,
	}

	layouts = map[process.ExecutionMode]Layout{
		process.ModeNative64:   layout64,
		process.ModeEmulated32: layout32,
		process.ModeNative32:   layout32,
	}
)

func LayoutFor(mode process.ExecutionMode) (Layout, error) {
	l, ok := layouts[mode]
	if !ok {
		return Layout{}, fmt.Errorf("%w: %s", ErrUnknownMode, mode)
	}
	return l, nil
}

type field int

const (
	fieldImageBase field = iota
	fieldProcessParameters
)

func (f field) String() string {
	if f == fieldImageBase {
		return "ImageBaseAddress"
	}
	return "ProcessParameters"
}

func (l Layout) offset(f field) process.ProcessMemorySize {
	if f == fieldImageBase {
		return l.ImageBaseOffset
	}
	return l.ProcessParametersOffset
}
