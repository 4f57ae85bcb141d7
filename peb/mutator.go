package peb

import (
	"fmt"

	"remotemem/process"
)

// SetImageBaseAddress points the PEB at controlBlock to a new image base
func SetImageBaseAddress(t process.Target, controlBlock, newAddress process.ProcessMemoryAddress) error {
	return writeField(t, controlBlock, fieldImageBase, newAddress)
}

// SetProcessParametersAddress points the PEB at controlBlock to a new parameters block
func SetProcessParametersAddress(t process.Target, controlBlock, newAddress process.ProcessMemoryAddress) error {
	return writeField(t, controlBlock, fieldProcessParameters, newAddress)
}

// writeField uses the target's width and offsets, the same ones readField uses,
// so a value written here reads back unchanged for WOW64 targets too.
func writeField(t process.Target, controlBlock process.ProcessMemoryAddress, f field, newAddress process.ProcessMemoryAddress) error {
	if controlBlock.IsNull() {
		return fmt.Errorf("write %s: %w", f, process.ErrNullAddress)
	}

	mode, err := DetectExecutionMode(t)
	if err != nil {
		return err
	}
	l, err := LayoutFor(mode)
	if err != nil {
		return err
	}

	buf, err := process.EncodePointer(newAddress, l.PointerSize)
	if err != nil {
		return fmt.Errorf("write %s (%s): %w: %s", f, mode, ErrAddressTooWide, newAddress.ToString())
	}
	defer process.ZeroFill(buf)

	if err := t.WriteMemory(controlBlock+process.ProcessMemoryAddress(l.offset(f)), buf); err != nil {
		return fmt.Errorf("write %s (%s): %w", f, mode, err)
	}
	return nil
}
