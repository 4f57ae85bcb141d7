package peb

import (
	"fmt"

	"remotemem/process"
)

// ControlBlockAddress returns the target's native PEB address
func ControlBlockAddress(t process.ControlBlockSource) (process.ProcessMemoryAddress, error) {
	addr, err := t.PebAddress()
	if err != nil {
		return 0, fmt.Errorf("locate PEB: %w", err)
	}
	return addr, nil
}

// ControlBlockAddressEmulated returns the 32-bit PEB of a WOW64 target; it is 0 for a native target
func ControlBlockAddressEmulated(t process.ControlBlockSource) (process.ProcessMemoryAddress, error) {
	addr, err := t.Wow64PebAddress()
	if err != nil {
		return 0, fmt.Errorf("locate WOW64 PEB: %w", err)
	}
	return addr, nil
}

// DetectExecutionMode asks the target how it runs. Nothing is cached: the same
// code may be pointed at targets of different modes within one run.
func DetectExecutionMode(t process.ControlBlockSource) (process.ExecutionMode, error) {
	host64 := t.HostIs64Bit()
	if !host64 {
		return process.ModeNative32, nil
	}

	wow64, err := t.IsWow64()
	if err != nil {
		return process.ModeUnknown, fmt.Errorf("detect execution mode: %w", err)
	}
	return process.ModeFor(host64, wow64), nil
}

// ImageBaseAddress reads the loaded image base from the PEB at controlBlock
func ImageBaseAddress(t process.Target, controlBlock process.ProcessMemoryAddress) (process.ProcessMemoryAddress, error) {
	return readField(t, controlBlock, fieldImageBase)
}

// ProcessParametersAddress reads the RTL_USER_PROCESS_PARAMETERS pointer from the PEB at controlBlock
func ProcessParametersAddress(t process.Target, controlBlock process.ProcessMemoryAddress) (process.ProcessMemoryAddress, error) {
	return readField(t, controlBlock, fieldProcessParameters)
}

func readField(t process.Target, controlBlock process.ProcessMemoryAddress, f field) (process.ProcessMemoryAddress, error) {
	if controlBlock.IsNull() {
		return 0, fmt.Errorf("read %s: %w", f, process.ErrNullAddress)
	}

	mode, err := DetectExecutionMode(t)
	if err != nil {
		return 0, err
	}
	l, err := LayoutFor(mode)
	if err != nil {
		return 0, err
	}

	addr, err := process.ReadPointer(t, controlBlock+process.ProcessMemoryAddress(l.offset(f)), l.PointerSize)
	if err != nil {
		return 0, fmt.Errorf("read %s (%s): %w", f, mode, err)
	}
	return addr, nil
}
