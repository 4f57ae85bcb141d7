package process

// RemoteMemory is the set of primitive memory operations against another process.
// Every method is a single kernel call with no retries.
type RemoteMemory interface {
	// Allocate commits and reserves read-write memory at or near preferred (0 lets the kernel choose).
	// On failure the returned address is 0 and nothing is committed.
	Allocate(preferred ProcessMemoryAddress, size ProcessMemorySize) (ProcessMemoryAddress, error)

	// ReadMemory reads size bytes at addr into a fresh zeroed buffer. On failure the buffer is dropped and nil is returned.
	ReadMemory(addr ProcessMemoryAddress, size ProcessMemorySize) ([]byte, error)

	// WriteMemory writes all of data at addr or reports failure
	WriteMemory(addr ProcessMemoryAddress, data []byte) error

	// Protect changes the protection of a region and returns the protection it replaced
	Protect(addr ProcessMemoryAddress, size ProcessMemorySize, prot Protection) (Protection, error)
}

// ControlBlockSource exposes where a target's process environment blocks live
// and whether it runs under the 32-bit emulation layer.
type ControlBlockSource interface {
	// PebAddress returns the native PEB address from the basic process information
	PebAddress() (ProcessMemoryAddress, error)

	// Wow64PebAddress returns the 32-bit PEB of an emulated target, 0 for a native one
	Wow64PebAddress() (ProcessMemoryAddress, error)

	// IsWow64 reports whether the target runs under WOW64
	IsWow64() (bool, error)

	// HostIs64Bit reports whether the operating system is 64-bit
	HostIs64Bit() bool
}

// Target is a process whose memory and control blocks can be inspected and changed.
type Target interface {
	RemoteMemory
	ControlBlockSource
}
