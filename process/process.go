// Package process holds the types shared by the remote memory backends and
// the control-block code: addresses, sizes, protections, execution modes
// and the interfaces a target process exposes.
package process

import "errors"

var (
	// ErrAddressNotMapped is returned when a memory address is not found within any mapped region of a process.
	ErrAddressNotMapped = errors.New("address not mapped")

	// ErrProcessNotOpen is returned when an operation requiring an open process is attempted
	// before the process has been successfully opened or after it has been closed.
	ErrProcessNotOpen = errors.New("process not open")

	ErrInvalidPointer = errors.New("invalid pointer read")

	// ErrNullAddress is returned when an operation is handed the null address.
	ErrNullAddress = errors.New("null address")

	// ErrPartialTransfer is returned when the kernel reports fewer bytes moved than requested.
	ErrPartialTransfer = errors.New("partial transfer")
)

// ProcessID represents a unique identifier for a process
type ProcessID int
