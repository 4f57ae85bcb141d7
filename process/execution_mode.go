package process

import "fmt"

// ExecutionMode describes how a target runs relative to the host OS.
type ExecutionMode int

const (
	ModeUnknown ExecutionMode = iota
	ModeNative64
	ModeEmulated32
	ModeNative32
)

func (m ExecutionMode) String() string {
	switch m {
	case ModeNative64:
		return "native-64"
	case ModeEmulated32:
		return "wow64"
	case ModeNative32:
		return "native-32"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// PointerSize is the width of a pointer inside a target running in this mode, 0 if unknown.
func (m ExecutionMode) PointerSize() ProcessMemorySize {
	switch m {
	case ModeNative64:
		return 8
	case ModeEmulated32, ModeNative32:
		return 4
	default:
		return 0
	}
}

// ModeFor derives the execution mode from the host bitness and the target's WOW64 flag.
// A 32-bit host has no emulation layer, so the flag is ignored there.
func ModeFor(host64 bool, wow64 bool) ExecutionMode {
	if !host64 {
		return ModeNative32
	}
	if wow64 {
		return ModeEmulated32
	}
	return ModeNative64
}
