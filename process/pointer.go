package process

import (
	"encoding/binary"
	"fmt"
)

// ReadPointer reads a pointer of the given width (4 or 8) at addr.
func ReadPointer(mem RemoteMemory, addr ProcessMemoryAddress, width ProcessMemorySize) (ProcessMemoryAddress, error) {
	data, err := mem.ReadMemory(addr, width)
	if err != nil {
		return 0, err
	}
	return DecodePointer(data, width)
}

// DecodePointer interprets a little-endian pointer of the given width.
func DecodePointer(data []byte, width ProcessMemorySize) (ProcessMemoryAddress, error) {
	if ProcessMemorySize(len(data)) < width {
		return 0, fmt.Errorf("%w: have %d bytes, need %d", ErrInvalidPointer, len(data), width)
	}
	switch width {
	case 4:
		return ProcessMemoryAddress(binary.LittleEndian.Uint32(data)), nil
	case 8:
		return ProcessMemoryAddress(binary.LittleEndian.Uint64(data)), nil
	default:
		return 0, fmt.Errorf("%w: unsupported pointer width %d", ErrInvalidPointer, width)
	}
}

// EncodePointer stages addr as a little-endian pointer of the given width.
func EncodePointer(addr ProcessMemoryAddress, width ProcessMemorySize) ([]byte, error) {
	buf := make([]byte, width)
	switch width {
	case 4:
		if uint64(addr) > 0xFFFFFFFF {
			return nil, fmt.Errorf("%w: %s does not fit in 4 bytes", ErrInvalidPointer, addr.ToString())
		}
		binary.LittleEndian.PutUint32(buf, uint32(addr))
	case 8:
		binary.LittleEndian.PutUint64(buf, uint64(addr))
	default:
		return nil, fmt.Errorf("%w: unsupported pointer width %d", ErrInvalidPointer, width)
	}
	return buf, nil
}
