package process

import (
	"fmt"
)

// ProcessMemoryAddress represents a memory address within a process.
// It is only meaningful together with the process it came from; 0 is the null address.
type ProcessMemoryAddress uint64

func (pma ProcessMemoryAddress) ToString() string {
	return fmt.Sprintf("0x%X", uint64(pma))
}

// IsNull reports whether the address is the null address
func (pma ProcessMemoryAddress) IsNull() bool {
	return pma == 0
}

// ProcessMemorySize represents a size of memory region
type ProcessMemorySize uint

func (pms ProcessMemorySize) ToString() string {
	return fmt.Sprintf("%d bytes", uint(pms))
}

// Protection is a page protection constant (PAGE_*)
type Protection uint32

const (
	PageNoAccess         Protection = 0x01
	PageReadOnly         Protection = 0x02
	PageReadWrite        Protection = 0x04
	PageWriteCopy        Protection = 0x08
	PageExecute          Protection = 0x10
	PageExecuteRead      Protection = 0x20
	PageExecuteReadWrite Protection = 0x40
	PageExecuteWriteCopy Protection = 0x80
)

func (p Protection) ToString() string {
	switch p {
	case PageNoAccess:
		return "---"
	case PageReadOnly:
		return "r--"
	case PageReadWrite, PageWriteCopy:
		return "rw-"
	case PageExecute:
		return "--x"
	case PageExecuteRead:
		return "r-x"
	case PageExecuteReadWrite, PageExecuteWriteCopy:
		return "rwx"
	default:
		return fmt.Sprintf("0x%X", uint32(p))
	}
}

func (p Protection) IsReadable() bool {
	return p&(PageReadOnly|PageReadWrite|PageWriteCopy|PageExecuteRead|PageExecuteReadWrite|PageExecuteWriteCopy) != 0
}

func (p Protection) IsWritable() bool {
	return p&(PageReadWrite|PageWriteCopy|PageExecuteReadWrite|PageExecuteWriteCopy) != 0
}

// ZeroFill clears buf so a reused scratch buffer carries nothing from its previous use.
func ZeroFill(buf []byte) {
	clear(buf)
}

// ZeroRemote overwrites size bytes at addr in the target with zeros.
func ZeroRemote(mem RemoteMemory, addr ProcessMemoryAddress, size ProcessMemorySize) error {
	if size == 0 {
		return nil
	}
	return mem.WriteMemory(addr, make([]byte, size))
}
