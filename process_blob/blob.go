// Package process_blob provides an in-memory process address space that
// implements process.Target. It backs offline analysis of captured control
// blocks and lets the control-block code run without a live Windows target.
package process_blob

import (
	"fmt"
	"sync"

	"remotemem/ntstatus"
	"remotemem/process"
	"remotemem/process/memory_map"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"
)

const (
	PageSize              = 0x1000
	AllocationGranularity = 0x10000

	defaultAllocationBase = 0x10000000
)

type allocation struct {
	data  []byte
	pages []process.Protection
}

// ProcessBlob is a simulated target process
type ProcessBlob struct {
	mu     sync.Mutex
	mm     []memory_map.MemoryMapItem
	allocs map[uint64]*allocation
	next   uint64
	log    *logger.Logger

	peb      process.ProcessMemoryAddress
	wow64Peb process.ProcessMemoryAddress
	wow64    bool
	host64   bool
	modeErr  error
}

var _ process.Target = (*ProcessBlob)(nil)

// New creates an empty address space on a 64-bit host
func New() *ProcessBlob {
	return &ProcessBlob{
		allocs: make(map[uint64]*allocation),
		next:   defaultAllocationBase,
		host64: true,
		log:    logger.NewLogger(coloransi.Color(coloransi.ColorPurple, coloransi.ColorOrange, "blob")),
	}
}

// NewProcessBlob creates an address space holding data at baseAddress as read-write memory
func NewProcessBlob(baseAddress process.ProcessMemoryAddress, data []byte) (*ProcessBlob, error) {
	p := New()
	if err := p.MapRegion(baseAddress, data, process.PageReadWrite); err != nil {
		return nil, err
	}
	return p, nil
}

// MapRegion places a copy of data at addr, which must be page aligned and free
func (p *ProcessBlob) MapRegion(addr process.ProcessMemoryAddress, data []byte, prot process.Protection) error {
	if uint64(addr)%PageSize != 0 {
		return fmt.Errorf("map region at %s: not page aligned", addr.ToString())
	}
	if len(data) == 0 {
		return fmt.Errorf("map region at %s: empty", addr.ToString())
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	size := roundUp(uint64(len(data)), PageSize)
	if memory_map.AnyOverlap(uint64(addr), uint(size), p.mm) {
		return fmt.Errorf("map region at %s: %w", addr.ToString(), ntstatus.StatusConflictingAddresses)
	}

	a := p.insert(uint64(addr), size, prot)
	copy(a.data, data)
	return nil
}

// SetControlBlocks sets the addresses reported for the native and WOW64 PEBs
func (p *ProcessBlob) SetControlBlocks(peb, wow64Peb process.ProcessMemoryAddress) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.peb = peb
	p.wow64Peb = wow64Peb
}

// SetMode sets the host bitness and whether the target runs under WOW64
func (p *ProcessBlob) SetMode(host64, wow64 bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.host64 = host64
	p.wow64 = wow64
}

// FailModeDetection makes IsWow64 return err until it is called again with nil
func (p *ProcessBlob) FailModeDetection(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.modeErr = err
}

// MemoryMap returns a copy of the mapped regions in address order
func (p *ProcessBlob) MemoryMap() []memory_map.MemoryMapItem {
	p.mu.Lock()
	defer p.mu.Unlock()
	result := make([]memory_map.MemoryMapItem, len(p.mm))
	copy(result, p.mm)
	return result
}

func (p *ProcessBlob) Allocate(preferred process.ProcessMemoryAddress, size process.ProcessMemorySize) (process.ProcessMemoryAddress, error) {
	if size == 0 {
		return 0, fmt.Errorf("allocate: %w", ntstatus.StatusInvalidParameter)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	length := roundUp(uint64(size), PageSize)

	var base uint64
	if preferred != 0 {
		base = uint64(preferred) &^ (AllocationGranularity - 1)
		if memory_map.AnyOverlap(base, uint(length), p.mm) {
			p.log.Debugln("allocate at", preferred.ToString(), "collides with a mapped region")
			return 0, fmt.Errorf("allocate at %s: %w", preferred.ToString(), ntstatus.StatusConflictingAddresses)
		}
	} else {
		base = p.next
		for memory_map.AnyOverlap(base, uint(length), p.mm) {
			base += roundUp(length, AllocationGranularity)
		}
		p.next = base + roundUp(length, AllocationGranularity)
	}

	p.insert(base, length, process.PageReadWrite)
	return process.ProcessMemoryAddress(base), nil
}

func (p *ProcessBlob) ReadMemory(addr process.ProcessMemoryAddress, size process.ProcessMemorySize) ([]byte, error) {
	if size == 0 {
		return []byte{}, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	buf := make([]byte, size)
	a, offset, status := p.span(uint64(addr), uint64(size), process.Protection.IsReadable)
	if !status.Success() {
		p.log.Debugln("read", size.ToString(), "at", addr.ToString(), "failed:", status)
		return nil, fmt.Errorf("read %d bytes at %s: %w", size, addr.ToString(), status)
	}

	copy(buf, a.data[offset:offset+uint64(size)])
	return buf, nil
}

func (p *ProcessBlob) WriteMemory(addr process.ProcessMemoryAddress, data []byte) error {
	if len(data) == 0 {
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	a, offset, status := p.span(uint64(addr), uint64(len(data)), process.Protection.IsWritable)
	if !status.Success() {
		p.log.Debugln("write", len(data), "bytes at", addr.ToString(), "failed:", status)
		return fmt.Errorf("write %d bytes at %s: %w", len(data), addr.ToString(), status)
	}

	copy(a.data[offset:], data)
	return nil
}

func (p *ProcessBlob) Protect(addr process.ProcessMemoryAddress, size process.ProcessMemorySize, prot process.Protection) (process.Protection, error) {
	if size == 0 {
		return 0, fmt.Errorf("protect: %w", ntstatus.StatusInvalidParameter)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	a, offset, status := p.span(uint64(addr), uint64(size), nil)
	if !status.Success() {
		return 0, fmt.Errorf("protect %s at %s: %w", size.ToString(), addr.ToString(), status)
	}

	first := offset / PageSize
	last := (offset + uint64(size) - 1) / PageSize
	old := a.pages[first]
	for i := first; i <= last; i++ {
		a.pages[i] = prot
	}
	return old, nil
}

func (p *ProcessBlob) PebAddress() (process.ProcessMemoryAddress, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.peb == 0 {
		return 0, fmt.Errorf("basic information: %w", ntstatus.StatusInvalidHandle)
	}
	return p.peb, nil
}

func (p *ProcessBlob) Wow64PebAddress() (process.ProcessMemoryAddress, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.wow64 {
		return 0, nil
	}
	return p.wow64Peb, nil
}

func (p *ProcessBlob) IsWow64() (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.modeErr != nil {
		return false, p.modeErr
	}
	return p.wow64, nil
}

func (p *ProcessBlob) HostIs64Bit() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.host64
}

// span finds the allocation holding [addr, addr+size) and checks every page with allowed.
// Caller must hold p.mu.
func (p *ProcessBlob) span(addr, size uint64, allowed func(process.Protection) bool) (*allocation, uint64, ntstatus.Status) {
	i := memory_map.RegionIndex(addr, p.mm)
	if i < 0 {
		return nil, 0, ntstatus.StatusAccessViolation
	}

	item := p.mm[i]
	if !item.Contains(addr, uint(size)) {
		return nil, 0, ntstatus.StatusPartialCopy
	}

	a := p.allocs[item.Address]
	offset := addr - item.Address
	if allowed != nil {
		for page := offset / PageSize; page <= (offset+size-1)/PageSize; page++ {
			if !allowed(a.pages[page]) {
				return nil, 0, ntstatus.StatusPartialCopy
			}
		}
	}
	return a, offset, ntstatus.StatusSuccess
}

// insert records a new allocation. Caller must hold p.mu.
func (p *ProcessBlob) insert(base, length uint64, prot process.Protection) *allocation {
	a := &allocation{
		data:  make([]byte, length),
		pages: make([]process.Protection, length/PageSize),
	}
	for i := range a.pages {
		a.pages[i] = prot
	}

	p.allocs[base] = a
	p.mm = append(p.mm, memory_map.MemoryMapItem{Address: base, Size: uint(length), Protect: uint32(prot)})
	memory_map.Sort(p.mm)
	return a
}

func roundUp(v, align uint64) uint64 {
	return (v + align - 1) &^ (align - 1)
}
