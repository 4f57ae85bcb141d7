package memory_map

import (
	"fmt"
	"sort"
)

// MemoryMapItem represents a memory region in a process's address space
type MemoryMapItem struct {
	Address uint64 // The starting address of the memory region
	Size    uint   // The size of the memory region in bytes
	Protect uint32 // Page protection at allocation time (PAGE_* constant)
}

// String returns a string representation of the memory map item
func (mmItem MemoryMapItem) String() string {
	return fmt.Sprintf("Address: %x, Size: %d, Protect: 0x%X", mmItem.Address, mmItem.Size, mmItem.Protect)
}

// End returns the first address past the region
func (mmItem MemoryMapItem) End() uint64 {
	return mmItem.Address + uint64(mmItem.Size)
}

// Contains reports whether [addr, addr+size) lies entirely inside the region
func (mmItem MemoryMapItem) Contains(addr uint64, size uint) bool {
	return addr >= mmItem.Address && addr+uint64(size) <= mmItem.End() && addr+uint64(size) >= addr
}

// Overlaps reports whether [addr, addr+size) shares any byte with the region
func (mmItem MemoryMapItem) Overlaps(addr uint64, size uint) bool {
	return addr < mmItem.End() && mmItem.Address < addr+uint64(size)
}

// Sort orders the map by address; the lookups below require a sorted map
func Sort(memoryMap []MemoryMapItem) {
	sort.Slice(memoryMap, func(i, j int) bool {
		return memoryMap[i].Address < memoryMap[j].Address
	})
}

// RegionIndex returns the index of the region containing addr in a sorted map, or -1
func RegionIndex(addr uint64, memoryMap []MemoryMapItem) int {
	i := sort.Search(len(memoryMap), func(i int) bool {
		return memoryMap[i].End() > addr
	})
	if i < len(memoryMap) && memoryMap[i].Address <= addr {
		return i
	}

	return -1
}

// AnyOverlap reports whether [addr, addr+size) touches any region in the map
func AnyOverlap(addr uint64, size uint, memoryMap []MemoryMapItem) bool {
	for _, item := range memoryMap {
		if item.Overlaps(addr, size) {
			return true
		}
	}
	return false
}
