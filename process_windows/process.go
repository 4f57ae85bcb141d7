//go:build windows

package process_windows

import (
	"fmt"
	"sync"
	"unsafe"

	"remotemem/process"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"
	"golang.org/x/sys/windows"
)

const (
	PROCESS_ALL_ACCESS = 0x1F0FFF

	MEM_COMMIT  = 0x1000
	MEM_RESERVE = 0x2000
)

// BasicInformation is the part of PROCESS_BASIC_INFORMATION callers use
type BasicInformation struct {
	PebAddress process.ProcessMemoryAddress
	PID        process.ProcessID
	ParentPID  process.ProcessID
}

// WindowsProcess implements process.Target over ntdll for a process handle
type WindowsProcess struct {
	handle windows.Handle
	owned  bool
	log    *logger.Logger
	mu     sync.Mutex
}

var _ process.Target = (*WindowsProcess)(nil)

// New wraps a handle owned by the caller, typically the process creator's
// handle to a suspended process. Close does not release it.
func New(handle windows.Handle) *WindowsProcess {
	return &WindowsProcess{
		handle: handle,
		log:    logger.NewLogger(coloransi.Color(coloransi.ColorPurple, coloransi.ColorOrange, fmt.Sprintf("process-handle-%x", uintptr(handle)))),
	}
}

// NewWithPID opens the process with the given PID
func NewWithPID(pid process.ProcessID) (*WindowsProcess, error) {
	p := &WindowsProcess{}
	err := p.Open(pid)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (p *WindowsProcess) Open(pid process.ProcessID) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	handle, err := windows.OpenProcess(PROCESS_ALL_ACCESS, false, uint32(pid))
	if err != nil {
		return fmt.Errorf("OpenProcess failed: %w", err)
	}

	p.handle = handle
	p.owned = true
	p.log = logger.NewLogger(coloransi.Color(coloransi.ColorPurple, coloransi.ColorOrange, fmt.Sprintf("process-%d", pid)))

	p.log.Infoln("Process opened")
	return nil
}

func (p *WindowsProcess) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.handle != 0 && p.owned {
		if err := windows.CloseHandle(p.handle); err != nil {
			return fmt.Errorf("CloseHandle failed: %w", err)
		}
		p.log.Infoln("Process closed")
	}

	p.handle = 0
	p.owned = false
	p.log = logger.NewLogger(coloransi.Color(coloransi.Red, coloransi.ColorOrange, "process-not-open"))

	return nil
}

func (p *WindowsProcess) getHandle() (windows.Handle, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.handle == 0 {
		return 0, process.ErrProcessNotOpen
	}
	return p.handle, nil
}

func (p *WindowsProcess) Allocate(preferred process.ProcessMemoryAddress, size process.ProcessMemorySize) (process.ProcessMemoryAddress, error) {
	return p.AllocateZeroBits(preferred, size, 0)
}

// AllocateZeroBits is Allocate with the ZeroBits constraint on the returned address
func (p *WindowsProcess) AllocateZeroBits(preferred process.ProcessMemoryAddress, size process.ProcessMemorySize, zeroBits uintptr) (process.ProcessMemoryAddress, error) {
	handle, err := p.getHandle()
	if err != nil {
		return 0, err
	}

	base := uintptr(preferred)
	regionSize := uintptr(size)
	status := ntAllocateVirtualMemory(handle, &base, zeroBits, &regionSize, MEM_COMMIT|MEM_RESERVE, uint32(process.PageReadWrite))
	if !status.Success() {
		p.log.Debugln("NtAllocateVirtualMemory", preferred.ToString(), size.ToString(), "failed:", status)
		return 0, fmt.Errorf("NtAllocateVirtualMemory at %s: %w", preferred.ToString(), status)
	}

	return process.ProcessMemoryAddress(base), nil
}

func (p *WindowsProcess) ReadMemory(addr process.ProcessMemoryAddress, size process.ProcessMemorySize) ([]byte, error) {
	if size == 0 {
		return []byte{}, nil
	}

	handle, err := p.getHandle()
	if err != nil {
		return nil, err
	}

	buf := make([]byte, size)
	var bytesRead uintptr
	status := ntReadVirtualMemory(handle, uintptr(addr), buf, &bytesRead)
	if !status.Success() {
		p.log.Debugln("NtReadVirtualMemory", addr.ToString(), size.ToString(), "failed:", status)
		return nil, fmt.Errorf("NtReadVirtualMemory at %s: %w", addr.ToString(), status)
	}

	if bytesRead != uintptr(size) {
		return nil, fmt.Errorf("NtReadVirtualMemory at %s: %w: expected %d, got %d", addr.ToString(), process.ErrPartialTransfer, size, bytesRead)
	}

	return buf, nil
}

func (p *WindowsProcess) WriteMemory(addr process.ProcessMemoryAddress, data []byte) error {
	if len(data) == 0 {
		return nil
	}

	handle, err := p.getHandle()
	if err != nil {
		return err
	}

	var bytesWritten uintptr
	status := ntWriteVirtualMemory(handle, uintptr(addr), data, &bytesWritten)
	if !status.Success() {
		p.log.Debugln("NtWriteVirtualMemory", addr.ToString(), len(data), "bytes failed:", status)
		return fmt.Errorf("NtWriteVirtualMemory at %s: %w", addr.ToString(), status)
	}

	if bytesWritten != uintptr(len(data)) {
		return fmt.Errorf("NtWriteVirtualMemory at %s: %w: expected %d, got %d", addr.ToString(), process.ErrPartialTransfer, len(data), bytesWritten)
	}

	return nil
}

func (p *WindowsProcess) Protect(addr process.ProcessMemoryAddress, size process.ProcessMemorySize, prot process.Protection) (process.Protection, error) {
	handle, err := p.getHandle()
	if err != nil {
		return 0, err
	}

	base := uintptr(addr)
	regionSize := uintptr(size)
	var old uint32
	status := ntProtectVirtualMemory(handle, &base, &regionSize, uint32(prot), &old)
	if !status.Success() {
		p.log.Debugln("NtProtectVirtualMemory", addr.ToString(), size.ToString(), "failed:", status)
		return 0, fmt.Errorf("NtProtectVirtualMemory at %s: %w", addr.ToString(), status)
	}

	return process.Protection(old), nil
}

// BasicInformation queries ProcessBasicInformation
func (p *WindowsProcess) BasicInformation() (BasicInformation, error) {
	handle, err := p.getHandle()
	if err != nil {
		return BasicInformation{}, err
	}

	var pbi windows.PROCESS_BASIC_INFORMATION
	status := queryInformationProcess(handle, windows.ProcessBasicInformation, unsafe.Pointer(&pbi), uint32(unsafe.Sizeof(pbi)))
	if !status.Success() {
		p.log.Debugln("ProcessBasicInformation failed:", status)
		return BasicInformation{}, fmt.Errorf("NtQueryInformationProcess(ProcessBasicInformation): %w", status)
	}

	return BasicInformation{
		PebAddress: process.ProcessMemoryAddress(uintptr(unsafe.Pointer(pbi.PebBaseAddress))),
		PID:        process.ProcessID(pbi.UniqueProcessId),
		ParentPID:  process.ProcessID(pbi.InheritedFromUniqueProcessId),
	}, nil
}

func (p *WindowsProcess) PebAddress() (process.ProcessMemoryAddress, error) {
	info, err := p.BasicInformation()
	if err != nil {
		return 0, err
	}
	return info.PebAddress, nil
}

func (p *WindowsProcess) Wow64PebAddress() (process.ProcessMemoryAddress, error) {
	handle, err := p.getHandle()
	if err != nil {
		return 0, err
	}

	var peb32 uintptr
	status := queryInformationProcess(handle, windows.ProcessWow64Information, unsafe.Pointer(&peb32), uint32(unsafe.Sizeof(peb32)))
	if !status.Success() {
		p.log.Debugln("ProcessWow64Information failed:", status)
		return 0, fmt.Errorf("NtQueryInformationProcess(ProcessWow64Information): %w", status)
	}

	return process.ProcessMemoryAddress(peb32), nil
}

func (p *WindowsProcess) IsWow64() (bool, error) {
	handle, err := p.getHandle()
	if err != nil {
		return false, err
	}

	var wow64 bool
	if err := windows.IsWow64Process(handle, &wow64); err != nil {
		p.log.Debugln("IsWow64Process failed:", err)
		return false, fmt.Errorf("IsWow64Process: %w", err)
	}
	return wow64, nil
}

func (p *WindowsProcess) HostIs64Bit() bool {
	return HostIs64Bit()
}

// HostIs64Bit reports whether the operating system is 64-bit, including when
// this process itself runs under WOW64.
func HostIs64Bit() bool {
	if unsafe.Sizeof(uintptr(0)) == 8 {
		return true
	}
	var wow64 bool
	if err := windows.IsWow64Process(windows.CurrentProcess(), &wow64); err != nil {
		return false
	}
	return wow64
}
