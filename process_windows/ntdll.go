//go:build windows

package process_windows

import (
	"errors"
	"unsafe"

	"remotemem/ntstatus"

	"golang.org/x/sys/windows"
)

var (
	modntdll                    = windows.NewLazySystemDLL("ntdll.dll")
	procNtAllocateVirtualMemory = modntdll.NewProc("NtAllocateVirtualMemory")
	procNtReadVirtualMemory     = modntdll.NewProc("NtReadVirtualMemory")
	procNtWriteVirtualMemory    = modntdll.NewProc("NtWriteVirtualMemory")
	procNtProtectVirtualMemory  = modntdll.NewProc("NtProtectVirtualMemory")
)

// NtAllocateVirtualMemory(
//
//	HANDLE    ProcessHandle,
//	PVOID     *BaseAddress,
//	ULONG_PTR ZeroBits,
//	PSIZE_T   RegionSize,
//	ULONG     AllocationType,
//	ULONG     Protect);
func ntAllocateVirtualMemory(handle windows.Handle, baseAddress *uintptr, zeroBits uintptr, regionSize *uintptr, allocationType uint32, protect uint32) ntstatus.Status {
	if err := procNtAllocateVirtualMemory.Find(); err != nil {
		return ntstatus.StatusInvalidHandle
	}
	r1, _, _ := procNtAllocateVirtualMemory.Call(
		uintptr(handle),
		uintptr(unsafe.Pointer(baseAddress)),
		zeroBits,
		uintptr(unsafe.Pointer(regionSize)),
		uintptr(allocationType),
		uintptr(protect),
	)
	return ntstatus.FromUintptr(r1)
}

// NtReadVirtualMemory(
//
//	HANDLE  ProcessHandle,
//	PVOID   BaseAddress,
//	PVOID   Buffer,
//	SIZE_T  NumberOfBytesToRead,
//	PSIZE_T NumberOfBytesRead);
func ntReadVirtualMemory(handle windows.Handle, baseAddress uintptr, buf []byte, bytesRead *uintptr) ntstatus.Status {
	if err := procNtReadVirtualMemory.Find(); err != nil {
		return ntstatus.StatusInvalidHandle
	}
	r1, _, _ := procNtReadVirtualMemory.Call(
		uintptr(handle),
		baseAddress,
		uintptr(unsafe.Pointer(&buf[0])),
		uintptr(len(buf)),
		uintptr(unsafe.Pointer(bytesRead)),
	)
	return ntstatus.FromUintptr(r1)
}

// NtWriteVirtualMemory(
//
//	HANDLE  ProcessHandle,
//	PVOID   BaseAddress,
//	PVOID   Buffer,
//	SIZE_T  NumberOfBytesToWrite,
//	PSIZE_T NumberOfBytesWritten);
func ntWriteVirtualMemory(handle windows.Handle, baseAddress uintptr, buf []byte, bytesWritten *uintptr) ntstatus.Status {
	if err := procNtWriteVirtualMemory.Find(); err != nil {
		return ntstatus.StatusInvalidHandle
	}
	r1, _, _ := procNtWriteVirtualMemory.Call(
		uintptr(handle),
		baseAddress,
		uintptr(unsafe.Pointer(&buf[0])),
		uintptr(len(buf)),
		uintptr(unsafe.Pointer(bytesWritten)),
	)
	return ntstatus.FromUintptr(r1)
}

// NtProtectVirtualMemory(
//
//	HANDLE  ProcessHandle,
//	PVOID   *BaseAddress,
//	PSIZE_T RegionSize,
//	ULONG   NewProtect,
//	PULONG  OldProtect);
func ntProtectVirtualMemory(handle windows.Handle, baseAddress *uintptr, regionSize *uintptr, newProtect uint32, oldProtect *uint32) ntstatus.Status {
	if err := procNtProtectVirtualMemory.Find(); err != nil {
		return ntstatus.StatusInvalidHandle
	}
	r1, _, _ := procNtProtectVirtualMemory.Call(
		uintptr(handle),
		uintptr(unsafe.Pointer(baseAddress)),
		uintptr(unsafe.Pointer(regionSize)),
		uintptr(newProtect),
		uintptr(unsafe.Pointer(oldProtect)),
	)
	return ntstatus.FromUintptr(r1)
}

// queryInformationProcess wraps windows.NtQueryInformationProcess and hands back the raw status
func queryInformationProcess(handle windows.Handle, class int32, info unsafe.Pointer, length uint32) ntstatus.Status {
	err := windows.NtQueryInformationProcess(handle, class, info, length, nil)
	if err == nil {
		return ntstatus.StatusSuccess
	}
	var st windows.NTStatus
	if errors.As(err, &st) {
		return ntstatus.Status(int32(st))
	}
	return ntstatus.StatusInvalidParameter
}
