//go:build windows

package main

import (
	"remotemem/process"
	"remotemem/process_windows"
)

func getTarget(pid process.ProcessID) (process.Target, func(), error) {
	p, err := process_windows.NewWithPID(pid)
	if err != nil {
		return nil, nil, err
	}
	return p, func() { p.Close() }, nil
}
