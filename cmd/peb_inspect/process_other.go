//go:build !windows

package main

import (
	"fmt"
	"runtime"

	"remotemem/process"
)

func getTarget(pid process.ProcessID) (process.Target, func(), error) {
	return nil, nil, fmt.Errorf("process %d: PEB inspection is not supported on %s", pid, runtime.GOOS)
}
