//go:build !linux

package main

import (
	"fmt"
	"runtime"
)

func openDisplay() (displayConn, error) {
	return nil, fmt.Errorf("window management is not supported on %s", runtime.GOOS)
}
