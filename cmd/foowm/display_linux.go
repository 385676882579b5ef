//go:build linux

package main

import "github.com/footron/foowm/internal/platform"

func openDisplay() (displayConn, error) {
	backend, err := platform.NewLinuxBackendFromDisplay()
	if err != nil {
		return nil, err
	}
	return backend, nil
}
