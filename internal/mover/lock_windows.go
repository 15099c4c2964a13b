//go:build windows

package mover

import (
	"syscall"

	"golang.org/x/sys/windows"
)

//nolint:gochecknoglobals // platform table
var lockErrnos = []syscall.Errno{
	windows.ERROR_SHARING_VIOLATION,
	windows.ERROR_LOCK_VIOLATION,
}
