//go:build !unix && !windows

package mover

import "syscall"

//nolint:gochecknoglobals // platform table
var lockErrnos []syscall.Errno
