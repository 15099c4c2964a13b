//go:build unix

package mover

import (
	"syscall"

	"golang.org/x/sys/unix"
)

// rename(2) ignores open descriptors on unix; these are the codes a busy
// mount point or a running executable produce instead.
//
//nolint:gochecknoglobals // platform table
var lockErrnos = []syscall.Errno{
	unix.EBUSY,
	unix.ETXTBSY,
}
