package mover

import (
	"syscall"

	"github.com/samber/lo"
)

// IsLockViolation reports whether err means the file is held open or
// locked by another process, the only class of move failure worth retrying.
func IsLockViolation(err error) bool {
	if err == nil {
		return false
	}

	errno, ok := lo.ErrorsAs[syscall.Errno](err)
	if !ok {
		return false
	}

	return lo.Contains(lockErrnos, errno)
}
