package watcher

import (
	"context"
	"iter"
	"time"
)

// Backend opens change subscriptions on a folder.
type Backend interface {
	Subscribe(dir string) (Subscription, error)
}

// Subscription is an open watch on a single folder.
type Subscription interface {
	// ReadBatch blocks until at least one change is available. The returned
	// sequence decodes a buffer that the next ReadBatch call reuses, so it
	// must be consumed first.
	ReadBatch(ctx context.Context) (iter.Seq[ChangeEvent], error)

	// Close releases the underlying OS resources. Calling it more than once
	// is a no-op.
	Close() error
}

// NewBackend picks the polling backend for a positive interval and native
// change notifications otherwise.
func NewBackend(pollInterval time.Duration) Backend {
	if pollInterval > 0 {
		return NewPoller(pollInterval)
	}
	return NewFSNotify()
}
