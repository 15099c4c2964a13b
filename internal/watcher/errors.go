package watcher

import "errors"

var (
	ErrSubscriptionOpen   = errors.New("can't watch folder")
	ErrSubscriptionRead   = errors.New("watch failed")
	ErrSubscriptionClosed = errors.New("subscription closed")
	ErrWatchedDirGone     = errors.New("watched folder was removed")
	ErrEventsDropped      = errors.New("change notifications were dropped")
)
