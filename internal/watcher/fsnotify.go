package watcher

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// maxBatch caps how many queued notifications are coalesced into one batch.
const maxBatch = 64

// FSNotify watches a folder with the platform change notification API.
type FSNotify struct{}

func NewFSNotify() *FSNotify {
	return &FSNotify{}
}

func (b *FSNotify) Subscribe(dir string) (Subscription, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("filepath.Abs: %w", err)
	}

	fswatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fsnotify.NewWatcher: %w", err)
	}

	if addErr := fswatcher.Add(root); addErr != nil {
		_ = fswatcher.Close()
		return nil, fmt.Errorf("fswatcher.Add: %w", addErr)
	}

	return &fsnotifySubscription{
		root:      root,
		fswatcher: fswatcher,
		buf:       make([]fsnotify.Event, 0, maxBatch),
	}, nil
}

type fsnotifySubscription struct {
	root      string
	fswatcher *fsnotify.Watcher
	buf       []fsnotify.Event

	closeOnce sync.Once
	closeErr  error
}

func (s *fsnotifySubscription) ReadBatch(ctx context.Context) (iter.Seq[ChangeEvent], error) {
	s.buf = s.buf[:0]

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case event, ok := <-s.fswatcher.Events:
		if !ok {
			return nil, ErrSubscriptionClosed
		}
		s.buf = append(s.buf, event)
	case err, ok := <-s.fswatcher.Errors:
		if !ok {
			return nil, ErrSubscriptionClosed
		}
		if errors.Is(err, fsnotify.ErrEventOverflow) {
			return nil, fmt.Errorf("%w: %w", ErrEventsDropped, err)
		}
		return nil, err
	}

drain:
	for len(s.buf) < cap(s.buf) {
		select {
		case event, ok := <-s.fswatcher.Events:
			if !ok {
				break drain
			}
			s.buf = append(s.buf, event)
		default:
			break drain
		}
	}

	for _, event := range s.buf {
		if isRootGone(s.root, event) {
			return nil, fmt.Errorf("%w: %s", ErrWatchedDirGone, s.root)
		}
	}

	return s.decode, nil
}

func (s *fsnotifySubscription) decode(yield func(ChangeEvent) bool) {
	for _, event := range s.buf {
		change, ok := decodeEvent(s.root, event)
		if !ok {
			continue
		}
		if !yield(change) {
			return
		}
	}
}

func (s *fsnotifySubscription) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.fswatcher.Close()
	})
	return s.closeErr
}

// decodeEvent keeps name changes of direct children of root. Writes and
// attribute changes do not change a name and are dropped.
func decodeEvent(root string, event fsnotify.Event) (ChangeEvent, bool) {
	var op Op
	if event.Has(fsnotify.Create) {
		op |= OpCreate
	}
	if event.Has(fsnotify.Remove) {
		op |= OpRemove
	}
	if event.Has(fsnotify.Rename) {
		op |= OpRename
	}
	if op == 0 {
		return ChangeEvent{}, false
	}

	dir, name := filepath.Split(event.Name)
	if name == "" || filepath.Clean(dir) != root {
		return ChangeEvent{}, false
	}

	return ChangeEvent{Name: name, Op: op}, true
}

func isRootGone(root string, event fsnotify.Event) bool {
	return filepath.Clean(event.Name) == root &&
		(event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename))
}
