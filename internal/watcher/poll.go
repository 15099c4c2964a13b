package watcher

import (
	"context"
	"fmt"
	"iter"
	"os"
	"slices"
	"sync"
	"time"

	"github.com/samber/lo"
)

// Poller watches a folder by listing it at a fixed interval. It serves
// file systems that do not deliver change notifications, such as network
// shares.
type Poller struct {
	Interval time.Duration
}

func NewPoller(interval time.Duration) *Poller {
	return &Poller{Interval: interval}
}

func (p *Poller) Subscribe(dir string) (Subscription, error) {
	names, err := listFiles(dir)
	if err != nil {
		return nil, err
	}

	return &pollSubscription{
		dir:    dir,
		ticker: time.NewTicker(p.Interval),
		names:  names,
		seen:   lo.Keyify(names),
	}, nil
}

type pollSubscription struct {
	dir    string
	ticker *time.Ticker

	names []string
	seen  map[string]struct{}
	buf   []ChangeEvent

	closeOnce sync.Once
}

func (s *pollSubscription) ReadBatch(ctx context.Context) (iter.Seq[ChangeEvent], error) {
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-s.ticker.C:
		}

		names, err := listFiles(s.dir)
		if err != nil {
			return nil, err
		}
		seen := lo.Keyify(names)

		s.buf = s.buf[:0]
		for _, name := range names {
			if _, ok := s.seen[name]; !ok {
				s.buf = append(s.buf, ChangeEvent{Name: name, Op: OpCreate})
			}
		}
		for _, name := range s.names {
			if _, ok := seen[name]; !ok {
				s.buf = append(s.buf, ChangeEvent{Name: name, Op: OpRemove})
			}
		}

		s.names, s.seen = names, seen

		if len(s.buf) > 0 {
			return slices.Values(s.buf), nil
		}
	}
}

func (s *pollSubscription) Close() error {
	s.closeOnce.Do(s.ticker.Stop)
	return nil
}

// listFiles returns the sorted names of the regular entries of dir.
func listFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("os.ReadDir: %w", err)
	}

	return lo.FilterMap(entries, func(entry os.DirEntry, _ int) (string, bool) {
		return entry.Name(), !entry.IsDir()
	}), nil
}
