package watcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync/atomic"

	"github.com/capcom6/pdf-mover/internal/mover"
	"golang.org/x/sync/errgroup"
)

type Mover interface {
	Move(ctx context.Context, req mover.Request) mover.Outcome
}

type Config struct {
	Filter Filter
	// Workers is the number of moves that may run at once. One keeps the
	// loop strictly sequential: a move and all of its retries finish before
	// the next batch is read.
	Workers int
}

type Stats struct {
	Batches uint64
	Events  uint64
	Matched uint64
	Moved   uint64
	// Gone counts sources that vanished before they could be moved,
	// including repeated notifications for files already moved.
	Gone    uint64
	Failed  uint64
}

type Watcher struct {
	backend Backend
	mover   Mover
	cfg     Config
	logger  *slog.Logger

	batches atomic.Uint64
	events  atomic.Uint64
	matched atomic.Uint64
	moved   atomic.Uint64
	gone    atomic.Uint64
	failed  atomic.Uint64
}

func New(backend Backend, mv Mover, cfg Config, logger *slog.Logger) *Watcher {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Watcher{
		backend: backend,
		mover:   mv,
		cfg:     cfg,
		logger:  logger,
	}
}

// Watch moves every matching file that shows up in sourceDir into
// destinationDir. It runs until ctx is cancelled, which yields nil, or the
// subscription fails, which yields an error wrapping ErrSubscriptionOpen or
// ErrSubscriptionRead. The subscription is closed before Watch returns.
func (w *Watcher) Watch(ctx context.Context, sourceDir, destinationDir string) error {
	sub, err := w.backend.Subscribe(sourceDir)
	if err != nil {
		return fmt.Errorf("%w %s: %w", ErrSubscriptionOpen, sourceDir, err)
	}
	defer func() {
		if closeErr := sub.Close(); closeErr != nil {
			w.logger.Warn("failed to release watch", "source", sourceDir, "error", closeErr)
		}
	}()

	pool := w.newPool(ctx)
	defer pool.wait()

	w.logger.Info("watching",
		"source", sourceDir,
		"destination", destinationDir,
		"extension", w.cfg.Filter.Extension,
		"workers", w.cfg.Workers,
	)

	for {
		batch, readErr := sub.ReadBatch(ctx)
		if readErr != nil {
			if ctx.Err() != nil {
				return nil
			}
			if errors.Is(readErr, ErrEventsDropped) {
				w.logger.Warn("some changes were missed", "source", sourceDir, "error", readErr)
				continue
			}
			return fmt.Errorf("%w: %w", ErrSubscriptionRead, readErr)
		}
		w.batches.Add(1)

		for event := range batch {
			w.events.Add(1)

			if !w.cfg.Filter.Match(event.Name) {
				w.logger.Debug("ignored", "file", event.Name, "op", event.Op)
				continue
			}
			w.matched.Add(1)
			w.logger.Debug("matched", "file", event.Name, "op", event.Op)

			pool.submit(mover.Request{
				Source:         filepath.Join(sourceDir, event.Name),
				DestinationDir: destinationDir,
			})
		}
	}
}

func (w *Watcher) Stats() Stats {
	return Stats{
		Batches: w.batches.Load(),
		Events:  w.events.Load(),
		Matched: w.matched.Load(),
		Moved:   w.moved.Load(),
		Gone:    w.gone.Load(),
		Failed:  w.failed.Load(),
	}
}

func (w *Watcher) move(ctx context.Context, req mover.Request) {
	switch outcome := w.mover.Move(ctx, req); {
	case outcome.Succeeded():
		w.moved.Add(1)
	case outcome.Gone():
		w.gone.Add(1)
	default:
		w.failed.Add(1)
	}
}

// pool runs moves inline or, with more than one worker, on a bounded set
// of goroutines. submit blocks while all workers are busy.
type pool struct {
	ctx   context.Context
	group *errgroup.Group
	run   func(ctx context.Context, req mover.Request)
}

func (w *Watcher) newPool(ctx context.Context) *pool {
	p := &pool{ctx: ctx, run: w.move}
	if w.cfg.Workers > 1 {
		p.group = &errgroup.Group{}
		p.group.SetLimit(w.cfg.Workers)
	}
	return p
}

func (p *pool) submit(req mover.Request) {
	if p.group == nil {
		p.run(p.ctx, req)
		return
	}

	p.group.Go(func() error {
		p.run(p.ctx, req)
		return nil
	})
}

func (p *pool) wait() {
	if p.group != nil {
		_ = p.group.Wait()
	}
}
