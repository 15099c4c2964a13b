package mover

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	DefaultMaxAttempts = 5
	DefaultDelay       = 2000 * time.Millisecond
)

type Config struct {
	// MaxAttempts bounds the total number of rename attempts, first one included.
	MaxAttempts int
	// Delay is the fixed pause between two attempts.
	Delay time.Duration
	// Retryable reports whether a failed attempt may be repeated.
	Retryable func(error) bool
}

func DefaultConfig() Config {
	return Config{
		MaxAttempts: DefaultMaxAttempts,
		Delay:       DefaultDelay,
		Retryable:   IsLockViolation,
	}
}

// Mover relocates files into a destination directory. It keeps no state
// between calls, so Move may be used from several goroutines at once.
type Mover struct {
	cfg    Config
	logger *slog.Logger

	rename   func(oldpath, newpath string) error
	lstat    func(name string) (os.FileInfo, error)
	newTimer func() backoff.Timer
}

func New(cfg Config, logger *slog.Logger) *Mover {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if cfg.Retryable == nil {
		cfg.Retryable = IsLockViolation
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Mover{
		cfg:    cfg,
		logger: logger,

		rename:   os.Rename,
		lstat:    os.Lstat,
		newTimer: func() backoff.Timer { return nil },
	}
}

// Move renames req.Source into req.DestinationDir, retrying while the file
// is locked by another process. The outcome is also reported to the logger.
func (m *Mover) Move(ctx context.Context, req Request) Outcome {
	outcome := m.move(ctx, req)
	m.report(outcome)

	return outcome
}

func (m *Mover) move(ctx context.Context, req Request) Outcome {
	outcome := Outcome{Request: req}
	destination := req.Destination()

	// a file already moved away is reported as gone, whatever sits in the
	// destination
	if _, err := m.lstat(req.Source); err != nil {
		outcome.Reason = ReasonNonRetryable
		outcome.Err = fmt.Errorf("can't stat source: %w", err)
		return outcome
	}

	if _, err := m.lstat(destination); err == nil {
		outcome.Reason = ReasonNonRetryable
		outcome.Err = fmt.Errorf("%w: %s", ErrDestinationExists, destination)
		return outcome
	}

	operation := func() error {
		outcome.Attempts++

		err := m.rename(req.Source, destination)
		if err == nil || m.cfg.Retryable(err) {
			return err
		}

		return backoff.Permanent(err)
	}

	notify := func(err error, delay time.Duration) {
		m.logger.Warn("file is locked, retrying",
			"file", req.Source,
			"attempt", outcome.Attempts,
			"max_attempts", m.cfg.MaxAttempts,
			"delay", delay,
			"error", err,
		)
	}

	policy := backoff.WithMaxRetries(
		backoff.WithContext(backoff.NewConstantBackOff(m.cfg.Delay), ctx),
		uint64(m.cfg.MaxAttempts-1),
	)

	err := backoff.RetryNotifyWithTimer(operation, policy, notify, m.newTimer())
	switch {
	case err == nil:
	case ctx.Err() != nil && errors.Is(err, ctx.Err()):
		outcome.Reason = ReasonCancelled
		outcome.Err = fmt.Errorf("move interrupted after %d attempts: %w", outcome.Attempts, err)
	case m.cfg.Retryable(err):
		outcome.Reason = ReasonExhausted
		outcome.Err = fmt.Errorf("%w (%d attempts): %w", ErrRetriesExhausted, outcome.Attempts, err)
	default:
		outcome.Reason = ReasonNonRetryable
		outcome.Err = err
	}

	return outcome
}

func (m *Mover) report(o Outcome) {
	name := filepath.Base(o.Request.Source)

	switch {
	case o.Succeeded():
		m.logger.Info("moved",
			"file", name,
			"destination", o.Request.DestinationDir,
			"attempts", o.Attempts,
		)
	case o.Gone():
		// a duplicate notification for a file that was already moved
		m.logger.Warn("file is gone, nothing to move",
			"file", name,
			"error", o.Err,
		)
	case o.Reason == ReasonCancelled:
		m.logger.Warn("move interrupted",
			"file", name,
			"attempts", o.Attempts,
		)
	default:
		m.logger.Error("failed to move",
			"file", name,
			"reason", o.Reason,
			"attempts", o.Attempts,
			"error", o.Err,
		)
	}
}
