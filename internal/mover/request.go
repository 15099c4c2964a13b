package mover

import (
	"errors"
	"os"
	"path/filepath"
)

// Request is a single relocation of Source into DestinationDir.
type Request struct {
	Source         string
	DestinationDir string
}

// Destination is the path the file will have after the move.
func (r Request) Destination() string {
	return filepath.Join(r.DestinationDir, filepath.Base(r.Source))
}

type Reason string

const (
	ReasonNone         Reason = ""
	ReasonExhausted    Reason = "exhausted-retries"
	ReasonNonRetryable Reason = "non-retryable"
	ReasonCancelled    Reason = "cancelled"
)

// Outcome reports how a Request was resolved. It is informational only:
// callers log it and carry on.
type Outcome struct {
	Request  Request
	Attempts int
	Reason   Reason
	Err      error
}

func (o Outcome) Succeeded() bool {
	return o.Err == nil
}

// Gone reports a source that no longer exists, the usual fate of a repeated
// notification for a file that was already moved.
func (o Outcome) Gone() bool {
	return o.Reason == ReasonNonRetryable && errors.Is(o.Err, os.ErrNotExist)
}
