package mover

import "errors"

var (
	ErrRetriesExhausted  = errors.New("file still locked after retries")
	ErrDestinationExists = errors.New("destination already exists")
)
