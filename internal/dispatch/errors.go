package dispatch

import (
	"errors"
	"fmt"
)

// ErrClosed is returned when work is submitted after Stop.
var ErrClosed = errors.New("dispatch: dispatcher closed")

// ErrQueueFull is wrapped by QueueFullError for errors.Is comparisons.
var ErrQueueFull = errors.New("dispatch: queue full")

// QueueFullError reports which shard rejected the submission.
type QueueFullError struct {
	Shard    int
	Length   int
	Capacity int
}

func (e *QueueFullError) Error() string {
	return fmt.Sprintf("dispatch: shard %d full (%d/%d)", e.Shard, e.Length, e.Capacity)
}

func (e *QueueFullError) Unwrap() error { return ErrQueueFull }
