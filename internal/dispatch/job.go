package dispatch

import "context"

// Job is a unit of work executed by a Dispatcher.
type Job interface {
	Run(ctx context.Context) error
}

// Func adapts a closure to a Job.
type Func func(ctx context.Context) error

// Run implements Job.
func (f Func) Run(ctx context.Context) error { return f(ctx) }
