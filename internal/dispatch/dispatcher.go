// Package dispatch provides a sharded work queue that preserves FIFO order
// per key while allowing parallelism across shards. The cache layer routes
// every mutation for a given cache key through here so results apply in
// issuance order.
//
// Contract: callers must not invoke Submit concurrently for the same key;
// FIFO ordering relies on that external serialisation.
package dispatch

import (
	"context"
	"hash/fnv"
	"sync"
	"sync/atomic"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"

	"github.com/heyso/heyso-go/internal/apierrors"
)

type queuedJob struct {
	ctx  context.Context
	job  Job
	done chan error // nil for fire-and-forget submissions
}

func (qj queuedJob) finish(err error) {
	if qj.done != nil {
		qj.done <- err
	}
}

// Dispatcher executes jobs on worker goroutines partitioned by a stable hash
// of the key. Recoverable failures retry with exponential backoff;
// irrecoverable ones fail fast.
type Dispatcher struct {
	cfg    Config
	queues []chan queuedJob

	done   chan struct{}
	closed uint32

	wg sync.WaitGroup
}

// New constructs the dispatcher and starts its shard workers.
func New(cfg Config) *Dispatcher {
	cfg = cfg.withDefaults()
	d := &Dispatcher{
		cfg:    cfg,
		queues: make([]chan queuedJob, cfg.Shards),
		done:   make(chan struct{}),
	}
	for i := 0; i < cfg.Shards; i++ {
		ch := make(chan queuedJob, cfg.QueueSize)
		d.queues[i] = ch
		d.wg.Add(1)
		go d.runWorker(i, ch)
	}
	return d
}

// Submit enqueues job for the shard derived from key and returns without
// waiting for execution.
//
//   - nil on success
//   - ErrClosed if the dispatcher is stopped
//   - *QueueFullError if the shard is still full after EnqueueTimeout
//   - ctx.Err() if the caller's context is cancelled first
func (d *Dispatcher) Submit(ctx context.Context, key string, job Job) error {
	return d.enqueue(ctx, key, queuedJob{ctx: ctx, job: job})
}

// SubmitWait enqueues job and blocks until its final disposition: nil after
// a successful run, otherwise the job's last error after retries.
func (d *Dispatcher) SubmitWait(ctx context.Context, key string, job Job) error {
	qj := queuedJob{ctx: ctx, job: job, done: make(chan error, 1)}
	if err := d.enqueue(ctx, key, qj); err != nil {
		return err
	}
	select {
	case err := <-qj.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Barrier enqueues a no-op on key's shard and waits until it runs, ensuring
// all previously submitted jobs for that key have completed.
func (d *Dispatcher) Barrier(ctx context.Context, key string) error {
	return d.SubmitWait(ctx, key, Func(func(context.Context) error { return nil }))
}

func (d *Dispatcher) enqueue(ctx context.Context, key string, qj queuedJob) error {
	if atomic.LoadUint32(&d.closed) == 1 {
		return ErrClosed
	}
	select {
	case <-d.done:
		return ErrClosed
	default:
	}

	shard := d.shardFor(key)
	ch := d.queues[shard]

	timer := time.NewTimer(d.cfg.EnqueueTimeout)
	defer timer.Stop()

	select {
	case ch <- qj:
		submissionsTotal.WithLabelValues(labelFor(shard)).Inc()
		return nil
	case <-d.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		queueFullTotal.WithLabelValues(labelFor(shard)).Inc()
		return &QueueFullError{Shard: shard, Length: len(ch), Capacity: cap(ch)}
	}
}

// Stop drains every shard, waits for the workers to terminate and returns.
// Idempotent and safe for concurrent use.
func (d *Dispatcher) Stop() {
	if !atomic.CompareAndSwapUint32(&d.closed, 0, 1) {
		return
	}
	log.Debug().Int("shards", d.cfg.Shards).Msg("dispatch: stopping, draining shards")
	close(d.done)
	d.wg.Wait()
	log.Debug().Msg("dispatch: stopped, all queues drained")
}

// Close lets Dispatcher satisfy io.Closer.
func (d *Dispatcher) Close() error {
	d.Stop()
	return nil
}

// ------------------------- internals -------------------------

func (d *Dispatcher) runWorker(idx int, ch <-chan queuedJob) {
	defer d.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			log.Error().Int("shard", idx).Interface("panic", r).Msg("dispatch: worker panic")
		}
	}()

	label := labelFor(idx)

	for {
		select {
		case qj := <-ch:
			if qj.job == nil {
				qj.finish(nil)
				continue
			}
			// A cancelled job must not stall the shard.
			select {
			case <-qj.ctx.Done():
				err := qj.ctx.Err()
				qj.finish(err)
				d.safeHandleError(err)
			default:
				err := d.runWithRetry(label, qj)
				qj.finish(err)
				if err != nil {
					d.safeHandleError(err)
				}
			}
			queueDepth.WithLabelValues(label).Set(float64(len(ch)))

		case <-d.done:
			// Drain remaining jobs in FIFO order, then exit.
			for {
				select {
				case qj := <-ch:
					if qj.job != nil {
						qj.finish(qj.job.Run(qj.ctx))
					} else {
						qj.finish(nil)
					}
				default:
					queueDepth.WithLabelValues(label).Set(0)
					return
				}
			}
		}
	}
}

// runWithRetry executes one job, retrying recoverable failures with
// exponential backoff up to MaxAttempts.
func (d *Dispatcher) runWithRetry(label string, qj queuedJob) error {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = d.cfg.BaseBackoff
	exp.Multiplier = 2
	exp.MaxInterval = d.cfg.MaxInterval
	exp.Reset()

	var err error
	for attempt := 1; ; attempt++ {
		start := time.Now()
		err = qj.job.Run(qj.ctx)
		runDuration.WithLabelValues(label).Observe(time.Since(start).Seconds())

		if err == nil || apierrors.IsIrrecoverable(err) || attempt >= d.cfg.MaxAttempts {
			return err
		}

		select {
		case <-time.After(exp.NextBackOff()):
		case <-d.done:
			return err
		case <-qj.ctx.Done():
			return qj.ctx.Err()
		}
	}
}

func (d *Dispatcher) safeHandleError(err error) {
	if err == nil || d.cfg.ErrorHandler == nil {
		return
	}
	func() {
		defer func() {
			if r := recover(); r != nil {
				log.Error().Interface("panic", r).Msg("dispatch: error handler panic")
			}
		}()
		d.cfg.ErrorHandler(err)
	}()
}

func (d *Dispatcher) shardFor(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32()) % d.cfg.Shards
}
