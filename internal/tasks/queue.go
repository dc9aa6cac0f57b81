// Package tasks runs fire-and-forget work off the request path.
package tasks

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Func is a unit of background work.
type Func func(ctx context.Context) error

type task struct {
	name string
	fn   Func
}

// Queue is a bounded in-process task queue drained by a fixed set of workers.
type Queue struct {
	work    chan task
	timeout time.Duration
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// NewQueue starts workers goroutines reading from a queue of length size.
// Each task runs with the given timeout; zero means no timeout.
func NewQueue(workers, size int, timeout time.Duration) *Queue {
	if workers < 1 {
		workers = 1
	}
	if size < 0 {
		size = 0
	}
	ctx, cancel := context.WithCancel(context.Background())
	q := &Queue{
		work:    make(chan task, size),
		timeout: timeout,
		ctx:     ctx,
		cancel:  cancel,
	}

	q.wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer q.wg.Done()
			for t := range q.work {
				q.run(t)
			}
		}()
	}
	return q
}

// Enqueue schedules fn without blocking. It reports false when the queue is
// full or stopped; the task is then dropped.
func (q *Queue) Enqueue(name string, fn Func) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		log.Warn().Str("task", name).Msg("Task queue stopped, dropping task")
		return false
	}

	select {
	case q.work <- task{name: name, fn: fn}:
		return true
	default:
		log.Warn().Str("task", name).Int("capacity", cap(q.work)).Msg("Task queue full, dropping task")
		return false
	}
}

// Stop refuses new tasks, lets queued ones finish and waits for the workers.
// If ctx expires first, running tasks are cancelled and ctx.Err is returned.
func (q *Queue) Stop(ctx context.Context) error {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.work)
	}
	q.mu.Unlock()

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		q.cancel()
		return nil
	case <-ctx.Done():
		q.cancel()
		<-done
		return ctx.Err()
	}
}

func (q *Queue) run(t task) {
	ctx := q.ctx
	if q.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, q.timeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("task", t.name).Interface("panic", r).Msg("Background task panicked")
		}
	}()

	start := time.Now()
	if err := t.fn(ctx); err != nil {
		log.Error().Err(err).Str("task", t.name).Dur("took", time.Since(start)).Msg("Background task failed")
		return
	}
	log.Debug().Str("task", t.name).Dur("took", time.Since(start)).Msg("Background task finished")
}
