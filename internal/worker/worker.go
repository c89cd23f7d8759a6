package worker

import (
	"context"
	"sync"
	"sync/atomic"
)

type ProcessFunc[J any] func(ctx context.Context, job J) error

// WorkerPool runs a fixed number of goroutines over a buffered job queue.
// Submit must not be called after Stop.
type WorkerPool[J any] struct {
	numWorkers int
	jobs       chan J
	processor  ProcessFunc[J]
	wg         sync.WaitGroup
	failed     atomic.Int64
}

func NewWorkerPool[J any](numWorkers int, bufferSize int, processor ProcessFunc[J]) *WorkerPool[J] {
	if numWorkers < 1 {
		numWorkers = 1
	}
	return &WorkerPool[J]{
		numWorkers: numWorkers,
		jobs:       make(chan J, bufferSize),
		processor:  processor,
	}
}

func (wp *WorkerPool[J]) Start(ctx context.Context) {
	for i := 1; i <= wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker(ctx, i)
	}
}

func (wp *WorkerPool[J]) worker(ctx context.Context, id int) {
	defer wp.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-wp.jobs:
			if !ok {
				return
			}
			if err := wp.processor(ctx, job); err != nil {
				wp.failed.Add(1)
			}
		}
	}
}

// Submit queues a job, blocking while the buffer is full. It gives up when ctx is done.
func (wp *WorkerPool[J]) Submit(ctx context.Context, job J) error {
	select {
	case wp.jobs <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop closes the queue and waits for the workers to drain it.
func (wp *WorkerPool[J]) Stop() {
	close(wp.jobs)
	wp.wg.Wait()
}

// Failed is the number of jobs whose processor returned an error.
func (wp *WorkerPool[J]) Failed() int64 {
	return wp.failed.Load()
}
