// Package batch runs many routing problems concurrently on a bounded
// worker pool and reports per-item results in input order.
package batch

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"

	"chainopt/internal/model"
)

// SolveFunc solves a single routing problem.
type SolveFunc func(ctx context.Context, req model.RoutingRequest) (*model.RoutingResponse, error)

// Result is the outcome of one problem. Index matches the position in
// the submitted slice; exactly one of Value and Err is set.
type Result struct {
	Index int
	Value *model.RoutingResponse
	Err   error
}

// ProgressFunc is invoked after each completed item with the number of
// finished items and the total. It may be called from multiple
// goroutines but never concurrently for the same Dispatcher run.
type ProgressFunc func(done, total int)

// Dispatcher fans problems out to a fixed pool of workers.
type Dispatcher struct {
	workers  int
	progress ProgressFunc
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithWorkers caps the pool size. Values below 1 fall back to
// runtime.NumCPU.
func WithWorkers(n int) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.workers = n
		}
	}
}

// WithProgress registers a completion callback.
func WithProgress(fn ProgressFunc) Option {
	return func(d *Dispatcher) { d.progress = fn }
}

// NewDispatcher builds a Dispatcher with NumCPU workers by default.
func NewDispatcher(opts ...Option) *Dispatcher {
	d := &Dispatcher{workers: runtime.NumCPU()}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Workers reports the configured pool size.
func (d *Dispatcher) Workers() int { return d.workers }

// Run solves every problem and returns results indexed like the input.
// A failed item records its error and does not stop the batch. When ctx
// is cancelled, unstarted items fail with ctx.Err().
func (d *Dispatcher) Run(ctx context.Context, problems []model.RoutingRequest, solve SolveFunc) []Result {
	results := make([]Result, len(problems))
	if len(problems) == 0 {
		return results
	}

	workers := d.workers
	if workers > len(problems) {
		workers = len(problems)
	}

	jobs := make(chan int)
	var done int64
	var mu sync.Mutex // serializes progress callbacks

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				r := Result{Index: i}
				if err := ctx.Err(); err != nil {
					r.Err = err
				} else {
					r.Value, r.Err = solve(ctx, problems[i])
				}
				results[i] = r

				n := int(atomic.AddInt64(&done, 1))
				if d.progress != nil {
					mu.Lock()
					d.progress(n, len(problems))
					mu.Unlock()
				}
			}
		}()
	}

	for i := range problems {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}
