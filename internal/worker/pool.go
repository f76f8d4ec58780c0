// Package worker runs jobs on a bounded pool of goroutines.
package worker

import (
	"context"
	"sort"
	"sync"
)

// Job represents a unit of work to be executed
type Job interface {
	Execute(ctx context.Context) Result
}

// Result represents the result of a job execution
type Result interface {
	GetError() error
}

// JobFunc adapts a function to the Job interface.
type JobFunc func(ctx context.Context) Result

// Execute calls f.
func (f JobFunc) Execute(ctx context.Context) Result {
	return f(ctx)
}

// ErrResult is the result of a job that failed or never ran.
type ErrResult struct {
	Err error
}

// GetError returns the job error.
func (r *ErrResult) GetError() error {
	return r.Err
}

type queued struct {
	index int
	job   Job
}

type finished struct {
	index  int
	result Result
}

// Pool manages a pool of workers that execute jobs concurrently. Results
// are returned in submission order.
type Pool struct {
	workers    int
	jobQueue   chan queued
	results    chan finished
	wg         sync.WaitGroup
	ctx        context.Context
	cancelFunc context.CancelFunc
	closeOnce  sync.Once
	collected  chan struct{}
	done       []finished

	mu        sync.Mutex
	submitted int
}

// NewPool creates a pool whose jobs run under a child of ctx.
func NewPool(ctx context.Context, workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if ctx == nil {
		ctx = context.Background()
	}

	ctx, cancel := context.WithCancel(ctx)

	p := &Pool{
		workers:    workers,
		jobQueue:   make(chan queued, workers*2),
		results:    make(chan finished, workers*2),
		ctx:        ctx,
		cancelFunc: cancel,
		collected:  make(chan struct{}),
	}
	go p.collect()
	return p
}

// Start starts the worker pool
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

// collect drains results as they arrive so that workers never block on a
// full results channel while Submit is still feeding the queue.
func (p *Pool) collect() {
	defer close(p.collected)
	for f := range p.results {
		p.done = append(p.done, f)
	}
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case q, ok := <-p.jobQueue:
			if !ok {
				return
			}
			var res Result
			if err := p.ctx.Err(); err != nil {
				res = &ErrResult{Err: err}
			} else {
				res = q.job.Execute(p.ctx)
			}
			select {
			case p.results <- finished{index: q.index, result: res}:
			case <-p.ctx.Done():
				return
			}
		}
	}
}

// Submit queues a job. It returns false if the pool was cancelled first;
// the job's slot then reports the cancellation error.
func (p *Pool) Submit(job Job) bool {
	p.mu.Lock()
	idx := p.submitted
	p.submitted++
	p.mu.Unlock()

	select {
	case <-p.ctx.Done():
		return false
	case p.jobQueue <- queued{index: idx, job: job}:
		return true
	}
}

// Wait closes the queue, waits for the workers and returns one result per
// submitted job, in submission order. Jobs that never produced a result
// are reported as ErrResult with the context error.
func (p *Pool) Wait() []Result {
	close(p.jobQueue)
	p.wg.Wait()
	p.closeResults()
	<-p.collected

	done := p.done
	sort.Slice(done, func(i, j int) bool { return done[i].index < done[j].index })

	p.mu.Lock()
	n := p.submitted
	p.mu.Unlock()

	out := make([]Result, n)
	for _, f := range done {
		out[f.index] = f.result
	}
	for i := range out {
		if out[i] == nil {
			err := p.ctx.Err()
			if err == nil {
				err = context.Canceled
			}
			out[i] = &ErrResult{Err: err}
		}
	}
	p.cancelFunc()
	return out
}

// Shutdown shuts down the worker pool immediately
func (p *Pool) Shutdown() {
	p.cancelFunc()
	p.wg.Wait()
	p.closeResults()
}

func (p *Pool) closeResults() {
	p.closeOnce.Do(func() {
		close(p.results)
	})
}

// Run executes jobs on a fresh pool and returns their results in order.
func Run(ctx context.Context, workers int, jobs []Job) []Result {
	if len(jobs) == 0 {
		return []Result{}
	}
	if workers > len(jobs) {
		workers = len(jobs)
	}
	pool := NewPool(ctx, workers)
	pool.Start()
	for _, j := range jobs {
		pool.Submit(j)
	}
	return pool.Wait()
}
