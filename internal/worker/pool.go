package worker

import (
	"context"
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

type task struct {
	index int
	job   Job
}

type outcome struct {
	index  int
	result Result
}

// Pool manages a pool of workers that execute jobs concurrently.
// Results are returned in submission order.
type Pool struct {
	workers    int
	jobQueue   chan task
	results    chan outcome
	wg         sync.WaitGroup
	ctx        context.Context
	cancelFunc context.CancelFunc

	mu        sync.Mutex
	submitted int
}

// NewPool creates a new worker pool with the specified number of workers.
// Cancelling ctx stops the workers.
func NewPool(ctx context.Context, workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}

	ctx, cancel := context.WithCancel(ctx)

	return &Pool{
		workers:    workers,
		jobQueue:   make(chan task, workers*2),
		results:    make(chan outcome, workers*2),
		ctx:        ctx,
		cancelFunc: cancel,
	}
}

// Run starts the workers, executes jobs and returns their results in
// submission order. Jobs dropped because ctx was cancelled leave a nil entry.
// A pool runs once.
func (p *Pool) Run(jobs []Job) []Result {
	defer p.cancelFunc()

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}

	// Submission and collection overlap so any number of jobs can be run
	go func() {
		for _, job := range jobs {
			if !p.submit(job) {
				break
			}
		}
		close(p.jobQueue)
	}()

	go func() {
		p.wg.Wait()
		close(p.results)
	}()

	var outcomes []outcome
	for o := range p.results {
		outcomes = append(outcomes, o)
	}

	p.mu.Lock()
	results := make([]Result, p.submitted)
	p.mu.Unlock()

	for _, o := range outcomes {
		results[o.index] = o.result
	}
	return results
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case t, ok := <-p.jobQueue:
			if !ok {
				return
			}
			result := t.job.Execute(p.ctx)
			select {
			case p.results <- outcome{index: t.index, result: result}:
			case <-p.ctx.Done():
				return
			}
		}
	}
}

// submit queues a job. It returns false once the pool's context is done.
func (p *Pool) submit(job Job) bool {
	if p.ctx.Err() != nil {
		return false
	}

	p.mu.Lock()
	index := p.submitted
	p.submitted++
	p.mu.Unlock()

	select {
	case <-p.ctx.Done():
		return false
	case p.jobQueue <- task{index: index, job: job}:
		return true
	}
}
