package worker

import (
	"context"
	"sync"

	"github.com/pavelc4/clipgrab-bot/pkg/logger"
)

type Job func(ctx context.Context) error

// Pool runs jobs on a fixed number of goroutines. Submit blocks while the
// queue is full.
type Pool struct {
	maxWorkers int
	jobs       chan Job
	ctx        context.Context
	wg         sync.WaitGroup
	stopped    bool
	mu         sync.Mutex
}

// NewPool starts maxWorkers workers. Jobs receive ctx.
func NewPool(ctx context.Context, maxWorkers int) *Pool {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	p := &Pool{
		maxWorkers: maxWorkers,
		jobs:       make(chan Job, maxWorkers*2),
		ctx:        ctx,
	}
	p.start()
	return p
}

func (p *Pool) start() {
	for i := 0; i < p.maxWorkers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()
	for job := range p.jobs {
		if err := job(p.ctx); err != nil {
			logger.Warn("Job failed", "worker", id, "error", err)
		}
	}
}

// Submit queues job. It returns false when the pool is stopped or ctx ends
// before there is room.
func (p *Pool) Submit(ctx context.Context, job Job) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopped {
		return false
	}

	select {
	case p.jobs <- job:
		return true
	case <-ctx.Done():
		return false
	}
}

// Stop waits for queued jobs to finish.
func (p *Pool) Stop() {
	p.mu.Lock()
	if !p.stopped {
		close(p.jobs)
		p.stopped = true
	}
	p.mu.Unlock()

	p.wg.Wait()
}
