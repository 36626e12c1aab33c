package kafka

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
)

type Job func(ctx context.Context) error

type Pool struct {
	workers  int
	jobs     chan Job
	queueLen atomic.Int64
	wg       sync.WaitGroup
	ctx      context.Context
	cancel   context.CancelFunc
	logger   zerolog.Logger
}

func NewPool(ctx context.Context, workers int, queueSize int, logger zerolog.Logger) *Pool {
	pCtx, cancel := context.WithCancel(ctx)
	p := &Pool{
		workers: workers,
		jobs:    make(chan Job, queueSize),
		ctx:     pCtx,
		cancel:  cancel,
		logger:  logger,
	}

	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.runWorker()
	}
	return p
}

func (p *Pool) runWorker() {
	defer p.wg.Done()
	for job := range p.jobs {
		if err := job(p.ctx); err != nil {
			p.logger.Warn().Err(err).Msg("job failed")
		}
		p.queueLen.Add(-1)
	}
}

func (p *Pool) Submit(job Job) {
	p.queueLen.Add(1)
	p.jobs <- job
}

func (p *Pool) QueueLen() int {
	return int(p.queueLen.Load())
}

func (p *Pool) Capacity() int {
	return cap(p.jobs)
}

// Shutdown stops accepting jobs and waits for in-flight ones to finish.
func (p *Pool) Shutdown() {
	close(p.jobs)
	p.wg.Wait()
	p.cancel()
}
