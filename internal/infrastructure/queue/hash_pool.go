package queue

import (
	"context"
	"errors"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/accounthub/account-service/internal/pkg/metrics"
)

const channelBuffer = 256

// ErrPoolClosed is returned by Do once Stop has been called.
var ErrPoolClosed = errors.New("hash pool closed")

type job struct {
	ctx  context.Context
	run  func()
	// done receives nil once run has returned, or the ctx error when the job was skipped.
	done chan error
}

// HashPool runs password hashing jobs on a fixed set of workers so that a
// burst of signups or logins cannot occupy every CPU of the process.
type HashPool struct {
	jobs    chan job
	workers int
	log     zerolog.Logger

	stopOnce sync.Once
	quit     chan struct{}
	wg       sync.WaitGroup
}

// NewHashPool creates a pool with numWorkers workers.
// If numWorkers <= 0, runtime.NumCPU() is used.
func NewHashPool(numWorkers int, log zerolog.Logger) *HashPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &HashPool{
		jobs:    make(chan job, channelBuffer),
		workers: numWorkers,
		log:     log,
		quit:    make(chan struct{}),
	}
}

// Workers returns the number of worker goroutines.
func (p *HashPool) Workers() int { return p.workers }

// Start launches the worker goroutines. Workers stop on Stop or when ctx is cancelled.
func (p *HashPool) Start(ctx context.Context) {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.runWorker(ctx, i)
	}
	p.log.Info().Int("workers", p.workers).Msg("hash pool started")
}

// Stop signals the workers to exit and waits for queued jobs to be drained.
// Callers must not submit new jobs after Stop.
func (p *HashPool) Stop() {
	p.stopOnce.Do(func() { close(p.quit) })
	p.wg.Wait()
}

// Do queues fn and blocks until a worker has run it or ctx is done.
// A job whose ctx is already done when a worker picks it up is skipped and
// Do reports the ctx error.
func (p *HashPool) Do(ctx context.Context, fn func()) error {
	select {
	case <-p.quit:
		return ErrPoolClosed
	default:
	}

	j := job{ctx: ctx, run: fn, done: make(chan error, 1)}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-p.quit:
		return ErrPoolClosed
	case p.jobs <- j:
		metrics.HashQueueDepth.Set(float64(len(p.jobs)))
	}

	select {
	case err := <-j.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *HashPool) runWorker(ctx context.Context, id int) {
	defer p.wg.Done()
	worker := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			p.drain(worker)
			return
		case <-p.quit:
			p.drain(worker)
			return
		case j := <-p.jobs:
			metrics.HashQueueDepth.Set(float64(len(p.jobs)))
			p.execute(j, worker)
		}
	}
}

// drain runs whatever is still queued so no caller is left waiting.
func (p *HashPool) drain(worker string) {
	for {
		select {
		case j := <-p.jobs:
			p.execute(j, worker)
		default:
			return
		}
	}
}

func (p *HashPool) execute(j job, worker string) {
	if err := j.ctx.Err(); err != nil {
		j.done <- err
		return
	}

	start := time.Now()
	defer func() {
		metrics.HashDuration.Observe(time.Since(start).Seconds())
		if r := recover(); r != nil {
			p.log.Error().Interface("panic", r).Str("worker_id", worker).Msg("hash job panicked")
		}
		j.done <- nil
	}()
	j.run()
}
