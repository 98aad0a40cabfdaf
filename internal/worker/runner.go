// Package worker runs postcard renders on a bounded pool of goroutines. Each
// render drives a headless browser, so the pool size caps how many browser
// processes can exist at once. The api package never imports the concrete
// Runner: it depends on the postcard service, which holds a worker.Submitter.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// ErrStopped is returned by Do when the Runner is shutting down.
var ErrStopped = errors.New("worker: runner stopped")

// Task is one unit of work. The context carries the per-task deadline.
type Task func(ctx context.Context) error

// ─── SUBMITTER INTERFACE ──────────────────────────────────────────────────────

// Submitter is the narrow interface the postcard service uses to hand off a
// render. The concrete implementation is *Runner. In tests, any struct with a
// Do method satisfies the interface.
type Submitter interface {
	Do(ctx context.Context, task Task) error
}

// ─── RUNNER ───────────────────────────────────────────────────────────────────

// RunnerConfig holds tuning parameters for the Runner. Zero-valued fields are
// replaced by DefaultRunnerConfig values.
type RunnerConfig struct {
	// Workers is the number of concurrent task goroutines. Default: 2.
	Workers int

	// JobTimeout is the per-task context deadline. Default: 60s.
	JobTimeout time.Duration

	// QueueSize is how many tasks may wait for a free worker. Default:
	// Workers*4. A full queue makes Do wait rather than fail.
	QueueSize int
}

// DefaultRunnerConfig returns safe production defaults.
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		Workers:    2,
		JobTimeout: 60 * time.Second,
	}
}

type job struct {
	ctx    context.Context
	task   Task
	result chan error
}

// Runner manages a fixed pool of worker goroutines fed by an in-process
// channel. Do blocks the caller until its task has run, so HTTP handlers keep
// their synchronous request/response shape.
type Runner struct {
	cfg    RunnerConfig
	logger *slog.Logger

	queue   chan job
	done    chan struct{} // closed when shutdown begins
	stopped chan struct{} // closed after the queue has been drained
	once    sync.Once
	wg      sync.WaitGroup
}

// NewRunner constructs a Runner. Call Start to begin processing.
func NewRunner(cfg RunnerConfig, logger *slog.Logger) *Runner {
	def := DefaultRunnerConfig()
	if cfg.Workers <= 0 {
		cfg.Workers = def.Workers
	}
	if cfg.JobTimeout <= 0 {
		cfg.JobTimeout = def.JobTimeout
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = cfg.Workers * 4
	}

	return &Runner{
		cfg:    cfg,
		logger: logger,
		queue:   make(chan job, cfg.QueueSize),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

// Do queues task and waits for it to finish. It returns the task's error,
// ctx.Err() if the caller gives up first, or ErrStopped during shutdown.
func (r *Runner) Do(ctx context.Context, task Task) error {
	select {
	case <-r.done:
		return ErrStopped
	default:
	}

	j := job{ctx: ctx, task: task, result: make(chan error, 1)}
	select {
	case r.queue <- j:
	case <-ctx.Done():
		return ctx.Err()
	case <-r.done:
		return ErrStopped
	}

	return r.await(ctx, j)
}

// await waits for j's result. A job that lands in the queue after drain has
// run gets no result, so once the Runner has stopped await returns ErrStopped.
func (r *Runner) await(ctx context.Context, j job) error {
	select {
	case err := <-j.result:
		return err
	case <-ctx.Done():
		// The worker still finishes; it sees the cancelled context.
		return ctx.Err()
	case <-r.stopped:
		select {
		case err := <-j.result:
			return err
		default:
			return ErrStopped
		}
	}
}

// Start launches the worker pool. It blocks until ctx is cancelled and every
// in-flight task has returned. Call it in a goroutine from main:
//
//	go runner.Start(ctx)
func (r *Runner) Start(ctx context.Context) {
	r.logger.Info("worker: starting", "workers", r.cfg.Workers, "job_timeout", r.cfg.JobTimeout)

	for i := range r.cfg.Workers {
		r.wg.Add(1)
		go r.work(ctx, i)
	}

	<-ctx.Done()
	r.once.Do(func() { close(r.done) })
	r.wg.Wait()
	r.drain()
	close(r.stopped)
	r.logger.Info("worker: stopped")
}

// work is the inner loop for each worker goroutine.
func (r *Runner) work(ctx context.Context, id int) {
	defer r.wg.Done()
	log := r.logger.With("worker_id", id)
	log.Debug("worker: goroutine started")

	for {
		select {
		case <-ctx.Done():
			log.Debug("worker: goroutine stopping")
			return
		case j := <-r.queue:
			j.result <- r.run(j, log)
		}
	}
}

// run executes one task under JobTimeout, converting a panic into an error so
// one bad render cannot take the pool down.
func (r *Runner) run(j job, log *slog.Logger) (err error) {
	if err := j.ctx.Err(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(j.ctx, r.cfg.JobTimeout)
	defer cancel()

	defer func() {
		if p := recover(); p != nil {
			log.Error("worker: task panicked", "panic", p)
			err = fmt.Errorf("worker: task panicked: %v", p)
		}
	}()

	start := time.Now()
	err = j.task(ctx)
	log.Debug("worker: task finished", "duration", time.Since(start), "error", err)
	return err
}

// drain fails any task still queued after the workers exit.
func (r *Runner) drain() {
	for {
		select {
		case j := <-r.queue:
			j.result <- ErrStopped
		default:
			return
		}
	}
}
