// Package delivery drains the submission outbox with retry support.
package delivery

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/joeblew999/plat-fonts/pkg/queue"
	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/core/rescue"
	"github.com/zeromicro/go-zero/core/syncx"
	"github.com/zeromicro/go-zero/core/threading"
	"golang.org/x/time/rate"
)

// Config holds delivery engine configuration.
type Config struct {
	MaxRetries   int
	RetryBackoff time.Duration
	MaxBackoff   time.Duration
	RateLimit    int           // submissions per minute
	Lease        time.Duration // how long a received job stays invisible to other workers
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxRetries:   3,
		RetryBackoff: 30 * time.Second,
		MaxBackoff:   30 * time.Minute,
		RateLimit:    120,
		Lease:        30 * time.Second,
	}
}

// Engine delivers queued catalog submissions to a Sink.
type Engine struct {
	config      Config
	queue       *queue.Queue
	sink        Sink
	rateLimiter *rate.Limiter
	running     *syncx.AtomicBool

	ctx    context.Context
	cancel context.CancelFunc
	group  *threading.RoutineGroup
}

// NewEngine creates a new delivery engine.
func NewEngine(q *queue.Queue, sink Sink, cfg Config) *Engine {
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = DefaultConfig().RateLimit
	}
	limiter := rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RateLimit)), 1)

	ctx, cancel := context.WithCancel(context.Background())

	return &Engine{
		config:      cfg,
		queue:       q,
		sink:        sink,
		rateLimiter: limiter,
		running:     syncx.NewAtomicBool(),
		ctx:         ctx,
		cancel:      cancel,
		group:       threading.NewRoutineGroup(),
	}
}

// Start starts the engine with the specified number of workers.
func (e *Engine) Start(workers int) {
	if !e.running.CompareAndSwap(false, true) {
		return
	}

	logx.Infow("Delivery engine started", logx.Field("workers", workers))
	for i := 0; i < workers; i++ {
		e.group.RunSafe(e.worker)
	}
}

// Stop gracefully stops the engine.
func (e *Engine) Stop() {
	if !e.running.CompareAndSwap(true, false) {
		return
	}

	logx.Info("Delivery engine stopping, waiting for workers")
	e.cancel()
	e.group.Wait()
	logx.Info("Delivery engine stopped")
}

func (e *Engine) worker() {
	const minBackoff = 100 * time.Millisecond
	const maxBackoff = 5 * time.Second
	backoff := minBackoff

	idle := func() bool {
		select {
		case <-e.ctx.Done():
			return false
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, maxBackoff)
		return true
	}

	for {
		select {
		case <-e.ctx.Done():
			return
		default:
		}

		job, err := e.queue.Receive(e.ctx)
		if err != nil {
			if !idle() {
				return
			}
			continue
		}
		if job == nil {
			e.updateQueueDepth()
			if !idle() {
				return
			}
			continue
		}

		backoff = minBackoff
		e.processJob(job)
	}
}

// ProcessNext receives and processes a single job. It reports whether a
// job was found.
func (e *Engine) ProcessNext(ctx context.Context) (bool, error) {
	job, err := e.queue.Receive(ctx)
	if err != nil || job == nil {
		return false, err
	}
	e.processJob(job)
	return true, nil
}

func (e *Engine) processJob(job *queue.SubmissionJob) {
	ctx := logx.ContextWithFields(e.ctx,
		logx.Field("submission_id", job.ID),
		logx.Field("theme", job.Theme),
		logx.Field("families", job.Families),
		logx.Field("sequence", job.Sequence),
	)

	defer rescue.RecoverCtx(ctx, func() {
		submissionsFailed.Inc(job.Theme, "panic")
		_ = e.queue.MarkFailed(ctx, job, errors.New("panic during delivery"))
	})

	logx.WithContext(ctx).Info("Delivering catalog submission")

	start := time.Now()

	if err := e.rateLimiter.Wait(ctx); err != nil {
		e.handleError(ctx, job, err)
		return
	}

	if e.config.Lease > 0 {
		if err := e.queue.Extend(ctx, job, e.config.Lease); err != nil {
			logx.WithContext(ctx).Errorf("Failed to extend submission lease: %v", err)
		}
	}

	sub := job.Submission
	sub.Sequence = job.Sequence
	if err := e.sink.Deliver(ctx, job.Theme, sub); err != nil {
		e.handleError(ctx, job, err)
		return
	}

	if err := e.queue.MarkDelivered(ctx, job); err != nil {
		logx.WithContext(ctx).Errorf("Failed to mark submission delivered: %v", err)
	}
	submissionsDelivered.Inc(job.Theme)
	deliveryDuration.ObserveFloat(time.Since(start).Seconds(), job.Theme)
	e.recordEvent(job.ID, "delivered", "")

	logx.WithContext(ctx).Info("Catalog submission delivered")
}

func (e *Engine) handleError(ctx context.Context, job *queue.SubmissionJob, err error) {
	attempts := job.Attempts + 1
	maxAttempts := job.MaxAttempts
	if e.config.MaxRetries > 0 && e.config.MaxRetries < maxAttempts {
		maxAttempts = e.config.MaxRetries
	}

	reason := "transient"
	if IsPermanent(err) {
		reason = "permanent"
	}

	if IsPermanent(err) || attempts >= maxAttempts {
		if markErr := e.queue.MarkFailed(ctx, job, err); markErr != nil {
			logx.WithContext(ctx).Errorf("Failed to mark submission failed: %v", markErr)
		}
		submissionsFailed.Inc(job.Theme, reason)
		e.recordEvent(job.ID, "failed", err.Error())
		logx.WithContext(ctx).Errorf("Catalog submission failed permanently: %v", err)
		return
	}

	job.Attempts = attempts
	backoff := e.calculateBackoff(attempts)
	if markErr := e.queue.MarkRetry(ctx, job, backoff, err); markErr != nil {
		logx.WithContext(ctx).Errorf("Failed to schedule retry: %v", markErr)
		return
	}
	submissionsRetried.Inc(job.Theme)
	e.recordEvent(job.ID, "retry", fmt.Sprintf("attempt %d, backoff %s: %v", attempts, backoff, err))

	logx.WithContext(ctx).Infof("Catalog submission retrying in %s: %v", backoff, err)
}

func (e *Engine) calculateBackoff(attempts int) time.Duration {
	backoff := e.config.RetryBackoff * time.Duration(math.Pow(2, float64(attempts-1)))
	if backoff > e.config.MaxBackoff {
		return e.config.MaxBackoff
	}
	return backoff
}

func (e *Engine) recordEvent(id, eventType, details string) {
	if e.queue.Events != nil {
		e.queue.Events.RecordEvent(id, eventType, details)
	}
}

func (e *Engine) updateQueueDepth() {
	stats, err := e.queue.Stats(e.ctx)
	if err != nil {
		return
	}
	for status, count := range stats {
		queueDepth.Set(float64(count), status)
	}
}
