package crmsync

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/infra/storage/syncjob"
)

// WorkerConfig polling and retry settings
type WorkerConfig struct {
	PollInterval   time.Duration
	BatchSize      int
	Lease          time.Duration
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	Jitter         float64
}

func (c WorkerConfig) withDefaults() WorkerConfig {
	if c.PollInterval <= 0 {
		c.PollInterval = 2 * time.Second
	}
	if c.BatchSize <= 0 {
		c.BatchSize = 5
	}
	if c.Lease <= 0 {
		c.Lease = 3 * time.Minute
	}
	if c.InitialBackoff <= 0 {
		c.InitialBackoff = 5 * time.Second
	}
	if c.MaxBackoff <= 0 {
		c.MaxBackoff = 30 * time.Minute
	}
	if c.Jitter < 0 {
		c.Jitter = 0
	}
	return c
}

// entityReconciler what the worker needs from Reconciler
type entityReconciler interface {
	Reconcile(ctx context.Context, entityType domain.EntityType, id int64) error
	MarkEntity(ctx context.Context, entityType domain.EntityType, id int64, status domain.SyncStatus) error
}

// Worker drains the sync outbox. It never holds contractor locks or
// database transactions while calling the CRM.
type Worker struct {
	jobs         JobRepository
	reconciler   entityReconciler
	metrics      Metrics
	cfg          WorkerConfig
	timeProvider TimeProvider
	logger       Logger
}

func NewWorker(jobs JobRepository, reconciler entityReconciler, metrics Metrics, cfg WorkerConfig, logger Logger) *Worker {
	return &Worker{
		jobs:         jobs,
		reconciler:   reconciler,
		metrics:      metrics,
		cfg:          cfg.withDefaults(),
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Start polls until ctx is done
func (w *Worker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	w.logger.Info("SyncWorker: started, poll=%s batch=%d", w.cfg.PollInterval, w.cfg.BatchSize)
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("SyncWorker: stopped")
			return
		case <-ticker.C:
			if _, err := w.RunOnce(ctx); err != nil {
				w.logger.Error("SyncWorker: %v", err)
			}
		}
	}
}

// RunOnce processes one batch of due jobs and returns how many were claimed
func (w *Worker) RunOnce(ctx context.Context) (int, error) {
	jobs, err := w.jobs.ClaimDue(ctx, w.timeProvider.Now(), w.cfg.Lease, w.cfg.BatchSize)
	if err != nil {
		return 0, err
	}
	for _, job := range jobs {
		w.process(ctx, job)
	}
	return len(jobs), nil
}

// Drain runs batches until no job is due
func (w *Worker) Drain(ctx context.Context) (int, error) {
	total := 0
	for {
		n, err := w.RunOnce(ctx)
		total += n
		if err != nil || n == 0 {
			return total, err
		}
		if ctx.Err() != nil {
			return total, ctx.Err()
		}
	}
}

// RequeueFailed gives failed jobs a fresh set of attempts
func (w *Worker) RequeueFailed(ctx context.Context) (int, error) {
	jobs, err := w.jobs.RequeueFailed(ctx, w.timeProvider.Now())
	if err != nil {
		return 0, err
	}
	for _, job := range jobs {
		if err := w.reconciler.MarkEntity(ctx, job.EntityType, job.EntityID, domain.SyncPending); err != nil {
			w.logger.Warn("SyncWorker: requeue %s:%d: %v", job.EntityType, job.EntityID, err)
		}
	}
	return len(jobs), nil
}

func (w *Worker) process(ctx context.Context, job *domain.SyncJob) {
	entity := string(job.EntityType)

	// Задачи в конце пачки могли пережить аренду, их уже забрал другой воркер
	if !job.HoldsLease(w.timeProvider.Now()) {
		w.logger.Warn("SyncWorker: lease of job %s expired before processing, skipping", job.ID)
		w.metrics.IncSyncJob(entity, "lease_expired")
		return
	}

	jobCtx, cancel := context.WithDeadline(ctx, *job.LockedUntil)
	err := w.reconciler.Reconcile(jobCtx, job.EntityType, job.EntityID)
	cancel()

	if err == nil {
		w.finish(job, "MarkDone", w.jobs.MarkDone(ctx, job))
		w.metrics.IncSyncJob(entity, "synced")
		return
	}

	if errors.Is(err, ErrEntityNotFound) || errors.Is(err, ErrUnknownEntityType) {
		w.logger.Warn("SyncWorker: dropping job %s: %v", job.ID, err)
		w.finish(job, "MarkFailed", w.jobs.MarkFailed(ctx, job, err.Error()))
		w.metrics.IncSyncJob(entity, "failed")
		return
	}

	if job.Exhausted() {
		w.logger.Error("SyncWorker: %s:%d failed after %d attempts: %v", job.EntityType, job.EntityID, job.Attempts, err)
		if w.finish(job, "MarkFailed", w.jobs.MarkFailed(ctx, job, err.Error())) {
			if err := w.reconciler.MarkEntity(ctx, job.EntityType, job.EntityID, domain.SyncFailed); err != nil {
				w.logger.Error("SyncWorker: %v", err)
			}
		}
		w.metrics.IncSyncJob(entity, "failed")
		return
	}

	next := w.timeProvider.Now().Add(w.RetryDelay(job.Attempts))
	w.logger.Warn("SyncWorker: %s:%d attempt %d/%d failed, retry at %s: %v",
		job.EntityType, job.EntityID, job.Attempts, job.MaxAttempts, next.Format(time.RFC3339), err)
	w.finish(job, "Reschedule", w.jobs.Reschedule(ctx, job, next, err.Error()))
	w.metrics.IncSyncJob(entity, "retry")
}

// finish logs the outcome of a job state update and reports whether it was applied
func (w *Worker) finish(job *domain.SyncJob, op string, err error) bool {
	switch {
	case err == nil:
		return true
	case errors.Is(err, syncjob.ErrLeaseLost):
		w.logger.Warn("SyncWorker: %s job %s: lease taken over by another worker", op, job.ID)
	default:
		w.logger.Error("SyncWorker: %s job %s: %v", op, job.ID, err)
	}
	return false
}

// RetryDelay exponential delay before the attempt after attempt n (1-based)
func (w *Worker) RetryDelay(attempt int) time.Duration {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = w.cfg.InitialBackoff
	b.MaxInterval = w.cfg.MaxBackoff
	b.Multiplier = 2
	b.RandomizationFactor = w.cfg.Jitter
	b.Reset()

	delay := b.InitialInterval
	for i := 0; i < attempt; i++ {
		delay = b.NextBackOff()
	}
	return delay
}
