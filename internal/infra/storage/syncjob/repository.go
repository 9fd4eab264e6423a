package syncjob

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/psqlbuilder"
)

const table = "sync_jobs"

// claimQuery leases due jobs in one statement so no transaction stays open
// while the worker talks to the CRM. Expired leases are picked up again.
const claimQuery = `
UPDATE sync_jobs
SET status = 'running',
    attempts = attempts + 1,
    locked_until = $1,
    updated_at = NOW()
WHERE id IN (
    SELECT id FROM sync_jobs
    WHERE (status = 'pending' AND next_run_at <= $2)
       OR (status = 'running' AND locked_until < $2)
    ORDER BY next_run_at
    LIMIT $3
    FOR UPDATE SKIP LOCKED
)
RETURNING id, entity_type, entity_id, status, attempts, max_attempts, next_run_at, locked_until, last_error, created_at, updated_at`

// Repository outbox of CRM sync jobs
type Repository struct {
	db DBExecutor
}

func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Enqueue inserts a pending job. If the entity already has a pending job
// nothing is inserted: that job will read the latest local state anyway.
func (r *Repository) Enqueue(ctx context.Context, job *domain.SyncJob) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns("id", "entity_type", "entity_id", "status", "attempts", "max_attempts", "next_run_at").
		Values(job.ID, job.EntityType, job.EntityID, domain.JobPending, 0, job.MaxAttempts, job.NextRunAt).
		Suffix("ON CONFLICT (entity_type, entity_id) WHERE status = 'pending' DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Enqueue - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Enqueue - execute insert: %v", ErrExecQuery, err)
	}
	return nil
}

// ClaimDue leases up to limit due jobs until now+lease
func (r *Repository) ClaimDue(ctx context.Context, now time.Time, lease time.Duration, limit int) ([]*domain.SyncJob, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	rows, err := executor.QueryContext(ctx, claimQuery, now.Add(lease), now, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: ClaimDue - execute update: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	jobs := make([]*domain.SyncJob, 0)
	for rows.Next() {
		var j domain.SyncJob
		if err := rows.Scan(
			&j.ID,
			&j.EntityType,
			&j.EntityID,
			&j.Status,
			&j.Attempts,
			&j.MaxAttempts,
			&j.NextRunAt,
			&j.LockedUntil,
			&j.LastError,
			&j.CreatedAt,
			&j.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: ClaimDue - scan job: %v", ErrScanRow, err)
		}
		jobs = append(jobs, &j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ClaimDue - rows iteration: %v", ErrScanRow, err)
	}
	return jobs, nil
}

// MarkDone finishes a job
func (r *Repository) MarkDone(ctx context.Context, job *domain.SyncJob) error {
	return r.update(ctx, "MarkDone", job, map[string]interface{}{
		"status":       domain.JobDone,
		"locked_until": nil,
		"last_error":   nil,
		"updated_at":   squirrel.Expr("NOW()"),
	})
}

// supersededStatus a job that failed while a newer pending job for the same
// entity was enqueued is closed, the newer one carries the retry
const supersededStatus = `CASE WHEN EXISTS (
    SELECT 1 FROM sync_jobs p
    WHERE p.status = 'pending' AND p.entity_type = sync_jobs.entity_type AND p.entity_id = sync_jobs.entity_id
) THEN 'done' ELSE 'pending' END`

// Reschedule returns a failed attempt to the queue
func (r *Repository) Reschedule(ctx context.Context, job *domain.SyncJob, nextRunAt time.Time, lastErr string) error {
	return r.update(ctx, "Reschedule", job, map[string]interface{}{
		"status":       squirrel.Expr(supersededStatus),
		"next_run_at":  nextRunAt,
		"locked_until": nil,
		"last_error":   lastErr,
		"updated_at":   squirrel.Expr("NOW()"),
	})
}

// MarkFailed gives up on a job
func (r *Repository) MarkFailed(ctx context.Context, job *domain.SyncJob, lastErr string) error {
	return r.update(ctx, "MarkFailed", job, map[string]interface{}{
		"status":       domain.JobFailed,
		"locked_until": nil,
		"last_error":   lastErr,
		"updated_at":   squirrel.Expr("NOW()"),
	})
}

// requeueQuery revives the newest failed job of every entity without a pending job
// and closes the older failed ones, so the pending-per-entity index holds.
const requeueQuery = `
WITH latest AS (
    SELECT DISTINCT ON (entity_type, entity_id) id, entity_type, entity_id
    FROM sync_jobs f
    WHERE f.status = 'failed'
      AND NOT EXISTS (
          SELECT 1 FROM sync_jobs p
          WHERE p.status = 'pending' AND p.entity_type = f.entity_type AND p.entity_id = f.entity_id
      )
    ORDER BY entity_type, entity_id, created_at DESC
), closed AS (
    UPDATE sync_jobs s
    SET status = 'done', updated_at = NOW()
    FROM latest l
    WHERE s.status = 'failed' AND s.entity_type = l.entity_type AND s.entity_id = l.entity_id AND s.id <> l.id
)
UPDATE sync_jobs
SET status = 'pending',
    attempts = 0,
    next_run_at = $1,
    locked_until = NULL,
    updated_at = NOW()
WHERE id IN (SELECT id FROM latest)
RETURNING id, entity_type, entity_id`

// RequeueFailed resets failed jobs to pending with fresh attempts.
// Returns the entities that were requeued.
func (r *Repository) RequeueFailed(ctx context.Context, now time.Time) ([]*domain.SyncJob, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	rows, err := executor.QueryContext(ctx, requeueQuery, now)
	if err != nil {
		return nil, fmt.Errorf("%w: RequeueFailed - execute update: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	jobs := make([]*domain.SyncJob, 0)
	for rows.Next() {
		var j domain.SyncJob
		if err := rows.Scan(&j.ID, &j.EntityType, &j.EntityID); err != nil {
			return nil, fmt.Errorf("%w: RequeueFailed - scan job: %v", ErrScanRow, err)
		}
		j.Status = domain.JobPending
		jobs = append(jobs, &j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: RequeueFailed - rows iteration: %v", ErrScanRow, err)
	}
	return jobs, nil
}

// update applies values only while the job is still held by the claim that
// produced it. Another worker that reclaimed an expired lease bumped attempts.
func (r *Repository) update(ctx context.Context, op string, job *domain.SyncJob, values map[string]interface{}) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		SetMap(values).
		Where(squirrel.Eq{"id": job.ID}).
		Where(squirrel.Eq{"status": domain.JobRunning}).
		Where(squirrel.Eq{"attempts": job.Attempts}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %s - build update query: %v", ErrBuildQuery, op, err)
	}

	res, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, op, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - rows affected: %v", ErrExecQuery, op, err)
	}
	if affected == 0 {
		return ErrLeaseLost
	}
	return nil
}
