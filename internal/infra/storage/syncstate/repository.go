// Package syncstate updates the hubspot_* bookkeeping columns shared by the
// mirrored tables.
package syncstate

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/psqlbuilder"
)

// Repository sync state of one table, rows addressed by keyColumn
type Repository struct {
	db        DBExecutor
	table     string
	keyColumn string
}

func NewRepository(db DBExecutor, table, keyColumn string) *Repository {
	return &Repository{db: db, table: table, keyColumn: keyColumn}
}

// ForAppointments appointments are addressed by id
func ForAppointments(db DBExecutor) *Repository {
	return NewRepository(db, "appointments", "id")
}

// ForScheduleConfigs configs are addressed by contractor_id
func ForScheduleConfigs(db DBExecutor) *Repository {
	return NewRepository(db, "schedule_configs", "contractor_id")
}

// ForScheduleServices services are addressed by id
func ForScheduleServices(db DBExecutor) *Repository {
	return NewRepository(db, "schedule_services", "id")
}

// MarkSynced stores the remote id. SYNCED is set only while the row still has
// the version that was pushed: a later change keeps PENDING for its own job.
func (r *Repository) MarkSynced(ctx context.Context, key int64, remoteID string, at, version time.Time) error {
	return r.update(ctx, "MarkSynced", key, map[string]interface{}{
		"hubspot_object_id":   remoteID,
		"hubspot_sync_status": squirrel.Expr("CASE WHEN updated_at = ? THEN ? ELSE hubspot_sync_status END", version, domain.SyncSynced),
		"hubspot_last_sync":   squirrel.Expr("CASE WHEN updated_at = ? THEN ? ELSE hubspot_last_sync END", version, at),
	})
}

// MarkStatus sets PENDING or FAILED keeping the remote id
func (r *Repository) MarkStatus(ctx context.Context, key int64, status domain.SyncStatus) error {
	return r.update(ctx, "MarkStatus", key, map[string]interface{}{
		"hubspot_sync_status": status,
	})
}

// ClearRemoteID forgets a remote id the CRM no longer knows
func (r *Repository) ClearRemoteID(ctx context.Context, key int64) error {
	return r.update(ctx, "ClearRemoteID", key, map[string]interface{}{
		"hubspot_object_id":   nil,
		"hubspot_sync_status": domain.SyncPending,
	})
}

func (r *Repository) update(ctx context.Context, op string, key int64, values map[string]interface{}) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(r.table).
		SetMap(values).
		Where(squirrel.Eq{r.keyColumn: key}).
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
		return ErrRecordNotFound
	}
	return nil
}
