package appointment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/pgerr"
	"github.com/m04kA/SMC-SchedulingService/pkg/psqlbuilder"
)

const table = "appointments"

var columns = []string{
	"id",
	"contractor_id",
	"client_id",
	"service_id",
	"appointment_date",
	"start_time",
	"end_time",
	"preparation_minutes",
	"cleanup_minutes",
	"buffer_minutes",
	"status",
	"total_price",
	"deposit_amount",
	"remaining_balance",
	"late_fees",
	"refund_amount",
	"forfeited_amount",
	"balance_due",
	"late_cancellation",
	"notes",
	"status_notes",
	"confirmed_at",
	"started_at",
	"completed_at",
	"cancelled_at",
	"no_show_at",
	"hubspot_object_id",
	"hubspot_sync_status",
	"hubspot_last_sync",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с записями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create inserts the appointment with its blocked range.
// Overlap with another active appointment of the contractor is reported as ErrOverlap.
func (r *Repository) Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)
	blocked := a.BlockedInterval()

	query, args, err := psqlbuilder.Insert(table).
		Columns(
			"contractor_id",
			"client_id",
			"service_id",
			"appointment_date",
			"start_time",
			"end_time",
			"preparation_minutes",
			"cleanup_minutes",
			"buffer_minutes",
			"blocked_start",
			"blocked_end",
			"status",
			"total_price",
			"deposit_amount",
			"remaining_balance",
			"late_fees",
			"notes",
			"confirmed_at",
			"hubspot_sync_status",
		).
		Values(
			a.ContractorID,
			a.ClientID,
			a.ServiceID,
			a.AppointmentDate,
			a.StartTime,
			a.EndTime,
			a.PreparationMinutes,
			a.CleanupMinutes,
			a.BufferMinutes,
			blocked.Start,
			blocked.End,
			a.Status,
			a.TotalPrice,
			nullDecimal(a.DepositAmount),
			a.RemainingBalance,
			a.LateFees,
			a.Notes,
			a.ConfirmedAt,
			domain.SyncPending,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if pgerr.IsExclusionViolation(err) {
			return nil, ErrOverlap
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	a.HubspotSyncStatus = domain.SyncPending
	return a, nil
}

// GetByID получает запись по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	a, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan appointment: %v", ErrScanRow, err)
	}
	return a, nil
}

// ListActiveOverlapping returns active appointments of the contractor whose blocked
// range intersects [from, to). Inside a transaction the rows are locked.
func (r *Repository) ListActiveOverlapping(ctx context.Context, contractorID int64, from, to time.Time) ([]*domain.Appointment, error) {
	builder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"contractor_id": contractorID}).
		Where(squirrel.Eq{"status": statusStrings(domain.ActiveStatuses)}).
		Where(squirrel.Lt{"blocked_start": to}).
		Where(squirrel.Gt{"blocked_end": from}).
		OrderBy("start_time")

	if dbmetrics.IsInTransaction(ctx) {
		builder = builder.Suffix("FOR UPDATE")
	}

	return r.list(ctx, "ListActiveOverlapping", builder)
}

// List returns appointments matching the filter ordered by start time
func (r *Repository) List(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	builder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"contractor_id": filter.ContractorID}).
		OrderBy("start_time")

	if filter.From != nil {
		builder = builder.Where(squirrel.GtOrEq{"start_time": *filter.From})
	}
	if filter.To != nil {
		builder = builder.Where(squirrel.Lt{"start_time": *filter.To})
	}
	if len(filter.Statuses) > 0 {
		builder = builder.Where(squirrel.Eq{"status": statusStrings(filter.Statuses)})
	}

	return r.list(ctx, "List", builder)
}

// UpdateStatus persists a transition only if the stored status still equals expected.
// The CRM mirror is marked PENDING in the same statement.
func (r *Repository) UpdateStatus(ctx context.Context, a *domain.Appointment, expected domain.AppointmentStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("status", a.Status).
		Set("remaining_balance", a.RemainingBalance).
		Set("refund_amount", a.RefundAmount).
		Set("forfeited_amount", a.ForfeitedAmount).
		Set("balance_due", a.BalanceDue).
		Set("late_cancellation", a.LateCancellation).
		Set("status_notes", a.StatusNotes).
		Set("confirmed_at", a.ConfirmedAt).
		Set("started_at", a.StartedAt).
		Set("completed_at", a.CompletedAt).
		Set("cancelled_at", a.CancelledAt).
		Set("no_show_at", a.NoShowAt).
		Set("hubspot_sync_status", domain.SyncPending).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": a.ID, "status": expected}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrStaleStatus
	}
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %w", ErrExecQuery, err)
	}

	a.HubspotSyncStatus = domain.SyncPending
	return nil
}

func (r *Repository) list(ctx context.Context, op string, builder squirrel.SelectBuilder) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute select: %w", ErrExecQuery, op, err)
	}
	defer rows.Close()

	appointments := make([]*domain.Appointment, 0)
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan appointment: %v", ErrScanRow, op, err)
		}
		appointments = append(appointments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows iteration: %v", ErrScanRow, op, err)
	}

	return appointments, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanAppointment(row scanner) (*domain.Appointment, error) {
	var a domain.Appointment
	var deposit decimal.NullDecimal

	err := row.Scan(
		&a.ID,
		&a.ContractorID,
		&a.ClientID,
		&a.ServiceID,
		&a.AppointmentDate,
		&a.StartTime,
		&a.EndTime,
		&a.PreparationMinutes,
		&a.CleanupMinutes,
		&a.BufferMinutes,
		&a.Status,
		&a.TotalPrice,
		&deposit,
		&a.RemainingBalance,
		&a.LateFees,
		&a.RefundAmount,
		&a.ForfeitedAmount,
		&a.BalanceDue,
		&a.LateCancellation,
		&a.Notes,
		&a.StatusNotes,
		&a.ConfirmedAt,
		&a.StartedAt,
		&a.CompletedAt,
		&a.CancelledAt,
		&a.NoShowAt,
		&a.HubspotObjectID,
		&a.HubspotSyncStatus,
		&a.HubspotLastSync,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if deposit.Valid {
		a.DepositAmount = &deposit.Decimal
	}
	return &a, nil
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(*d)
}

func statusStrings(statuses []domain.AppointmentStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
