package schedule

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/psqlbuilder"
)

var configColumns = []string{
	"id",
	"contractor_id",
	"timezone",
	"working_hours",
	"buffer_minutes",
	"advance_booking_days",
	"minimum_notice_hours",
	"is_accepting_bookings",
	"auto_confirm_bookings",
	"requires_deposit",
	"deposit_percentage",
	"cancellation_policy",
	"blackout_dates",
	"unavailable_windows",
	"hubspot_object_id",
	"hubspot_sync_status",
	"hubspot_last_sync",
	"created_at",
	"updated_at",
}

// Repository configs and services of contractors.
// JSON columns are decoded here once, callers only see typed values.
// JSON is sent as text: lib/pq would encode []byte as bytea.
type Repository struct {
	db DBExecutor
}

func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetConfig получает конфигурацию подрядчика
func (r *Repository) GetConfig(ctx context.Context, contractorID int64) (*domain.ScheduleConfig, error) {
	return r.getConfig(ctx, "GetConfig", contractorID, false)
}

// GetConfigForUpdate locks the configuration row for the rest of the transaction.
// Booking commits for one contractor queue up on this row.
func (r *Repository) GetConfigForUpdate(ctx context.Context, contractorID int64) (*domain.ScheduleConfig, error) {
	return r.getConfig(ctx, "GetConfigForUpdate", contractorID, dbmetrics.IsInTransaction(ctx))
}

func (r *Repository) getConfig(ctx context.Context, op string, contractorID int64, lock bool) (*domain.ScheduleConfig, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(configColumns...).
		From("schedule_configs").
		Where(squirrel.Eq{"contractor_id": contractorID})
	if lock {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	cfg, err := scanConfig(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrConfigNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan config: %v", ErrScanRow, op, err)
	}
	return cfg, nil
}

// UpsertConfig creates or replaces the contractor's configuration and marks it for sync
func (r *Repository) UpsertConfig(ctx context.Context, cfg *domain.ScheduleConfig) (*domain.ScheduleConfig, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	workingHours, err := json.Marshal(cfg.WorkingHours)
	if err != nil {
		return nil, fmt.Errorf("%w: working_hours: %v", ErrEncoding, err)
	}
	policy, err := json.Marshal(cfg.CancellationPolicy)
	if err != nil {
		return nil, fmt.Errorf("%w: cancellation_policy: %v", ErrEncoding, err)
	}
	blackouts, err := json.Marshal(nonNil(cfg.BlackoutDates))
	if err != nil {
		return nil, fmt.Errorf("%w: blackout_dates: %v", ErrEncoding, err)
	}
	windows, err := json.Marshal(nonNil(cfg.UnavailableWindows))
	if err != nil {
		return nil, fmt.Errorf("%w: unavailable_windows: %v", ErrEncoding, err)
	}

	query, args, err := psqlbuilder.Insert("schedule_configs").
		Columns(
			"contractor_id",
			"timezone",
			"working_hours",
			"buffer_minutes",
			"advance_booking_days",
			"minimum_notice_hours",
			"is_accepting_bookings",
			"auto_confirm_bookings",
			"requires_deposit",
			"deposit_percentage",
			"cancellation_policy",
			"blackout_dates",
			"unavailable_windows",
			"hubspot_sync_status",
		).
		Values(
			cfg.ContractorID,
			cfg.Timezone,
			string(workingHours),
			cfg.BufferMinutes,
			cfg.AdvanceBookingDays,
			cfg.MinimumNoticeHours,
			cfg.IsAcceptingBookings,
			cfg.AutoConfirmBookings,
			cfg.RequiresDeposit,
			cfg.DepositPercentage,
			string(policy),
			string(blackouts),
			string(windows),
			domain.SyncPending,
		).
		Suffix(`ON CONFLICT (contractor_id) DO UPDATE SET
			timezone = EXCLUDED.timezone,
			working_hours = EXCLUDED.working_hours,
			buffer_minutes = EXCLUDED.buffer_minutes,
			advance_booking_days = EXCLUDED.advance_booking_days,
			minimum_notice_hours = EXCLUDED.minimum_notice_hours,
			is_accepting_bookings = EXCLUDED.is_accepting_bookings,
			auto_confirm_bookings = EXCLUDED.auto_confirm_bookings,
			requires_deposit = EXCLUDED.requires_deposit,
			deposit_percentage = EXCLUDED.deposit_percentage,
			cancellation_policy = EXCLUDED.cancellation_policy,
			blackout_dates = EXCLUDED.blackout_dates,
			unavailable_windows = EXCLUDED.unavailable_windows,
			hubspot_sync_status = EXCLUDED.hubspot_sync_status,
			updated_at = NOW()
		RETURNING id, hubspot_object_id, hubspot_last_sync, created_at, updated_at`).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: UpsertConfig - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&cfg.ID,
		&cfg.HubspotObjectID,
		&cfg.HubspotLastSync,
		&cfg.CreatedAt,
		&cfg.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: UpsertConfig - execute insert: %v", ErrExecQuery, err)
	}

	cfg.HubspotSyncStatus = domain.SyncPending
	return cfg, nil
}

func scanConfig(row scanner) (*domain.ScheduleConfig, error) {
	var cfg domain.ScheduleConfig
	var workingHours, policy, blackouts, windows []byte

	err := row.Scan(
		&cfg.ID,
		&cfg.ContractorID,
		&cfg.Timezone,
		&workingHours,
		&cfg.BufferMinutes,
		&cfg.AdvanceBookingDays,
		&cfg.MinimumNoticeHours,
		&cfg.IsAcceptingBookings,
		&cfg.AutoConfirmBookings,
		&cfg.RequiresDeposit,
		&cfg.DepositPercentage,
		&policy,
		&blackouts,
		&windows,
		&cfg.HubspotObjectID,
		&cfg.HubspotSyncStatus,
		&cfg.HubspotLastSync,
		&cfg.CreatedAt,
		&cfg.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := decodeJSON(workingHours, &cfg.WorkingHours); err != nil {
		return nil, fmt.Errorf("working_hours: %w", err)
	}
	if err := decodeJSON(policy, &cfg.CancellationPolicy); err != nil {
		return nil, fmt.Errorf("cancellation_policy: %w", err)
	}
	if err := decodeJSON(blackouts, &cfg.BlackoutDates); err != nil {
		return nil, fmt.Errorf("blackout_dates: %w", err)
	}
	if err := decodeJSON(windows, &cfg.UnavailableWindows); err != nil {
		return nil, fmt.Errorf("unavailable_windows: %w", err)
	}
	if cfg.WorkingHours == nil {
		cfg.WorkingHours = domain.WorkingHours{}
	}
	return &cfg, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func decodeJSON(raw []byte, dest interface{}) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, dest)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
