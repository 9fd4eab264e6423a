package schedule

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/psqlbuilder"
)

var serviceColumns = []string{
	"id",
	"contractor_id",
	"name",
	"category",
	"duration_minutes",
	"price",
	"deposit_required",
	"deposit_amount",
	"preparation_minutes",
	"cleanup_minutes",
	"is_active",
	"hubspot_object_id",
	"hubspot_sync_status",
	"hubspot_last_sync",
	"created_at",
	"updated_at",
}

// GetService получает услугу по ID
func (r *Repository) GetService(ctx context.Context, serviceID int64) (*domain.ScheduleService, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(serviceColumns...).
		From("schedule_services").
		Where(squirrel.Eq{"id": serviceID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetService - build select query: %v", ErrBuildQuery, err)
	}

	var s domain.ScheduleService
	var deposit decimal.NullDecimal

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&s.ID,
		&s.ContractorID,
		&s.Name,
		&s.Category,
		&s.DurationMinutes,
		&s.Price,
		&s.DepositRequired,
		&deposit,
		&s.PreparationMinutes,
		&s.CleanupMinutes,
		&s.IsActive,
		&s.HubspotObjectID,
		&s.HubspotSyncStatus,
		&s.HubspotLastSync,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetService - scan service: %v", ErrScanRow, err)
	}

	if deposit.Valid {
		s.DepositAmount = &deposit.Decimal
	}
	return &s, nil
}

// UpsertService creates or replaces a service of the contractor and marks it for sync.
// A service id owned by another contractor is rejected with ErrServiceOwnership.
func (r *Repository) UpsertService(ctx context.Context, s *domain.ScheduleService) (*domain.ScheduleService, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	deposit := decimal.NullDecimal{}
	if s.DepositAmount != nil {
		deposit = decimal.NewNullDecimal(*s.DepositAmount)
	}

	query, args, err := psqlbuilder.Insert("schedule_services").
		Columns(
			"id",
			"contractor_id",
			"name",
			"category",
			"duration_minutes",
			"price",
			"deposit_required",
			"deposit_amount",
			"preparation_minutes",
			"cleanup_minutes",
			"is_active",
			"hubspot_sync_status",
		).
		Values(
			s.ID,
			s.ContractorID,
			s.Name,
			s.Category,
			s.DurationMinutes,
			s.Price,
			s.DepositRequired,
			deposit,
			s.PreparationMinutes,
			s.CleanupMinutes,
			s.IsActive,
			domain.SyncPending,
		).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			category = EXCLUDED.category,
			duration_minutes = EXCLUDED.duration_minutes,
			price = EXCLUDED.price,
			deposit_required = EXCLUDED.deposit_required,
			deposit_amount = EXCLUDED.deposit_amount,
			preparation_minutes = EXCLUDED.preparation_minutes,
			cleanup_minutes = EXCLUDED.cleanup_minutes,
			is_active = EXCLUDED.is_active,
			hubspot_sync_status = EXCLUDED.hubspot_sync_status,
			updated_at = NOW()
		WHERE schedule_services.contractor_id = EXCLUDED.contractor_id
		RETURNING hubspot_object_id, hubspot_last_sync, created_at, updated_at`).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: UpsertService - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&s.HubspotObjectID,
		&s.HubspotLastSync,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrServiceOwnership
	}
	if err != nil {
		return nil, fmt.Errorf("%w: UpsertService - execute insert: %v", ErrExecQuery, err)
	}

	s.HubspotSyncStatus = domain.SyncPending
	return s, nil
}
