package schedule

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	scheduleRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-SchedulingService/internal/service/schedule/models"
)

// Service сервис для работы с конфигурацией расписания и услугами подрядчика
type Service struct {
	scheduleRepo    ScheduleRepository
	syncJobRepo     SyncJobRepository
	txManager       TransactionManager
	syncMaxAttempts int
	timeProvider    TimeProvider
	logger          Logger
}

// NewService создает новый экземпляр сервиса расписания
func NewService(
	scheduleRepo ScheduleRepository,
	syncJobRepo SyncJobRepository,
	txManager TransactionManager,
	syncMaxAttempts int,
	logger Logger,
) *Service {
	return &Service{
		scheduleRepo:    scheduleRepo,
		syncJobRepo:     syncJobRepo,
		txManager:       txManager,
		syncMaxAttempts: syncMaxAttempts,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// GetConfig получает конфигурацию расписания подрядчика
func (s *Service) GetConfig(ctx context.Context, contractorID int64) (*models.ScheduleConfigResponse, error) {
	s.logger.Info("GetConfig: fetching schedule config for contractor=%d", contractorID)

	if contractorID <= 0 {
		return nil, fmt.Errorf("%w: contractorID must be positive", ErrInvalidInput)
	}

	cfg, err := s.scheduleRepo.GetConfig(ctx, contractorID)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrConfigNotFound) {
			s.logger.Warn("GetConfig: config for contractor=%d not found", contractorID)
			return nil, ErrConfigNotFound
		}
		s.logger.Error("GetConfig: repository error for contractor=%d: %v", contractorID, err)
		return nil, fmt.Errorf("%w: GetConfig - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainConfig(cfg), nil
}

// UpsertConfig создает или заменяет конфигурацию расписания
// Изменение ставит задачу синхронизации с CRM в той же транзакции
func (s *Service) UpsertConfig(ctx context.Context, contractorID int64, req *models.ScheduleConfigRequest) (*models.ScheduleConfigResponse, error) {
	s.logger.Info("UpsertConfig: saving schedule config for contractor=%d", contractorID)

	// 1. Валидируем входные данные
	if contractorID <= 0 {
		return nil, fmt.Errorf("%w: contractorID must be positive", ErrInvalidInput)
	}
	cfg := req.ToDomain(contractorID)
	if err := cfg.Validate(); err != nil {
		s.logger.Warn("UpsertConfig: validation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	var saved *domain.ScheduleConfig

	// 2. Сохраняем и ставим задачу синхронизации
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		var err error
		saved, err = s.scheduleRepo.UpsertConfig(txCtx, cfg)
		if err != nil {
			s.logger.Error("UpsertConfig: repository error for contractor=%d: %v", contractorID, err)
			return fmt.Errorf("%w: UpsertConfig - repository error: %v", ErrInternal, err)
		}

		job := domain.NewSyncJob(domain.EntityScheduleConfig, contractorID, s.syncMaxAttempts, s.timeProvider.Now())
		if err := s.syncJobRepo.Enqueue(txCtx, job); err != nil {
			s.logger.Error("UpsertConfig: failed to enqueue sync job: %v", err)
			return fmt.Errorf("%w: failed to enqueue sync job: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("UpsertConfig: successfully saved config id=%d for contractor=%d", saved.ID, contractorID)
	return models.FromDomainConfig(saved), nil
}

// GetService получает услугу подрядчика
func (s *Service) GetService(ctx context.Context, contractorID, serviceID int64) (*models.ServiceResponse, error) {
	s.logger.Info("GetService: fetching service id=%d for contractor=%d", serviceID, contractorID)

	if contractorID <= 0 || serviceID <= 0 {
		return nil, fmt.Errorf("%w: contractorID and serviceID must be positive", ErrInvalidInput)
	}

	svc, err := s.scheduleRepo.GetService(ctx, serviceID)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrServiceNotFound) {
			s.logger.Warn("GetService: service id=%d not found", serviceID)
			return nil, ErrServiceNotFound
		}
		s.logger.Error("GetService: repository error for service id=%d: %v", serviceID, err)
		return nil, fmt.Errorf("%w: GetService - repository error: %v", ErrInternal, err)
	}
	if svc.ContractorID != contractorID {
		s.logger.Warn("GetService: service id=%d belongs to contractor=%d", serviceID, svc.ContractorID)
		return nil, ErrServiceNotFound
	}

	return models.FromDomainService(svc), nil
}

// UpsertService создает или заменяет услугу подрядчика
// Изменения затрагивают только будущие записи: записи хранят снимок длительности и отступов
func (s *Service) UpsertService(ctx context.Context, contractorID, serviceID int64, req *models.ServiceRequest) (*models.ServiceResponse, error) {
	s.logger.Info("UpsertService: saving service id=%d for contractor=%d", serviceID, contractorID)

	// 1. Валидируем входные данные
	if contractorID <= 0 || serviceID <= 0 {
		return nil, fmt.Errorf("%w: contractorID and serviceID must be positive", ErrInvalidInput)
	}
	svc := req.ToDomain(contractorID, serviceID)
	if err := svc.Validate(); err != nil {
		s.logger.Warn("UpsertService: validation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	var saved *domain.ScheduleService

	// 2. Сохраняем и ставим задачу синхронизации
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		var err error
		saved, err = s.scheduleRepo.UpsertService(txCtx, svc)
		if err != nil {
			if errors.Is(err, scheduleRepo.ErrServiceOwnership) {
				s.logger.Warn("UpsertService: service id=%d is owned by another contractor", serviceID)
				return ErrServiceOwnership
			}
			s.logger.Error("UpsertService: repository error for service id=%d: %v", serviceID, err)
			return fmt.Errorf("%w: UpsertService - repository error: %v", ErrInternal, err)
		}

		job := domain.NewSyncJob(domain.EntityScheduleService, serviceID, s.syncMaxAttempts, s.timeProvider.Now())
		if err := s.syncJobRepo.Enqueue(txCtx, job); err != nil {
			s.logger.Error("UpsertService: failed to enqueue sync job: %v", err)
			return fmt.Errorf("%w: failed to enqueue sync job: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("UpsertService: successfully saved service id=%d", saved.ID)
	return models.FromDomainService(saved), nil
}
