package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// Request модели

// ScheduleConfigRequest запрос на создание или замену конфигурации расписания
type ScheduleConfigRequest struct {
	Timezone            string                     `json:"timezone"`
	WorkingHours        domain.WorkingHours        `json:"workingHours"`
	BufferTime          int                        `json:"bufferTime"` // минуты
	AdvanceBookingDays  int                        `json:"advanceBookingDays"`
	MinimumNoticeHours  int                        `json:"minimumNoticeHours"`
	IsAcceptingBookings bool                       `json:"isAcceptingBookings"`
	AutoConfirmBookings bool                       `json:"autoConfirmBookings"`
	RequiresDeposit     bool                       `json:"requiresDeposit"`
	DepositPercentage   decimal.Decimal            `json:"depositPercentage"`
	CancellationPolicy  domain.CancellationPolicy  `json:"cancellationPolicy"`
	BlackoutDates       []string                   `json:"blackoutDates,omitempty"`
	UnavailableWindows  []domain.UnavailableWindow `json:"unavailableWindows,omitempty"`
}

// ToDomain конвертирует request в domain модель
func (r *ScheduleConfigRequest) ToDomain(contractorID int64) *domain.ScheduleConfig {
	timezone := r.Timezone
	if timezone == "" {
		timezone = domain.DefaultTimezone
	}

	hours := make(domain.WorkingHours, len(r.WorkingHours))
	for day, schedule := range r.WorkingHours {
		hours[strings.ToLower(day)] = schedule
	}

	windows := make([]domain.UnavailableWindow, 0, len(r.UnavailableWindows))
	for _, w := range r.UnavailableWindows {
		w.Weekday = strings.ToLower(w.Weekday)
		windows = append(windows, w)
	}

	return &domain.ScheduleConfig{
		ContractorID:        contractorID,
		Timezone:            timezone,
		WorkingHours:        hours,
		BufferMinutes:       r.BufferTime,
		AdvanceBookingDays:  r.AdvanceBookingDays,
		MinimumNoticeHours:  r.MinimumNoticeHours,
		IsAcceptingBookings: r.IsAcceptingBookings,
		AutoConfirmBookings: r.AutoConfirmBookings,
		RequiresDeposit:     r.RequiresDeposit,
		DepositPercentage:   r.DepositPercentage,
		CancellationPolicy:  r.CancellationPolicy,
		BlackoutDates:       r.BlackoutDates,
		UnavailableWindows:  windows,
	}
}

// ServiceRequest запрос на создание или замену услуги
type ServiceRequest struct {
	Name            string           `json:"name"`
	Category        string           `json:"category"`
	Duration        int              `json:"duration"` // минуты
	Price           decimal.Decimal  `json:"price"`
	DepositRequired bool             `json:"depositRequired"`
	DepositAmount   *decimal.Decimal `json:"depositAmount,omitempty"`
	PreparationTime int              `json:"preparationTime"`
	CleanupTime     int              `json:"cleanupTime"`
	IsActive        *bool            `json:"isActive,omitempty"` // по умолчанию true
}

// ToDomain конвертирует request в domain модель
func (r *ServiceRequest) ToDomain(contractorID, serviceID int64) *domain.ScheduleService {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}

	return &domain.ScheduleService{
		ID:                 serviceID,
		ContractorID:       contractorID,
		Name:               strings.TrimSpace(r.Name),
		Category:           r.Category,
		DurationMinutes:    r.Duration,
		Price:              r.Price,
		DepositRequired:    r.DepositRequired,
		DepositAmount:      r.DepositAmount,
		PreparationMinutes: r.PreparationTime,
		CleanupMinutes:     r.CleanupTime,
		IsActive:           active,
	}
}

// Response модели

// SyncResponse состояние зеркала в CRM
type SyncResponse struct {
	HubspotObjectID   *string    `json:"hubspotObjectId,omitempty"`
	HubspotSyncStatus string     `json:"hubspotSyncStatus"`
	HubspotLastSync   *time.Time `json:"hubspotLastSync,omitempty"`
}

// ScheduleConfigResponse ответ с конфигурацией расписания
type ScheduleConfigResponse struct {
	ID           int64 `json:"id"`
	ContractorID int64 `json:"contractorId"`
	ScheduleConfigRequest
	SyncResponse
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ServiceResponse ответ с данными услуги
type ServiceResponse struct {
	ID              int64            `json:"id"`
	ContractorID    int64            `json:"contractorId"`
	Name            string           `json:"name"`
	Category        string           `json:"category"`
	Duration        int              `json:"duration"`
	Price           decimal.Decimal  `json:"price"`
	DepositRequired bool             `json:"depositRequired"`
	DepositAmount   *decimal.Decimal `json:"depositAmount,omitempty"`
	PreparationTime int              `json:"preparationTime"`
	CleanupTime     int              `json:"cleanupTime"`
	IsActive        bool             `json:"isActive"`
	SyncResponse
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Методы конвертации

func fromSyncState(s domain.SyncState) SyncResponse {
	return SyncResponse{
		HubspotObjectID:   s.HubspotObjectID,
		HubspotSyncStatus: string(s.HubspotSyncStatus),
		HubspotLastSync:   s.HubspotLastSync,
	}
}

// FromDomainConfig конвертирует domain модель в DTO
func FromDomainConfig(c *domain.ScheduleConfig) *ScheduleConfigResponse {
	if c == nil {
		return nil
	}

	return &ScheduleConfigResponse{
		ID:           c.ID,
		ContractorID: c.ContractorID,
		ScheduleConfigRequest: ScheduleConfigRequest{
			Timezone:            c.Timezone,
			WorkingHours:        c.WorkingHours,
			BufferTime:          c.BufferMinutes,
			AdvanceBookingDays:  c.AdvanceBookingDays,
			MinimumNoticeHours:  c.MinimumNoticeHours,
			IsAcceptingBookings: c.IsAcceptingBookings,
			AutoConfirmBookings: c.AutoConfirmBookings,
			RequiresDeposit:     c.RequiresDeposit,
			DepositPercentage:   c.DepositPercentage,
			CancellationPolicy:  c.CancellationPolicy,
			BlackoutDates:       c.BlackoutDates,
			UnavailableWindows:  c.UnavailableWindows,
		},
		SyncResponse: fromSyncState(c.SyncState),
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

// FromDomainService конвертирует domain модель в DTO
func FromDomainService(s *domain.ScheduleService) *ServiceResponse {
	if s == nil {
		return nil
	}

	return &ServiceResponse{
		ID:              s.ID,
		ContractorID:    s.ContractorID,
		Name:            s.Name,
		Category:        s.Category,
		Duration:        s.DurationMinutes,
		Price:           s.Price,
		DepositRequired: s.DepositRequired,
		DepositAmount:   s.DepositAmount,
		PreparationTime: s.PreparationMinutes,
		CleanupTime:     s.CleanupMinutes,
		IsActive:        s.IsActive,
		SyncResponse:    fromSyncState(s.SyncState),
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}
