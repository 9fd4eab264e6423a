package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// Request модели

// ListAppointmentsRequest запрос на получение записей подрядчика
type ListAppointmentsRequest struct {
	ContractorID int64      `json:"contractorId"`
	From         *time.Time `json:"from,omitempty"`   // начало периода по startTime (включительно)
	To           *time.Time `json:"to,omitempty"`     // конец периода (не включительно)
	Status       *string    `json:"status,omitempty"` // фильтр по статусу
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListAppointmentsRequest) ToDomainFilter() (domain.AppointmentsFilter, bool) {
	filter := domain.AppointmentsFilter{
		ContractorID: r.ContractorID,
		From:         r.From,
		To:           r.To,
	}

	if r.Status != nil {
		status, ok := domain.ParseAppointmentStatus(*r.Status)
		if !ok {
			return filter, false
		}
		filter.Statuses = []domain.AppointmentStatus{status}
	}

	return filter, true
}

// Response модели

// AppointmentResponse ответ с данными записи
type AppointmentResponse struct {
	ID              int64     `json:"id"`
	ContractorID    int64     `json:"contractorId"`
	ClientID        *int64    `json:"clientId,omitempty"`
	ServiceID       int64     `json:"serviceId"`
	AppointmentDate string    `json:"appointmentDate"` // "2025-10-15"
	StartTime       time.Time `json:"startTime"`
	EndTime         time.Time `json:"endTime"`
	Status          string    `json:"status"`

	TotalPrice       decimal.Decimal  `json:"totalPrice"`
	DepositAmount    *decimal.Decimal `json:"depositAmount,omitempty"`
	RemainingBalance decimal.Decimal  `json:"remainingBalance"`
	LateFees         decimal.Decimal  `json:"lateFees"`
	RefundAmount     decimal.Decimal  `json:"refundAmount"`
	ForfeitedAmount  decimal.Decimal  `json:"forfeitedAmount"`
	BalanceDue       bool             `json:"balanceDue"`
	LateCancellation bool             `json:"lateCancellation"`

	Notes       *string `json:"notes,omitempty"`
	StatusNotes *string `json:"statusNotes,omitempty"`

	ConfirmedAt *time.Time `json:"confirmedAt,omitempty"`
	StartedAt   *time.Time `json:"startedAt,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	CancelledAt *time.Time `json:"cancelledAt,omitempty"`
	NoShowAt    *time.Time `json:"noShowAt,omitempty"`

	HubspotObjectID   *string    `json:"hubspotObjectId,omitempty"`
	HubspotSyncStatus string     `json:"hubspotSyncStatus"`
	HubspotLastSync   *time.Time `json:"hubspotLastSync,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AppointmentListResponse ответ со списком записей
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
}

// Методы конвертации

// FromDomainAppointment конвертирует domain модель в DTO
func FromDomainAppointment(a *domain.Appointment) *AppointmentResponse {
	if a == nil {
		return nil
	}

	return &AppointmentResponse{
		ID:                a.ID,
		ContractorID:      a.ContractorID,
		ClientID:          a.ClientID,
		ServiceID:         a.ServiceID,
		AppointmentDate:   a.AppointmentDate.Format(domain.DateFormat),
		StartTime:         a.StartTime,
		EndTime:           a.EndTime,
		Status:            string(a.Status),
		TotalPrice:        a.TotalPrice,
		DepositAmount:     a.DepositAmount,
		RemainingBalance:  a.RemainingBalance,
		LateFees:          a.LateFees,
		RefundAmount:      a.RefundAmount,
		ForfeitedAmount:   a.ForfeitedAmount,
		BalanceDue:        a.BalanceDue,
		LateCancellation:  a.LateCancellation,
		Notes:             a.Notes,
		StatusNotes:       a.StatusNotes,
		ConfirmedAt:       a.ConfirmedAt,
		StartedAt:         a.StartedAt,
		CompletedAt:       a.CompletedAt,
		CancelledAt:       a.CancelledAt,
		NoShowAt:          a.NoShowAt,
		HubspotObjectID:   a.HubspotObjectID,
		HubspotSyncStatus: string(a.HubspotSyncStatus),
		HubspotLastSync:   a.HubspotLastSync,
		CreatedAt:         a.CreatedAt,
		UpdatedAt:         a.UpdatedAt,
	}
}

// FromDomainAppointmentList конвертирует список domain моделей в DTO
func FromDomainAppointmentList(appointments []*domain.Appointment) *AppointmentListResponse {
	resp := &AppointmentListResponse{
		Appointments: make([]AppointmentResponse, 0, len(appointments)),
	}

	for _, a := range appointments {
		if dto := FromDomainAppointment(a); dto != nil {
			resp.Appointments = append(resp.Appointments, *dto)
		}
	}

	return resp
}
