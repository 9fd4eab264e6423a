package get_availability

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	getAvailability "github.com/m04kA/SMC-SchedulingService/internal/usecase/get_availability"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// TimeSlotResponse слот в ответе
type TimeSlotResponse struct {
	StartTime types.TimeString `json:"startTime"` // "10:00" в часовом поясе подрядчика
	EndTime   types.TimeString `json:"endTime"`
	StartsAt  time.Time        `json:"startsAt"`
	EndsAt    time.Time        `json:"endsAt"`
	Available bool             `json:"available"`
}

// AvailabilityResponse HTTP ответ с доступностью на дату
type AvailabilityResponse struct {
	ContractorID    int64              `json:"contractorId"`
	Date            string             `json:"date"`
	Timezone        string             `json:"timezone"`
	DurationMinutes int                `json:"durationMinutes"`
	Available       bool               `json:"available"`
	TimeSlots       []TimeSlotResponse `json:"timeSlots"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP ответ
func FromUseCaseResponse(resp *getAvailability.Response) *AvailabilityResponse {
	loc, err := time.LoadLocation(resp.Timezone)
	if err != nil {
		loc = time.UTC
	}

	slots := make([]TimeSlotResponse, 0, len(resp.TimeSlots))
	for _, s := range resp.TimeSlots {
		slots = append(slots, TimeSlotResponse{
			StartTime: types.NewTimeString(s.StartTime.In(loc)),
			EndTime:   types.NewTimeString(s.EndTime.In(loc)),
			StartsAt:  s.StartTime,
			EndsAt:    s.EndTime,
			Available: s.Available,
		})
	}

	return &AvailabilityResponse{
		ContractorID:    resp.ContractorID,
		Date:            resp.Date.Format(domain.DateFormat),
		Timezone:        resp.Timezone,
		DurationMinutes: resp.DurationMinutes,
		Available:       resp.Available,
		TimeSlots:       slots,
	}
}
