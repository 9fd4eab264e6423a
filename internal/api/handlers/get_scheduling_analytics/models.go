package get_scheduling_analytics

import (
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	getAnalytics "github.com/m04kA/SMC-SchedulingService/internal/usecase/get_scheduling_analytics"
)

// ServiceBreakdownResponse показатели по услуге
type ServiceBreakdownResponse struct {
	ServiceID int64           `json:"serviceId"`
	Total     int             `json:"total"`
	Completed int             `json:"completed"`
	Revenue   decimal.Decimal `json:"revenue"`
}

// AnalyticsResponse HTTP ответ с аналитикой
type AnalyticsResponse struct {
	ContractorID          int64                      `json:"contractorId"`
	StartDate             string                     `json:"startDate"`
	EndDate               string                     `json:"endDate"`
	TotalBookings         int                        `json:"totalBookings"`
	StatusCounts          map[string]int             `json:"statusCounts"`
	TotalRevenue          decimal.Decimal            `json:"totalRevenue"`
	AverageBookingValue   decimal.Decimal            `json:"averageBookingValue"`
	BookingConversionRate decimal.Decimal            `json:"bookingConversionRate"` // проценты
	Services              []ServiceBreakdownResponse `json:"services"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP ответ
func FromUseCaseResponse(resp *getAnalytics.Response) *AnalyticsResponse {
	result := resp.Result

	counts := make(map[string]int, len(result.StatusCounts))
	for status, n := range result.StatusCounts {
		counts[string(status)] = n
	}

	services := make([]ServiceBreakdownResponse, 0, len(result.Services))
	for _, s := range result.Services {
		services = append(services, ServiceBreakdownResponse{
			ServiceID: s.ServiceID,
			Total:     s.Total,
			Completed: s.Completed,
			Revenue:   s.Revenue,
		})
	}

	return &AnalyticsResponse{
		ContractorID:          result.ContractorID,
		StartDate:             resp.Start.Format(domain.DateFormat),
		EndDate:               resp.End.Format(domain.DateFormat),
		TotalBookings:         result.TotalBookings,
		StatusCounts:          counts,
		TotalRevenue:          result.TotalRevenue,
		AverageBookingValue:   result.AverageBookingValue,
		BookingConversionRate: result.BookingConversionRate,
		Services:              services,
	}
}
