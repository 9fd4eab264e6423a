package get_scheduling_analytics

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

var allStatuses = []domain.AppointmentStatus{
	domain.StatusScheduled,
	domain.StatusConfirmed,
	domain.StatusInProgress,
	domain.StatusCompleted,
	domain.StatusCancelled,
	domain.StatusNoShow,
}

// aggregate computes booking metrics; revenue counts COMPLETED appointments only
func aggregate(contractorID int64, appointments []*domain.Appointment) domain.AnalyticsResult {
	result := domain.AnalyticsResult{
		ContractorID:          contractorID,
		TotalBookings:         len(appointments),
		StatusCounts:          make(map[domain.AppointmentStatus]int, len(allStatuses)),
		TotalRevenue:          decimal.Zero,
		AverageBookingValue:   decimal.Zero,
		BookingConversionRate: decimal.Zero,
		Services:              []domain.ServiceBreakdown{},
	}
	for _, s := range allStatuses {
		result.StatusCounts[s] = 0
	}

	services := make(map[int64]*domain.ServiceBreakdown)
	for _, a := range appointments {
		result.StatusCounts[a.Status]++

		svc, ok := services[a.ServiceID]
		if !ok {
			svc = &domain.ServiceBreakdown{ServiceID: a.ServiceID, Revenue: decimal.Zero}
			services[a.ServiceID] = svc
		}
		svc.Total++

		if a.Status == domain.StatusCompleted {
			svc.Completed++
			svc.Revenue = svc.Revenue.Add(a.TotalPrice)
			result.TotalRevenue = result.TotalRevenue.Add(a.TotalPrice)
		}
	}

	completed := result.StatusCounts[domain.StatusCompleted]
	if completed > 0 {
		result.AverageBookingValue = result.TotalRevenue.Div(decimal.NewFromInt(int64(completed))).Round(2)
	}
	if result.TotalBookings > 0 {
		result.BookingConversionRate = decimal.NewFromInt(int64(completed)).
			Mul(decimal.NewFromInt(100)).
			Div(decimal.NewFromInt(int64(result.TotalBookings))).
			Round(2)
	}

	for _, svc := range services {
		result.Services = append(result.Services, *svc)
	}
	sort.Slice(result.Services, func(i, j int) bool {
		return result.Services[i].ServiceID < result.Services[j].ServiceID
	})

	return result
}
