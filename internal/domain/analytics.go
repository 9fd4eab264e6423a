package domain

import "github.com/shopspring/decimal"

// ServiceBreakdown per-service appointment counts
type ServiceBreakdown struct {
	ServiceID int64
	Total     int
	Completed int
	Revenue   decimal.Decimal
}

// AnalyticsResult booking metrics of a contractor over a date range
type AnalyticsResult struct {
	ContractorID          int64
	TotalBookings         int
	StatusCounts          map[AppointmentStatus]int
	TotalRevenue          decimal.Decimal
	AverageBookingValue   decimal.Decimal
	BookingConversionRate decimal.Decimal // percent
	Services              []ServiceBreakdown
}
