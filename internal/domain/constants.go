package domain

// Default configuration values
const (
	DefaultSlotMinutes = 30
	DefaultTimezone    = "UTC"
)

// Business validation constants
const (
	MinSlotMinutes        = 5
	MaxSlotMinutes        = 720
	MaxBufferMinutes      = 240
	MaxAdvanceBookingDays = 365
	MaxMinimumNoticeHours = 24 * 30
	MaxNotesLength        = 1000
	MaxAnalyticsRangeDays = 366
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveStatuses statuses that occupy the contractor's time
var ActiveStatuses = []AppointmentStatus{
	StatusScheduled,
	StatusConfirmed,
	StatusInProgress,
}
