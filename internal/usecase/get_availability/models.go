package get_availability

import "time"

// Request модель запроса доступности
type Request struct {
	ContractorID int64
	Date         time.Time // calendar day, only year/month/day are used
	ServiceID    *int64    // slot size = service duration
	SlotMinutes  *int      // slot size when no service is given
}

// Slot bookable window
type Slot struct {
	StartTime time.Time
	EndTime   time.Time
	Available bool
}

// Response модель ответа
type Response struct {
	ContractorID    int64
	Date            time.Time
	Timezone        string
	DurationMinutes int
	Available       bool
	TimeSlots       []Slot
}
