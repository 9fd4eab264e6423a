package get_availability

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// slotParams shape of the appointment being looked for
type slotParams struct {
	DurationMinutes    int
	PreparationMinutes int
	CleanupMinutes     int
}

// computeSlots walks the working window of day in steps of duration+buffer and keeps
// the candidates that respect the booking policy and do not collide with existing
// appointments. Pure function of its arguments.
func computeSlots(
	cfg *domain.ScheduleConfig,
	loc *time.Location,
	day time.Time,
	now time.Time,
	params slotParams,
	existing []*domain.Appointment,
) ([]Slot, error) {
	slots := []Slot{}

	if !cfg.IsAcceptingBookings || cfg.IsBlackedOut(day) {
		return slots, nil
	}
	if domain.DaysBetween(now.In(loc), day) < 0 || !cfg.WithinAdvanceWindow(day, now, loc) {
		return slots, nil
	}

	window, open, err := cfg.WorkingWindow(day, loc)
	if err != nil {
		return nil, err
	}
	if !open {
		return slots, nil
	}

	duration := time.Duration(params.DurationMinutes) * time.Minute
	step := duration + time.Duration(cfg.BufferMinutes)*time.Minute

	blocked := make([]domain.Interval, 0, len(existing))
	for _, a := range existing {
		if a.IsActive() {
			blocked = append(blocked, a.BlockedIntervalWithBuffer(cfg.BufferMinutes))
		}
	}

	for start := window.Start; !start.Add(duration).After(window.End); start = start.Add(step) {
		candidate := domain.Interval{Start: start, End: start.Add(duration)}

		if !cfg.MeetsMinimumNotice(candidate.Start, now) {
			continue
		}
		if cfg.HitsUnavailableWindow(candidate, loc) {
			continue
		}

		padded := domain.BlockedInterval(candidate.Start, candidate.End,
			params.PreparationMinutes, params.CleanupMinutes, cfg.BufferMinutes)
		if overlapsAny(padded, blocked) {
			continue
		}

		slots = append(slots, Slot{StartTime: candidate.Start, EndTime: candidate.End, Available: true})
	}

	return slots, nil
}

func overlapsAny(candidate domain.Interval, blocked []domain.Interval) bool {
	for _, b := range blocked {
		if candidate.Overlaps(b) {
			return true
		}
	}
	return false
}
