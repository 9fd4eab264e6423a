package domain

import "time"

// Interval half-open time range [Start, End)
type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether the two half-open intervals intersect
func (i Interval) Overlaps(other Interval) bool {
	return i.Start.Before(other.End) && other.Start.Before(i.End)
}

// Contains reports whether other lies completely inside i
func (i Interval) Contains(other Interval) bool {
	return !other.Start.Before(i.Start) && !other.End.After(i.End)
}

// BlockedInterval time an appointment takes away from the contractor:
// preparation and buffer before the start, cleanup after the end.
// Two appointments conflict iff their blocked intervals overlap, which
// leaves at least bufferMinutes between them.
func BlockedInterval(start, end time.Time, preparationMinutes, cleanupMinutes, bufferMinutes int) Interval {
	return Interval{
		Start: start.Add(-time.Duration(preparationMinutes+bufferMinutes) * time.Minute),
		End:   end.Add(time.Duration(cleanupMinutes) * time.Minute),
	}
}
