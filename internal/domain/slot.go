package domain

import "time"

// AvailableSlot represents a start time at which a staff member can take a visit
type AvailableSlot struct {
	StartTime       time.Time
	EndTime         time.Time
	DurationMinutes int
}

// Interval is a half-open time interval [Start, End)
type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps returns true if two half-open intervals intersect
// Touching intervals (one ends exactly where the other starts) do not overlap
func (i Interval) Overlaps(other Interval) bool {
	return i.Start.Before(other.End) && other.Start.Before(i.End)
}
