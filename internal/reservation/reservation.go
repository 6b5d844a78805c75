package reservation

import "time"

// TimeLayout is the wire and storage format for reservation datetimes.
// It is zero-padded and fixed-width so that lexicographic ordering of the
// stored text matches chronological ordering.
const TimeLayout = "2006-01-02 15:04"

const (
	// SlotDuration is the capacity-limiting window.
	SlotDuration = 30 * time.Minute
	// SlotCapacity is the maximum number of reservations per slot.
	SlotCapacity = 3
	// MaxPartySize bounds the number of guests per reservation.
	MaxPartySize = 5

	// Service hours, minutes since midnight. The closing bound is the last
	// bookable sitting, inclusive.
	OpeningMinute = 18 * 60
	ClosingMinute = 21*60 + 30
)

// Reservation is the sole persisted entity. ID and Token are assigned by the
// store on insert and immutable afterwards.
type Reservation struct {
	ID          int64
	Token       string
	FirstName   string
	LastName    string
	Phone       string
	PartySize   int
	ScheduledAt time.Time
}

// ParseDateTime parses a reservation datetime in TimeLayout.
func ParseDateTime(s string) (time.Time, error) {
	return time.Parse(TimeLayout, s)
}

// FormatDateTime renders t in TimeLayout.
func FormatDateTime(t time.Time) string {
	return t.Format(TimeLayout)
}

// Naive strips the location from t, keeping its wall-clock reading. The
// system has no timezone semantics; all comparisons are between naive
// wall-clock values.
func Naive(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
}

// DateOf truncates t to midnight of its calendar date.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// InServiceWindow reports whether the time of day falls within service hours.
func InServiceWindow(t time.Time) bool {
	m := t.Hour()*60 + t.Minute()
	return m >= OpeningMinute && m <= ClosingMinute
}

// OnSlotBoundary reports whether t aligns with the slot granularity.
func OnSlotBoundary(t time.Time) bool {
	return t.Minute()%30 == 0
}
