package analytics

import (
	"errors"
	"fmt"
	"time"
)

var ErrUnknownRange = errors.New("unknown date range")

// Named date ranges accepted by ParseDateRange
const (
	RangeToday      = "today"
	RangeYesterday  = "yesterday"
	RangeLast7Days  = "last7days"
	RangeLast30Days = "last30days"
	RangeThisMonth  = "thismonth"
)

// DateRange is the half-open interval [From, To)
type DateRange struct {
	Name string    `json:"name"`
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// ParseDateRange resolves a named range in now's location. Ranges end at
// the start of tomorrow, except yesterday which ends at midnight today.
func ParseDateRange(name string, now time.Time) (DateRange, error) {
	today := startOfDay(now)
	tomorrow := today.AddDate(0, 0, 1)

	r := DateRange{Name: name, To: tomorrow}
	switch name {
	case RangeToday:
		r.From = today
	case RangeYesterday:
		r.From = today.AddDate(0, 0, -1)
		r.To = today
	case RangeLast7Days:
		r.From = today.AddDate(0, 0, -7)
	case RangeLast30Days:
		r.From = today.AddDate(0, 0, -30)
	case RangeThisMonth:
		r.From = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	default:
		return DateRange{}, fmt.Errorf("%w: %q", ErrUnknownRange, name)
	}
	return r, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
