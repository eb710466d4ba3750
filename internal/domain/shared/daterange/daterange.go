package daterange

import (
	"errors"
	"math"
	"time"
)

var ErrInvalidRange = errors.New("daterange: check-out must be after check-in")

// DateRange is a half-open stay interval [CheckIn, CheckOut).
// The check-out day itself is free for a new check-in, which is what
// allows back-to-back bookings on the same room.
type DateRange struct {
	CheckIn  time.Time
	CheckOut time.Time
}

func New(checkIn, checkOut time.Time) (DateRange, error) {
	dr := DateRange{CheckIn: checkIn.UTC(), CheckOut: checkOut.UTC()}
	if err := dr.Validate(); err != nil {
		return DateRange{}, err
	}
	return dr, nil
}

func (dr DateRange) Validate() error {
	if dr.CheckIn.IsZero() || dr.CheckOut.IsZero() {
		return ErrInvalidRange
	}
	if !dr.CheckOut.After(dr.CheckIn) {
		return ErrInvalidRange
	}
	return nil
}

// Nights returns the billable night count: the ceiling of the interval
// length in days, never less than one.
func (dr DateRange) Nights() int {
	nights := int(math.Ceil(dr.CheckOut.Sub(dr.CheckIn).Hours() / 24))
	if nights < 1 {
		return 1
	}
	return nights
}

// Overlaps reports a half-open interval conflict: ranges that merely touch
// at a boundary date do not overlap.
func (dr DateRange) Overlaps(other DateRange) bool {
	return dr.CheckIn.Before(other.CheckOut) && other.CheckIn.Before(dr.CheckOut)
}

func (dr DateRange) ContainsDate(t time.Time) bool {
	t = t.UTC()
	return !t.Before(dr.CheckIn) && t.Before(dr.CheckOut)
}

// Days lists every calendar date covered by the range, check-out excluded.
// Channel managers want a per-day rate map keyed by these dates.
func (dr DateRange) Days() []time.Time {
	var days []time.Time
	for d := dateOnly(dr.CheckIn); d.Before(dr.CheckOut); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

func dateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
