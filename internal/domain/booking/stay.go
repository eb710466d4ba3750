package booking

import (
	"errors"
	"time"

	"guesthub/internal/domain/shared/daterange"
)

var (
	ErrInvalidStay   = errors.New("booking: invalid stay")
	ErrCheckInInPast = errors.New("booking: check-in date is in the past")
)

// Stay is a candidate date range plus occupancy for one room.
type Stay struct {
	Range     daterange.DateRange
	PartySize int
}

// NewStay validates the core stay invariants: check-out strictly after
// check-in and a positive party size.
func NewStay(checkIn, checkOut time.Time, partySize int) (Stay, error) {
	dr, err := daterange.New(checkIn, checkOut)
	if err != nil {
		return Stay{}, errors.Join(ErrInvalidStay, err)
	}
	if partySize < 1 {
		return Stay{}, ErrInvalidStay
	}
	return Stay{Range: dr, PartySize: partySize}, nil
}

func (s Stay) Nights() int {
	return s.Range.Nights()
}

// ValidateNotPast rejects stays whose check-in calendar date is before today.
func (s Stay) ValidateNotPast(now time.Time) error {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	in := s.Range.CheckIn
	checkInDate := time.Date(in.Year(), in.Month(), in.Day(), 0, 0, 0, 0, time.UTC)
	if checkInDate.Before(today) {
		return ErrCheckInInPast
	}
	return nil
}
