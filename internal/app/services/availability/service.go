package availability

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"guesthub/internal/domain/booking"
	"guesthub/internal/domain/pricing"
	"guesthub/internal/domain/rooms"
)

// Service answers "which rooms can host this stay, and at what price".
type Service struct {
	Rooms    rooms.Repository
	Bookings booking.Repository
	Logger   *slog.Logger
	Now      func() time.Time
}

type SearchParams struct {
	CheckIn   time.Time
	CheckOut  time.Time
	PartySize int
}

// Offer pairs an available room with a quote for the requested stay.
type Offer struct {
	Room  *rooms.Room
	Price pricing.PriceBreakdown
}

// Search returns every room that fits the party and has no blocking booking
// overlapping the stay, each with its full price breakdown. Catalog order is
// preserved.
func (s *Service) Search(ctx context.Context, params SearchParams) ([]Offer, error) {
	if err := s.ensureDependencies(); err != nil {
		return nil, err
	}
	stay, err := booking.NewStay(params.CheckIn, params.CheckOut, params.PartySize)
	if err != nil {
		return nil, err
	}
	if err := stay.ValidateNotPast(s.now()); err != nil {
		return nil, err
	}

	candidates, err := s.Rooms.List(ctx)
	if err != nil {
		return nil, err
	}

	existing := make([]*booking.Booking, 0)
	for _, r := range candidates {
		blocking, err := s.Bookings.ListBlocking(ctx, r.ID)
		if err != nil {
			return nil, err
		}
		existing = append(existing, blocking...)
	}

	available, err := booking.FindAvailableRooms(candidates, existing, stay)
	if err != nil {
		return nil, err
	}

	offers := make([]Offer, 0, len(available))
	for _, r := range available {
		quote, err := pricing.Quote(r.NightlyRate, stay.Range, nil)
		if err != nil {
			return nil, err
		}
		offers = append(offers, Offer{Room: r, Price: quote})
	}
	if s.Logger != nil {
		s.Logger.Debug("availability searched",
			"check_in", stay.Range.CheckIn, "check_out", stay.Range.CheckOut,
			"party_size", stay.PartySize, "offers", len(offers))
	}
	return offers, nil
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) ensureDependencies() error {
	switch {
	case s.Rooms == nil:
		return errors.New("availability: room repository required")
	case s.Bookings == nil:
		return errors.New("availability: booking repository required")
	default:
		return nil
	}
}
