package complaints

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"guesthub/internal/domain/booking"
	"guesthub/internal/domain/complaint"
	"guesthub/internal/domain/guest"
)

// ErrNoBooking is returned when a guest without any booking tries to file a
// complaint. Complaints are always pinned to a stay.
var ErrNoBooking = errors.New("complaints: no booking on file for guest")

// Service files guest complaints against their most recent booking and lists
// what a guest has filed so far.
type Service struct {
	Complaints complaint.Repository
	Bookings   booking.Repository
	Logger     *slog.Logger
	Now        func() time.Time
}

type FileParams struct {
	GuestID     guest.ID
	Title       string
	Description string
}

func (s *Service) File(ctx context.Context, params FileParams) (*complaint.Complaint, error) {
	if err := s.ensureDependencies(); err != nil {
		return nil, err
	}
	// ListByGuest is newest-first, so the head is the stay the complaint
	// concerns.
	stays, err := s.Bookings.ListByGuest(ctx, string(params.GuestID))
	if err != nil {
		return nil, err
	}
	if len(stays) == 0 {
		return nil, ErrNoBooking
	}
	c, err := complaint.New(complaint.CreateParams{
		ID:          complaint.ID(uuid.NewString()),
		GuestID:     string(params.GuestID),
		BookingID:   string(stays[0].ID),
		Title:       params.Title,
		Description: params.Description,
		CreatedAt:   s.now().UTC(),
	})
	if err != nil {
		return nil, err
	}
	if err := s.Complaints.Save(ctx, c); err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.Info("complaint filed",
			"complaint_id", c.ID,
			"guest_id", c.GuestID,
			"booking_id", c.BookingID)
	}
	return c, nil
}

func (s *Service) ListForGuest(ctx context.Context, guestID guest.ID) ([]*complaint.Complaint, error) {
	if err := s.ensureDependencies(); err != nil {
		return nil, err
	}
	return s.Complaints.ListByGuest(ctx, string(guestID))
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) ensureDependencies() error {
	switch {
	case s.Complaints == nil:
		return errors.New("complaints: complaint repository required")
	case s.Bookings == nil:
		return errors.New("complaints: booking repository required")
	default:
		return nil
	}
}
