package bookings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"guesthub/internal/app/idempotency"
	appoutbox "guesthub/internal/app/outbox"
	"guesthub/internal/domain/booking"
	"guesthub/internal/domain/guest"
	"guesthub/internal/domain/pricing"
	"guesthub/internal/domain/rooms"
	"guesthub/internal/domain/services"
	"guesthub/internal/infra/channex"
)

var (
	ErrRoomUnavailable = errors.New("bookings: room not available for the requested stay")
	ErrNotOwner        = errors.New("bookings: booking belongs to another guest")
)

// ChannelManager is the slice of the Channex client the service needs.
type ChannelManager interface {
	CreateBooking(ctx context.Context, params channex.CreateBookingParams) (*channex.Reservation, error)
	CancelBooking(ctx context.Context, channexID string) error
}

// Service owns the reservation lifecycle: create against a fresh
// availability check, mirror to the channel manager, cancel.
type Service struct {
	Bookings    booking.Repository
	Rooms       rooms.Repository
	Guests      guest.Repository
	Services    services.Repository
	Channel     ChannelManager
	Outbox      appoutbox.Outbox
	Idempotency idempotency.Store
	Logger      *slog.Logger
	Now         func() time.Time
}

type ServiceChoice struct {
	ServiceID services.ServiceID
	Quantity  int
}

type CreateParams struct {
	GuestID        guest.ID
	RoomID         rooms.RoomID
	CheckIn        time.Time
	CheckOut       time.Time
	PartySize      int
	Services       []ServiceChoice
	IdempotencyKey string
}

type CancelParams struct {
	GuestID   guest.ID
	BookingID booking.BookingID
	Reason    string
}

// Create books the room for the stay. The availability check runs against
// the current booking list inside the call, so a room taken since the
// search is rejected here. Repeated calls with the same idempotency key
// replay the first outcome instead of double-booking.
func (s *Service) Create(ctx context.Context, params CreateParams) (*booking.Booking, error) {
	if err := s.ensureDependencies(); err != nil {
		return nil, err
	}
	return idempotency.Do(ctx, s.Idempotency, params.IdempotencyKey, func(ctx context.Context) (*booking.Booking, error) {
		return s.create(ctx, params)
	})
}

func (s *Service) create(ctx context.Context, params CreateParams) (*booking.Booking, error) {
	g, err := s.Guests.ByID(ctx, params.GuestID)
	if err != nil {
		return nil, err
	}
	room, err := s.Rooms.ByID(ctx, params.RoomID)
	if err != nil {
		return nil, err
	}

	stay, err := booking.NewStay(params.CheckIn, params.CheckOut, params.PartySize)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if err := stay.ValidateNotPast(now); err != nil {
		return nil, err
	}

	blocking, err := s.Bookings.ListBlocking(ctx, room.ID)
	if err != nil {
		return nil, err
	}
	available, err := booking.FindAvailableRooms([]*rooms.Room{room}, blocking, stay)
	if err != nil {
		return nil, err
	}
	if len(available) == 0 {
		return nil, ErrRoomUnavailable
	}

	selections, err := s.resolveSelections(ctx, params.Services)
	if err != nil {
		return nil, err
	}
	quote, err := pricing.Quote(room.NightlyRate, stay.Range, selections)
	if err != nil {
		return nil, err
	}

	b, err := booking.New(booking.CreateParams{
		ID:        booking.BookingID(uuid.NewString()),
		GuestID:   string(g.ID),
		RoomID:    room.ID,
		Stay:      stay,
		Price:     quote,
		CreatedAt: now,
	})
	if err != nil {
		return nil, err
	}

	// The channel manager holds the authoritative calendar; a reservation
	// it never saw would drift out of every OTA, so remote failure aborts
	// the local booking too.
	first, last := g.FirstLast()
	reservation, err := s.Channel.CreateBooking(ctx, channex.CreateBookingParams{
		Booking:  b,
		RoomType: room.Type,
		Customer: channex.Customer{
			Name:    first,
			Surname: last,
			Email:   g.Email,
			Phone:   g.Phone,
			Country: g.Country,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("bookings: channel push: %w", err)
	}
	b.ChannexID = reservation.ID

	if err := s.Bookings.Save(ctx, b); err != nil {
		return nil, err
	}
	if err := appoutbox.RecordDomainEvents(ctx, s.Outbox, nil, b.PendingEvents()); err != nil {
		return nil, err
	}
	b.ClearEvents()

	if s.Logger != nil {
		s.Logger.Info("booking created",
			"booking_id", b.ID, "room_id", b.RoomID, "guest_id", b.GuestID,
			"channex_id", b.ChannexID, "total", b.Price.Total)
	}
	return b, nil
}

// ByID returns the booking if it belongs to the guest.
func (s *Service) ByID(ctx context.Context, guestID guest.ID, id booking.BookingID) (*booking.Booking, error) {
	if err := s.ensureDependencies(); err != nil {
		return nil, err
	}
	b, err := s.Bookings.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.GuestID != string(guestID) {
		return nil, ErrNotOwner
	}
	return b, nil
}

func (s *Service) ListForGuest(ctx context.Context, guestID guest.ID) ([]*booking.Booking, error) {
	if err := s.ensureDependencies(); err != nil {
		return nil, err
	}
	return s.Bookings.ListByGuest(ctx, string(guestID))
}

// Cancel flips the booking to cancelled locally and in the channel manager.
// A booking with no remote mirror is cancelled locally only.
func (s *Service) Cancel(ctx context.Context, params CancelParams) (*booking.Booking, error) {
	if err := s.ensureDependencies(); err != nil {
		return nil, err
	}
	b, err := s.Bookings.ByID(ctx, params.BookingID)
	if err != nil {
		return nil, err
	}
	if b.GuestID != string(params.GuestID) {
		return nil, ErrNotOwner
	}
	now := s.now()
	if err := b.Cancel(params.Reason, now); err != nil {
		return nil, err
	}
	if b.ChannexID != "" {
		if err := s.Channel.CancelBooking(ctx, b.ChannexID); err != nil {
			return nil, fmt.Errorf("bookings: channel cancel: %w", err)
		}
	}
	if err := s.Bookings.Save(ctx, b); err != nil {
		return nil, err
	}
	if err := appoutbox.RecordDomainEvents(ctx, s.Outbox, nil, b.PendingEvents()); err != nil {
		return nil, err
	}
	b.ClearEvents()
	if s.Logger != nil {
		s.Logger.Info("booking cancelled", "booking_id", b.ID, "reason", params.Reason)
	}
	return b, nil
}

// Confirm is driven by payment completion, not by guests directly.
func (s *Service) Confirm(ctx context.Context, id booking.BookingID) (*booking.Booking, error) {
	if err := s.ensureDependencies(); err != nil {
		return nil, err
	}
	b, err := s.Bookings.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := b.Confirm(s.now()); err != nil {
		return nil, err
	}
	if err := s.Bookings.Save(ctx, b); err != nil {
		return nil, err
	}
	if err := appoutbox.RecordDomainEvents(ctx, s.Outbox, nil, b.PendingEvents()); err != nil {
		return nil, err
	}
	b.ClearEvents()
	return b, nil
}

func (s *Service) resolveSelections(ctx context.Context, choices []ServiceChoice) ([]services.Selection, error) {
	if len(choices) == 0 {
		return nil, nil
	}
	selections := make([]services.Selection, 0, len(choices))
	for _, choice := range choices {
		svc, err := s.Services.ByID(ctx, choice.ServiceID)
		if err != nil {
			return nil, err
		}
		sel, err := services.NewSelection(*svc, choice.Quantity)
		if err != nil {
			return nil, err
		}
		selections = append(selections, sel)
	}
	return selections, nil
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) ensureDependencies() error {
	switch {
	case s.Bookings == nil:
		return errors.New("bookings: booking repository required")
	case s.Rooms == nil:
		return errors.New("bookings: room repository required")
	case s.Guests == nil:
		return errors.New("bookings: guest repository required")
	case s.Services == nil:
		return errors.New("bookings: service catalog required")
	case s.Channel == nil:
		return errors.New("bookings: channel manager required")
	default:
		return nil
	}
}
