package booking

import (
	"context"
	"errors"
	"time"

	"guesthub/internal/domain/pricing"
	"guesthub/internal/domain/rooms"
	"guesthub/internal/domain/shared/events"
)

var (
	ErrBookingNotFound = errors.New("booking: not found")
	ErrInvalidState    = errors.New("booking: invalid state transition")
	ErrGuestRequired   = errors.New("booking: guest id required")
)

type BookingID string

// Status mirrors the reservation lifecycle the channel manager reports back.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// Blocks reports whether a reservation in this status keeps the room off
// the market. Cancelled and completed bookings never block availability.
func (s Status) Blocks() bool {
	return s == StatusPending || s == StatusConfirmed
}

type PaymentStatus string

const (
	PaymentUnpaid   PaymentStatus = "unpaid"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

// Booking is a guest reservation for one room. The authoritative copy lives
// with the channel manager; ChannexID points back at it.
type Booking struct {
	ID            BookingID
	GuestID       string
	RoomID        rooms.RoomID
	Stay          Stay
	Price         pricing.PriceBreakdown
	Status        Status
	PaymentStatus PaymentStatus
	ChannexID     string
	Source        string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Version       int64
	events.EventRecorder
}

type CreateParams struct {
	ID        BookingID
	GuestID   string
	RoomID    rooms.RoomID
	Stay      Stay
	Price     pricing.PriceBreakdown
	ChannexID string
	Source    string
	CreatedAt time.Time
}

func New(params CreateParams) (*Booking, error) {
	if params.GuestID == "" {
		return nil, ErrGuestRequired
	}
	if params.Stay.PartySize < 1 {
		return nil, ErrInvalidStay
	}
	if err := params.Stay.Range.Validate(); err != nil {
		return nil, err
	}
	now := params.CreatedAt.UTC()
	source := params.Source
	if source == "" {
		source = "guest_app"
	}
	b := &Booking{
		ID:            params.ID,
		GuestID:       params.GuestID,
		RoomID:        params.RoomID,
		Stay:          params.Stay,
		Price:         params.Price,
		Status:        StatusPending,
		PaymentStatus: PaymentUnpaid,
		ChannexID:     params.ChannexID,
		Source:        source,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	b.Record(Created{BookingID: b.ID, RoomID: b.RoomID, GuestID: b.GuestID, Stay: b.Stay, Total: b.Price.Total, At: now})
	return b, nil
}

func (b *Booking) Confirm(now time.Time) error {
	if b.Status != StatusPending {
		return ErrInvalidState
	}
	b.Status = StatusConfirmed
	b.UpdatedAt = now.UTC()
	b.Record(Confirmed{BookingID: b.ID, RoomID: b.RoomID, Stay: b.Stay, At: b.UpdatedAt})
	return nil
}

func (b *Booking) Cancel(reason string, now time.Time) error {
	switch b.Status {
	case StatusPending, StatusConfirmed:
	default:
		return ErrInvalidState
	}
	b.Status = StatusCancelled
	b.UpdatedAt = now.UTC()
	b.Record(Cancelled{BookingID: b.ID, RoomID: b.RoomID, Reason: reason, At: b.UpdatedAt})
	return nil
}

func (b *Booking) Complete(now time.Time) error {
	if b.Status != StatusConfirmed {
		return ErrInvalidState
	}
	b.Status = StatusCompleted
	b.UpdatedAt = now.UTC()
	return nil
}

// MarkPaid records a verified successful payment against the booking.
func (b *Booking) MarkPaid(orderID, paymentID string, now time.Time) error {
	if b.Status == StatusCancelled {
		return ErrInvalidState
	}
	b.PaymentStatus = PaymentPaid
	b.UpdatedAt = now.UTC()
	b.Record(Paid{BookingID: b.ID, OrderID: orderID, PaymentID: paymentID, Amount: b.Price.Total, At: b.UpdatedAt})
	return nil
}

func (b *Booking) MarkRefunded(orderID string, now time.Time) {
	b.PaymentStatus = PaymentRefunded
	b.UpdatedAt = now.UTC()
	b.Record(Refunded{BookingID: b.ID, OrderID: orderID, At: b.UpdatedAt})
}

type Repository interface {
	ByID(ctx context.Context, id BookingID) (*Booking, error)
	Save(ctx context.Context, b *Booking) error
	ListByGuest(ctx context.Context, guestID string) ([]*Booking, error)
	// ListBlocking returns bookings for the room whose status still blocks
	// availability, regardless of dates; callers apply the overlap rule.
	ListBlocking(ctx context.Context, roomID rooms.RoomID) ([]*Booking, error)
}
