package payments

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	appoutbox "guesthub/internal/app/outbox"
	"guesthub/internal/domain/booking"
	"guesthub/internal/domain/guest"
	"guesthub/internal/domain/payment"
	"guesthub/internal/infra/payhere"
)

var (
	ErrNotOwner          = errors.New("payments: booking belongs to another guest")
	ErrAlreadyPaid       = errors.New("payments: booking already paid")
	ErrBookingCancelled  = errors.New("payments: booking is cancelled")
	ErrSignatureMismatch = errors.New("payments: webhook signature mismatch")
)

// The gateway rejects requests with empty billing fields, so guests who
// never filled in an address are billed to the hotel itself.
const (
	defaultBillingAddress = "Hotel Address"
	defaultBillingCity    = "Colombo"
	defaultBillingCountry = "Sri Lanka"
)

func fallback(value, def string) string {
	if value == "" {
		return def
	}
	return value
}

// Gateway is the slice of the PayHere adapter the service needs.
type Gateway interface {
	PrepareCheckout(params payhere.CheckoutParams) (*payhere.CheckoutRequest, error)
	VerifySignature(n payhere.Webhook) bool
}

// Service drives the payment flow: issue signed checkout requests and apply
// verified webhook outcomes to intents and bookings.
type Service struct {
	Bookings booking.Repository
	Guests   guest.Repository
	Intents  payment.IntentRepository
	Gateway  Gateway
	Outbox   appoutbox.Outbox
	Logger   *slog.Logger
	Now      func() time.Time
}

type CheckoutParams struct {
	GuestID   guest.ID
	BookingID booking.BookingID
}

// PrepareCheckout builds a fresh signed provider request for the booking's
// total and records the matching payment intent. Every call mints a new
// order id; abandoned attempts simply stay pending forever.
func (s *Service) PrepareCheckout(ctx context.Context, params CheckoutParams) (*payhere.CheckoutRequest, error) {
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
	if b.PaymentStatus == booking.PaymentPaid {
		return nil, ErrAlreadyPaid
	}
	if b.Status == booking.StatusCancelled {
		return nil, ErrBookingCancelled
	}
	g, err := s.Guests.ByID(ctx, params.GuestID)
	if err != nil {
		return nil, err
	}

	first, last := g.FirstLast()
	req, err := s.Gateway.PrepareCheckout(payhere.CheckoutParams{
		BookingID: string(b.ID),
		RoomID:    string(b.RoomID),
		Amount:    b.Price.Total,
		Items:     fmt.Sprintf("Room booking, %d night(s)", b.Price.Nights),
		Customer: payhere.Customer{
			FirstName: first,
			LastName:  last,
			Email:     g.Email,
			Phone:     g.Phone,
			Address:   fallback(g.Address, defaultBillingAddress),
			City:      fallback(g.City, defaultBillingCity),
			Country:   fallback(g.Country, defaultBillingCountry),
		},
	})
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	intent := &payment.Intent{
		OrderID:   req.OrderID,
		BookingID: string(b.ID),
		Amount:    b.Price.Total,
		Provider:  payment.ProviderPayHere,
		Status:    payment.IntentPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Intents.Save(ctx, intent); err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.Info("checkout prepared",
			"booking_id", b.ID, "order_id", req.OrderID, "amount", req.Amount, "currency", req.Currency)
	}
	return req, nil
}

// HandleWebhook applies one provider notification. Notifications with a bad
// signature are rejected before any state is read; unknown status codes are
// acknowledged but change nothing, so a replay after the provider documents
// the code can still land.
func (s *Service) HandleWebhook(ctx context.Context, n payhere.Webhook) error {
	if err := s.ensureDependencies(); err != nil {
		return err
	}
	if !s.Gateway.VerifySignature(n) {
		if s.Logger != nil {
			s.Logger.Warn("webhook signature rejected", "order_id", n.OrderID)
		}
		return ErrSignatureMismatch
	}

	outcome := n.Outcome()
	if outcome == payment.OutcomeUnknown {
		if s.Logger != nil {
			s.Logger.Warn("webhook with unknown status code ignored",
				"order_id", n.OrderID, "status_code", n.StatusCode)
		}
		return nil
	}

	intent, err := s.Intents.ByOrderID(ctx, n.OrderID)
	if err != nil {
		return err
	}
	now := s.now()
	intent.Apply(outcome, n.PaymentID, now)
	if err := s.Intents.Save(ctx, intent); err != nil {
		return err
	}

	b, err := s.Bookings.ByID(ctx, booking.BookingID(intent.BookingID))
	if err != nil {
		return err
	}
	switch outcome {
	case payment.OutcomeSuccess:
		if err := b.MarkPaid(intent.OrderID, n.PaymentID, now); err != nil {
			return err
		}
		if b.Status == booking.StatusPending {
			if err := b.Confirm(now); err != nil {
				return err
			}
		}
	case payment.OutcomeRefunded:
		b.MarkRefunded(intent.OrderID, now)
	default:
		// Pending, cancelled and failed attempts leave the booking as-is;
		// the guest can start another checkout.
	}
	if err := s.Bookings.Save(ctx, b); err != nil {
		return err
	}
	if err := appoutbox.RecordDomainEvents(ctx, s.Outbox, nil, b.PendingEvents()); err != nil {
		return err
	}
	b.ClearEvents()

	if s.Logger != nil {
		s.Logger.Info("webhook applied",
			"order_id", intent.OrderID, "booking_id", intent.BookingID,
			"outcome", outcome, "payment_id", n.PaymentID)
	}
	return nil
}

// ListForBooking returns every payment attempt recorded for the booking.
func (s *Service) ListForBooking(ctx context.Context, guestID guest.ID, id booking.BookingID) ([]*payment.Intent, error) {
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
	return s.Intents.ListByBooking(ctx, string(id))
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
		return errors.New("payments: booking repository required")
	case s.Guests == nil:
		return errors.New("payments: guest repository required")
	case s.Intents == nil:
		return errors.New("payments: intent repository required")
	case s.Gateway == nil:
		return errors.New("payments: gateway required")
	default:
		return nil
	}
}
