package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/IBM/sarama"

	"guesthub/internal/domain/booking"
)

// SeenStore tracks which event ids this consumer already handled. Seen is
// checked before any work; Mark is written only after the push went out, so
// a failed push stays retryable on the next delivery.
type SeenStore interface {
	Seen(ctx context.Context, eventID string) (bool, error)
	Mark(ctx context.Context, eventID string) error
}

// TokenSource resolves device tokens for a user.
type TokenSource interface {
	TokensFor(ctx context.Context, userID string) ([]string, error)
}

// Pusher is satisfied by ExpoClient.
type Pusher interface {
	Push(ctx context.Context, tokens []string, title, body string, data map[string]string) error
}

// BookingEventsHandler consumes the booking event stream and turns the
// guest-facing milestones into push notifications. Everything else on the
// topic is acknowledged untouched.
type BookingEventsHandler struct {
	Bookings booking.Repository
	Tokens   TokenSource
	Pushes   Pusher
	Inbox    SeenStore
	Logger   *slog.Logger
}

type cloudEvent struct {
	ID   string          `json:"id"`
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func (h *BookingEventsHandler) Handle(ctx context.Context, msg *sarama.ConsumerMessage) error {
	var evt cloudEvent
	if err := json.Unmarshal(msg.Value, &evt); err != nil {
		if h.Logger != nil {
			h.Logger.Warn("skipping unparseable event", "topic", msg.Topic, "error", err)
		}
		return nil
	}

	title, body := notificationFor(evt.Type)
	if title == "" {
		return nil
	}

	if h.Inbox != nil {
		seen, err := h.Inbox.Seen(ctx, evt.ID)
		if err != nil {
			return err
		}
		if seen {
			return nil
		}
	}

	var data struct {
		BookingID string `json:"BookingID"`
	}
	if err := json.Unmarshal(evt.Data, &data); err != nil || data.BookingID == "" {
		return nil
	}
	b, err := h.Bookings.ByID(ctx, booking.BookingID(data.BookingID))
	if err != nil {
		return fmt.Errorf("notify: load booking %s: %w", data.BookingID, err)
	}
	tokens, err := h.Tokens.TokensFor(ctx, b.GuestID)
	if err != nil {
		return err
	}
	if len(tokens) == 0 {
		return nil
	}
	if err := h.Pushes.Push(ctx, tokens, title, body, map[string]string{"booking_id": string(b.ID)}); err != nil {
		if h.Logger != nil {
			h.Logger.Warn("booking notification failed", "booking_id", b.ID, "error", err)
		}
		return err
	}
	// Mark after the send so the event stays retryable when the push fails.
	// A crash between the send and the mark redelivers once; duplicates are
	// the price of never dropping a notification.
	if h.Inbox != nil {
		if err := h.Inbox.Mark(ctx, evt.ID); err != nil {
			return err
		}
	}
	return nil
}

func notificationFor(eventType string) (title, body string) {
	switch eventType {
	case "booking.confirmed.v1":
		return "Booking confirmed", "Your reservation is confirmed. We look forward to hosting you."
	case "booking.paid.v1":
		return "Payment received", "Thanks, your payment went through."
	case "booking.refunded.v1":
		return "Refund issued", "Your payment has been refunded."
	default:
		return "", ""
	}
}
