package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/IBM/sarama"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainbooking "guesthub/internal/domain/booking"
	"guesthub/internal/infra/storage/memory"
)

type stubInbox struct {
	seen   map[string]bool
	marked []string
}

func (s *stubInbox) Seen(ctx context.Context, eventID string) (bool, error) {
	return s.seen[eventID], nil
}

func (s *stubInbox) Mark(ctx context.Context, eventID string) error {
	if s.seen == nil {
		s.seen = map[string]bool{}
	}
	s.seen[eventID] = true
	s.marked = append(s.marked, eventID)
	return nil
}

type stubTokens struct{ tokens []string }

func (s stubTokens) TokensFor(ctx context.Context, userID string) ([]string, error) {
	return s.tokens, nil
}

type stubPusher struct {
	err   error
	sends int
}

func (s *stubPusher) Push(ctx context.Context, tokens []string, title, body string, data map[string]string) error {
	s.sends++
	return s.err
}

func bookingEventMessage(t *testing.T, eventID, eventType, bookingID string) *sarama.ConsumerMessage {
	t.Helper()
	data, err := json.Marshal(map[string]string{"BookingID": bookingID})
	require.NoError(t, err)
	value, err := json.Marshal(map[string]any{"id": eventID, "type": eventType, "data": json.RawMessage(data)})
	require.NoError(t, err)
	return &sarama.ConsumerMessage{Topic: "booking.events.v1", Value: value}
}

func newEventsFixture(t *testing.T) (*BookingEventsHandler, *stubInbox, *stubPusher) {
	t.Helper()
	bookings := memory.NewBookingRepository()
	require.NoError(t, bookings.Save(context.Background(), &domainbooking.Booking{
		ID:      "b-1",
		GuestID: "g-1",
		Status:  domainbooking.StatusConfirmed,
	}))
	inbox := &stubInbox{}
	pusher := &stubPusher{}
	return &BookingEventsHandler{
		Bookings: bookings,
		Tokens:   stubTokens{tokens: []string{"ExponentPushToken[abc]"}},
		Pushes:   pusher,
		Inbox:    inbox,
	}, inbox, pusher
}

func TestHandleMarksEventOnlyAfterSuccessfulPush(t *testing.T) {
	handler, inbox, pusher := newEventsFixture(t)
	msg := bookingEventMessage(t, "evt-1", "booking.confirmed.v1", "b-1")

	require.NoError(t, handler.Handle(context.Background(), msg))
	assert.Equal(t, 1, pusher.sends)
	assert.Equal(t, []string{"evt-1"}, inbox.marked)

	// Redelivery after the mark is a no-op.
	require.NoError(t, handler.Handle(context.Background(), msg))
	assert.Equal(t, 1, pusher.sends)
}

func TestHandleLeavesFailedPushRetryable(t *testing.T) {
	handler, inbox, pusher := newEventsFixture(t)
	pusher.err = errors.New("expo unreachable")
	msg := bookingEventMessage(t, "evt-1", "booking.confirmed.v1", "b-1")

	require.Error(t, handler.Handle(context.Background(), msg))
	assert.Empty(t, inbox.marked)

	pusher.err = nil
	require.NoError(t, handler.Handle(context.Background(), msg))
	assert.Equal(t, 2, pusher.sends)
	assert.Equal(t, []string{"evt-1"}, inbox.marked)
}
