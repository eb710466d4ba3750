package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type queueStore struct {
	pending []*EventDocument
	sent    []string
	failed  []string
}

func (s *queueStore) Claim(ctx context.Context, workerID string) (*EventDocument, error) {
	if len(s.pending) == 0 {
		return nil, nil
	}
	doc := s.pending[0]
	s.pending = s.pending[1:]
	doc.ClaimedBy = workerID
	return doc, nil
}

func (s *queueStore) MarkSent(ctx context.Context, id string) error {
	s.sent = append(s.sent, id)
	return nil
}

func (s *queueStore) MarkFailed(ctx context.Context, id string, next time.Time, errMsg string) error {
	s.failed = append(s.failed, id)
	return nil
}

type capturingProducer struct {
	err      error
	topics   []string
	payloads [][]byte
}

func (p *capturingProducer) Publish(ctx context.Context, topic, key string, payload []byte, headers map[string]string) error {
	if p.err != nil {
		return p.err
	}
	p.topics = append(p.topics, topic)
	p.payloads = append(p.payloads, payload)
	return nil
}

func pendingEvent(id, name string) *EventDocument {
	return &EventDocument{
		ID:         id,
		Name:       name,
		Aggregate:  "b-1",
		Payload:    []byte(`{"BookingID":"b-1"}`),
		OccurredAt: time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func publishedEventID(t *testing.T, payload []byte) string {
	t.Helper()
	var evt struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(payload, &evt))
	return evt.ID
}

func TestWorkerKeepsEventIDStableAcrossRepublish(t *testing.T) {
	store := &queueStore{pending: []*EventDocument{pendingEvent("evt-1", "booking.confirmed")}}
	producer := &capturingProducer{}
	w := &Worker{Store: store, Producer: producer, ID: "worker-1"}

	require.NoError(t, w.processOnce(context.Background()))
	require.Len(t, producer.payloads, 1)
	assert.Equal(t, "evt-1", publishedEventID(t, producer.payloads[0]))
	assert.Equal(t, []string{"evt-1"}, store.sent)

	// A crash between Publish and MarkSent replays the same record; the
	// consumer must see the same event id to dedup it.
	store.pending = []*EventDocument{pendingEvent("evt-1", "booking.confirmed")}
	require.NoError(t, w.processOnce(context.Background()))
	require.Len(t, producer.payloads, 2)
	assert.Equal(t, publishedEventID(t, producer.payloads[0]), publishedEventID(t, producer.payloads[1]))
}

func TestWorkerRoutesTopicByAggregatePrefix(t *testing.T) {
	store := &queueStore{pending: []*EventDocument{pendingEvent("evt-2", "booking.paid")}}
	producer := &capturingProducer{}
	w := &Worker{Store: store, Producer: producer, ID: "worker-1", TopicPrefix: "hotel."}

	require.NoError(t, w.processOnce(context.Background()))
	assert.Equal(t, []string{"hotel.booking.events.v1"}, producer.topics)
}

func TestWorkerMarksFailedOnPublishError(t *testing.T) {
	store := &queueStore{pending: []*EventDocument{pendingEvent("evt-3", "booking.confirmed")}}
	producer := &capturingProducer{err: errors.New("brokers down")}
	w := &Worker{Store: store, Producer: producer, ID: "worker-1"}

	require.NoError(t, w.processOnce(context.Background()))
	assert.Empty(t, store.sent)
	assert.Equal(t, []string{"evt-3"}, store.failed)
}
