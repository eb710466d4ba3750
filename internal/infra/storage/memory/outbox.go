package memory

import (
	"context"
	"sync"
	"time"

	appoutbox "guesthub/internal/app/outbox"
	infraoutbox "guesthub/internal/infra/outbox"
)

// Outbox keeps event records in memory and feeds the publishing worker the
// same way the mongo store does.
type Outbox struct {
	mu      sync.Mutex
	pending []*infraoutbox.EventDocument
	sent    []*infraoutbox.EventDocument
}

func NewOutbox() *Outbox {
	return &Outbox{}
}

func (o *Outbox) Add(ctx context.Context, record appoutbox.EventRecord) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.pending = append(o.pending, &infraoutbox.EventDocument{
		ID:         record.ID,
		Name:       record.Name,
		Payload:    record.Payload,
		OccurredAt: record.OccurredAt,
		Aggregate:  record.Aggregate,
		Headers:    record.Headers,
	})
	return nil
}

func (o *Outbox) Claim(ctx context.Context, workerID string) (*infraoutbox.EventDocument, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	now := time.Now()
	for i, doc := range o.pending {
		if doc.NextAttempt.After(now) {
			continue
		}
		o.pending = append(o.pending[:i], o.pending[i+1:]...)
		doc.ClaimedBy = workerID
		doc.ClaimedAt = now.UTC()
		o.sent = append(o.sent, doc)
		return doc, nil
	}
	return nil, nil
}

func (o *Outbox) MarkSent(ctx context.Context, id string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, doc := range o.sent {
		if doc.ID == id {
			doc.SentAt = time.Now().UTC()
		}
	}
	return nil
}

func (o *Outbox) MarkFailed(ctx context.Context, id string, next time.Time, errMsg string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	for i, doc := range o.sent {
		if doc.ID == id {
			doc.Attempts++
			doc.NextAttempt = next
			doc.LastError = errMsg
			o.sent = append(o.sent[:i], o.sent[i+1:]...)
			o.pending = append(o.pending, doc)
			break
		}
	}
	return nil
}

// Records snapshots everything ever added, for test assertions.
func (o *Outbox) Records() []*infraoutbox.EventDocument {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]*infraoutbox.EventDocument, 0, len(o.pending)+len(o.sent))
	out = append(out, o.pending...)
	out = append(out, o.sent...)
	return out
}

var (
	_ appoutbox.Outbox       = (*Outbox)(nil)
	_ infraoutbox.EventStore = (*Outbox)(nil)
)
