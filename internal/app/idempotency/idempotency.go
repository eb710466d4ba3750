// Package idempotency lets write operations replay a stored result instead
// of executing twice when the client retries with the same Idempotency-Key.
package idempotency

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

type Record struct {
	Key        string
	Payload    []byte
	Error      string
	OccurredAt time.Time
}

type Store interface {
	Get(ctx context.Context, key string) (Record, bool, error)
	Save(ctx context.Context, rec Record) error
}

// Do runs fn once per key. A repeated key returns the recorded outcome —
// result or error — without invoking fn again. An empty key disables the
// guard entirely.
func Do[R any](ctx context.Context, store Store, key string, fn func(ctx context.Context) (R, error)) (R, error) {
	var zero R
	if store == nil || key == "" {
		return fn(ctx)
	}

	rec, found, err := store.Get(ctx, key)
	if err != nil {
		return zero, err
	}
	if found {
		if rec.Error != "" {
			return zero, errors.New(rec.Error)
		}
		var out R
		if err := json.Unmarshal(rec.Payload, &out); err != nil {
			return zero, err
		}
		return out, nil
	}

	result, fnErr := fn(ctx)
	rec = Record{Key: key, OccurredAt: time.Now().UTC()}
	if fnErr != nil {
		rec.Error = fnErr.Error()
		if saveErr := store.Save(ctx, rec); saveErr != nil {
			return zero, errors.Join(fnErr, saveErr)
		}
		return zero, fnErr
	}
	payload, err := json.Marshal(result)
	if err != nil {
		return zero, err
	}
	rec.Payload = payload
	if err := store.Save(ctx, rec); err != nil {
		return zero, err
	}
	return result, nil
}
