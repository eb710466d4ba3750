// Package notify delivers push notifications through Expo's push API, which
// is what the mobile clients register their device tokens with.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

const DefaultPushURL = "https://exp.host/--/api/v2/push/send"

// Expo caps a single push request at 100 messages.
const maxBatch = 100

var ErrPushRejected = errors.New("notify: push request rejected")

type ExpoClient struct {
	url    string
	http   *retryablehttp.Client
	logger *slog.Logger
}

func NewExpoClient(url string, logger *slog.Logger) *ExpoClient {
	if url == "" {
		url = DefaultPushURL
	}
	rc := retryablehttp.NewClient()
	rc.RetryMax = 2
	rc.HTTPClient.Timeout = 10 * time.Second
	rc.Logger = nil
	return &ExpoClient{url: url, http: rc, logger: logger}
}

type pushMessage struct {
	To    []string          `json:"to"`
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data,omitempty"`
	Sound string            `json:"sound"`
}

// Push fans the notification out to the tokens in batches.
func (c *ExpoClient) Push(ctx context.Context, tokens []string, title, body string, data map[string]string) error {
	for start := 0; start < len(tokens); start += maxBatch {
		end := start + maxBatch
		if end > len(tokens) {
			end = len(tokens)
		}
		if err := c.send(ctx, pushMessage{
			To:    tokens[start:end],
			Title: title,
			Body:  body,
			Data:  data,
			Sound: "default",
		}); err != nil {
			return err
		}
	}
	return nil
}

func (c *ExpoClient) send(ctx context.Context, msg pushMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("notify: push send: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("%w: status %d", ErrPushRejected, resp.StatusCode)
	}
	if c.logger != nil {
		c.logger.Debug("push batch sent", "recipients", len(msg.To))
	}
	return nil
}
