package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// DeliveryError reports a webhook endpoint that did not accept the payload
// within the sender's attempt budget.
type DeliveryError struct {
	URL      string
	Status   int // 0 when every attempt failed before a response
	Attempts int
}

func (e *DeliveryError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("webhook %s unreachable after %d attempts", e.URL, e.Attempts)
	}
	return fmt.Sprintf("webhook %s returned HTTP %d (%d attempts)", e.URL, e.Status, e.Attempts)
}

// sender posts webhook payloads with bounded retries. Server errors and
// throttling (429) are retried with doubling backoff; any other rejection
// is final on the first response.
type sender struct {
	client   *http.Client
	attempts int
	backoff  time.Duration
}

func newSender() *sender {
	return &sender{
		client:   &http.Client{Timeout: 5 * time.Second},
		attempts: 3,
		backoff:  time.Second,
	}
}

func (s *sender) deliver(ctx context.Context, cfg WebhookConfig, event WebhookEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	var lastStatus int
	wait := s.backoff
	for attempt := 1; attempt <= s.attempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
			wait *= 2
		}

		status, err := s.post(ctx, cfg, body)
		if err != nil {
			continue
		}
		lastStatus = status
		if status >= 200 && status < 300 {
			return nil
		}
		if !retryable(status) {
			return &DeliveryError{URL: cfg.URL, Status: status, Attempts: attempt}
		}
	}
	return &DeliveryError{URL: cfg.URL, Status: lastStatus, Attempts: s.attempts}
}

func (s *sender) post(ctx context.Context, cfg WebhookConfig, body []byte) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.URL, bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range cfg.Headers {
		req.Header.Set(k, v)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, err
	}
	resp.Body.Close()
	return resp.StatusCode, nil
}

func retryable(status int) bool {
	return status >= 500 || status == http.StatusTooManyRequests
}
