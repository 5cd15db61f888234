// Package repo is the HTTP client for the Convive event service. It owns
// no business rules: transition legality, capacity, and waitlisting are
// validated server-side and come back as typed API errors.
package repo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/convive/convive/internal/model"
)

const (
	defaultTimeout = 10 * time.Second
	maxRetries     = 3
	eventCacheSize = 256
	userAgent      = "convive-go/" + Version
)

// Version is the client version reported to the server.
const Version = "1.0.0"

// Client talks to the Convive API. Safe for concurrent use.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	events     *lru.Cache[model.EventID, model.Event]
	retryDelay time.Duration
}

// New creates a Client for the given API base URL. Token may be empty for
// unauthenticated read endpoints.
func New(baseURL, token string) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("repo: base URL must not be empty")
	}
	cache, err := lru.New[model.EventID, model.Event](eventCacheSize)
	if err != nil {
		return nil, fmt.Errorf("repo: create event cache: %w", err)
	}
	return &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: defaultTimeout},
		events:     cache,
		retryDelay: time.Second,
	}, nil
}

// SetHTTPClient replaces the underlying HTTP client (custom transports,
// test doubles).
func (c *Client) SetHTTPClient(hc *http.Client) {
	c.httpClient = hc
}

// APIError is a non-2xx response decoded from the server. Conflict and
// validation failures (illegal transition, capacity exceeded, overclaim)
// arrive here — the client never pre-validates them.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("convive api: %s (%s, HTTP %d)", e.Message, e.Code, e.Status)
	}
	return fmt.Sprintf("convive api: HTTP %d", e.Status)
}

// TransitionReceipt acknowledges an accepted lifecycle transition.
type TransitionReceipt struct {
	ID     string            `json:"id"`
	Event  model.Event       `json:"event"`
	Action model.ActionKey   `json:"action"`
	Status model.EventStatus `json:"status"`
}

// PerformTransition submits an event-lifecycle transition. The same
// idempotency key is sent on every retry of one call, so a 5xx retried
// after the server already committed cannot run the transition twice.
func (c *Client) PerformTransition(ctx context.Context, id model.EventID, action model.ActionKey) (*TransitionReceipt, error) {
	body, _ := json.Marshal(map[string]string{"action": string(action)})
	idemKey := uuid.NewString()

	var receipt TransitionReceipt
	err := c.doRetry(ctx, http.MethodPost, fmt.Sprintf("/v1/events/%s/transitions", id), body, idemKey, &receipt)
	if err != nil {
		return nil, err
	}

	// The event changed server-side; drop any cached copy.
	c.events.Remove(id)
	return &receipt, nil
}

// Query filters event listings. Zero value lists everything visible to the
// caller.
type Query struct {
	Tab    string // "discover", "attending", "hosting"
	Status model.EventStatus
	Search string
}

// ListEvents fetches events matching the query and refreshes the read cache.
func (c *Client) ListEvents(ctx context.Context, q Query) ([]model.Event, error) {
	v := url.Values{}
	if q.Tab != "" {
		v.Set("tab", q.Tab)
	}
	if q.Status != "" {
		v.Set("status", string(q.Status))
	}
	if q.Search != "" {
		v.Set("q", q.Search)
	}
	path := "/v1/events"
	if len(v) > 0 {
		path += "?" + v.Encode()
	}

	var out struct {
		Events []model.Event `json:"events"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, "", &out); err != nil {
		return nil, err
	}
	for _, ev := range out.Events {
		c.events.Add(ev.ID, ev)
	}
	return out.Events, nil
}

// GetEvent returns one event, served from the read cache when present.
func (c *Client) GetEvent(ctx context.Context, id model.EventID) (*model.Event, error) {
	if ev, ok := c.events.Get(id); ok {
		return &ev, nil
	}
	return c.RefreshEvent(ctx, id)
}

// RefreshEvent fetches one event from the server, bypassing the cache.
func (c *Client) RefreshEvent(ctx context.Context, id model.EventID) (*model.Event, error) {
	var ev model.Event
	if err := c.do(ctx, http.MethodGet, "/v1/events/"+string(id), nil, "", &ev); err != nil {
		return nil, err
	}
	c.events.Add(ev.ID, ev)
	return &ev, nil
}

// ClaimItem claims count units of an item. The server clamps against the
// remaining quantity and rejects overclaims.
func (c *Client) ClaimItem(ctx context.Context, id model.EventID, itemID string, count int) (*model.Item, error) {
	body, _ := json.Marshal(map[string]int{"count": count})
	var item model.Item
	path := fmt.Sprintf("/v1/events/%s/items/%s/claims", id, itemID)
	if err := c.do(ctx, http.MethodPost, path, body, "", &item); err != nil {
		return nil, err
	}
	c.events.Remove(id)
	return &item, nil
}

// ReleaseItem releases count previously claimed units.
func (c *Client) ReleaseItem(ctx context.Context, id model.EventID, itemID string, count int) (*model.Item, error) {
	var item model.Item
	path := fmt.Sprintf("/v1/events/%s/items/%s/claims?count=%s", id, itemID, strconv.Itoa(count))
	if err := c.do(ctx, http.MethodDelete, path, nil, "", &item); err != nil {
		return nil, err
	}
	c.events.Remove(id)
	return &item, nil
}

// ListJoins returns the join requests for an event (host view).
func (c *Client) ListJoins(ctx context.Context, id model.EventID) ([]model.JoinRequest, error) {
	var out struct {
		Joins []model.JoinRequest `json:"joins"`
	}
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/v1/events/%s/joins", id), nil, "", &out); err != nil {
		return nil, err
	}
	return out.Joins, nil
}

// RespondJoin submits an approve/reject decision for a join request. The
// server may waitlist an approval against the capacity ceiling.
func (c *Client) RespondJoin(ctx context.Context, requestID string, approve bool) (*model.JoinRequest, error) {
	decision := "reject"
	if approve {
		decision = "approve"
	}
	body, _ := json.Marshal(map[string]string{"decision": decision})
	var jr model.JoinRequest
	if err := c.do(ctx, http.MethodPost, "/v1/joins/"+requestID+"/decision", body, "", &jr); err != nil {
		return nil, err
	}
	c.events.Remove(jr.EventID)
	return &jr, nil
}

// do issues a single request and decodes the response into out.
func (c *Client) do(ctx context.Context, method, path string, body []byte, idemKey string, out any) error {
	req, err := c.newRequest(ctx, method, path, body, idemKey)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("repo: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	return decode(resp, out)
}

// doRetry issues a request, retrying on 5xx with linear backoff. 4xx is
// returned immediately; the idempotency key is constant across attempts.
func (c *Client) doRetry(ctx context.Context, method, path string, body []byte, idemKey string, out any) error {
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 && c.retryDelay > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * c.retryDelay):
			}
		}

		req, err := c.newRequest(ctx, method, path, body, idemKey)
		if err != nil {
			return err
		}
		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode >= 500 {
			resp.Body.Close()
			lastErr = fmt.Errorf("repo: server error: HTTP %d", resp.StatusCode)
			continue
		}

		err = decode(resp, out)
		resp.Body.Close()
		return err
	}
	return fmt.Errorf("repo: %s %s failed after %d attempts: %w", method, path, maxRetries, lastErr)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body []byte, idemKey string) (*http.Request, error) {
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return nil, fmt.Errorf("repo: create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if idemKey != "" {
		req.Header.Set("Idempotency-Key", idemKey)
	}
	return req, nil
}

func decode(resp *http.Response, out any) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("repo: decode response: %w", err)
		}
		return nil
	}

	apiErr := &APIError{Status: resp.StatusCode}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	// Body may be empty or non-JSON on proxies; the status alone still types
	// the error.
	_ = json.Unmarshal(data, apiErr)
	return apiErr
}
