package convive

import (
	"context"
	"fmt"

	"github.com/convive/convive/internal/confirm"
	"github.com/convive/convive/internal/config"
	"github.com/convive/convive/internal/model"
	"github.com/convive/convive/internal/repo"
)

// Client is the embeddable Convive client. Thread-safe for concurrent
// calls; each event-detail surface should hold its own Gate.
type Client struct {
	cfg  clientConfig
	repo *repo.Client
}

// New creates a Client with the given options.
func New(opts ...Option) (*Client, error) {
	cfg := clientConfig{
		baseURL: config.Default().BaseURL,
		expiry:  config.DefaultConfirmExpiry,
	}
	for _, o := range opts {
		o(&cfg)
	}

	rc, err := repo.New(cfg.baseURL, cfg.token)
	if err != nil {
		return nil, fmt.Errorf("convive: %w", err)
	}
	if cfg.httpClient != nil {
		rc.SetHTTPClient(cfg.httpClient)
	}

	return &Client{cfg: cfg, repo: rc}, nil
}

// Events lists events matching the query.
func (c *Client) Events(ctx context.Context, q Query) ([]Event, error) {
	return c.repo.ListEvents(ctx, q)
}

// Event fetches a single event, served from the read cache when warm.
func (c *Client) Event(ctx context.Context, id EventID) (*Event, error) {
	return c.repo.GetEvent(ctx, id)
}

// RefreshEvent bypasses the read cache and refetches from the server.
func (c *Client) RefreshEvent(ctx context.Context, id EventID) (*Event, error) {
	return c.repo.RefreshEvent(ctx, id)
}

// ClaimItem claims count units of an item on behalf of the caller.
func (c *Client) ClaimItem(ctx context.Context, eventID EventID, itemID string, count int) (*Item, error) {
	return c.repo.ClaimItem(ctx, eventID, itemID, count)
}

// ReleaseItem releases count previously claimed units.
func (c *Client) ReleaseItem(ctx context.Context, eventID EventID, itemID string, count int) (*Item, error) {
	return c.repo.ReleaseItem(ctx, eventID, itemID, count)
}

// Joins lists join requests for an event the caller hosts.
func (c *Client) Joins(ctx context.Context, eventID EventID) ([]JoinRequest, error) {
	return c.repo.ListJoins(ctx, eventID)
}

// RespondJoin approves or rejects a pending join request.
func (c *Client) RespondJoin(ctx context.Context, requestID string, approve bool) (*JoinRequest, error) {
	return c.repo.RespondJoin(ctx, requestID, approve)
}

// Gate returns a fresh two-tap confirmation gate for the event. The
// first Tap on an action arms it; a second Tap on the same action
// within the confirmation window submits the transition. Create one
// Gate per event-detail surface and discard it when the surface closes.
func (c *Client) Gate(eventID EventID) *Gate {
	g := &Gate{}
	effects := make(map[model.ActionKey]confirm.Effect, len(model.ActionKeys))
	for _, key := range model.ActionKeys {
		key := key
		effects[key] = func(ctx context.Context, id model.EventID) error {
			receipt, err := c.repo.PerformTransition(ctx, id, key)
			if err != nil {
				return err
			}
			g.mu.Lock()
			g.lastReceipt = receipt
			g.mu.Unlock()
			return nil
		}
	}
	gateOpts := []confirm.GateOption{}
	if c.cfg.notifier != nil {
		gateOpts = append(gateOpts, confirm.WithNotifier(c.cfg.notifier))
	}
	g.inner = confirm.NewGate(eventID, c.cfg.expiry, effects, gateOpts...)
	return g
}
