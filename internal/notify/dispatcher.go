package notify

import (
	"context"
	"time"
)

// WebhookConfig defines one webhook destination.
type WebhookConfig struct {
	URL     string            `yaml:"url"     json:"url"`
	Events  []string          `yaml:"events"  json:"events"` // outcomes to forward: "success", "failure"
	Headers map[string]string `yaml:"headers" json:"headers"`
}

// WebhookEvent is the payload posted to webhook endpoints.
type WebhookEvent struct {
	Timestamp string `json:"timestamp"`
	EventID   string `json:"event_id"`
	Action    string `json:"action"`
	Outcome   string `json:"outcome"` // "success" or "failure"
	Error     string `json:"error,omitempty"`
}

// Dispatcher fans out transition outcomes to matching webhook destinations.
// It implements Notifier.
type Dispatcher struct {
	configs []WebhookConfig
	sender  *sender
}

// NewDispatcher creates a Dispatcher from webhook configurations.
// Returns nil if configs is empty (callers should nil-check).
func NewDispatcher(configs []WebhookConfig) *Dispatcher {
	if len(configs) == 0 {
		return nil
	}
	return &Dispatcher{configs: configs, sender: newSender()}
}

func (d *Dispatcher) Success(n Notice) {
	d.dispatch(WebhookEvent{
		Timestamp: time.Now().UTC().Format("2006-01-02T15:04:05.000Z"),
		EventID:   string(n.Event),
		Action:    string(n.Action),
		Outcome:   "success",
	})
}

func (d *Dispatcher) Failure(n Notice, err error) {
	d.dispatch(WebhookEvent{
		Timestamp: time.Now().UTC().Format("2006-01-02T15:04:05.000Z"),
		EventID:   string(n.Event),
		Action:    string(n.Action),
		Outcome:   "failure",
		Error:     err.Error(),
	})
}

// dispatch sends the event to all webhooks whose Events list matches.
// Fires goroutines — does not block the caller.
func (d *Dispatcher) dispatch(event WebhookEvent) {
	for _, cfg := range d.configs {
		if matches(cfg.Events, event.Outcome) {
			go d.sender.deliver(context.Background(), cfg, event)
		}
	}
}

func matches(events []string, outcome string) bool {
	if len(events) == 0 {
		return true
	}
	for _, e := range events {
		if e == outcome {
			return true
		}
	}
	return false
}
