package convive

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func newTestServer(t *testing.T, posts *atomic.Int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/transitions"):
			posts.Add(1)
			var body struct {
				Action string `json:"action"`
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Errorf("bad transition body: %v", err)
			}
			json.NewEncoder(w).Encode(TransitionReceipt{
				ID:     "tr_1",
				Action: ActionKey(body.Action),
				Status: "published",
			})
		case r.Method == http.MethodGet && r.URL.Path == "/v1/events":
			json.NewEncoder(w).Encode(map[string]any{
				"events": []Event{{ID: "ev_1", Title: "Taco Night"}},
			})
		default:
			http.NotFound(w, r)
		}
	}))
}

func newTestClient(t *testing.T, srv *httptest.Server, opts ...Option) *Client {
	t.Helper()
	opts = append([]Option{WithBaseURL(srv.URL), WithToken("tok")}, opts...)
	c, err := New(opts...)
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	return c
}

func TestNewDefault(t *testing.T) {
	c, err := New()
	if err != nil {
		t.Fatalf("New() with defaults should succeed: %v", err)
	}
	if c == nil {
		t.Fatal("expected non-nil client")
	}
}

func TestNewEmptyBaseURL(t *testing.T) {
	if _, err := New(WithBaseURL("")); err == nil {
		t.Fatal("expected error for empty base URL")
	}
}

func TestEvents(t *testing.T) {
	var posts atomic.Int32
	srv := newTestServer(t, &posts)
	defer srv.Close()

	c := newTestClient(t, srv)
	events, err := c.Events(context.Background(), Query{Tab: "discover"})
	if err != nil {
		t.Fatalf("Events: %v", err)
	}
	if len(events) != 1 || events[0].Title != "Taco Night" {
		t.Fatalf("unexpected events: %+v", events)
	}
}

func TestGateTwoTap(t *testing.T) {
	var posts atomic.Int32
	srv := newTestServer(t, &posts)
	defer srv.Close()

	c := newTestClient(t, srv)
	gate := c.Gate("ev_1")
	ctx := context.Background()

	d, err := gate.Tap(ctx, ActionPublish)
	if err != nil {
		t.Fatalf("first tap: %v", err)
	}
	if d != DecisionArm {
		t.Fatalf("first tap decision = %v, want arm", d)
	}
	if got := posts.Load(); got != 0 {
		t.Fatalf("server saw %d transitions after arming, want 0", got)
	}
	if r := gate.Receipt(); r != nil {
		t.Fatalf("receipt before execution: %+v", r)
	}
	if !gate.IsConfirming(ActionPublish) {
		t.Fatal("gate should be confirming publish")
	}

	d, err = gate.Tap(ctx, ActionPublish)
	if err != nil {
		t.Fatalf("second tap: %v", err)
	}
	if d != DecisionExecute {
		t.Fatalf("second tap decision = %v, want execute", d)
	}
	if got := posts.Load(); got != 1 {
		t.Fatalf("server saw %d transitions, want 1", got)
	}

	r := gate.Receipt()
	if r == nil || r.ID != "tr_1" {
		t.Fatalf("receipt = %+v, want tr_1", r)
	}
	if gate.Receipt() != nil {
		t.Fatal("receipt should be cleared after read")
	}
}

func TestGateRearm(t *testing.T) {
	var posts atomic.Int32
	srv := newTestServer(t, &posts)
	defer srv.Close()

	c := newTestClient(t, srv)
	gate := c.Gate("ev_1")
	ctx := context.Background()

	gate.Tap(ctx, ActionPublish)
	d, err := gate.Tap(ctx, ActionCancel)
	if err != nil {
		t.Fatalf("rearm tap: %v", err)
	}
	if d != DecisionRearm {
		t.Fatalf("decision = %v, want rearm", d)
	}
	if got := posts.Load(); got != 0 {
		t.Fatalf("server saw %d transitions, want 0", got)
	}
	if !gate.IsConfirming(ActionCancel) {
		t.Fatal("gate should be confirming cancel after rearm")
	}
}

func TestGateWindowLapse(t *testing.T) {
	var posts atomic.Int32
	srv := newTestServer(t, &posts)
	defer srv.Close()

	c := newTestClient(t, srv, WithConfirmExpiry(20*time.Millisecond))
	gate := c.Gate("ev_1")
	ctx := context.Background()

	gate.Tap(ctx, ActionPublish)
	time.Sleep(60 * time.Millisecond)

	d, err := gate.Tap(ctx, ActionPublish)
	if err != nil {
		t.Fatalf("tap after lapse: %v", err)
	}
	if d != DecisionArm {
		t.Fatalf("decision = %v, want fresh arm after lapse", d)
	}
	if got := posts.Load(); got != 0 {
		t.Fatalf("server saw %d transitions, want 0", got)
	}
}

func TestGateServerRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{
			"code":    "illegal_transition",
			"message": "event is already canceled",
		})
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	gate := c.Gate("ev_1")
	ctx := context.Background()

	gate.Tap(ctx, ActionCancel)
	d, err := gate.Tap(ctx, ActionCancel)
	if d != DecisionExecute {
		t.Fatalf("decision = %v, want execute", d)
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T: %v", err, err)
	}
	if apiErr.Code != "illegal_transition" {
		t.Fatalf("code = %q", apiErr.Code)
	}
	if gate.Receipt() != nil {
		t.Fatal("no receipt expected after rejection")
	}
	if gate.IsConfirming(ActionCancel) {
		t.Fatal("gate should be idle after a rejected execution")
	}
}

type captureNotifier struct {
	successes atomic.Int32
	failures  atomic.Int32
}

func (c *captureNotifier) Success(Notice)        { c.successes.Add(1) }
func (c *captureNotifier) Failure(Notice, error) { c.failures.Add(1) }

func TestGateNotifier(t *testing.T) {
	var posts atomic.Int32
	srv := newTestServer(t, &posts)
	defer srv.Close()

	nf := &captureNotifier{}
	c := newTestClient(t, srv, WithNotifier(nf))
	gate := c.Gate("ev_1")
	ctx := context.Background()

	gate.Tap(ctx, ActionPublish)
	gate.Tap(ctx, ActionPublish)

	if got := nf.successes.Load(); got != 1 {
		t.Fatalf("success notices = %d, want 1", got)
	}
	if got := nf.failures.Load(); got != 0 {
		t.Fatalf("failure notices = %d, want 0", got)
	}
}

func TestGatesIndependentPerEvent(t *testing.T) {
	var posts atomic.Int32
	srv := newTestServer(t, &posts)
	defer srv.Close()

	c := newTestClient(t, srv)
	ctx := context.Background()

	a := c.Gate("ev_1")
	b := c.Gate("ev_2")

	a.Tap(ctx, ActionPublish)
	if b.IsConfirming(ActionPublish) {
		t.Fatal("arming one event's gate must not arm another's")
	}
}
