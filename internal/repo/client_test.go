package repo

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/convive/convive/internal/model"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL, "tok_test")
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	c.retryDelay = 0
	return c, srv
}

func TestPerformTransitionSendsActionAndIdempotencyKey(t *testing.T) {
	var gotBody map[string]string
	var gotIdem string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/events/ev_1/transitions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer tok_test" {
			t.Error("expected bearer token")
		}
		gotIdem = r.Header.Get("Idempotency-Key")
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(TransitionReceipt{
			ID:     "tr_1",
			Action: model.ActionPublish,
			Status: model.StatusPublished,
		})
	}))

	receipt, err := c.PerformTransition(context.Background(), "ev_1", model.ActionPublish)
	if err != nil {
		t.Fatalf("PerformTransition failed: %v", err)
	}
	if receipt.ID != "tr_1" || receipt.Status != model.StatusPublished {
		t.Errorf("unexpected receipt: %+v", receipt)
	}
	if gotBody["action"] != "publish" {
		t.Errorf("expected action=publish, got %v", gotBody)
	}
	if gotIdem == "" {
		t.Error("expected Idempotency-Key header")
	}
}

func TestPerformTransitionRetriesOn5xxWithSameKey(t *testing.T) {
	var calls atomic.Int32
	keys := map[string]bool{}
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		keys[r.Header.Get("Idempotency-Key")] = true
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		json.NewEncoder(w).Encode(TransitionReceipt{ID: "tr_2"})
	}))

	if _, err := c.PerformTransition(context.Background(), "ev_1", model.ActionCancel); err != nil {
		t.Fatalf("expected retry to succeed: %v", err)
	}
	if calls.Load() != 2 {
		t.Errorf("expected 2 attempts, got %d", calls.Load())
	}
	if len(keys) != 1 {
		t.Errorf("idempotency key must be constant across retries, saw %d keys", len(keys))
	}
}

func TestPerformTransitionConflictIsAPIError(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{
			"code":    "illegal_transition",
			"message": "completed events cannot be published",
		})
	}))

	_, err := c.PerformTransition(context.Background(), "ev_1", model.ActionPublish)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.Status != http.StatusConflict || apiErr.Code != "illegal_transition" {
		t.Errorf("unexpected error: %+v", apiErr)
	}
}

func TestNoRetryOn4xx(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
	}))

	_, err := c.PerformTransition(context.Background(), "ev_1", model.ActionPurge)
	if err == nil {
		t.Fatal("expected error")
	}
	if calls.Load() != 1 {
		t.Errorf("4xx must not be retried, got %d attempts", calls.Load())
	}
}

func TestGetEventUsesCacheAfterList(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		json.NewEncoder(w).Encode(map[string]any{
			"events": []model.Event{{ID: "ev_1", Title: "Harvest dinner", Status: model.StatusPublished}},
		})
	}))

	if _, err := c.ListEvents(context.Background(), Query{}); err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}
	ev, err := c.GetEvent(context.Background(), "ev_1")
	if err != nil {
		t.Fatalf("GetEvent failed: %v", err)
	}
	if ev.Title != "Harvest dinner" {
		t.Errorf("unexpected event: %+v", ev)
	}
	if calls.Load() != 1 {
		t.Errorf("expected cache hit, server saw %d calls", calls.Load())
	}
}

func TestTransitionInvalidatesCache(t *testing.T) {
	var gets atomic.Int32
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet:
			gets.Add(1)
			json.NewEncoder(w).Encode(model.Event{ID: "ev_1", Status: model.StatusDraft})
		default:
			json.NewEncoder(w).Encode(TransitionReceipt{ID: "tr_1"})
		}
	}))

	c.GetEvent(context.Background(), "ev_1")
	c.GetEvent(context.Background(), "ev_1") // cached
	if gets.Load() != 1 {
		t.Fatalf("expected 1 GET before transition, got %d", gets.Load())
	}

	if _, err := c.PerformTransition(context.Background(), "ev_1", model.ActionPublish); err != nil {
		t.Fatalf("PerformTransition failed: %v", err)
	}

	c.GetEvent(context.Background(), "ev_1")
	if gets.Load() != 2 {
		t.Errorf("expected cache invalidation after transition, got %d GETs", gets.Load())
	}
}

func TestListEventsQueryEncoding(t *testing.T) {
	var got string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.RawQuery
		json.NewEncoder(w).Encode(map[string]any{"events": []model.Event{}})
	}))

	c.ListEvents(context.Background(), Query{Tab: "hosting", Status: model.StatusDraft, Search: "taco night"})
	want := "q=taco+night&status=draft&tab=hosting"
	if got != want {
		t.Errorf("expected query %q, got %q", want, got)
	}
}

func TestClaimItem(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/events/ev_1/items/it_3/claims" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var body map[string]int
		json.NewDecoder(r.Body).Decode(&body)
		if body["count"] != 2 {
			t.Errorf("expected count=2, got %v", body)
		}
		json.NewEncoder(w).Encode(model.Item{ID: "it_3", Claimed: 2})
	}))

	item, err := c.ClaimItem(context.Background(), "ev_1", "it_3", 2)
	if err != nil {
		t.Fatalf("ClaimItem failed: %v", err)
	}
	if item.Claimed != 2 {
		t.Errorf("unexpected item: %+v", item)
	}
}

func TestRespondJoin(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		status := model.JoinRejected
		if body["decision"] == "approve" {
			// Server may waitlist an approval against capacity.
			status = model.JoinWaitlisted
		}
		json.NewEncoder(w).Encode(model.JoinRequest{ID: "jr_1", EventID: "ev_1", Status: status})
	}))

	jr, err := c.RespondJoin(context.Background(), "jr_1", true)
	if err != nil {
		t.Fatalf("RespondJoin failed: %v", err)
	}
	if jr.Status != model.JoinWaitlisted {
		t.Errorf("expected server disposition to pass through, got %s", jr.Status)
	}
}

func TestNewRejectsEmptyBaseURL(t *testing.T) {
	if _, err := New("", ""); err == nil {
		t.Error("expected error for empty base URL")
	}
}
