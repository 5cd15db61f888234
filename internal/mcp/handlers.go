package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/convive/convive/internal/confirm"
	"github.com/convive/convive/internal/model"
	"github.com/convive/convive/internal/repo"
)

// --- Input/Output types ---

// EventsInput defines parameters for the convive_events tool.
type EventsInput struct {
	Tab    string `json:"tab,omitempty" jsonschema:"tab to list: discover, attending, hosting"`
	Status string `json:"status,omitempty" jsonschema:"status filter (draft, published, canceled, completed, deleted)"`
	Search string `json:"search,omitempty" jsonschema:"free-text search over title and location"`
}

// EventsOutput lists matching events.
type EventsOutput struct {
	Events []model.Event `json:"events"`
}

// EventInput defines parameters for the convive_event tool.
type EventInput struct {
	EventID string `json:"event_id" jsonschema:"event identifier"`
}

// EventOutput carries one event.
type EventOutput struct {
	Event *model.Event `json:"event"`
}

// TransitionInput defines parameters for the convive_transition tool.
type TransitionInput struct {
	EventID string `json:"event_id" jsonschema:"event identifier"`
	Action  string `json:"action" jsonschema:"transition: publish, cancel, complete, purge, restore"`
}

// TransitionOutput reports what the tap did. ConfirmRequired=true means
// the action is now armed and the call must be repeated within the window.
type TransitionOutput struct {
	Executed         bool    `json:"executed"`
	ConfirmRequired  bool    `json:"confirm_required,omitempty"`
	ExpiresInSeconds float64 `json:"expires_in_seconds,omitempty"`
	Armed            string  `json:"armed,omitempty"` // currently armed action, if any
	ReceiptID        string  `json:"receipt_id,omitempty"`
	Status           string  `json:"status,omitempty"`
	Error            string  `json:"error,omitempty"`
}

// ClaimInput defines parameters for the convive_claim tool.
type ClaimInput struct {
	EventID string `json:"event_id" jsonschema:"event identifier"`
	ItemID  string `json:"item_id" jsonschema:"item identifier"`
	Count   int    `json:"count" jsonschema:"units to claim; negative releases"`
}

// ClaimOutput carries the item after the claim change.
type ClaimOutput struct {
	Item *model.Item `json:"item"`
}

// --- Handlers ---

func (s *Server) handleEvents(ctx context.Context, req *mcpsdk.CallToolRequest, input EventsInput) (*mcpsdk.CallToolResult, EventsOutput, error) {
	events, err := s.client.ListEvents(ctx, repo.Query{
		Tab:    input.Tab,
		Status: model.EventStatus(input.Status),
		Search: input.Search,
	})
	if err != nil {
		return nil, EventsOutput{}, err
	}
	return nil, EventsOutput{Events: events}, nil
}

func (s *Server) handleEvent(ctx context.Context, req *mcpsdk.CallToolRequest, input EventInput) (*mcpsdk.CallToolResult, EventOutput, error) {
	ev, err := s.client.GetEvent(ctx, model.EventID(input.EventID))
	if err != nil {
		return nil, EventOutput{}, err
	}
	return nil, EventOutput{Event: ev}, nil
}

func (s *Server) handleTransition(ctx context.Context, req *mcpsdk.CallToolRequest, input TransitionInput) (*mcpsdk.CallToolResult, TransitionOutput, error) {
	key, err := model.ParseActionKey(input.Action)
	if err != nil {
		return nil, TransitionOutput{}, err
	}

	entry := s.gateFor(model.EventID(input.EventID))
	d, effErr := entry.gate.Tap(ctx, key)

	switch d {
	case confirm.DecisionExecute:
		out := TransitionOutput{Executed: true}
		if effErr != nil {
			out.Executed = false
			out.Error = effErr.Error()
			return nil, out, nil
		}
		if r := entry.takeReceipt(); r != nil {
			out.ReceiptID = r.ID
			out.Status = string(r.Status)
		}
		return nil, out, nil

	case confirm.DecisionIgnore:
		// An effect is already in flight for this event.
		return nil, TransitionOutput{Error: "a transition is already executing for this event"}, nil

	default: // arm or rearm
		armed, _ := entry.gate.ArmedKey()
		return nil, TransitionOutput{
			ConfirmRequired:  true,
			ExpiresInSeconds: entry.gate.Expiry().Seconds(),
			Armed:            string(armed),
		}, nil
	}
}

func (s *Server) handleClaim(ctx context.Context, req *mcpsdk.CallToolRequest, input ClaimInput) (*mcpsdk.CallToolResult, ClaimOutput, error) {
	var item *model.Item
	var err error
	if input.Count >= 0 {
		item, err = s.client.ClaimItem(ctx, model.EventID(input.EventID), input.ItemID, input.Count)
	} else {
		item, err = s.client.ReleaseItem(ctx, model.EventID(input.EventID), input.ItemID, -input.Count)
	}
	if err != nil {
		return nil, ClaimOutput{}, err
	}
	return nil, ClaimOutput{Item: item}, nil
}
