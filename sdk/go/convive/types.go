package convive

import (
	"github.com/convive/convive/internal/confirm"
	"github.com/convive/convive/internal/model"
	"github.com/convive/convive/internal/notify"
	"github.com/convive/convive/internal/repo"
)

// Domain types, re-exported so SDK users never import internal packages.
type (
	Event       = model.Event
	EventID     = model.EventID
	EventStatus = model.EventStatus
	Item        = model.Item
	JoinRequest = model.JoinRequest
	ActionKey   = model.ActionKey
)

// Lifecycle actions a Gate can confirm.
const (
	ActionPublish  = model.ActionPublish
	ActionCancel   = model.ActionCancel
	ActionComplete = model.ActionComplete
	ActionPurge    = model.ActionPurge
	ActionRestore  = model.ActionRestore
)

// Decision is what a single tap did.
type Decision = confirm.Decision

const (
	// DecisionIgnore: a transition is already executing; the tap was dropped.
	DecisionIgnore = confirm.DecisionIgnore
	// DecisionArm: the tap armed the action; one more tap executes it.
	DecisionArm = confirm.DecisionArm
	// DecisionRearm: the tap replaced the previously armed action.
	DecisionRearm = confirm.DecisionRearm
	// DecisionExecute: the tap confirmed the action and the effect ran.
	DecisionExecute = confirm.DecisionExecute
)

// APIError is a typed server rejection (illegal transition, capacity
// conflict, overclaim). Use errors.As to branch on it.
type APIError = repo.APIError

// TransitionReceipt acknowledges an accepted transition.
type TransitionReceipt = repo.TransitionReceipt

// Query filters event listings.
type Query = repo.Query

// Notice and Notifier carry transition outcomes to the embedding
// application's notification surface (toast, alert, webhook).
type (
	Notice   = notify.Notice
	Notifier = notify.Notifier
)
