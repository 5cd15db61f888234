package model

import "fmt"

// ActionKey names an irreversible event-lifecycle transition. Every one of
// these is gated behind a second confirming tap before it is submitted.
type ActionKey string

const (
	ActionPublish  ActionKey = "publish"
	ActionCancel   ActionKey = "cancel"
	ActionComplete ActionKey = "complete"
	ActionPurge    ActionKey = "purge"
	ActionRestore  ActionKey = "restore"
)

// ActionKeys lists all transition keys in display order.
var ActionKeys = []ActionKey{
	ActionPublish,
	ActionCancel,
	ActionComplete,
	ActionPurge,
	ActionRestore,
}

func (k ActionKey) String() string {
	return string(k)
}

// Label returns the human-facing verb for the action.
func (k ActionKey) Label() string {
	switch k {
	case ActionPublish:
		return "Publish"
	case ActionCancel:
		return "Cancel"
	case ActionComplete:
		return "Complete"
	case ActionPurge:
		return "Delete forever"
	case ActionRestore:
		return "Restore"
	default:
		return string(k)
	}
}

// Requests returns the event status the action asks the server to move to.
// The server is free to refuse; the client never checks legality itself.
func (k ActionKey) Requests() EventStatus {
	switch k {
	case ActionPublish:
		return StatusPublished
	case ActionCancel:
		return StatusCanceled
	case ActionComplete:
		return StatusCompleted
	case ActionPurge:
		return StatusDeleted
	case ActionRestore:
		return StatusDraft
	default:
		return ""
	}
}

// ParseActionKey validates a user-supplied action name.
func ParseActionKey(s string) (ActionKey, error) {
	for _, k := range ActionKeys {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown action %q (want one of publish, cancel, complete, purge, restore)", s)
}
