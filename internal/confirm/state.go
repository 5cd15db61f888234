// Package confirm implements the two-tap confirmation gate for irreversible
// event-lifecycle transitions. A first tap arms an action; a second tap on
// the same action inside the expiry window executes it. Arming decays after
// the window, and tapping a different action replaces the armed one.
//
// The transition rules live in a pure reducer so they can be tested without
// timers or effects; Gate wraps the reducer with a clock, effect dispatch,
// and notification.
package confirm

import (
	"time"

	"github.com/convive/convive/internal/model"
)

// Phase is the gate's coarse state.
type Phase int

const (
	Idle Phase = iota
	Armed
	Executing
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Armed:
		return "armed"
	case Executing:
		return "executing"
	default:
		return "unknown"
	}
}

// State is the confirmation state for one event-detail view. Key and
// ArmedAt are meaningful only while Phase is Armed or Executing.
type State struct {
	Phase   Phase
	Key     model.ActionKey
	ArmedAt time.Time
}

// Decision is the outcome of feeding one tap to the reducer.
type Decision int

const (
	// DecisionIgnore: the tap had no observable effect (an effect is in flight).
	DecisionIgnore Decision = iota
	// DecisionArm: the tap armed an action from idle, or re-armed the same
	// action after its window lapsed.
	DecisionArm
	// DecisionRearm: the tap replaced a live arming with a different action.
	DecisionRearm
	// DecisionExecute: the tap was a confirming second tap; the effect runs.
	DecisionExecute
)

func (d Decision) String() string {
	switch d {
	case DecisionIgnore:
		return "ignore"
	case DecisionArm:
		return "arm"
	case DecisionRearm:
		return "rearm"
	case DecisionExecute:
		return "execute"
	default:
		return "unknown"
	}
}

// Reduce applies one tap to the state. It never runs effects; callers act
// on DecisionExecute. A stale arming (older than expiry) is indistinguishable
// from idle: the tap arms fresh rather than executing.
func Reduce(s State, key model.ActionKey, now time.Time, expiry time.Duration) (State, Decision) {
	switch s.Phase {
	case Executing:
		return s, DecisionIgnore

	case Armed:
		if now.Sub(s.ArmedAt) > expiry {
			// Window lapsed. The previous arming no longer counts.
			return State{Phase: Armed, Key: key, ArmedAt: now}, DecisionArm
		}
		if key == s.Key {
			return State{Phase: Executing, Key: key, ArmedAt: s.ArmedAt}, DecisionExecute
		}
		return State{Phase: Armed, Key: key, ArmedAt: now}, DecisionRearm

	default: // Idle
		return State{Phase: Armed, Key: key, ArmedAt: now}, DecisionArm
	}
}

// Expire clears a stale arming. Returns the state unchanged unless it is an
// arming older than expiry.
func Expire(s State, now time.Time, expiry time.Duration) State {
	if s.Phase == Armed && now.Sub(s.ArmedAt) > expiry {
		return State{}
	}
	return s
}
