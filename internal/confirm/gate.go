package confirm

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/convive/convive/internal/model"
	"github.com/convive/convive/internal/notify"
)

// Effect performs the actual transition for one action, normally an HTTP
// call to the event repository. The gate invokes it at most once per
// completed two-tap sequence and never retries; a failed effect is surfaced
// through the notifier and the gate returns to idle.
type Effect func(ctx context.Context, id model.EventID) error

// Gate owns the confirmation state for a single event-detail view. One
// action at a time may be armed or executing; taps arriving while an effect
// is in flight are dropped so a transition cannot be submitted twice.
type Gate struct {
	mu      sync.Mutex
	state   State
	timer   *time.Timer
	eventID model.EventID
	expiry  time.Duration
	now     func() time.Time
	effects map[model.ActionKey]Effect
	nf      notify.Notifier
}

// GateOption configures a Gate at creation time.
type GateOption func(*Gate)

// WithClock replaces the gate's time source. Test hook.
func WithClock(now func() time.Time) GateOption {
	return func(g *Gate) { g.now = now }
}

// WithNotifier sets the notifier that receives success/failure notices.
func WithNotifier(nf notify.Notifier) GateOption {
	return func(g *Gate) { g.nf = nf }
}

// NewGate creates a gate for one event. Effects map action keys to the
// operations they confirm; a tap on a key with no effect is rejected at
// execution time, not at arming time.
func NewGate(eventID model.EventID, expiry time.Duration, effects map[model.ActionKey]Effect, opts ...GateOption) *Gate {
	g := &Gate{
		eventID: eventID,
		expiry:  expiry,
		now:     time.Now,
		effects: effects,
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Tap feeds one tap into the gate and, when it is a confirming second tap,
// runs the action's effect synchronously. The returned Decision is what the
// tap did; the error is the effect's outcome and is non-nil only for
// DecisionExecute.
func (g *Gate) Tap(ctx context.Context, key model.ActionKey) (Decision, error) {
	g.mu.Lock()
	next, d := Reduce(g.state, key, g.now(), g.expiry)
	if d != DecisionIgnore {
		g.state = next
	}
	switch d {
	case DecisionArm, DecisionRearm:
		g.armTimer()
	case DecisionExecute:
		g.stopTimer()
	}
	g.mu.Unlock()

	if d != DecisionExecute {
		return d, nil
	}
	return d, g.run(ctx, key)
}

// run executes the effect while the gate is in Executing, then returns it
// to idle whatever the outcome. The lock is not held across the effect so
// concurrent taps are observed (and ignored) rather than queued.
func (g *Gate) run(ctx context.Context, key model.ActionKey) error {
	effect, ok := g.effects[key]
	var err error
	if !ok {
		err = fmt.Errorf("no effect registered for action %q", key)
	} else {
		err = effect(ctx, g.eventID)
	}

	g.mu.Lock()
	g.state = State{}
	g.mu.Unlock()

	n := notify.Notice{Event: g.eventID, Action: key}
	if err != nil {
		if g.nf != nil {
			g.nf.Failure(n, err)
		}
		return err
	}
	if g.nf != nil {
		g.nf.Success(n)
	}
	return nil
}

// ArmedKey returns the currently armed action, if any. A stale arming
// reports as not armed even before the timer has cleared it.
func (g *Gate) ArmedKey() (model.ActionKey, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	s := Expire(g.state, g.now(), g.expiry)
	if s.Phase != Armed {
		return "", false
	}
	return s.Key, true
}

// IsConfirming reports whether the given action is armed, i.e. the view
// should show "tap again to confirm" for it.
func (g *Gate) IsConfirming(key model.ActionKey) bool {
	k, ok := g.ArmedKey()
	return ok && k == key
}

// Idle reports whether the gate holds no live confirmation state: nothing
// armed (stale armings count as nothing) and no effect executing.
func (g *Gate) Idle() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return Expire(g.state, g.now(), g.expiry).Phase == Idle
}

// Expiry returns the confirmation window.
func (g *Gate) Expiry() time.Duration {
	return g.expiry
}

// armTimer schedules the background reset that makes the confirmation hint
// disappear without a further tap. Callers hold g.mu.
func (g *Gate) armTimer() {
	g.stopTimer()
	armedAt := g.state.ArmedAt
	g.timer = time.AfterFunc(g.expiry, func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		// Only clear the arming the timer was set for.
		if g.state.Phase == Armed && g.state.ArmedAt.Equal(armedAt) {
			g.state = State{}
		}
	})
}

func (g *Gate) stopTimer() {
	if g.timer != nil {
		g.timer.Stop()
		g.timer = nil
	}
}
