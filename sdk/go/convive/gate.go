package convive

import (
	"context"
	"sync"
	"time"

	"github.com/convive/convive/internal/confirm"
)

// Gate is a two-tap confirmation gate bound to one event. Taps drive
// the Idle/Armed/Executing machine; only the confirming second tap
// reaches the server.
type Gate struct {
	inner *confirm.Gate

	mu          sync.Mutex
	lastReceipt *TransitionReceipt
}

// Tap registers one tap on the action's control. The returned Decision
// says what the tap did; DecisionExecute means the transition was
// submitted (check Receipt for the acknowledgement).
func (g *Gate) Tap(ctx context.Context, key ActionKey) (Decision, error) {
	return g.inner.Tap(ctx, key)
}

// ArmedKey reports the currently armed action, if any. Stale armings
// past the confirmation window read as idle.
func (g *Gate) ArmedKey() (ActionKey, bool) {
	return g.inner.ArmedKey()
}

// IsConfirming reports whether key is armed and awaiting its second tap.
func (g *Gate) IsConfirming(key ActionKey) bool {
	return g.inner.IsConfirming(key)
}

// Expiry is the confirmation window length.
func (g *Gate) Expiry() time.Duration {
	return g.inner.Expiry()
}

// Receipt returns the acknowledgement from the most recent executed
// transition and clears it. Nil when no transition has executed since
// the last call.
func (g *Gate) Receipt() *TransitionReceipt {
	g.mu.Lock()
	defer g.mu.Unlock()
	r := g.lastReceipt
	g.lastReceipt = nil
	return r
}
