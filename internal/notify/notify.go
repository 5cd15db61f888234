// Package notify surfaces transition outcomes to the user and to
// configured webhook destinations. The confirmation gate reports through
// the Notifier interface exactly once per executed effect.
package notify

import (
	"fmt"
	"io"

	"github.com/convive/convive/internal/model"
)

// Notice describes one completed (or failed) transition.
type Notice struct {
	Event   model.EventID
	Action  model.ActionKey
	Message string
}

// Notifier receives the outcome of an executed effect.
type Notifier interface {
	Success(n Notice)
	Failure(n Notice, err error)
}

// Terminal writes notices to a writer, one line each. The CLI points it at
// stderr so command output stays clean for piping.
type Terminal struct {
	W io.Writer
}

func (t *Terminal) Success(n Notice) {
	msg := n.Message
	if msg == "" {
		msg = fmt.Sprintf("%s: done", n.Action.Label())
	}
	fmt.Fprintf(t.W, "✓ %s %s\n", n.Event, msg)
}

func (t *Terminal) Failure(n Notice, err error) {
	fmt.Fprintf(t.W, "✗ %s %s failed: %v\n", n.Event, n.Action.Label(), err)
}

// Multi fans a notice out to several notifiers. Nil entries are skipped.
type Multi []Notifier

func (m Multi) Success(n Notice) {
	for _, nf := range m {
		if nf != nil {
			nf.Success(n)
		}
	}
}

func (m Multi) Failure(n Notice, err error) {
	for _, nf := range m {
		if nf != nil {
			nf.Failure(n, err)
		}
	}
}
