package confirm

import (
	"testing"
	"time"

	"github.com/convive/convive/internal/model"
)

const testExpiry = 4 * time.Second

var t0 = time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)

func TestReduceIdleTapArms(t *testing.T) {
	s, d := Reduce(State{}, model.ActionPublish, t0, testExpiry)
	if d != DecisionArm {
		t.Fatalf("expected arm, got %s", d)
	}
	if s.Phase != Armed || s.Key != model.ActionPublish || !s.ArmedAt.Equal(t0) {
		t.Errorf("unexpected state: %+v", s)
	}
}

func TestReduceSecondTapExecutes(t *testing.T) {
	s, _ := Reduce(State{}, model.ActionPublish, t0, testExpiry)
	s, d := Reduce(s, model.ActionPublish, t0.Add(time.Second), testExpiry)
	if d != DecisionExecute {
		t.Fatalf("expected execute, got %s", d)
	}
	if s.Phase != Executing || s.Key != model.ActionPublish {
		t.Errorf("unexpected state: %+v", s)
	}
}

func TestReduceDifferentKeyRearms(t *testing.T) {
	s, _ := Reduce(State{}, model.ActionCancel, t0, testExpiry)
	now := t0.Add(time.Second)
	s, d := Reduce(s, model.ActionComplete, now, testExpiry)
	if d != DecisionRearm {
		t.Fatalf("expected rearm, got %s", d)
	}
	if s.Phase != Armed || s.Key != model.ActionComplete || !s.ArmedAt.Equal(now) {
		t.Errorf("unexpected state: %+v", s)
	}
}

func TestReduceExpiredTapArmsFresh(t *testing.T) {
	s, _ := Reduce(State{}, model.ActionPurge, t0, testExpiry)
	now := t0.Add(testExpiry + time.Millisecond)
	s, d := Reduce(s, model.ActionPurge, now, testExpiry)
	if d != DecisionArm {
		t.Fatalf("expected fresh arm after expiry, got %s", d)
	}
	if s.Phase != Armed || !s.ArmedAt.Equal(now) {
		t.Errorf("unexpected state: %+v", s)
	}
}

func TestReduceExactWindowBoundaryExecutes(t *testing.T) {
	// now - armedAt == expiry is still inside the window.
	s, _ := Reduce(State{}, model.ActionPublish, t0, testExpiry)
	_, d := Reduce(s, model.ActionPublish, t0.Add(testExpiry), testExpiry)
	if d != DecisionExecute {
		t.Errorf("expected execute at the boundary, got %s", d)
	}
}

func TestReduceIgnoresTapsWhileExecuting(t *testing.T) {
	s := State{Phase: Executing, Key: model.ActionPublish, ArmedAt: t0}
	for _, k := range model.ActionKeys {
		next, d := Reduce(s, k, t0.Add(time.Second), testExpiry)
		if d != DecisionIgnore {
			t.Errorf("tap(%s) while executing: expected ignore, got %s", k, d)
		}
		if next != s {
			t.Errorf("tap(%s) while executing mutated state: %+v", k, next)
		}
	}
}

func TestExpireClearsStaleArm(t *testing.T) {
	s := State{Phase: Armed, Key: model.ActionCancel, ArmedAt: t0}

	if got := Expire(s, t0.Add(testExpiry), testExpiry); got != s {
		t.Errorf("in-window arm should survive, got %+v", got)
	}
	if got := Expire(s, t0.Add(testExpiry+time.Nanosecond), testExpiry); got.Phase != Idle {
		t.Errorf("stale arm should clear, got %+v", got)
	}
}

func TestExpireLeavesExecuting(t *testing.T) {
	s := State{Phase: Executing, Key: model.ActionPurge, ArmedAt: t0}
	if got := Expire(s, t0.Add(time.Hour), testExpiry); got != s {
		t.Errorf("expiry must never cancel a submitted effect, got %+v", got)
	}
}

func BenchmarkReduce(b *testing.B) {
	s := State{}
	now := t0
	for i := 0; i < b.N; i++ {
		now = now.Add(time.Millisecond)
		s, _ = Reduce(s, model.ActionPublish, now, testExpiry)
		if s.Phase == Executing {
			s = State{}
		}
	}
}
