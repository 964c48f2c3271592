package period

import (
	"testing"
	"time"
)

func TestResolve(t *testing.T) {
	t.Parallel()

	opens := time.Date(2025, 9, 2, 0, 0, 0, 0, time.UTC)
	deadline := time.Date(2025, 9, 4, 17, 0, 0, 0, time.UTC)
	w := Window{ContestID: "c1", Number: 1, OpensAt: opens, DeadlineAt: &deadline}

	tests := []struct {
		name     string
		now      time.Time
		complete bool
		want     State
	}{
		{name: "before open", now: opens.Add(-time.Second), want: StateFutureLocked},
		{name: "before open even if complete", now: opens.Add(-time.Second), complete: true, want: StateFutureLocked},
		{name: "open exactly at opens_at", now: opens, want: StateOpenNotSubmitted},
		{name: "open and complete", now: opens.Add(time.Hour), complete: true, want: StateSubmitted},
		{name: "deadline equality counts as past", now: deadline, want: StatePastNoPicks},
		{name: "complete stays submitted after deadline", now: deadline.Add(time.Hour), complete: true, want: StateSubmitted},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := Resolve(w, tc.now, tc.complete); got != tc.want {
				t.Fatalf("unexpected state: got=%s want=%s", got, tc.want)
			}
		})
	}
}

func TestResolve_NilDeadlineNeverPast(t *testing.T) {
	t.Parallel()

	opens := time.Date(2025, 9, 2, 0, 0, 0, 0, time.UTC)
	w := Window{ContestID: "c1", Number: 1, OpensAt: opens}
	if got := Resolve(w, opens.AddDate(1, 0, 0), false); got != StateOpenNotSubmitted {
		t.Fatalf("unexpected state: got=%s want=%s", got, StateOpenNotSubmitted)
	}
	if PastDeadline(nil, opens) {
		t.Fatalf("nil deadline must not be past")
	}
}

func TestAcceptsSubmissions(t *testing.T) {
	t.Parallel()

	opens := time.Date(2025, 9, 2, 0, 0, 0, 0, time.UTC)
	deadline := opens.Add(48 * time.Hour)
	w := Window{ContestID: "c1", Number: 1, OpensAt: opens, DeadlineAt: &deadline}

	if AcceptsSubmissions(w, opens.Add(-time.Minute)) {
		t.Fatalf("expected closed before open")
	}
	if !AcceptsSubmissions(w, deadline.Add(-time.Nanosecond)) {
		t.Fatalf("expected open just before deadline")
	}
	if AcceptsSubmissions(w, deadline) {
		t.Fatalf("expected closed at deadline")
	}
}

func TestDeadlineFromKickoffs(t *testing.T) {
	t.Parallel()

	first := time.Date(2025, 9, 4, 17, 0, 0, 0, time.UTC)
	got := DeadlineFromKickoffs([]time.Time{first.Add(72 * time.Hour), {}, first, first.Add(time.Hour)})
	if got == nil || !got.Equal(first) {
		t.Fatalf("unexpected deadline: %v", got)
	}
	if DeadlineFromKickoffs(nil) != nil {
		t.Fatalf("expected nil deadline without kickoffs")
	}
}

func TestCurrent(t *testing.T) {
	t.Parallel()

	base := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	windows := []Window{
		{ContestID: "c1", Number: 1, OpensAt: base},
		{ContestID: "c1", Number: 2, OpensAt: base.AddDate(0, 0, 7)},
		{ContestID: "c1", Number: 3, OpensAt: base.AddDate(0, 0, 14)},
	}

	got, ok := Current(windows, base.AddDate(0, 0, 8))
	if !ok || got.Number != 2 {
		t.Fatalf("unexpected current window: ok=%t number=%d", ok, got.Number)
	}
	got, ok = Current(windows, base.Add(-time.Hour))
	if !ok || got.Number != 1 {
		t.Fatalf("expected first window before season: ok=%t number=%d", ok, got.Number)
	}
	if _, ok := Current(nil, base); ok {
		t.Fatalf("expected no current window")
	}
}
