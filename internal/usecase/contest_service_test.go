package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/weekly-picks/internal/domain/participant"
	"github.com/riskibarqy/weekly-picks/internal/domain/period"
	"github.com/riskibarqy/weekly-picks/internal/infrastructure/repository/memory"
	"github.com/stretchr/testify/require"
)

func TestContestService_JoinAndRename(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, week1Open)
	svc := env.contestService()

	joined, err := svc.Join(t.Context(), memory.ContestIDWeeklyPicks, participant.Principal{ParticipantID: "u-1", Label: "Sam"})
	require.NoError(t, err)
	if joined.Label != "Sam" || !joined.JoinedAt.Equal(week1Open) {
		t.Fatalf("unexpected participant: %+v", joined)
	}

	env.clock.Advance(time.Hour)
	again, err := svc.Join(t.Context(), memory.ContestIDWeeklyPicks, participant.Principal{ParticipantID: "u-1", Label: "Other"})
	require.NoError(t, err)
	if again.Label != "Sam" || !again.JoinedAt.Equal(week1Open) {
		t.Fatalf("second join must keep the original record: %+v", again)
	}

	renamed, err := svc.Rename(t.Context(), memory.ContestIDWeeklyPicks, participant.Principal{ParticipantID: "u-1"}, "  Samantha ")
	require.NoError(t, err)
	if renamed.ID != "u-1" || renamed.Label != "Samantha" {
		t.Fatalf("unexpected renamed participant: %+v", renamed)
	}

	_, err = svc.Rename(t.Context(), memory.ContestIDWeeklyPicks, participant.Principal{ParticipantID: "u-1"}, "")
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Join(t.Context(), "missing", participant.Principal{ParticipantID: "u-1"})
	require.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Join(t.Context(), memory.ContestIDWeeklyPicks, participant.Principal{})
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestContestService_ListPeriods(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, week1Open.Add(time.Hour))
	env.join(t, "alice")
	env.commit(t, "alice", 1, "qb-allen", "rb-barkley", "wr-chase", "te-kelce")

	env.clock.Set(week2Open.Add(time.Hour))
	views, err := env.contestService().ListPeriods(t.Context(), memory.ContestIDWeeklyPicks, "alice")
	require.NoError(t, err)
	require.Len(t, views, 4)

	want := []period.State{
		period.StateSubmitted,
		period.StateOpenNotSubmitted,
		period.StateFutureLocked,
		period.StateFutureLocked,
	}
	for i, view := range views {
		if view.State != want[i] {
			t.Fatalf("unexpected state for period %d: got=%s want=%s", view.Window.Number, view.State, want[i])
		}
	}
	if !views[1].Current || views[0].Current {
		t.Fatalf("period 2 should be current: %+v", views)
	}

	other, err := env.contestService().ListPeriods(t.Context(), memory.ContestIDWeeklyPicks, "bob")
	require.NoError(t, err)
	if other[0].State != period.StatePastNoPicks {
		t.Fatalf("unexpected state for bob: %s", other[0].State)
	}
}
