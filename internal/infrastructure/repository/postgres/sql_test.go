package postgres

import (
	"database/sql"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/riskibarqy/weekly-picks/internal/domain/contest"
	"github.com/riskibarqy/weekly-picks/internal/domain/scoring"
)

func TestIsNotFound(t *testing.T) {
	t.Run("matches wrapped no rows", func(t *testing.T) {
		if !isNotFound(fmt.Errorf("get contest: %w", sql.ErrNoRows)) {
			t.Fatalf("expected true for wrapped sql.ErrNoRows")
		}
	})

	t.Run("ignores unrelated error", func(t *testing.T) {
		if isNotFound(fakeErr("pq: relation contests does not exist")) {
			t.Fatalf("expected false for unrelated error")
		}
	})
}

func TestIsUniqueViolation(t *testing.T) {
	t.Run("matches pq error code", func(t *testing.T) {
		err := fmt.Errorf("insert: %w", &pq.Error{Code: "23505", Message: "duplicate key value"})
		if !isUniqueViolation(err) {
			t.Fatalf("expected true for 23505 pq error")
		}
	})

	t.Run("matches by code in message", func(t *testing.T) {
		if !isUniqueViolation(fakeErr("pq: duplicate key value violates unique constraint (23505)")) {
			t.Fatalf("expected true for 23505 message")
		}
	})

	t.Run("ignores unrelated error", func(t *testing.T) {
		if isUniqueViolation(&pq.Error{Code: "42P01"}) {
			t.Fatalf("expected false for undefined table")
		}
	})
}

func TestContestFromRow(t *testing.T) {
	row := contestTableModel{
		ID:            "c1",
		Name:          "Weekly",
		Season:        "2026",
		Slots:         []byte(`[{"name":"QB","eligiblePositions":["QB"]},{"name":"FLEX","eligiblePositions":["RB","WR"]}]`),
		UseOncePolicy: "lock_on_complete",
	}

	got, err := contestFromRow(row)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.UseOncePolicy != contest.UseOnceLockOnComplete {
		t.Fatalf("unexpected policy: got=%s want=%s", got.UseOncePolicy, contest.UseOnceLockOnComplete)
	}
	if len(got.Slots) != 2 || got.Slots[1].Name != "FLEX" || !got.Slots[1].Accepts("WR") {
		t.Fatalf("unexpected slots: %+v", got.Slots)
	}

	row.UseOncePolicy = "never"
	if _, err := contestFromRow(row); err == nil {
		t.Fatalf("expected error for unknown policy")
	}
}

func TestPeriodStatFromRow(t *testing.T) {
	row := playerPeriodStatTableModel{
		Season:     "2026",
		Period:     3,
		PlayerID:   "qb-allen",
		Categories: []byte(`{"passTD":2,"passYds":275}`),
	}

	got, err := periodStatFromRow(row)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Categories[scoring.PassTouchdowns] != 2 || got.Categories[scoring.PassYards] != 275 {
		t.Fatalf("unexpected categories: %+v", got.Categories)
	}

	raw, err := jsonColumn(categoriesColumn(got.Categories))
	if err != nil {
		t.Fatalf("unexpected encode error: %v", err)
	}
	if raw != `{"passTD":2,"passYds":275}` && raw != `{"passYds":275,"passTD":2}` {
		t.Fatalf("unexpected encoded categories: %s", raw)
	}
}

type fakeErr string

func (e fakeErr) Error() string { return string(e) }
