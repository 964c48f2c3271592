package contest

import "testing"

func TestContestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		contest Contest
		wantErr bool
	}{
		{
			name:    "valid",
			contest: Contest{ID: "c1", Season: "2025", Slots: []Slot{{Name: "QB"}, {Name: "RB"}}},
		},
		{
			name:    "missing slots",
			contest: Contest{ID: "c1", Season: "2025"},
			wantErr: true,
		},
		{
			name:    "duplicate slot",
			contest: Contest{ID: "c1", Season: "2025", Slots: []Slot{{Name: "QB"}, {Name: "QB"}}},
			wantErr: true,
		},
		{
			name:    "missing season",
			contest: Contest{ID: "c1", Slots: []Slot{{Name: "QB"}}},
			wantErr: true,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := tc.contest.Validate()
			if tc.wantErr && err == nil {
				t.Fatalf("expected error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestSlotAccepts(t *testing.T) {
	t.Parallel()

	flex := Slot{Name: "FLEX", EligiblePositions: []string{"RB", "WR", "TE"}}
	if !flex.Accepts("wr") {
		t.Fatalf("expected FLEX to accept WR")
	}
	if flex.Accepts("QB") {
		t.Fatalf("expected FLEX to reject QB")
	}
	if !(Slot{Name: "ANY"}).Accepts("K") {
		t.Fatalf("expected open slot to accept any position")
	}
}

func TestParseUseOncePolicy(t *testing.T) {
	t.Parallel()

	got, err := ParseUseOncePolicy("")
	if err != nil || got != UseOnceLockOnAttempt {
		t.Fatalf("unexpected default policy: got=%s err=%v", got, err)
	}
	got, err = ParseUseOncePolicy("LOCK_ON_COMPLETE")
	if err != nil || got != UseOnceLockOnComplete {
		t.Fatalf("unexpected policy: got=%s err=%v", got, err)
	}
	if _, err := ParseUseOncePolicy("never"); err == nil {
		t.Fatalf("expected error for unknown policy")
	}
}
