package statsrefresh

import "testing"

func TestStatusFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		succeeded, skipped, failed int
		want                       Status
	}{
		{succeeded: 3, want: StatusCompleted},
		{succeeded: 1, skipped: 2, want: StatusCompleted},
		{succeeded: 2, failed: 1, want: StatusPartial},
		{failed: 4, want: StatusFailed},
		{want: StatusNothingToSync},
	}
	for _, tc := range tests {
		if got := StatusFor(tc.succeeded, tc.skipped, tc.failed); got != tc.want {
			t.Fatalf("unexpected status for %d/%d/%d: got=%s want=%s", tc.succeeded, tc.skipped, tc.failed, got, tc.want)
		}
	}
	if (Run{Status: StatusFailed}).Successful() {
		t.Fatalf("failed run must not count as successful")
	}
}
