package reveal

import (
	"strings"
	"time"

	"github.com/riskibarqy/weekly-picks/internal/domain/participant"
	"github.com/riskibarqy/weekly-picks/internal/domain/period"
	"github.com/riskibarqy/weekly-picks/internal/domain/selection"
)

// CanView decides whether a viewer may see rivals' picks for a period.
func CanView(viewerComplete, pastDeadline bool) bool {
	return viewerComplete || pastDeadline
}

// FilterVisible returns the selections visible once the viewer is allowed to
// look. Before the deadline only participants in submittedIDs are shown, so a
// partial submission stays hidden until the deadline. Records without a
// participant identity are never returned.
func FilterVisible(items []selection.Selection, submittedIDs []string, pastDeadline bool) []selection.Selection {
	submitted := make(map[string]struct{}, len(submittedIDs))
	for _, id := range submittedIDs {
		submitted[id] = struct{}{}
	}
	out := make([]selection.Selection, 0, len(items))
	for _, item := range items {
		if strings.TrimSpace(item.ParticipantID) == "" {
			continue
		}
		if !pastDeadline {
			if _, ok := submitted[item.ParticipantID]; !ok {
				continue
			}
		}
		out = append(out, item)
	}
	return out
}

type Member struct {
	ID    string
	Label string
}

// Status is the per-viewer reveal summary. The submitted roster never carries
// pick content, so it is safe to return before the viewer can view picks.
type Status struct {
	Period                  int
	ViewerSubmittedComplete bool
	PastDeadline            bool
	CanView                 bool
	DeadlineAt              *time.Time
	SubmittedParticipantIDs []string
	SubmittedParticipants   []Member
	SubmittedCount          int
	TotalParticipants       int
}

func BuildStatus(
	viewerID string,
	window period.Window,
	items []selection.Selection,
	members []participant.Participant,
	required []string,
	now time.Time,
) Status {
	submitted := selection.SubmittedParticipantIDs(items, required)
	labels := participant.Labels(members)

	viewerComplete := false
	roster := make([]Member, 0, len(submitted))
	for _, id := range submitted {
		if id == viewerID {
			viewerComplete = true
		}
		label := labels[id]
		if label == "" {
			label = id
		}
		roster = append(roster, Member{ID: id, Label: label})
	}

	pastDeadline := period.PastDeadline(window.DeadlineAt, now)
	return Status{
		Period:                  window.Number,
		ViewerSubmittedComplete: viewerComplete,
		PastDeadline:            pastDeadline,
		CanView:                 CanView(viewerComplete, pastDeadline),
		DeadlineAt:              window.DeadlineAt,
		SubmittedParticipantIDs: submitted,
		SubmittedParticipants:   roster,
		SubmittedCount:          len(submitted),
		TotalParticipants:       len(members),
	}
}
