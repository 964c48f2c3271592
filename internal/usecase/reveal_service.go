package usecase

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/riskibarqy/weekly-picks/internal/domain/contest"
	"github.com/riskibarqy/weekly-picks/internal/domain/participant"
	"github.com/riskibarqy/weekly-picks/internal/domain/period"
	"github.com/riskibarqy/weekly-picks/internal/domain/reveal"
	"github.com/riskibarqy/weekly-picks/internal/domain/selection"
)

type VisibleSelection struct {
	ParticipantID string
	Label         string
	Slot          string
	PlayerID      string
	CommittedAt   time.Time
}

type RevealService struct {
	contestRepo     contest.Repository
	participantRepo participant.Repository
	windowRepo      period.Repository
	submissions     *SubmissionReader
	now             func() time.Time
}

func NewRevealService(
	contestRepo contest.Repository,
	participantRepo participant.Repository,
	windowRepo period.Repository,
	submissions *SubmissionReader,
) *RevealService {
	return &RevealService{
		contestRepo:     contestRepo,
		participantRepo: participantRepo,
		windowRepo:      windowRepo,
		submissions:     submissions,
		now:             time.Now,
	}
}

// Status reports who has submitted for the period and whether the viewer may
// see their picks. The roster is returned either way.
func (s *RevealService) Status(ctx context.Context, contestID string, viewer participant.Principal, number int) (reveal.Status, error) {
	ctx, span := traceOp(ctx, "RevealService.Status")
	defer span.End()

	status, _, err := s.load(ctx, contestID, viewer, number)
	return status, err
}

// VisibleSelections returns rivals' picks when the viewer may see them, and
// an empty list otherwise.
func (s *RevealService) VisibleSelections(ctx context.Context, contestID string, viewer participant.Principal, number int) (reveal.Status, []VisibleSelection, error) {
	ctx, span := traceOp(ctx, "RevealService.VisibleSelections")
	defer span.End()

	status, view, err := s.load(ctx, contestID, viewer, number)
	if err != nil {
		return reveal.Status{}, nil, err
	}

	labels := participant.Labels(view.members)
	out := make([]VisibleSelection, 0, len(view.visible))
	for _, item := range view.visible {
		label := labels[item.ParticipantID]
		if label == "" {
			label = item.ParticipantID
		}
		out = append(out, VisibleSelection{
			ParticipantID: item.ParticipantID,
			Label:         label,
			Slot:          item.Slot,
			PlayerID:      item.PlayerID,
			CommittedAt:   item.CommittedAt,
		})
	}
	return status, out, nil
}

type periodView struct {
	members []participant.Participant
	visible []selection.Selection
}

func (s *RevealService) load(ctx context.Context, contestID string, viewer participant.Principal, number int) (reveal.Status, periodView, error) {
	c, err := loadContest(ctx, s.contestRepo, contestID)
	if err != nil {
		return reveal.Status{}, periodView{}, err
	}
	w, err := loadWindow(ctx, s.windowRepo, c.ID, number)
	if err != nil {
		return reveal.Status{}, periodView{}, err
	}
	members, err := s.participantRepo.ListByContest(ctx, c.ID)
	if err != nil {
		return reveal.Status{}, periodView{}, fmt.Errorf("list participants: %w", err)
	}
	items, err := s.submissions.Period(ctx, c.ID, w.Number)
	if err != nil {
		return reveal.Status{}, periodView{}, err
	}

	now := s.now()
	status := reveal.BuildStatus(viewer.ParticipantID, w, items, members, c.RequiredSlots(), now)
	if viewer.IsOperator {
		status.CanView = true
	}
	return status, periodView{
		members: members,
		visible: visibleForViewer(items, viewer, w, c.RequiredSlots(), now),
	}, nil
}

// visibleForViewer applies the reveal policy. Operators see every pick.
func visibleForViewer(items []selection.Selection, viewer participant.Principal, w period.Window, required []string, now time.Time) []selection.Selection {
	if viewer.IsOperator {
		return reveal.FilterVisible(items, nil, true)
	}
	past := period.PastDeadline(w.DeadlineAt, now)
	submitted := selection.SubmittedParticipantIDs(items, required)
	complete := false
	if viewer.ParticipantID != "" {
		complete = slices.Contains(submitted, viewer.ParticipantID)
	}
	if !reveal.CanView(complete, past) {
		return []selection.Selection{}
	}
	return reveal.FilterVisible(items, submitted, past)
}
