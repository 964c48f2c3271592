package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/weekly-picks/internal/domain/contest"
	"github.com/riskibarqy/weekly-picks/internal/domain/participant"
	"github.com/riskibarqy/weekly-picks/internal/domain/period"
	"github.com/riskibarqy/weekly-picks/internal/domain/selection"
)

type PeriodView struct {
	Window  period.Window
	State   period.State
	Current bool
}

type ContestService struct {
	contestRepo     contest.Repository
	participantRepo participant.Repository
	windowRepo      period.Repository
	selectionRepo   selection.Repository
	now             func() time.Time
}

func NewContestService(
	contestRepo contest.Repository,
	participantRepo participant.Repository,
	windowRepo period.Repository,
	selectionRepo selection.Repository,
) *ContestService {
	return &ContestService{
		contestRepo:     contestRepo,
		participantRepo: participantRepo,
		windowRepo:      windowRepo,
		selectionRepo:   selectionRepo,
		now:             time.Now,
	}
}

func (s *ContestService) ListContests(ctx context.Context) ([]contest.Contest, error) {
	ctx, span := traceOp(ctx, "ContestService.ListContests")
	defer span.End()

	items, err := s.contestRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list contests: %w", err)
	}
	return items, nil
}

func (s *ContestService) GetContest(ctx context.Context, contestID string) (contest.Contest, error) {
	return loadContest(ctx, s.contestRepo, contestID)
}

// Join registers the caller as a participant. Joining twice keeps the
// original join time and label.
func (s *ContestService) Join(ctx context.Context, contestID string, principal participant.Principal) (participant.Participant, error) {
	ctx, span := traceOp(ctx, "ContestService.Join")
	defer span.End()

	c, err := loadContest(ctx, s.contestRepo, contestID)
	if err != nil {
		return participant.Participant{}, err
	}
	participantID := strings.TrimSpace(principal.ParticipantID)
	if participantID == "" {
		return participant.Participant{}, fmt.Errorf("%w: participant identity is required", ErrUnauthorized)
	}

	existing, exists, err := s.participantRepo.GetByID(ctx, c.ID, participantID)
	if err != nil {
		return participant.Participant{}, fmt.Errorf("get participant: %w", err)
	}
	if exists {
		return existing, nil
	}

	label := strings.TrimSpace(principal.Label)
	if label == "" {
		label = participantID
	}
	item := participant.Participant{
		ContestID: c.ID,
		ID:        participantID,
		Label:     label,
		JoinedAt:  s.now().UTC(),
	}
	if err := item.Validate(); err != nil {
		return participant.Participant{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.participantRepo.Upsert(ctx, item); err != nil {
		return participant.Participant{}, fmt.Errorf("upsert participant: %w", err)
	}
	return item, nil
}

// Rename changes the display label only; the identity used by picks and
// leaderboards stays the same.
func (s *ContestService) Rename(ctx context.Context, contestID string, principal participant.Principal, label string) (participant.Participant, error) {
	ctx, span := traceOp(ctx, "ContestService.Rename")
	defer span.End()

	c, err := loadContest(ctx, s.contestRepo, contestID)
	if err != nil {
		return participant.Participant{}, err
	}
	item, err := requireMember(ctx, s.participantRepo, c.ID, principal)
	if err != nil {
		return participant.Participant{}, err
	}

	item.Label = strings.TrimSpace(label)
	if err := item.Validate(); err != nil {
		return participant.Participant{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.participantRepo.Upsert(ctx, item); err != nil {
		return participant.Participant{}, fmt.Errorf("upsert participant: %w", err)
	}
	return item, nil
}

func (s *ContestService) ListParticipants(ctx context.Context, contestID string) ([]participant.Participant, error) {
	c, err := loadContest(ctx, s.contestRepo, contestID)
	if err != nil {
		return nil, err
	}
	items, err := s.participantRepo.ListByContest(ctx, c.ID)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	return items, nil
}

// ListPeriods resolves every window of the contest for the caller.
func (s *ContestService) ListPeriods(ctx context.Context, contestID, participantID string) ([]PeriodView, error) {
	ctx, span := traceOp(ctx, "ContestService.ListPeriods")
	defer span.End()

	c, err := loadContest(ctx, s.contestRepo, contestID)
	if err != nil {
		return nil, err
	}

	windows, err := s.windowRepo.ListByContest(ctx, c.ID)
	if err != nil {
		return nil, fmt.Errorf("list period windows: %w", err)
	}
	history, err := s.participantHistory(ctx, c.ID, participantID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	current, hasCurrent := period.Current(windows, now)
	out := make([]PeriodView, 0, len(windows))
	for _, w := range windows {
		out = append(out, PeriodView{
			Window:  w,
			State:   period.Resolve(w, now, selection.IsComplete(history[w.Number], c.RequiredSlots())),
			Current: hasCurrent && current.Number == w.Number,
		})
	}
	return out, nil
}

func (s *ContestService) PeriodState(ctx context.Context, contestID, participantID string, number int) (PeriodView, error) {
	ctx, span := traceOp(ctx, "ContestService.PeriodState")
	defer span.End()

	c, err := loadContest(ctx, s.contestRepo, contestID)
	if err != nil {
		return PeriodView{}, err
	}
	w, err := loadWindow(ctx, s.windowRepo, c.ID, number)
	if err != nil {
		return PeriodView{}, err
	}
	history, err := s.participantHistory(ctx, c.ID, participantID)
	if err != nil {
		return PeriodView{}, err
	}

	now := s.now()
	return PeriodView{
		Window: w,
		State:  period.Resolve(w, now, selection.IsComplete(history[w.Number], c.RequiredSlots())),
	}, nil
}

// participantHistory groups the participant's own picks by period.
func (s *ContestService) participantHistory(ctx context.Context, contestID, participantID string) (map[int]selection.SlotSet, error) {
	out := make(map[int]selection.SlotSet)
	participantID = strings.TrimSpace(participantID)
	if participantID == "" {
		return out, nil
	}

	items, err := s.selectionRepo.ListByContestParticipant(ctx, contestID, participantID)
	if err != nil {
		return nil, fmt.Errorf("list participant selections: %w", err)
	}
	byPeriod := make(map[int][]selection.Selection)
	for _, item := range items {
		byPeriod[item.Period] = append(byPeriod[item.Period], item)
	}
	for number, periodItems := range byPeriod {
		out[number] = selection.GroupByParticipant(periodItems)[participantID]
	}
	return out, nil
}
