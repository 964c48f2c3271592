package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/riskibarqy/weekly-picks/internal/domain/contest"
	"github.com/riskibarqy/weekly-picks/internal/domain/participant"
	"github.com/riskibarqy/weekly-picks/internal/domain/period"
	"github.com/riskibarqy/weekly-picks/internal/domain/player"
	"github.com/riskibarqy/weekly-picks/internal/domain/selection"
	"github.com/riskibarqy/weekly-picks/internal/platform/logging"
	"github.com/riskibarqy/weekly-picks/internal/platform/metrics"
)

const (
	commitOutcomeCommitted  = "committed"
	commitOutcomeIdempotent = "idempotent"
	commitOutcomeIncomplete = "incomplete"
	commitOutcomeDuplicate  = "duplicate"
	commitOutcomeIneligible = "ineligible"
	commitOutcomeNotOpen    = "not_open"
	commitOutcomeClosed     = "closed"
	commitOutcomeLocked     = "locked"
	commitOutcomeRejected   = "rejected"
	commitOutcomeError      = "error"
)

type CommitPicksInput struct {
	ContestID string
	Principal participant.Principal
	Period    int
	Picks     []selection.Pick
}

type CommitPicksResult struct {
	Period      int
	Picks       []selection.Pick
	CommittedAt time.Time
	// Unchanged is true when the same picks were already committed.
	Unchanged bool
}

type ForbiddenPlayer struct {
	PlayerID     string
	UsedInPeriod int
}

type SelectionService struct {
	contestRepo     contest.Repository
	participantRepo participant.Repository
	windowRepo      period.Repository
	playerRepo      player.Repository
	selectionRepo   selection.Repository
	submissions     *SubmissionReader
	metrics         *metrics.Metrics
	logger          *logging.Logger
	now             func() time.Time
}

func NewSelectionService(
	contestRepo contest.Repository,
	participantRepo participant.Repository,
	windowRepo period.Repository,
	playerRepo player.Repository,
	selectionRepo selection.Repository,
	submissions *SubmissionReader,
	m *metrics.Metrics,
	logger *logging.Logger,
) *SelectionService {
	if logger == nil {
		logger = logging.Default()
	}
	return &SelectionService{
		contestRepo:     contestRepo,
		participantRepo: participantRepo,
		windowRepo:      windowRepo,
		playerRepo:      playerRepo,
		selectionRepo:   selectionRepo,
		submissions:     submissions,
		metrics:         m,
		logger:          logger.Named("selection"),
		now:             time.Now,
	}
}

// Commit validates and stores a participant's picks for one period. Every
// required slot is written together or nothing is written.
func (s *SelectionService) Commit(ctx context.Context, input CommitPicksInput) (CommitPicksResult, error) {
	ctx, span := traceOp(ctx, "SelectionService.Commit")
	defer span.End()

	result, outcome, err := s.commit(ctx, input)
	s.metrics.ObserveCommit(outcome)
	if err != nil {
		if outcome == commitOutcomeError {
			s.logger.ErrorContext(ctx, "commit picks failed",
				"contest_id", input.ContestID,
				"participant_id", input.Principal.ParticipantID,
				"period", input.Period,
				"error", err,
			)
		}
		return CommitPicksResult{}, err
	}
	return result, nil
}

func (s *SelectionService) commit(ctx context.Context, input CommitPicksInput) (CommitPicksResult, string, error) {
	c, err := loadContest(ctx, s.contestRepo, input.ContestID)
	if err != nil {
		return CommitPicksResult{}, commitOutcomeFor(err), err
	}
	member, err := requireMember(ctx, s.participantRepo, c.ID, input.Principal)
	if err != nil {
		return CommitPicksResult{}, commitOutcomeFor(err), err
	}
	w, err := loadWindow(ctx, s.windowRepo, c.ID, input.Period)
	if err != nil {
		return CommitPicksResult{}, commitOutcomeFor(err), err
	}

	now := s.now()
	if !period.AcceptsSubmissions(w, now) {
		if now.Before(w.OpensAt) {
			return CommitPicksResult{}, commitOutcomeNotOpen, fmt.Errorf("%w: period %d opens at %s", selection.ErrPeriodNotOpen, w.Number, w.OpensAt.UTC().Format(time.RFC3339))
		}
		return CommitPicksResult{}, commitOutcomeClosed, fmt.Errorf("%w: period %d locked at %s", selection.ErrPeriodClosed, w.Number, w.DeadlineAt.UTC().Format(time.RFC3339))
	}

	picks := normalizePicks(input.Picks)
	required := c.RequiredSlots()

	history, err := s.selectionRepo.ListByContestParticipant(ctx, c.ID, member.ID)
	if err != nil {
		return CommitPicksResult{}, commitOutcomeError, fmt.Errorf("list participant selections: %w", err)
	}
	if result, outcome, err := lockGate(required, member.ID, w.Number, picks, history); err != nil || outcome != "" {
		return result, outcome, err
	}

	if err := selection.ValidateShape(w.Number, picks, required); err != nil {
		return CommitPicksResult{}, commitOutcomeFor(err), err
	}
	if err := s.validateEligibility(ctx, c, picks); err != nil {
		return CommitPicksResult{}, commitOutcomeFor(err), err
	}
	if err := checkUseOnce(c, member.ID, w.Number, picks, history); err != nil {
		return CommitPicksResult{}, commitOutcomeDuplicate, err
	}

	committed := now.UTC()
	items := make([]selection.Selection, 0, len(picks))
	for _, pick := range picks {
		items = append(items, selection.Selection{
			ContestID:     c.ID,
			ParticipantID: member.ID,
			Period:        w.Number,
			Slot:          pick.Slot,
			PlayerID:      pick.PlayerID,
			CommittedAt:   committed,
		})
	}

	// The gate runs again inside the write so a concurrent commit for the same
	// participant cannot slip past the lock or use-once rules.
	var gated CommitPicksResult
	gatedOutcome := ""
	err = s.selectionRepo.CommitPeriod(ctx, c.ID, member.ID, w.Number, items, func(current []selection.Selection) error {
		result, outcome, err := commitGate(c, member.ID, w.Number, picks, current)
		gated, gatedOutcome = result, outcome
		if err != nil {
			return err
		}
		if outcome != "" {
			return errCommitUnchanged
		}
		return nil
	})
	switch {
	case errors.Is(err, errCommitUnchanged):
		return gated, gatedOutcome, nil
	case err != nil && gatedOutcome != "":
		return CommitPicksResult{}, gatedOutcome, err
	case err != nil:
		return CommitPicksResult{}, commitOutcomeError, fmt.Errorf("commit period selections: %w", err)
	}

	if s.submissions != nil {
		if err := s.submissions.Invalidate(ctx, c.ID, w.Number); err != nil {
			s.logger.WarnContext(ctx, "invalidate submission cache failed",
				"contest_id", c.ID,
				"period", w.Number,
				"error", err,
			)
		}
	}

	s.logger.InfoContext(ctx, "picks committed",
		"contest_id", c.ID,
		"participant_id", member.ID,
		"period", w.Number,
		"slots", len(items),
	)

	ordered := make(selection.SlotSet, len(picks))
	for _, pick := range picks {
		ordered[pick.Slot] = pick.PlayerID
	}
	return CommitPicksResult{
		Period:      w.Number,
		Picks:       ordered.Picks(required),
		CommittedAt: committed,
	}, commitOutcomeCommitted, nil
}

func (s *SelectionService) validateEligibility(ctx context.Context, c contest.Contest, picks []selection.Pick) error {
	ids := make([]string, 0, len(picks))
	for _, pick := range picks {
		ids = append(ids, pick.PlayerID)
	}

	players, err := s.playerRepo.GetByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("get players by ids: %w", err)
	}
	byID := make(map[string]player.Player, len(players))
	for _, p := range players {
		byID[p.ID] = p
	}

	problems := make([]string, 0)
	for _, pick := range picks {
		p, ok := byID[pick.PlayerID]
		if !ok {
			problems = append(problems, fmt.Sprintf("%s=%s unknown player", pick.Slot, pick.PlayerID))
			continue
		}
		slot, _ := c.Slot(pick.Slot)
		if !slot.Accepts(p.Position) {
			problems = append(problems, fmt.Sprintf("%s=%s position %s", pick.Slot, pick.PlayerID, p.Position))
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", selection.ErrIneligiblePlayer, strings.Join(problems, ", "))
	}
	return nil
}

// MyPicks returns the caller's own picks. Owners always see their picks.
func (s *SelectionService) MyPicks(ctx context.Context, contestID, participantID string, number int) ([]selection.Pick, error) {
	ctx, span := traceOp(ctx, "SelectionService.MyPicks")
	defer span.End()

	c, err := loadContest(ctx, s.contestRepo, contestID)
	if err != nil {
		return nil, err
	}
	if _, err := loadWindow(ctx, s.windowRepo, c.ID, number); err != nil {
		return nil, err
	}

	history, err := s.selectionRepo.ListByContestParticipant(ctx, c.ID, participantID)
	if err != nil {
		return nil, fmt.Errorf("list participant selections: %w", err)
	}
	return committedSlots(history, participantID, number).Picks(c.RequiredSlots()), nil
}

// ForbiddenPlayers lists the players the participant can no longer pick for
// the target period.
func (s *SelectionService) ForbiddenPlayers(ctx context.Context, contestID, participantID string, number int) ([]ForbiddenPlayer, error) {
	ctx, span := traceOp(ctx, "SelectionService.ForbiddenPlayers")
	defer span.End()

	c, err := loadContest(ctx, s.contestRepo, contestID)
	if err != nil {
		return nil, err
	}
	if number <= 0 {
		return nil, fmt.Errorf("%w: period must be greater than zero", ErrInvalidInput)
	}

	history, err := s.selectionRepo.ListByContestParticipant(ctx, c.ID, participantID)
	if err != nil {
		return nil, fmt.Errorf("list participant selections: %w", err)
	}

	forbidden := selection.ForbiddenPlayers(history, participantID, number, c.RequiredSlots(), c.UseOncePolicy)
	out := make([]ForbiddenPlayer, 0, len(forbidden))
	for playerID, used := range forbidden {
		out = append(out, ForbiddenPlayer{PlayerID: playerID, UsedInPeriod: used})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UsedInPeriod != out[j].UsedInPeriod {
			return out[i].UsedInPeriod < out[j].UsedInPeriod
		}
		return out[i].PlayerID < out[j].PlayerID
	})
	return out, nil
}

// ClearPeriod removes every pick of one participant for one period. Operator
// only.
func (s *SelectionService) ClearPeriod(ctx context.Context, contestID string, principal participant.Principal, participantID string, number int) (int, error) {
	ctx, span := traceOp(ctx, "SelectionService.ClearPeriod")
	defer span.End()

	if !principal.IsOperator {
		return 0, fmt.Errorf("%w: clearing picks requires operator access", ErrForbidden)
	}
	c, err := loadContest(ctx, s.contestRepo, contestID)
	if err != nil {
		return 0, err
	}
	participantID = strings.TrimSpace(participantID)
	if participantID == "" {
		return 0, fmt.Errorf("%w: participant_id is required", ErrInvalidInput)
	}
	if _, err := loadWindow(ctx, s.windowRepo, c.ID, number); err != nil {
		return 0, err
	}

	deleted, err := s.selectionRepo.DeletePeriod(ctx, c.ID, participantID, number)
	if err != nil {
		return 0, fmt.Errorf("delete period selections: %w", err)
	}
	if s.submissions != nil {
		if err := s.submissions.Invalidate(ctx, c.ID, number); err != nil {
			s.logger.WarnContext(ctx, "invalidate submission cache failed", "contest_id", c.ID, "period", number, "error", err)
		}
	}

	s.logger.InfoContext(ctx, "period picks cleared",
		"contest_id", c.ID,
		"participant_id", participantID,
		"period", number,
		"deleted", deleted,
		"operator_id", principal.ParticipantID,
	)
	return deleted, nil
}

func normalizePicks(picks []selection.Pick) []selection.Pick {
	out := make([]selection.Pick, 0, len(picks))
	for _, pick := range picks {
		out = append(out, selection.Pick{
			Slot:     strings.TrimSpace(pick.Slot),
			PlayerID: strings.TrimSpace(pick.PlayerID),
		})
	}
	return out
}

var errCommitUnchanged = errors.New("picks already committed")

// commitGate applies the rules that depend on stored history. A non-empty
// outcome with a nil error means the same picks are already committed.
func commitGate(c contest.Contest, participantID string, number int, picks []selection.Pick, history []selection.Selection) (CommitPicksResult, string, error) {
	if result, outcome, err := lockGate(c.RequiredSlots(), participantID, number, picks, history); err != nil || outcome != "" {
		return result, outcome, err
	}
	if err := checkUseOnce(c, participantID, number, picks, history); err != nil {
		return CommitPicksResult{}, commitOutcomeDuplicate, err
	}
	return CommitPicksResult{}, "", nil
}

// lockGate rejects changes to a committed period and reports identical
// recommits as unchanged.
func lockGate(required []string, participantID string, number int, picks []selection.Pick, history []selection.Selection) (CommitPicksResult, string, error) {
	existing := committedSlots(history, participantID, number)
	if len(existing) == 0 {
		return CommitPicksResult{}, "", nil
	}
	if existing.Matches(picks) {
		return CommitPicksResult{
			Period:      number,
			Picks:       existing.Picks(required),
			CommittedAt: committedAt(history, number),
			Unchanged:   true,
		}, commitOutcomeIdempotent, nil
	}
	return CommitPicksResult{}, commitOutcomeLocked, fmt.Errorf("%w: period %d", selection.ErrSelectionLocked, number)
}

func checkUseOnce(c contest.Contest, participantID string, number int, picks []selection.Pick, history []selection.Selection) error {
	forbidden := selection.ForbiddenPlayers(history, participantID, number, c.RequiredSlots(), c.UseOncePolicy)
	return selection.ValidateUseOnce(number, picks, forbidden)
}

func committedSlots(history []selection.Selection, participantID string, number int) selection.SlotSet {
	items := make([]selection.Selection, 0)
	for _, item := range history {
		if item.Period == number {
			items = append(items, item)
		}
	}
	slots := selection.GroupByParticipant(items)[participantID]
	if slots == nil {
		return selection.SlotSet{}
	}
	return slots
}

func committedAt(history []selection.Selection, number int) time.Time {
	var out time.Time
	for _, item := range history {
		if item.Period == number && item.CommittedAt.After(out) {
			out = item.CommittedAt
		}
	}
	return out
}

func commitOutcomeFor(err error) string {
	switch {
	case errors.Is(err, selection.ErrIncompleteSubmission):
		return commitOutcomeIncomplete
	case errors.Is(err, selection.ErrDuplicateSelection):
		return commitOutcomeDuplicate
	case errors.Is(err, selection.ErrIneligiblePlayer):
		return commitOutcomeIneligible
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrNotFound), errors.Is(err, ErrForbidden), errors.Is(err, ErrUnauthorized):
		return commitOutcomeRejected
	default:
		return commitOutcomeError
	}
}
