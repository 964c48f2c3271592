package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/riskibarqy/weekly-picks/internal/domain/contest"
	"github.com/riskibarqy/weekly-picks/internal/domain/leaderboard"
	"github.com/riskibarqy/weekly-picks/internal/domain/participant"
	"github.com/riskibarqy/weekly-picks/internal/domain/period"
	"github.com/riskibarqy/weekly-picks/internal/domain/playerstats"
	"github.com/riskibarqy/weekly-picks/internal/domain/scoring"
	"github.com/riskibarqy/weekly-picks/internal/domain/selection"
	"github.com/shopspring/decimal"
	"github.com/sourcegraph/conc/pool"
)

const leaderboardPeriodWorkers = 4

type PeriodPoints struct {
	Period int
	Points float64
}

type ParticipantSummary struct {
	ParticipantID string
	Label         string
	TotalPoints   float64
	AveragePoints float64
	HighestPoints float64
	HighestPeriod int
	ScoredPeriods int
	Periods       []PeriodPoints
}

type LeaderboardService struct {
	contestRepo     contest.Repository
	participantRepo participant.Repository
	windowRepo      period.Repository
	selectionRepo   selection.Repository
	submissions     *SubmissionReader
	points          pointsBook
	now             func() time.Time
}

func NewLeaderboardService(
	contestRepo contest.Repository,
	participantRepo participant.Repository,
	windowRepo period.Repository,
	selectionRepo selection.Repository,
	scoringRepo scoring.Repository,
	statsRepo playerstats.Repository,
	submissions *SubmissionReader,
) *LeaderboardService {
	return &LeaderboardService{
		contestRepo:     contestRepo,
		participantRepo: participantRepo,
		windowRepo:      windowRepo,
		selectionRepo:   selectionRepo,
		submissions:     submissions,
		points:          pointsBook{scoringRepo: scoringRepo, statsRepo: statsRepo},
		now:             time.Now,
	}
}

// periodScore is the viewer-visible scoring of one period.
type periodScore struct {
	number     int
	totals     map[string]decimal.Decimal
	aggregates []leaderboard.PlayerAggregate
}

// ContestLeaderboard ranks every participant by points summed across the
// opened periods, optionally narrowed to the requested ones.
func (s *LeaderboardService) ContestLeaderboard(ctx context.Context, contestID string, viewer participant.Principal, periods []int) ([]leaderboard.Entry, error) {
	ctx, span := traceOp(ctx, "LeaderboardService.ContestLeaderboard")
	defer span.End()

	c, err := loadContest(ctx, s.contestRepo, contestID)
	if err != nil {
		return nil, err
	}
	members, err := s.participantRepo.ListByContest(ctx, c.ID)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	windows, err := s.scoredWindows(ctx, c.ID, periods)
	if err != nil {
		return nil, err
	}
	scores, err := s.scorePeriods(ctx, c, viewer, windows)
	if err != nil {
		return nil, err
	}

	totals := baselineTotals(members)
	for _, score := range scores {
		for id, points := range score.totals {
			totals[id] = totals[id].Add(points)
		}
	}
	return leaderboard.Rank(totals, participant.Labels(members)), nil
}

func (s *LeaderboardService) PeriodLeaderboard(ctx context.Context, contestID string, viewer participant.Principal, number int) ([]leaderboard.Entry, error) {
	ctx, span := traceOp(ctx, "LeaderboardService.PeriodLeaderboard")
	defer span.End()

	c, err := loadContest(ctx, s.contestRepo, contestID)
	if err != nil {
		return nil, err
	}
	w, err := loadWindow(ctx, s.windowRepo, c.ID, number)
	if err != nil {
		return nil, err
	}
	members, err := s.participantRepo.ListByContest(ctx, c.ID)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	coefficients, err := s.points.coefficients(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	score, err := s.scorePeriod(ctx, c, viewer, w, coefficients)
	if err != nil {
		return nil, err
	}

	totals := baselineTotals(members)
	for id, points := range score.totals {
		totals[id] = totals[id].Add(points)
	}
	return leaderboard.Rank(totals, participant.Labels(members)), nil
}

// PlayerAggregates groups the visible picks of a period by player. A period
// of zero rolls every opened period into one contest-wide view.
func (s *LeaderboardService) PlayerAggregates(ctx context.Context, contestID string, viewer participant.Principal, number int) ([]leaderboard.PlayerAggregate, error) {
	ctx, span := traceOp(ctx, "LeaderboardService.PlayerAggregates")
	defer span.End()

	c, err := loadContest(ctx, s.contestRepo, contestID)
	if err != nil {
		return nil, err
	}

	if number > 0 {
		w, err := loadWindow(ctx, s.windowRepo, c.ID, number)
		if err != nil {
			return nil, err
		}
		coefficients, err := s.points.coefficients(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		score, err := s.scorePeriod(ctx, c, viewer, w, coefficients)
		if err != nil {
			return nil, err
		}
		return score.aggregates, nil
	}

	windows, err := s.scoredWindows(ctx, c.ID, nil)
	if err != nil {
		return nil, err
	}
	scores, err := s.scorePeriods(ctx, c, viewer, windows)
	if err != nil {
		return nil, err
	}
	perPeriod := make([][]leaderboard.PlayerAggregate, 0, len(scores))
	for _, score := range scores {
		perPeriod = append(perPeriod, score.aggregates)
	}
	return leaderboard.Combine(perPeriod...), nil
}

// Summary reports the participant's own scoring history. Owners always see
// their own picks so no reveal filtering applies.
func (s *LeaderboardService) Summary(ctx context.Context, contestID string, principal participant.Principal) (ParticipantSummary, error) {
	ctx, span := traceOp(ctx, "LeaderboardService.Summary")
	defer span.End()

	c, err := loadContest(ctx, s.contestRepo, contestID)
	if err != nil {
		return ParticipantSummary{}, err
	}
	member, err := requireMember(ctx, s.participantRepo, c.ID, principal)
	if err != nil {
		return ParticipantSummary{}, err
	}
	coefficients, err := s.points.coefficients(ctx, c.ID)
	if err != nil {
		return ParticipantSummary{}, err
	}
	history, err := s.selectionRepo.ListByContestParticipant(ctx, c.ID, member.ID)
	if err != nil {
		return ParticipantSummary{}, fmt.Errorf("list participant selections: %w", err)
	}

	byPeriod := make(map[int][]selection.Selection)
	for _, item := range history {
		byPeriod[item.Period] = append(byPeriod[item.Period], item)
	}
	numbers := make([]int, 0, len(byPeriod))
	for number := range byPeriod {
		numbers = append(numbers, number)
	}
	sort.Ints(numbers)

	out := ParticipantSummary{
		ParticipantID: member.ID,
		Label:         member.Label,
		Periods:       make([]PeriodPoints, 0, len(numbers)),
	}
	total := decimal.Zero
	var highest decimal.Decimal
	for _, number := range numbers {
		items := byPeriod[number]
		if !selection.IsComplete(selection.GroupByParticipant(items)[member.ID], c.RequiredSlots()) {
			continue
		}
		points, _, err := s.points.periodPoints(ctx, c.Season, number, items, coefficients)
		if err != nil {
			return ParticipantSummary{}, err
		}
		periodTotal := leaderboard.ParticipantTotals(items, points)[member.ID]
		total = total.Add(periodTotal)
		if out.ScoredPeriods == 0 || periodTotal.GreaterThan(highest) {
			highest = periodTotal
			out.HighestPeriod = number
		}
		out.ScoredPeriods++
		out.Periods = append(out.Periods, PeriodPoints{Period: number, Points: periodTotal.InexactFloat64()})
	}

	out.TotalPoints = total.InexactFloat64()
	out.HighestPoints = highest.InexactFloat64()
	if out.ScoredPeriods > 0 {
		out.AveragePoints = total.Div(decimal.NewFromInt(int64(out.ScoredPeriods))).Round(2).InexactFloat64()
	}
	return out, nil
}

// scoredWindows returns the opened windows, narrowed to the requested numbers
// when any are given.
func (s *LeaderboardService) scoredWindows(ctx context.Context, contestID string, requested []int) ([]period.Window, error) {
	windows, err := s.windowRepo.ListByContest(ctx, contestID)
	if err != nil {
		return nil, fmt.Errorf("list period windows: %w", err)
	}

	filter := make(map[int]struct{}, len(requested))
	for _, number := range requested {
		if number <= 0 {
			return nil, fmt.Errorf("%w: period must be greater than zero", ErrInvalidInput)
		}
		filter[number] = struct{}{}
	}

	now := s.now()
	out := make([]period.Window, 0, len(windows))
	for _, w := range windows {
		if now.Before(w.OpensAt) {
			continue
		}
		if len(filter) > 0 {
			if _, ok := filter[w.Number]; !ok {
				continue
			}
		}
		out = append(out, w)
	}
	return out, nil
}

func (s *LeaderboardService) scorePeriods(ctx context.Context, c contest.Contest, viewer participant.Principal, windows []period.Window) ([]periodScore, error) {
	if len(windows) == 0 {
		return nil, nil
	}
	coefficients, err := s.points.coefficients(ctx, c.ID)
	if err != nil {
		return nil, err
	}

	p := pool.NewWithResults[periodScore]().
		WithContext(ctx).
		WithMaxGoroutines(leaderboardPeriodWorkers).
		WithCancelOnError()
	for _, w := range windows {
		w := w
		p.Go(func(ctx context.Context) (periodScore, error) {
			return s.scorePeriod(ctx, c, viewer, w, coefficients)
		})
	}

	scores, err := p.Wait()
	if err != nil {
		return nil, err
	}
	sort.Slice(scores, func(i, j int) bool {
		return scores[i].number < scores[j].number
	})
	return scores, nil
}

func (s *LeaderboardService) scorePeriod(
	ctx context.Context,
	c contest.Contest,
	viewer participant.Principal,
	w period.Window,
	coefficients scoring.Coefficients,
) (periodScore, error) {
	items, err := s.submissions.Period(ctx, c.ID, w.Number)
	if err != nil {
		return periodScore{}, err
	}
	visible := visibleForViewer(items, viewer, w, c.RequiredSlots(), s.now())
	points, reported, err := s.points.periodPoints(ctx, c.Season, w.Number, visible, coefficients)
	if err != nil {
		return periodScore{}, err
	}
	return periodScore{
		number:     w.Number,
		totals:     leaderboard.ParticipantTotals(visible, points),
		aggregates: leaderboard.BuildPlayerAggregates(w.Number, visible, points, reported),
	}, nil
}

func baselineTotals(members []participant.Participant) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(members))
	for _, member := range members {
		out[member.ID] = decimal.Zero
	}
	return out
}
