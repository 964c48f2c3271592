package httpapi

import (
	"time"

	"github.com/riskibarqy/weekly-picks/internal/domain/contest"
	"github.com/riskibarqy/weekly-picks/internal/domain/leaderboard"
	"github.com/riskibarqy/weekly-picks/internal/domain/participant"
	"github.com/riskibarqy/weekly-picks/internal/domain/reveal"
	"github.com/riskibarqy/weekly-picks/internal/domain/scoring"
	"github.com/riskibarqy/weekly-picks/internal/domain/selection"
	"github.com/riskibarqy/weekly-picks/internal/domain/statsrefresh"
	"github.com/riskibarqy/weekly-picks/internal/usecase"
)

type joinContestRequest struct {
	Label string `json:"label" validate:"omitempty,max=64"`
}

type renameParticipantRequest struct {
	Label string `json:"label" validate:"required,max=64"`
}

type pickRequest struct {
	Slot     string `json:"slot" validate:"required,max=32"`
	PlayerID string `json:"player_id" validate:"required,max=64"`
}

type commitPicksRequest struct {
	Picks []pickRequest `json:"picks" validate:"required,min=1,max=32,dive"`
}

type windowRequest struct {
	Number      int         `json:"number" validate:"required,gt=0"`
	OpensAtUTC  time.Time   `json:"opens_at_utc" validate:"required"`
	KickoffsUTC []time.Time `json:"kickoffs_utc"`
}

type upsertWindowsRequest struct {
	Windows []windowRequest `json:"windows" validate:"required,min=1,dive"`
}

type statLineRequest struct {
	Season       string             `json:"season" validate:"required"`
	Period       int                `json:"period" validate:"required,gt=0"`
	PlayerID     string             `json:"player_id" validate:"required"`
	Stats        map[string]float64 `json:"stats" validate:"required"`
	UpdatedAtUTC *time.Time         `json:"updated_at_utc"`
}

type ingestStatsRequest struct {
	Items []statLineRequest `json:"items" validate:"required,min=1,max=2000,dive"`
}

type coefficientsDTO struct {
	PassTouchdown          float64 `json:"pass_touchdown"`
	PassYardsPerPoint      float64 `json:"pass_yards_per_point" validate:"gte=0"`
	RushTouchdown          float64 `json:"rush_touchdown"`
	RushYardsPerPoint      float64 `json:"rush_yards_per_point" validate:"gte=0"`
	ReceivingTouchdown     float64 `json:"receiving_touchdown"`
	ReceivingYardsPerPoint float64 `json:"receiving_yards_per_point" validate:"gte=0"`
	Interception           float64 `json:"interception"`
	FumbleLost             float64 `json:"fumble_lost"`
	TwoPointConversion     float64 `json:"two_point_conversion"`
}

type slotDTO struct {
	Name              string   `json:"name"`
	EligiblePositions []string `json:"eligible_positions,omitempty"`
}

type contestDTO struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Season        string    `json:"season"`
	Slots         []slotDTO `json:"slots"`
	UseOncePolicy string    `json:"use_once_policy"`
}

type participantDTO struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	JoinedAtUTC string `json:"joined_at_utc"`
}

type periodDTO struct {
	Number        int     `json:"number"`
	OpensAtUTC    string  `json:"opens_at_utc"`
	DeadlineAtUTC *string `json:"deadline_at_utc"`
	State         string  `json:"state"`
	Current       bool    `json:"current"`
}

type pickDTO struct {
	Slot     string `json:"slot"`
	PlayerID string `json:"player_id"`
}

type commitPicksDTO struct {
	Period         int       `json:"period"`
	Picks          []pickDTO `json:"picks"`
	CommittedAtUTC string    `json:"committed_at_utc"`
	Unchanged      bool      `json:"unchanged"`
}

type forbiddenPlayerDTO struct {
	PlayerID     string `json:"player_id"`
	UsedInPeriod int    `json:"used_in_period"`
}

type clearPicksDTO struct {
	ParticipantID string `json:"participant_id"`
	Period        int    `json:"period"`
	Removed       int    `json:"removed"`
}

type memberDTO struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

type revealStatusDTO struct {
	Period                  int         `json:"period"`
	ViewerSubmittedComplete bool        `json:"viewer_submitted_complete"`
	PastDeadline            bool        `json:"past_deadline"`
	CanView                 bool        `json:"can_view"`
	DeadlineAtUTC           *string     `json:"deadline_at_utc"`
	SubmittedParticipantIDs []string    `json:"submitted_participant_ids"`
	SubmittedParticipants   []memberDTO `json:"submitted_participants"`
	SubmittedCount          int         `json:"submitted_count"`
	TotalParticipants       int         `json:"total_participants"`
}

type visiblePickDTO struct {
	ParticipantID  string `json:"participant_id"`
	Label          string `json:"label"`
	Slot           string `json:"slot"`
	PlayerID       string `json:"player_id"`
	CommittedAtUTC string `json:"committed_at_utc"`
}

type visiblePicksDTO struct {
	Reveal revealStatusDTO  `json:"reveal"`
	Picks  []visiblePickDTO `json:"picks"`
}

type playerAggregateDTO struct {
	Period           int         `json:"period"`
	PlayerID         string      `json:"player_id"`
	Slot             string      `json:"slot"`
	Selectors        []memberDTO `json:"selectors"`
	Points           float64     `json:"points"`
	HasReportedStats bool        `json:"has_reported_stats"`
}

type leaderboardEntryDTO struct {
	ParticipantID      string   `json:"participant_id"`
	Label              string   `json:"label"`
	TotalPoints        float64  `json:"total_points"`
	Rank               int      `json:"rank"`
	PointsBehindLeader *float64 `json:"points_behind_leader"`
}

type periodPointsDTO struct {
	Period int     `json:"period"`
	Points float64 `json:"points"`
}

type summaryDTO struct {
	ParticipantID string            `json:"participant_id"`
	Label         string            `json:"label"`
	TotalPoints   float64           `json:"total_points"`
	AveragePoints float64           `json:"average_points"`
	HighestPoints float64           `json:"highest_points"`
	HighestPeriod int               `json:"highest_period"`
	ScoredPeriods int               `json:"scored_periods"`
	Periods       []periodPointsDTO `json:"periods"`
}

type ingestStatsDTO struct {
	Merged    int `json:"merged"`
	Unchanged int `json:"unchanged"`
}

type refreshRunDTO struct {
	ID            string `json:"id"`
	ContestID     string `json:"contest_id"`
	Period        int    `json:"period"`
	Status        string `json:"status"`
	Succeeded     int    `json:"succeeded"`
	Skipped       int    `json:"skipped"`
	Failed        int    `json:"failed"`
	StartedAtUTC  string `json:"started_at_utc"`
	FinishedAtUTC string `json:"finished_at_utc"`
	DurationMs    int64  `json:"duration_ms"`
	ErrorMessage  string `json:"error_message,omitempty"`
	TraceID       string `json:"trace_id,omitempty"`
}

func formatUTC(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func formatOptionalUTC(t *time.Time) *string {
	if t == nil || t.IsZero() {
		return nil
	}
	v := formatUTC(*t)
	return &v
}

func contestToDTO(c contest.Contest) contestDTO {
	slots := make([]slotDTO, 0, len(c.Slots))
	for _, slot := range c.Slots {
		slots = append(slots, slotDTO{Name: slot.Name, EligiblePositions: slot.EligiblePositions})
	}
	return contestDTO{
		ID:            c.ID,
		Name:          c.Name,
		Season:        c.Season,
		Slots:         slots,
		UseOncePolicy: string(c.UseOncePolicy),
	}
}

func participantToDTO(p participant.Participant) participantDTO {
	return participantDTO{ID: p.ID, Label: p.Label, JoinedAtUTC: formatUTC(p.JoinedAt)}
}

func periodViewToDTO(v usecase.PeriodView) periodDTO {
	return periodDTO{
		Number:        v.Window.Number,
		OpensAtUTC:    formatUTC(v.Window.OpensAt),
		DeadlineAtUTC: formatOptionalUTC(v.Window.DeadlineAt),
		State:         string(v.State),
		Current:       v.Current,
	}
}

func picksToDTO(picks []selection.Pick) []pickDTO {
	out := make([]pickDTO, 0, len(picks))
	for _, pick := range picks {
		out = append(out, pickDTO{Slot: pick.Slot, PlayerID: pick.PlayerID})
	}
	return out
}

func revealStatusToDTO(s reveal.Status) revealStatusDTO {
	members := make([]memberDTO, 0, len(s.SubmittedParticipants))
	for _, m := range s.SubmittedParticipants {
		members = append(members, memberDTO{ID: m.ID, Label: m.Label})
	}
	ids := s.SubmittedParticipantIDs
	if ids == nil {
		ids = []string{}
	}
	return revealStatusDTO{
		Period:                  s.Period,
		ViewerSubmittedComplete: s.ViewerSubmittedComplete,
		PastDeadline:            s.PastDeadline,
		CanView:                 s.CanView,
		DeadlineAtUTC:           formatOptionalUTC(s.DeadlineAt),
		SubmittedParticipantIDs: ids,
		SubmittedParticipants:   members,
		SubmittedCount:          s.SubmittedCount,
		TotalParticipants:       s.TotalParticipants,
	}
}

func playerAggregateToDTO(item leaderboard.PlayerAggregate, labels map[string]string) playerAggregateDTO {
	selectors := make([]memberDTO, 0, len(item.SelectorIDs))
	for _, participantID := range item.SelectorIDs {
		label := labels[participantID]
		if label == "" {
			label = participantID
		}
		selectors = append(selectors, memberDTO{ID: participantID, Label: label})
	}
	return playerAggregateDTO{
		Period:           item.Period,
		PlayerID:         item.PlayerID,
		Slot:             item.Slot,
		Selectors:        selectors,
		Points:           item.Points,
		HasReportedStats: item.HasReportedStats,
	}
}

func leaderboardToDTO(entries []leaderboard.Entry) []leaderboardEntryDTO {
	out := make([]leaderboardEntryDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, leaderboardEntryDTO{
			ParticipantID:      e.ParticipantID,
			Label:              e.Label,
			TotalPoints:        e.TotalPoints,
			Rank:               e.Rank,
			PointsBehindLeader: e.PointsBehindLeader,
		})
	}
	return out
}

func coefficientsToDTO(c scoring.Coefficients) coefficientsDTO {
	return coefficientsDTO{
		PassTouchdown:          c.PassTouchdown,
		PassYardsPerPoint:      c.PassYardsPerPoint,
		RushTouchdown:          c.RushTouchdown,
		RushYardsPerPoint:      c.RushYardsPerPoint,
		ReceivingTouchdown:     c.ReceivingTouchdown,
		ReceivingYardsPerPoint: c.ReceivingYardsPerPoint,
		Interception:           c.Interception,
		FumbleLost:             c.FumbleLost,
		TwoPointConversion:     c.TwoPointConversion,
	}
}

func (d coefficientsDTO) toDomain() scoring.Coefficients {
	return scoring.Coefficients{
		PassTouchdown:          d.PassTouchdown,
		PassYardsPerPoint:      d.PassYardsPerPoint,
		RushTouchdown:          d.RushTouchdown,
		RushYardsPerPoint:      d.RushYardsPerPoint,
		ReceivingTouchdown:     d.ReceivingTouchdown,
		ReceivingYardsPerPoint: d.ReceivingYardsPerPoint,
		Interception:           d.Interception,
		FumbleLost:             d.FumbleLost,
		TwoPointConversion:     d.TwoPointConversion,
	}
}

func refreshRunToDTO(run statsrefresh.Run) refreshRunDTO {
	return refreshRunDTO{
		ID:            run.ID,
		ContestID:     run.ContestID,
		Period:        run.Period,
		Status:        string(run.Status),
		Succeeded:     run.Succeeded,
		Skipped:       run.Skipped,
		Failed:        run.Failed,
		StartedAtUTC:  formatUTC(run.StartedAt),
		FinishedAtUTC: formatUTC(run.FinishedAt),
		DurationMs:    run.DurationMs,
		ErrorMessage:  run.ErrorMessage,
		TraceID:       run.TraceID,
	}
}
