package httpapi

import (
	"net/http"
)

func (h *Handler) GetContestLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "GetContestLeaderboard")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	periods, err := parsePeriodList(r.URL.Query().Get("periods"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	contestID := r.PathValue("contestID")
	entries, err := h.leaderboardService.ContestLeaderboard(ctx, contestID, principal, periods)
	if err != nil {
		h.logger.WarnContext(ctx, "get contest leaderboard failed", "contest_id", contestID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, leaderboardToDTO(entries))
}

func (h *Handler) GetPeriodLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "GetPeriodLeaderboard")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	number, err := pathPeriod(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	contestID := r.PathValue("contestID")
	entries, err := h.leaderboardService.PeriodLeaderboard(ctx, contestID, principal, number)
	if err != nil {
		h.logger.WarnContext(ctx, "get period leaderboard failed", "contest_id", contestID, "period", number, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, leaderboardToDTO(entries))
}

func (h *Handler) GetMySummary(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "GetMySummary")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	contestID := r.PathValue("contestID")
	summary, err := h.leaderboardService.Summary(ctx, contestID, principal)
	if err != nil {
		h.logger.WarnContext(ctx, "get participant summary failed", "contest_id", contestID, "participant_id", principal.ParticipantID, "error", err)
		writeError(ctx, w, err)
		return
	}

	periods := make([]periodPointsDTO, 0, len(summary.Periods))
	for _, p := range summary.Periods {
		periods = append(periods, periodPointsDTO{Period: p.Period, Points: p.Points})
	}
	writeSuccess(ctx, w, http.StatusOK, summaryDTO{
		ParticipantID: summary.ParticipantID,
		Label:         summary.Label,
		TotalPoints:   summary.TotalPoints,
		AveragePoints: summary.AveragePoints,
		HighestPoints: summary.HighestPoints,
		HighestPeriod: summary.HighestPeriod,
		ScoredPeriods: summary.ScoredPeriods,
		Periods:       periods,
	})
}
