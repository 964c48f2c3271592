package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/riskibarqy/weekly-picks/internal/domain/playerstats"
	"github.com/riskibarqy/weekly-picks/internal/domain/scoring"
	"github.com/riskibarqy/weekly-picks/internal/usecase"
)

type windowDTO struct {
	Number        int     `json:"number"`
	OpensAtUTC    string  `json:"opens_at_utc"`
	DeadlineAtUTC *string `json:"deadline_at_utc"`
}

func (h *Handler) UpsertWindows(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "UpsertWindows")
	defer span.End()

	var req upsertWindowsRequest
	if err := h.decodeRequest(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	inputs := make([]usecase.WindowInput, 0, len(req.Windows))
	for _, item := range req.Windows {
		inputs = append(inputs, usecase.WindowInput{
			Number:   item.Number,
			OpensAt:  item.OpensAtUTC,
			Kickoffs: item.KickoffsUTC,
		})
	}

	contestID := r.PathValue("contestID")
	windows, err := h.statsService.UpsertWindows(ctx, contestID, inputs)
	if err != nil {
		h.logger.WarnContext(ctx, "upsert windows failed", "contest_id", contestID, "count", len(inputs), "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]windowDTO, 0, len(windows))
	for _, win := range windows {
		items = append(items, windowDTO{
			Number:        win.Number,
			OpensAtUTC:    formatUTC(win.OpensAt),
			DeadlineAtUTC: formatOptionalUTC(win.DeadlineAt),
		})
	}
	h.logger.InfoContext(ctx, "period windows upserted", "contest_id", contestID, "count", len(items))
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) IngestStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "IngestStats")
	defer span.End()

	var req ingestStatsRequest
	if err := h.decodeRequest(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	items := make([]playerstats.PeriodStat, 0, len(req.Items))
	for _, line := range req.Items {
		categories := make(map[scoring.Category]float64, len(line.Stats))
		for name, value := range line.Stats {
			categories[scoring.Category(strings.TrimSpace(name))] = value
		}
		var updatedAt time.Time
		if line.UpdatedAtUTC != nil {
			updatedAt = line.UpdatedAtUTC.UTC()
		}
		items = append(items, playerstats.PeriodStat{
			Season:     strings.TrimSpace(line.Season),
			Period:     line.Period,
			PlayerID:   strings.TrimSpace(line.PlayerID),
			Categories: categories,
			UpdatedAt:  updatedAt,
		})
	}

	result, err := h.statsService.IngestStats(ctx, items)
	if err != nil {
		h.logger.WarnContext(ctx, "ingest stats failed", "count", len(items), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, ingestStatsDTO{Merged: result.Merged, Unchanged: result.Unchanged})
}

func (h *Handler) GetCoefficients(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "GetCoefficients")
	defer span.End()

	contestID := r.PathValue("contestID")
	coefficients, err := h.statsService.GetCoefficients(ctx, contestID)
	if err != nil {
		h.logger.WarnContext(ctx, "get coefficients failed", "contest_id", contestID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, coefficientsToDTO(coefficients))
}

func (h *Handler) UpsertCoefficients(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "UpsertCoefficients")
	defer span.End()

	var req coefficientsDTO
	if err := h.decodeRequest(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	contestID := r.PathValue("contestID")
	if err := h.statsService.UpsertCoefficients(ctx, contestID, req.toDomain()); err != nil {
		h.logger.WarnContext(ctx, "upsert coefficients failed", "contest_id", contestID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, req)
}

// RefreshPeriodStats pulls provider stats for one period. Period "current"
// targets the contest's current period.
func (h *Handler) RefreshPeriodStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "RefreshPeriodStats")
	defer span.End()

	number := 0
	if !strings.EqualFold(strings.TrimSpace(r.PathValue("period")), "current") {
		parsed, err := pathPeriod(r)
		if err != nil {
			writeError(ctx, w, err)
			return
		}
		number = parsed
	}

	contestID := r.PathValue("contestID")
	run, err := h.statsService.Refresh(ctx, contestID, number)
	if err != nil {
		h.logger.WarnContext(ctx, "refresh period stats failed", "contest_id", contestID, "period", number, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, refreshRunToDTO(run))
}

func (h *Handler) ListRefreshRuns(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "ListRefreshRuns")
	defer span.End()

	limit, err := parseLimit(r.URL.Query().Get("limit"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	contestID := r.PathValue("contestID")
	runs, err := h.statsService.ListRuns(ctx, contestID, limit)
	if err != nil {
		h.logger.WarnContext(ctx, "list refresh runs failed", "contest_id", contestID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]refreshRunDTO, 0, len(runs))
	for _, run := range runs {
		items = append(items, refreshRunToDTO(run))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}
