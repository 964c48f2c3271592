package httpapi

import (
	"net/http"

	"github.com/riskibarqy/weekly-picks/internal/domain/selection"
	"github.com/riskibarqy/weekly-picks/internal/usecase"
)

func (h *Handler) GetMyPicks(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "GetMyPicks")
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
	picks, err := h.selectionService.MyPicks(ctx, contestID, principal.ParticipantID, number)
	if err != nil {
		h.logger.WarnContext(ctx, "get my picks failed", "contest_id", contestID, "period", number, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, picksToDTO(picks))
}

func (h *Handler) CommitPicks(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "CommitPicks")
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

	var req commitPicksRequest
	if err := h.decodeRequest(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	picks := make([]selection.Pick, 0, len(req.Picks))
	for _, p := range req.Picks {
		picks = append(picks, selection.Pick{Slot: p.Slot, PlayerID: p.PlayerID})
	}

	contestID := r.PathValue("contestID")
	result, err := h.selectionService.Commit(ctx, usecase.CommitPicksInput{
		ContestID: contestID,
		Principal: principal,
		Period:    number,
		Picks:     picks,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "commit picks failed",
			"contest_id", contestID,
			"participant_id", principal.ParticipantID,
			"period", number,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, commitPicksDTO{
		Period:         result.Period,
		Picks:          picksToDTO(result.Picks),
		CommittedAtUTC: formatUTC(result.CommittedAt),
		Unchanged:      result.Unchanged,
	})
}

func (h *Handler) ListForbiddenPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "ListForbiddenPlayers")
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
	forbidden, err := h.selectionService.ForbiddenPlayers(ctx, contestID, principal.ParticipantID, number)
	if err != nil {
		h.logger.WarnContext(ctx, "list forbidden players failed", "contest_id", contestID, "period", number, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]forbiddenPlayerDTO, 0, len(forbidden))
	for _, f := range forbidden {
		items = append(items, forbiddenPlayerDTO{PlayerID: f.PlayerID, UsedInPeriod: f.UsedInPeriod})
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ClearParticipantPicks(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "ClearParticipantPicks")
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
	participantID := r.PathValue("participantID")
	removed, err := h.selectionService.ClearPeriod(ctx, contestID, principal, participantID, number)
	if err != nil {
		h.logger.WarnContext(ctx, "clear participant picks failed",
			"contest_id", contestID,
			"participant_id", participantID,
			"period", number,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, clearPicksDTO{
		ParticipantID: participantID,
		Period:        number,
		Removed:       removed,
	})
}
