package httpapi

import (
	"context"
	"net/http"

	"github.com/riskibarqy/weekly-picks/internal/domain/participant"
)

func (h *Handler) GetRevealStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "GetRevealStatus")
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
	status, err := h.revealService.Status(ctx, contestID, principal, number)
	if err != nil {
		h.logger.WarnContext(ctx, "get reveal status failed", "contest_id", contestID, "period", number, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, revealStatusToDTO(status))
}

func (h *Handler) ListVisiblePicks(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "ListVisiblePicks")
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
	status, visible, err := h.revealService.VisibleSelections(ctx, contestID, principal, number)
	if err != nil {
		h.logger.WarnContext(ctx, "list visible picks failed", "contest_id", contestID, "period", number, "error", err)
		writeError(ctx, w, err)
		return
	}

	picks := make([]visiblePickDTO, 0, len(visible))
	for _, v := range visible {
		picks = append(picks, visiblePickDTO{
			ParticipantID:  v.ParticipantID,
			Label:          v.Label,
			Slot:           v.Slot,
			PlayerID:       v.PlayerID,
			CommittedAtUTC: formatUTC(v.CommittedAt),
		})
	}
	writeSuccess(ctx, w, http.StatusOK, visiblePicksDTO{
		Reveal: revealStatusToDTO(status),
		Picks:  picks,
	})
}

func (h *Handler) ListPlayerAggregates(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "ListPlayerAggregates")
	defer span.End()

	number, err := pathPeriod(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	h.writePlayerAggregates(ctx, w, r.PathValue("contestID"), number)
}

// ListContestPlayerAggregates rolls the visible picks of every opened period
// into one view.
func (h *Handler) ListContestPlayerAggregates(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "ListContestPlayerAggregates")
	defer span.End()

	h.writePlayerAggregates(ctx, w, r.PathValue("contestID"), 0)
}

func (h *Handler) writePlayerAggregates(ctx context.Context, w http.ResponseWriter, contestID string, number int) {
	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	aggregates, err := h.leaderboardService.PlayerAggregates(ctx, contestID, principal, number)
	if err != nil {
		h.logger.WarnContext(ctx, "list player aggregates failed", "contest_id", contestID, "period", number, "error", err)
		writeError(ctx, w, err)
		return
	}
	members, err := h.contestService.ListParticipants(ctx, contestID)
	if err != nil {
		h.logger.WarnContext(ctx, "list participants for aggregates failed", "contest_id", contestID, "error", err)
		writeError(ctx, w, err)
		return
	}

	labels := participant.Labels(members)
	items := make([]playerAggregateDTO, 0, len(aggregates))
	for _, item := range aggregates {
		items = append(items, playerAggregateToDTO(item, labels))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}
