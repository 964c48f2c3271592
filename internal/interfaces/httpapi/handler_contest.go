package httpapi

import (
	"net/http"
	"strings"
)

func (h *Handler) ListContests(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "ListContests")
	defer span.End()

	contests, err := h.contestService.ListContests(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list contests failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]contestDTO, 0, len(contests))
	for _, c := range contests {
		items = append(items, contestToDTO(c))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetContest(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "GetContest")
	defer span.End()

	contestID := r.PathValue("contestID")
	c, err := h.contestService.GetContest(ctx, contestID)
	if err != nil {
		h.logger.WarnContext(ctx, "get contest failed", "contest_id", contestID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, contestToDTO(c))
}

func (h *Handler) ListParticipants(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "ListParticipants")
	defer span.End()

	contestID := r.PathValue("contestID")
	members, err := h.contestService.ListParticipants(ctx, contestID)
	if err != nil {
		h.logger.WarnContext(ctx, "list participants failed", "contest_id", contestID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]participantDTO, 0, len(members))
	for _, m := range members {
		items = append(items, participantToDTO(m))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) JoinContest(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "JoinContest")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req joinContestRequest
	if r.ContentLength != 0 {
		if err := h.decodeRequest(ctx, w, r, &req); err != nil {
			writeError(ctx, w, err)
			return
		}
	}
	if label := strings.TrimSpace(req.Label); label != "" {
		principal.Label = label
	}

	contestID := r.PathValue("contestID")
	member, err := h.contestService.Join(ctx, contestID, principal)
	if err != nil {
		h.logger.WarnContext(ctx, "join contest failed", "contest_id", contestID, "participant_id", principal.ParticipantID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, participantToDTO(member))
}

func (h *Handler) RenameParticipant(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "RenameParticipant")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req renameParticipantRequest
	if err := h.decodeRequest(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	contestID := r.PathValue("contestID")
	member, err := h.contestService.Rename(ctx, contestID, principal, req.Label)
	if err != nil {
		h.logger.WarnContext(ctx, "rename participant failed", "contest_id", contestID, "participant_id", principal.ParticipantID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, participantToDTO(member))
}

func (h *Handler) ListPeriods(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "ListPeriods")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	contestID := r.PathValue("contestID")
	views, err := h.contestService.ListPeriods(ctx, contestID, principal.ParticipantID)
	if err != nil {
		h.logger.WarnContext(ctx, "list periods failed", "contest_id", contestID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]periodDTO, 0, len(views))
	for _, v := range views {
		items = append(items, periodViewToDTO(v))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetPeriodStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "GetPeriodStatus")
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
	view, err := h.contestService.PeriodState(ctx, contestID, principal.ParticipantID, number)
	if err != nil {
		h.logger.WarnContext(ctx, "get period status failed", "contest_id", contestID, "period", number, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, periodViewToDTO(view))
}
