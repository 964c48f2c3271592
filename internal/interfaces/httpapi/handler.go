package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/weekly-picks/internal/domain/participant"
	"github.com/riskibarqy/weekly-picks/internal/platform/logging"
	"github.com/riskibarqy/weekly-picks/internal/usecase"
)

const maxRequestBodyBytes = 1 << 20

type Handler struct {
	contestService     *usecase.ContestService
	selectionService   *usecase.SelectionService
	revealService      *usecase.RevealService
	leaderboardService *usecase.LeaderboardService
	statsService       *usecase.StatsService
	logger             *logging.Logger
	validator          *validator.Validate
}

func NewHandler(
	contestService *usecase.ContestService,
	selectionService *usecase.SelectionService,
	revealService *usecase.RevealService,
	leaderboardService *usecase.LeaderboardService,
	statsService *usecase.StatsService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		contestService:     contestService,
		selectionService:   selectionService,
		revealService:      revealService,
		leaderboardService: leaderboardService,
		statsService:       statsService,
		logger:             logger.Named("httpapi"),
		validator:          validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

// decodeRequest reads a JSON body into out and validates it.
func (h *Handler) decodeRequest(ctx context.Context, w http.ResponseWriter, r *http.Request, out any) error {
	decoder := sonic.ConfigDefault.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(out); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return h.validateRequest(ctx, out)
}

func requirePrincipal(ctx context.Context) (participant.Principal, error) {
	principal, ok := principalFromContext(ctx)
	if !ok {
		return participant.Principal{}, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized)
	}
	return principal, nil
}

func pathPeriod(r *http.Request) (int, error) {
	raw := strings.TrimSpace(r.PathValue("period"))
	number, err := strconv.Atoi(raw)
	if err != nil || number <= 0 {
		return 0, fmt.Errorf("%w: period must be a positive integer, got %q", usecase.ErrInvalidInput, raw)
	}
	return number, nil
}

// parsePeriodList reads a comma separated period filter such as "1,2,5".
func parsePeriodList(raw string) ([]int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	parts := strings.Split(raw, ",")
	out := make([]int, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		number, err := strconv.Atoi(part)
		if err != nil || number <= 0 {
			return nil, fmt.Errorf("%w: invalid period %q in periods filter", usecase.ErrInvalidInput, part)
		}
		out = append(out, number)
	}
	return out, nil
}

func parseLimit(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0, fmt.Errorf("%w: limit must be a non-negative integer", usecase.ErrInvalidInput)
	}
	return limit, nil
}
