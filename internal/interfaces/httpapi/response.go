package httpapi

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/weekly-picks/internal/domain/selection"
	"github.com/riskibarqy/weekly-picks/internal/usecase"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	googleAPIVersion = "2.0"
	errorDomain      = "weekly-picks"
)

type googleResponseEnvelope struct {
	APIVersion string           `json:"apiVersion"`
	Data       any              `json:"data,omitempty"`
	Error      *googleErrorBody `json:"error,omitempty"`
}

type googleErrorBody struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Status  string            `json:"status"`
	Errors  []googleErrorItem `json:"errors,omitempty"`
}

type googleErrorItem struct {
	Domain       string `json:"domain"`
	Reason       string `json:"reason"`
	Message      string `json:"message"`
	Location     string `json:"location,omitempty"`
	LocationType string `json:"locationType,omitempty"`
}

type mappedError struct {
	HTTPStatus int
	Reason     string
	Status     string
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := sonic.ConfigDefault.NewEncoder(buf).Encode(payload); err != nil {
		trace.SpanFromContext(ctx).RecordError(err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"apiVersion":"2.0","error":{"code":500,"message":"internal server error","status":"INTERNAL"}}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(status)
	_, _ = w.Write(buf.B)
}

func writeSuccess(ctx context.Context, w http.ResponseWriter, status int, data any) {
	writeJSON(ctx, w, status, googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Data:       data,
	})
}

func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	mapped := mapError(err)
	if mapped.HTTPStatus == http.StatusInternalServerError {
		span := trace.SpanFromContext(ctx)
		span.RecordError(err)
		span.SetStatus(codes.Error, "internal error")
		writeInternalError(ctx, w)
		return
	}

	var rateLimited *usecase.RateLimitedError
	if errors.As(err, &rateLimited) && rateLimited.RetryAfter > 0 {
		seconds := int(math.Ceil(rateLimited.RetryAfter.Seconds()))
		w.Header().Set("Retry-After", strconv.Itoa(seconds))
	}

	writeJSON(ctx, w, mapped.HTTPStatus, googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Error: &googleErrorBody{
			Code:    mapped.HTTPStatus,
			Message: err.Error(),
			Status:  mapped.Status,
			Errors:  errorItems(err, mapped),
		},
	})
}

// errorItems expands structured selection errors into one item per slot.
func errorItems(err error, mapped mappedError) []googleErrorItem {
	var incomplete *selection.IncompleteSubmissionError
	if errors.As(err, &incomplete) {
		items := make([]googleErrorItem, 0, len(incomplete.MissingSlots)+len(incomplete.UnknownSlots))
		for _, slot := range incomplete.MissingSlots {
			items = append(items, slotItem("missingSlot", slot, fmt.Sprintf("slot %s requires a pick", slot)))
		}
		for _, slot := range incomplete.UnknownSlots {
			items = append(items, slotItem("unknownSlot", slot, fmt.Sprintf("slot %s is not part of this contest", slot)))
		}
		if len(items) > 0 {
			return items
		}
	}

	var duplicate *selection.DuplicateSelectionError
	if errors.As(err, &duplicate) && len(duplicate.Conflicts) > 0 {
		items := make([]googleErrorItem, 0, len(duplicate.Conflicts))
		for _, c := range duplicate.Conflicts {
			if c.UsedInPeriod == duplicate.Period {
				items = append(items, slotItem("duplicateInCommit", c.Slot,
					fmt.Sprintf("player %s is picked more than once", c.PlayerID)))
				continue
			}
			items = append(items, slotItem("playerAlreadyUsed", c.Slot,
				fmt.Sprintf("player %s was already used in period %d", c.PlayerID, c.UsedInPeriod)))
		}
		return items
	}

	return []googleErrorItem{
		{
			Domain:  errorDomain,
			Reason:  mapped.Reason,
			Message: err.Error(),
		},
	}
}

func slotItem(reason, slot, message string) googleErrorItem {
	return googleErrorItem{
		Domain:       errorDomain,
		Reason:       reason,
		Message:      message,
		Location:     "picks." + slot,
		LocationType: "slot",
	}
}

func writeInternalError(ctx context.Context, w http.ResponseWriter) {
	const msg = "internal server error"

	writeJSON(ctx, w, http.StatusInternalServerError, googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Error: &googleErrorBody{
			Code:    http.StatusInternalServerError,
			Message: msg,
			Status:  "INTERNAL",
			Errors: []googleErrorItem{
				{
					Domain:  errorDomain,
					Reason:  "internalError",
					Message: msg,
				},
			},
		},
	})
}

var errorMappings = []struct {
	target error
	mapped mappedError
}{
	{selection.ErrIncompleteSubmission, mappedError{http.StatusBadRequest, "incompleteSubmission", "INVALID_ARGUMENT"}},
	{selection.ErrIneligiblePlayer, mappedError{http.StatusBadRequest, "ineligiblePlayer", "INVALID_ARGUMENT"}},
	{usecase.ErrInvalidInput, mappedError{http.StatusBadRequest, "invalidInput", "INVALID_ARGUMENT"}},
	{selection.ErrDuplicateSelection, mappedError{http.StatusConflict, "duplicateSelection", "ALREADY_EXISTS"}},
	{selection.ErrPeriodNotOpen, mappedError{http.StatusConflict, "periodNotOpen", "FAILED_PRECONDITION"}},
	{selection.ErrPeriodClosed, mappedError{http.StatusConflict, "periodClosed", "FAILED_PRECONDITION"}},
	{selection.ErrSelectionLocked, mappedError{http.StatusConflict, "selectionLocked", "FAILED_PRECONDITION"}},
	{usecase.ErrRateLimited, mappedError{http.StatusTooManyRequests, "rateLimitExceeded", "RESOURCE_EXHAUSTED"}},
	{usecase.ErrNotFound, mappedError{http.StatusNotFound, "notFound", "NOT_FOUND"}},
	{usecase.ErrUnauthorized, mappedError{http.StatusUnauthorized, "unauthorized", "UNAUTHENTICATED"}},
	{usecase.ErrForbidden, mappedError{http.StatusForbidden, "forbidden", "PERMISSION_DENIED"}},
	{usecase.ErrDependencyUnavailable, mappedError{http.StatusServiceUnavailable, "dependencyUnavailable", "UNAVAILABLE"}},
}

// mapError picks the first matching mapping; order matters where domain
// errors also wrap a usecase sentinel.
func mapError(err error) mappedError {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return m.mapped
		}
	}
	return mappedError{HTTPStatus: http.StatusInternalServerError, Reason: "internalError", Status: "INTERNAL"}
}
