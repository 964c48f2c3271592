package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/weekly-picks/internal/domain/contest"
	"github.com/riskibarqy/weekly-picks/internal/domain/participant"
	"github.com/riskibarqy/weekly-picks/internal/domain/period"
)

func loadContest(ctx context.Context, repo contest.Repository, contestID string) (contest.Contest, error) {
	contestID = strings.TrimSpace(contestID)
	if contestID == "" {
		return contest.Contest{}, fmt.Errorf("%w: contest_id is required", ErrInvalidInput)
	}

	item, exists, err := repo.GetByID(ctx, contestID)
	if err != nil {
		return contest.Contest{}, fmt.Errorf("get contest by id: %w", err)
	}
	if !exists {
		return contest.Contest{}, fmt.Errorf("%w: contest=%s", ErrNotFound, contestID)
	}
	return item, nil
}

func loadWindow(ctx context.Context, repo period.Repository, contestID string, number int) (period.Window, error) {
	if number <= 0 {
		return period.Window{}, fmt.Errorf("%w: period must be greater than zero", ErrInvalidInput)
	}

	w, exists, err := repo.Get(ctx, contestID, number)
	if err != nil {
		return period.Window{}, fmt.Errorf("get period window: %w", err)
	}
	if !exists {
		return period.Window{}, fmt.Errorf("%w: contest=%s period=%d", ErrNotFound, contestID, number)
	}
	return w, nil
}

// requireMember returns the participant record of the caller, or ErrForbidden
// when the caller has not joined the contest.
func requireMember(ctx context.Context, repo participant.Repository, contestID string, principal participant.Principal) (participant.Participant, error) {
	participantID := strings.TrimSpace(principal.ParticipantID)
	if participantID == "" {
		return participant.Participant{}, fmt.Errorf("%w: participant identity is required", ErrUnauthorized)
	}

	item, exists, err := repo.GetByID(ctx, contestID, participantID)
	if err != nil {
		return participant.Participant{}, fmt.Errorf("get participant: %w", err)
	}
	if !exists {
		return participant.Participant{}, fmt.Errorf("%w: participant %s has not joined contest %s", ErrForbidden, participantID, contestID)
	}
	return item, nil
}
