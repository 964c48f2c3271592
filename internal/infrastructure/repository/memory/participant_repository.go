package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/weekly-picks/internal/domain/participant"
)

type ParticipantRepository struct {
	mu    sync.RWMutex
	items map[string]participant.Participant
}

func NewParticipantRepository() *ParticipantRepository {
	return &ParticipantRepository{items: make(map[string]participant.Participant)}
}

func (r *ParticipantRepository) ListByContest(_ context.Context, contestID string) ([]participant.Participant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]participant.Participant, 0)
	for _, item := range r.items {
		if item.ContestID == contestID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID < out[j].ID
	})

	return out, nil
}

func (r *ParticipantRepository) GetByID(_ context.Context, contestID, participantID string) (participant.Participant, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[participantKey(contestID, participantID)]
	if !ok {
		return participant.Participant{}, false, nil
	}
	return item, true, nil
}

func (r *ParticipantRepository) Upsert(_ context.Context, item participant.Participant) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := participantKey(item.ContestID, item.ID)
	if existing, ok := r.items[key]; ok && !existing.JoinedAt.IsZero() {
		item.JoinedAt = existing.JoinedAt
	}
	r.items[key] = item
	return nil
}

func participantKey(contestID, participantID string) string {
	return contestID + "::" + participantID
}
