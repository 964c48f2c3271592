package memory

import (
	"context"
	"sort"
	"strconv"
	"sync"

	"github.com/riskibarqy/weekly-picks/internal/domain/selection"
)

type SelectionRepository struct {
	mu    sync.RWMutex
	items map[string]selection.Selection
}

func NewSelectionRepository() *SelectionRepository {
	return &SelectionRepository{items: make(map[string]selection.Selection)}
}

func (r *SelectionRepository) ListByContestPeriod(_ context.Context, contestID string, period int) ([]selection.Selection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]selection.Selection, 0)
	for _, item := range r.items {
		if item.ContestID == contestID && item.Period == period {
			out = append(out, item)
		}
	}
	sortSelections(out)
	return out, nil
}

func (r *SelectionRepository) ListByContestParticipant(_ context.Context, contestID, participantID string) ([]selection.Selection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]selection.Selection, 0)
	for _, item := range r.items {
		if item.ContestID == contestID && item.ParticipantID == participantID {
			out = append(out, item)
		}
	}
	sortSelections(out)
	return out, nil
}

// CommitPeriod replaces the stored picks of one participant and period in a
// single locked write. The guard sees the participant's history under the same
// lock, so two racing commits cannot both pass it.
func (r *SelectionRepository) CommitPeriod(_ context.Context, contestID, participantID string, period int, items []selection.Selection, guard selection.CommitGuard) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if guard != nil {
		history := make([]selection.Selection, 0)
		for _, item := range r.items {
			if item.ContestID == contestID && item.ParticipantID == participantID {
				history = append(history, item)
			}
		}
		sortSelections(history)
		if err := guard(history); err != nil {
			return err
		}
	}

	for key, item := range r.items {
		if item.ContestID == contestID && item.ParticipantID == participantID && item.Period == period {
			delete(r.items, key)
		}
	}
	for _, item := range items {
		item.ContestID = contestID
		item.ParticipantID = participantID
		item.Period = period
		r.items[selectionKey(item)] = item
	}
	return nil
}

func (r *SelectionRepository) DeletePeriod(_ context.Context, contestID, participantID string, period int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	deleted := 0
	for key, item := range r.items {
		if item.ContestID == contestID && item.ParticipantID == participantID && item.Period == period {
			delete(r.items, key)
			deleted++
		}
	}
	return deleted, nil
}

func selectionKey(item selection.Selection) string {
	return item.ContestID + "::" + item.ParticipantID + "::" + strconv.Itoa(item.Period) + "::" + item.Slot
}

func sortSelections(items []selection.Selection) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].Period != items[j].Period {
			return items[i].Period < items[j].Period
		}
		if items[i].ParticipantID != items[j].ParticipantID {
			return items[i].ParticipantID < items[j].ParticipantID
		}
		return items[i].Slot < items[j].Slot
	})
}
