package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/weekly-picks/internal/domain/period"
)

type WindowRepository struct {
	mu    sync.RWMutex
	items map[string]map[int]period.Window
}

func NewWindowRepository(windows []period.Window) *WindowRepository {
	r := &WindowRepository{items: make(map[string]map[int]period.Window)}
	for _, w := range windows {
		r.put(w)
	}
	return r
}

func (r *WindowRepository) ListByContest(_ context.Context, contestID string) ([]period.Window, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	byNumber := r.items[contestID]
	out := make([]period.Window, 0, len(byNumber))
	for _, w := range byNumber {
		out = append(out, cloneWindow(w))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Number < out[j].Number
	})
	return out, nil
}

func (r *WindowRepository) Get(_ context.Context, contestID string, number int) (period.Window, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	w, ok := r.items[contestID][number]
	if !ok {
		return period.Window{}, false, nil
	}
	return cloneWindow(w), true, nil
}

func (r *WindowRepository) UpsertWindows(_ context.Context, contestID string, windows []period.Window) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, w := range windows {
		w.ContestID = contestID
		r.put(w)
	}
	return nil
}

func (r *WindowRepository) put(w period.Window) {
	byNumber, ok := r.items[w.ContestID]
	if !ok {
		byNumber = make(map[int]period.Window)
		r.items[w.ContestID] = byNumber
	}
	byNumber[w.Number] = cloneWindow(w)
}

func cloneWindow(w period.Window) period.Window {
	copied := w
	if w.DeadlineAt != nil {
		deadline := *w.DeadlineAt
		copied.DeadlineAt = &deadline
	}
	return copied
}
