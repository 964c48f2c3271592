package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/weekly-picks/internal/domain/statsrefresh"
)

type RefreshRunRepository struct {
	mu    sync.RWMutex
	items []statsrefresh.Run
}

func NewRefreshRunRepository() *RefreshRunRepository {
	return &RefreshRunRepository{}
}

func (r *RefreshRunRepository) Insert(_ context.Context, run statsrefresh.Run) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items = append(r.items, run)
	return nil
}

func (r *RefreshRunRepository) LastSuccessful(_ context.Context, contestID string) (statsrefresh.Run, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var (
		out   statsrefresh.Run
		found bool
	)
	for _, run := range r.items {
		if run.ContestID != contestID || !run.Successful() {
			continue
		}
		if !found || run.StartedAt.After(out.StartedAt) {
			out = run
			found = true
		}
	}
	return out, found, nil
}

func (r *RefreshRunRepository) ListRecent(_ context.Context, contestID string, limit int) ([]statsrefresh.Run, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]statsrefresh.Run, 0)
	for _, run := range r.items {
		if run.ContestID == contestID {
			out = append(out, run)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartedAt.After(out[j].StartedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
