package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/weekly-picks/internal/domain/scoring"
)

type ScoringRepository struct {
	mu    sync.RWMutex
	items map[string]scoring.Coefficients
}

func NewScoringRepository() *ScoringRepository {
	return &ScoringRepository{items: make(map[string]scoring.Coefficients)}
}

func (r *ScoringRepository) GetActive(_ context.Context, contestID string) (scoring.Coefficients, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[contestID]
	return item, ok, nil
}

func (r *ScoringRepository) UpsertActive(_ context.Context, contestID string, coefficients scoring.Coefficients) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[contestID] = coefficients
	return nil
}
