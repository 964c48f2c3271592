package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/weekly-picks/internal/domain/contest"
)

type ContestRepository struct {
	mu     sync.RWMutex
	items  map[string]contest.Contest
	orders []string
}

func NewContestRepository(contests []contest.Contest) *ContestRepository {
	items := make(map[string]contest.Contest, len(contests))
	orders := make([]string, 0, len(contests))

	for _, c := range contests {
		items[c.ID] = cloneContest(c)
		orders = append(orders, c.ID)
	}

	return &ContestRepository{
		items:  items,
		orders: orders,
	}
}

func (r *ContestRepository) List(_ context.Context) ([]contest.Contest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]contest.Contest, 0, len(r.orders))
	for _, id := range r.orders {
		out = append(out, cloneContest(r.items[id]))
	}

	return out, nil
}

func (r *ContestRepository) GetByID(_ context.Context, contestID string) (contest.Contest, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.items[contestID]
	if !ok {
		return contest.Contest{}, false, nil
	}

	return cloneContest(c), true, nil
}

func cloneContest(c contest.Contest) contest.Contest {
	copied := c
	copied.Slots = make([]contest.Slot, 0, len(c.Slots))
	for _, slot := range c.Slots {
		copied.Slots = append(copied.Slots, contest.Slot{
			Name:              slot.Name,
			EligiblePositions: append([]string(nil), slot.EligiblePositions...),
		})
	}
	return copied
}
