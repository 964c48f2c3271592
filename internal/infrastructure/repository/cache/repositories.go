package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"github.com/riskibarqy/weekly-picks/internal/domain/contest"
	"github.com/riskibarqy/weekly-picks/internal/domain/period"
	basecache "github.com/riskibarqy/weekly-picks/internal/platform/cache"
)

type ContestRepository struct {
	next  contest.Repository
	cache basecache.Store
	ttl   time.Duration
}

func NewContestRepository(next contest.Repository, cache basecache.Store, ttl time.Duration) *ContestRepository {
	return &ContestRepository{next: next, cache: cache, ttl: ttl}
}

func (r *ContestRepository) List(ctx context.Context) ([]contest.Contest, error) {
	return getOrLoad(ctx, r.cache, "contest:list", r.ttl, func(ctx context.Context) ([]contest.Contest, error) {
		return r.next.List(ctx)
	})
}

func (r *ContestRepository) GetByID(ctx context.Context, contestID string) (contest.Contest, bool, error) {
	cached, err := getOrLoad(ctx, r.cache, "contest:id:"+contestID, r.ttl, func(ctx context.Context) (cachedContestByID, error) {
		item, exists, err := r.next.GetByID(ctx, contestID)
		if err != nil {
			return cachedContestByID{}, err
		}
		return cachedContestByID{Value: item, Exists: exists}, nil
	})
	if err != nil {
		return contest.Contest{}, false, err
	}
	return cached.Value, cached.Exists, nil
}

type cachedContestByID struct {
	Value  contest.Contest
	Exists bool
}

type WindowRepository struct {
	next  period.Repository
	cache basecache.Store
	ttl   time.Duration
}

func NewWindowRepository(next period.Repository, cache basecache.Store, ttl time.Duration) *WindowRepository {
	return &WindowRepository{next: next, cache: cache, ttl: ttl}
}

func (r *WindowRepository) ListByContest(ctx context.Context, contestID string) ([]period.Window, error) {
	return getOrLoad(ctx, r.cache, windowPrefix(contestID)+"list", r.ttl, func(ctx context.Context) ([]period.Window, error) {
		return r.next.ListByContest(ctx, contestID)
	})
}

func (r *WindowRepository) Get(ctx context.Context, contestID string, number int) (period.Window, bool, error) {
	key := windowPrefix(contestID) + "number:" + strconv.Itoa(number)
	cached, err := getOrLoad(ctx, r.cache, key, r.ttl, func(ctx context.Context) (cachedWindow, error) {
		item, exists, err := r.next.Get(ctx, contestID, number)
		if err != nil {
			return cachedWindow{}, err
		}
		return cachedWindow{Value: item, Exists: exists}, nil
	})
	if err != nil {
		return period.Window{}, false, err
	}
	return cached.Value, cached.Exists, nil
}

// UpsertWindows writes through and drops every cached window of the contest.
func (r *WindowRepository) UpsertWindows(ctx context.Context, contestID string, windows []period.Window) error {
	if err := r.next.UpsertWindows(ctx, contestID, windows); err != nil {
		return err
	}
	return r.cache.InvalidatePrefix(ctx, windowPrefix(contestID))
}

type cachedWindow struct {
	Value  period.Window
	Exists bool
}

func windowPrefix(contestID string) string {
	return "window:" + contestID + ":"
}

func getOrLoad[T any](ctx context.Context, store basecache.Store, key string, ttl time.Duration, load func(ctx context.Context) (T, error)) (T, error) {
	var out T
	raw, err := store.GetOrRefresh(ctx, key, ttl, func(ctx context.Context) ([]byte, error) {
		value, err := load(ctx)
		if err != nil {
			return nil, err
		}
		return sonic.Marshal(value)
	})
	if err != nil {
		return out, err
	}
	if err := sonic.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("decode cached %s: %w", key, err)
	}
	return out, nil
}
