package usecase

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"github.com/riskibarqy/weekly-picks/internal/domain/selection"
	"github.com/riskibarqy/weekly-picks/internal/platform/cache"
	"github.com/riskibarqy/weekly-picks/internal/platform/metrics"
)

const (
	DefaultSubmissionCacheTTL = 15 * time.Second
	MaxSubmissionCacheTTL     = 30 * time.Second
)

// SubmissionReader serves the committed selections of a period through the
// cache. The cached value is the same for every viewer; visibility is decided
// per request.
type SubmissionReader struct {
	selectionRepo selection.Repository
	store         cache.Store
	ttl           time.Duration
	metrics       *metrics.Metrics
}

func NewSubmissionReader(selectionRepo selection.Repository, store cache.Store, ttl time.Duration, m *metrics.Metrics) *SubmissionReader {
	if ttl <= 0 {
		ttl = DefaultSubmissionCacheTTL
	}
	if ttl > MaxSubmissionCacheTTL {
		ttl = MaxSubmissionCacheTTL
	}
	return &SubmissionReader{
		selectionRepo: selectionRepo,
		store:         store,
		ttl:           ttl,
		metrics:       m,
	}
}

func (r *SubmissionReader) Period(ctx context.Context, contestID string, periodNumber int) ([]selection.Selection, error) {
	load := func(ctx context.Context) ([]selection.Selection, error) {
		r.metrics.ObserveCacheLoad("submissions")
		items, err := r.selectionRepo.ListByContestPeriod(ctx, contestID, periodNumber)
		if err != nil {
			return nil, fmt.Errorf("list selections by contest period: %w", err)
		}
		return items, nil
	}
	return cachedJSON(ctx, r.store, submissionCacheKey(contestID, periodNumber), r.ttl, load)
}

// Invalidate drops the cached index so the next read sees the latest commit.
func (r *SubmissionReader) Invalidate(ctx context.Context, contestID string, periodNumber int) error {
	if r.store == nil {
		return nil
	}
	return r.store.Invalidate(ctx, submissionCacheKey(contestID, periodNumber))
}

func submissionCacheKey(contestID string, periodNumber int) string {
	return "submissions:" + contestID + ":" + strconv.Itoa(periodNumber)
}

// cachedJSON stores loader results as sonic-encoded bytes.
func cachedJSON[T any](ctx context.Context, store cache.Store, key string, ttl time.Duration, load func(ctx context.Context) (T, error)) (T, error) {
	if store == nil {
		return load(ctx)
	}

	raw, err := store.GetOrRefresh(ctx, key, ttl, func(ctx context.Context) ([]byte, error) {
		value, err := load(ctx)
		if err != nil {
			return nil, err
		}
		return sonic.Marshal(value)
	})
	if err != nil {
		var zero T
		return zero, err
	}

	var out T
	if err := sonic.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("decode cached %s: %w", key, err)
	}
	return out, nil
}
