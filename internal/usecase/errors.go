package usecase

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrForbidden             = errors.New("forbidden")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
	ErrRateLimited           = errors.New("rate limited")
)

// RateLimitedError is returned when a refresh is requested before the minimum
// interval since the last successful run has elapsed.
type RateLimitedError struct {
	LastRunAt  time.Time
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("%s: last successful refresh at %s, retry in %s",
		ErrRateLimited.Error(), e.LastRunAt.UTC().Format(time.RFC3339), e.RetryAfter.Round(time.Second))
}

func (e *RateLimitedError) Is(target error) bool {
	return target == ErrRateLimited
}

// UpstreamFetchError wraps a provider failure for one player. A refresh batch
// records it and moves on.
type UpstreamFetchError struct {
	PlayerID string
	Err      error
}

func (e *UpstreamFetchError) Error() string {
	return fmt.Sprintf("fetch stats for player %s: %v", e.PlayerID, e.Err)
}

func (e *UpstreamFetchError) Unwrap() error {
	return e.Err
}
