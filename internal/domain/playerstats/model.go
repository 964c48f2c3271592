package playerstats

import (
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/weekly-picks/internal/domain/scoring"
)

// PeriodStat is the running stat line of one player for one period.
type PeriodStat struct {
	Season     string
	Period     int
	PlayerID   string
	Categories map[scoring.Category]float64
	UpdatedAt  time.Time
}

func (s PeriodStat) Validate() error {
	if strings.TrimSpace(s.Season) == "" {
		return fmt.Errorf("stat season is required")
	}
	if s.Period <= 0 {
		return fmt.Errorf("stat period must be greater than zero")
	}
	if strings.TrimSpace(s.PlayerID) == "" {
		return fmt.Errorf("stat player id is required")
	}
	return nil
}

// Merge folds an incoming update into the stored line. A nonzero incoming
// value replaces the stored one; a zero keeps the stored value, so a category
// can never be corrected back to zero through an update.
func Merge(existing, incoming PeriodStat) PeriodStat {
	out := PeriodStat{
		Season:     incoming.Season,
		Period:     incoming.Period,
		PlayerID:   incoming.PlayerID,
		Categories: make(map[scoring.Category]float64, len(existing.Categories)+len(incoming.Categories)),
		UpdatedAt:  incoming.UpdatedAt,
	}
	if out.UpdatedAt.IsZero() {
		out.UpdatedAt = existing.UpdatedAt
	}

	for category, value := range existing.Categories {
		out.Categories[category] = value
	}
	for category, value := range incoming.Categories {
		if value != 0 {
			out.Categories[category] = value
			continue
		}
		if _, ok := out.Categories[category]; !ok {
			out.Categories[category] = 0
		}
	}
	return out
}

// Changed reports whether merging incoming into existing alters any category.
func Changed(existing, merged PeriodStat) bool {
	if len(existing.Categories) != len(merged.Categories) {
		return true
	}
	for category, value := range merged.Categories {
		if prev, ok := existing.Categories[category]; !ok || prev != value {
			return true
		}
	}
	return false
}
