package participant

import (
	"fmt"
	"strings"
	"time"
)

// Participant is a member of one contest. ID is the account identity and never
// changes; Label is display text only.
type Participant struct {
	ContestID string
	ID        string
	Label     string
	JoinedAt  time.Time
}

func (p Participant) Validate() error {
	if strings.TrimSpace(p.ContestID) == "" {
		return fmt.Errorf("participant contest id is required")
	}
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("participant id is required")
	}
	if strings.TrimSpace(p.Label) == "" {
		return fmt.Errorf("participant label is required")
	}
	if len(p.Label) > 64 {
		return fmt.Errorf("participant label must be at most 64 characters")
	}
	return nil
}

// Principal is the authenticated caller.
type Principal struct {
	ParticipantID string
	Label         string
	IsOperator    bool
}

// Labels indexes participants by id for render-time lookups.
func Labels(items []Participant) map[string]string {
	out := make(map[string]string, len(items))
	for _, item := range items {
		out[item.ID] = item.Label
	}
	return out
}
