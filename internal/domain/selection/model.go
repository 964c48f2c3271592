package selection

import (
	"sort"
	"time"
)

// Selection is one committed pick: a player placed in a slot for a period.
type Selection struct {
	ContestID     string
	ParticipantID string
	Period        int
	Slot          string
	PlayerID      string
	CommittedAt   time.Time
}

// Pick is an uncommitted slot assignment submitted by a participant.
type Pick struct {
	Slot     string
	PlayerID string
}

// SlotSet maps slot name to player id for one participant and period.
type SlotSet map[string]string

// Picks returns the set as picks ordered by the given slot order; slots not in
// the order are appended alphabetically.
func (s SlotSet) Picks(order []string) []Pick {
	out := make([]Pick, 0, len(s))
	seen := make(map[string]struct{}, len(order))
	for _, slot := range order {
		if playerID, ok := s[slot]; ok {
			out = append(out, Pick{Slot: slot, PlayerID: playerID})
			seen[slot] = struct{}{}
		}
	}

	rest := make([]string, 0)
	for slot := range s {
		if _, ok := seen[slot]; !ok {
			rest = append(rest, slot)
		}
	}
	sort.Strings(rest)
	for _, slot := range rest {
		out = append(out, Pick{Slot: slot, PlayerID: s[slot]})
	}
	return out
}

// Matches reports whether the picks assign exactly the same players to the
// same slots as the set.
func (s SlotSet) Matches(picks []Pick) bool {
	if len(s) != len(picks) {
		return false
	}
	for _, pick := range picks {
		if s[pick.Slot] != pick.PlayerID {
			return false
		}
	}
	return true
}
