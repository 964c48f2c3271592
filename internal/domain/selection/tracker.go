package selection

import (
	"sort"
	"strings"
)

// GroupByParticipant builds participant -> slot -> player from raw records.
// Records without a participant identity are dropped.
func GroupByParticipant(items []Selection) map[string]SlotSet {
	out := make(map[string]SlotSet)
	for _, item := range items {
		participantID := strings.TrimSpace(item.ParticipantID)
		if participantID == "" || strings.TrimSpace(item.Slot) == "" {
			continue
		}
		slots, ok := out[participantID]
		if !ok {
			slots = make(SlotSet)
			out[participantID] = slots
		}
		slots[item.Slot] = item.PlayerID
	}
	return out
}

// IsComplete reports whether every required slot holds a player.
func IsComplete(slots SlotSet, required []string) bool {
	for _, slot := range required {
		if strings.TrimSpace(slots[slot]) == "" {
			return false
		}
	}
	return true
}

// SubmittedParticipantIDs returns, sorted, the participants whose picks for
// the period are complete.
func SubmittedParticipantIDs(items []Selection, required []string) []string {
	grouped := GroupByParticipant(items)
	out := make([]string, 0, len(grouped))
	for participantID, slots := range grouped {
		if IsComplete(slots, required) {
			out = append(out, participantID)
		}
	}
	sort.Strings(out)
	return out
}
