package selection

import (
	"sort"
	"strings"

	"github.com/riskibarqy/weekly-picks/internal/domain/contest"
)

// ForbiddenPlayers returns the players a participant may no longer pick in
// target, mapped to the earliest period they were used in. Only periods
// strictly before target count.
func ForbiddenPlayers(history []Selection, participantID string, target int, required []string, policy contest.UseOncePolicy) map[string]int {
	byPeriod := make(map[int][]Selection)
	for _, item := range history {
		if item.ParticipantID != participantID || item.Period >= target {
			continue
		}
		byPeriod[item.Period] = append(byPeriod[item.Period], item)
	}

	out := make(map[string]int)
	for periodNumber, items := range byPeriod {
		if policy == contest.UseOnceLockOnComplete {
			slots := GroupByParticipant(items)[participantID]
			if !IsComplete(slots, required) {
				continue
			}
		}
		for _, item := range items {
			if strings.TrimSpace(item.PlayerID) == "" {
				continue
			}
			if used, ok := out[item.PlayerID]; !ok || periodNumber < used {
				out[item.PlayerID] = periodNumber
			}
		}
	}
	return out
}

// ValidateShape checks the picks cover exactly the required slots, one player
// each, with no player repeated inside the commit.
func ValidateShape(period int, picks []Pick, required []string) error {
	requiredSet := make(map[string]struct{}, len(required))
	for _, slot := range required {
		requiredSet[slot] = struct{}{}
	}

	filled := make(map[string]struct{}, len(picks))
	unknown := make([]string, 0)
	for _, pick := range picks {
		if _, ok := requiredSet[pick.Slot]; !ok {
			unknown = append(unknown, pick.Slot)
			continue
		}
		if strings.TrimSpace(pick.PlayerID) == "" {
			continue
		}
		filled[pick.Slot] = struct{}{}
	}

	missing := make([]string, 0)
	for _, slot := range required {
		if _, ok := filled[slot]; !ok {
			missing = append(missing, slot)
		}
	}
	if len(missing) > 0 || len(unknown) > 0 || len(picks) != len(required) {
		sort.Strings(unknown)
		return &IncompleteSubmissionError{MissingSlots: missing, UnknownSlots: unknown}
	}

	firstSlot := make(map[string]string, len(picks))
	conflicts := make([]Conflict, 0)
	for _, pick := range picks {
		if _, ok := firstSlot[pick.PlayerID]; ok {
			conflicts = append(conflicts, Conflict{Slot: pick.Slot, PlayerID: pick.PlayerID, UsedInPeriod: period})
			continue
		}
		firstSlot[pick.PlayerID] = pick.Slot
	}
	if len(conflicts) > 0 {
		return &DuplicateSelectionError{Period: period, Conflicts: conflicts}
	}
	return nil
}

// ValidateUseOnce rejects the whole commit when any pick reuses a forbidden
// player. Every offending pick is reported.
func ValidateUseOnce(period int, picks []Pick, forbidden map[string]int) error {
	conflicts := make([]Conflict, 0)
	for _, pick := range picks {
		if used, ok := forbidden[pick.PlayerID]; ok {
			conflicts = append(conflicts, Conflict{Slot: pick.Slot, PlayerID: pick.PlayerID, UsedInPeriod: used})
		}
	}
	if len(conflicts) == 0 {
		return nil
	}
	return &DuplicateSelectionError{Period: period, Conflicts: conflicts}
}
