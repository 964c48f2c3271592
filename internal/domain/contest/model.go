package contest

import (
	"fmt"
	"strings"
)

// UseOncePolicy controls which earlier selections lock a player for a participant.
type UseOncePolicy string

const (
	// UseOnceLockOnAttempt counts every earlier selection, complete period or not.
	UseOnceLockOnAttempt UseOncePolicy = "lock_on_attempt"
	// UseOnceLockOnComplete only counts earlier periods where every slot was filled.
	UseOnceLockOnComplete UseOncePolicy = "lock_on_complete"
)

func ParseUseOncePolicy(v string) (UseOncePolicy, error) {
	switch UseOncePolicy(strings.ToLower(strings.TrimSpace(v))) {
	case "", UseOnceLockOnAttempt:
		return UseOnceLockOnAttempt, nil
	case UseOnceLockOnComplete:
		return UseOnceLockOnComplete, nil
	default:
		return "", fmt.Errorf("invalid use-once policy %q", v)
	}
}

type Slot struct {
	Name              string
	EligiblePositions []string
}

// Accepts reports whether a player at the given position may fill the slot.
// Slots without eligible positions accept anyone.
func (s Slot) Accepts(position string) bool {
	if len(s.EligiblePositions) == 0 {
		return true
	}
	position = strings.ToUpper(strings.TrimSpace(position))
	for _, candidate := range s.EligiblePositions {
		if strings.ToUpper(strings.TrimSpace(candidate)) == position {
			return true
		}
	}
	return false
}

type Contest struct {
	ID            string
	Name          string
	Season        string
	Slots         []Slot
	UseOncePolicy UseOncePolicy
}

// RequiredSlots returns slot names in configured order.
func (c Contest) RequiredSlots() []string {
	out := make([]string, 0, len(c.Slots))
	for _, slot := range c.Slots {
		out = append(out, slot.Name)
	}
	return out
}

func (c Contest) Slot(name string) (Slot, bool) {
	for _, slot := range c.Slots {
		if slot.Name == name {
			return slot, true
		}
	}
	return Slot{}, false
}

func (c Contest) Validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return fmt.Errorf("contest id is required")
	}
	if strings.TrimSpace(c.Season) == "" {
		return fmt.Errorf("contest season is required")
	}
	if len(c.Slots) == 0 {
		return fmt.Errorf("contest %s must define at least one slot", c.ID)
	}

	seen := make(map[string]struct{}, len(c.Slots))
	for _, slot := range c.Slots {
		name := strings.TrimSpace(slot.Name)
		if name == "" {
			return fmt.Errorf("contest %s has an unnamed slot", c.ID)
		}
		if _, ok := seen[name]; ok {
			return fmt.Errorf("contest %s has duplicate slot %s", c.ID, name)
		}
		seen[name] = struct{}{}
	}
	return nil
}
