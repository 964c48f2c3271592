package player

import (
	"fmt"
	"strings"
)

// Player is a selectable athlete synced from the roster feed.
type Player struct {
	ID       string
	Name     string
	Position string
	TeamCode string
}

func (p Player) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("player id is required")
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("player name is required")
	}
	if strings.TrimSpace(p.Position) == "" {
		return fmt.Errorf("player position is required")
	}
	return nil
}
