package player

import (
	"fmt"
	"strings"
	"time"
)

// Player is a registered competitor. Registration is administrative; the
// league decides which queue the player may join.
type Player struct {
	ID        int64
	DiscordID string
	Username  string
	League    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (p Player) Validate() error {
	if strings.TrimSpace(p.DiscordID) == "" {
		return fmt.Errorf("player discord id is required")
	}
	if strings.TrimSpace(p.Username) == "" {
		return fmt.Errorf("player username is required")
	}
	if strings.TrimSpace(p.League) == "" {
		return fmt.Errorf("player league is required")
	}

	return nil
}
