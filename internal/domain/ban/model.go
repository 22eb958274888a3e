package ban

import (
	"fmt"
	"strings"
	"time"
)

// Ban blocks a player from joining any queue while Start <= now < End.
type Ban struct {
	ID         int64
	PlayerID   int64
	Start      time.Time
	End        time.Time
	Reason     string
	DodgeCount int
	IsManual   bool
	CreatedAt  time.Time
}

func (b Ban) Validate() error {
	if b.PlayerID <= 0 {
		return fmt.Errorf("ban player id is required")
	}
	if b.End.Before(b.Start) {
		return fmt.Errorf("ban end must not precede ban start")
	}
	if strings.TrimSpace(b.Reason) == "" {
		return fmt.Errorf("ban reason is required")
	}
	if b.IsManual && b.DodgeCount != 0 {
		return fmt.Errorf("manual ban cannot carry a dodge count")
	}

	return nil
}

// ActiveAt reports whether the ban is still running at now.
func (b Ban) ActiveAt(now time.Time) bool {
	return b.End.After(now)
}

// Remaining is the time left on the ban at now, never negative.
func (b Ban) Remaining(now time.Time) time.Duration {
	if !b.ActiveAt(now) {
		return 0
	}
	return b.End.Sub(now)
}

// Policy maps recent dodges to ban durations.
type Policy struct {
	First  time.Duration
	Second time.Duration
	Third  time.Duration
	Window time.Duration
}

func DefaultPolicy() Policy {
	return Policy{
		First:  300 * time.Second,
		Second: 1800 * time.Second,
		Third:  7200 * time.Second,
		Window: 86400 * time.Second,
	}
}

// DurationFor returns the ban length for a player with prior dodges inside the window.
func (p Policy) DurationFor(prior int) time.Duration {
	switch {
	case prior <= 0:
		return p.First
	case prior == 1:
		return p.Second
	default:
		return p.Third
	}
}

// DodgeReason is the ban reason for the dodgeCount-th dodge inside the window.
func (p Policy) DodgeReason(dodgeCount int) string {
	return fmt.Sprintf("Queue dodge penalty (%d in %s)", dodgeCount, shortDuration(p.Window))
}

// shortDuration renders whole hours as "24h" and whole minutes as "90m".
func shortDuration(d time.Duration) string {
	switch {
	case d > 0 && d%time.Hour == 0:
		return fmt.Sprintf("%dh", d/time.Hour)
	case d > 0 && d%time.Minute == 0:
		return fmt.Sprintf("%dm", d/time.Minute)
	default:
		return d.String()
	}
}
