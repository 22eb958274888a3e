package scrim

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Status is the lifecycle state of a scrim.
type Status string

const (
	StatusCheckingIn Status = "checking_in"
	StatusActive     Status = "active"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

const (
	RequiredPlayers = 4
	MatchTypeQueue  = "QUEUE"
)

var (
	ErrInvalidPlayerCount = errors.New("scrim must have exactly 4 players")
	ErrInvalidTransition  = errors.New("invalid scrim status transition")
	ErrDuplicateUID       = errors.New("scrim uid already exists")
)

var transitions = map[Status][]Status{
	StatusCheckingIn: {StatusActive, StatusCancelled},
	StatusActive:     {StatusCompleted, StatusCancelled},
}

func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransitionTo reports whether next is reachable from s in one step.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// SourcesFor lists the statuses a scrim may be in to move to next.
func SourcesFor(next Status) []Status {
	out := make([]Status, 0, 2)
	for _, from := range []Status{StatusCheckingIn, StatusActive} {
		if from.CanTransitionTo(next) {
			out = append(out, from)
		}
	}
	return out
}

// Scrim is a four-player session created when a league queue pops.
type Scrim struct {
	ID              int64
	UID             string
	League          string
	Status          Status
	MatchType       string
	WinnerTeam      *int
	RatingProcessed bool
	CreatedAt       time.Time
	CheckInDeadline *time.Time
	CompletedAt     *time.Time
}

// CheckInExpired reports whether the deadline is set and strictly before now.
func (s Scrim) CheckInExpired(now time.Time) bool {
	return s.CheckInDeadline != nil && now.After(*s.CheckInDeadline)
}

// Player is a scrim participant and their check-in state.
type Player struct {
	ID        int64
	ScrimID   int64
	PlayerID  int64
	CheckedIn bool
	CheckInAt *time.Time
}

// Map is a map assigned to a scrim, Order starting at 1.
type Map struct {
	ID      int64
	ScrimID int64
	MapID   int64
	Order   int
}

// CreateParams carries everything persisted atomically when a scrim is created.
type CreateParams struct {
	UID             string
	League          string
	MatchType       string
	PlayerIDs       []int64
	MapIDs          []int64
	CreatedAt       time.Time
	CheckInDeadline time.Time
}

func (p CreateParams) Validate() error {
	if strings.TrimSpace(p.UID) == "" {
		return fmt.Errorf("scrim uid is required")
	}
	if strings.TrimSpace(p.League) == "" {
		return fmt.Errorf("scrim league is required")
	}
	if len(p.PlayerIDs) != RequiredPlayers {
		return fmt.Errorf("%w: got %d", ErrInvalidPlayerCount, len(p.PlayerIDs))
	}
	if err := requireDistinct("player", p.PlayerIDs); err != nil {
		return err
	}
	if err := requireDistinct("map", p.MapIDs); err != nil {
		return err
	}
	if p.CheckInDeadline.Before(p.CreatedAt) {
		return fmt.Errorf("check-in deadline must not precede creation time")
	}

	return nil
}

func requireDistinct(kind string, ids []int64) error {
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if id <= 0 {
			return fmt.Errorf("invalid %s id: %d", kind, id)
		}
		if _, exists := seen[id]; exists {
			return fmt.Errorf("duplicate %s in scrim: %d", kind, id)
		}
		seen[id] = struct{}{}
	}
	return nil
}
