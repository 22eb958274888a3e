package scrim

import (
	"context"
	"time"
)

// Repository describes scrim persistence needs from use cases.
type Repository interface {
	// Create stores the scrim, its players and its ordered maps in one transaction.
	Create(ctx context.Context, params CreateParams) (Scrim, error)
	GetByID(ctx context.Context, id int64) (Scrim, bool, error)
	GetByUID(ctx context.Context, uid string) (Scrim, bool, error)
	ListPlayers(ctx context.Context, scrimID int64) ([]Player, error)
	ListMaps(ctx context.Context, scrimID int64) ([]Map, error)
	// CheckIn flips checked_in for a participant that has not checked in yet,
	// only while the scrim is still checking_in.
	CheckIn(ctx context.Context, scrimID, playerID int64, at time.Time) (bool, error)
	// UpdateStatus moves the scrim to `to` only while its status is one of `from`.
	UpdateStatus(ctx context.Context, scrimID int64, from []Status, to Status, completedAt *time.Time) (bool, error)
	SetWinner(ctx context.Context, scrimID int64, winnerTeam int) error
	ListActiveByLeague(ctx context.Context, league string) ([]Scrim, error)
	ListRecentByPlayer(ctx context.Context, playerID int64, limit int) ([]Scrim, error)
	// LatestCheckingInByPlayer returns the newest checking_in scrim the player belongs to.
	LatestCheckingInByPlayer(ctx context.Context, playerID int64) (Scrim, bool, error)
}
