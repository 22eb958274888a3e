package rating

import (
	"context"
	"time"
)

// Repository describes rating and match-stat persistence needs from use cases.
type Repository interface {
	ListMatchStats(ctx context.Context, scrimID int64) ([]PlayerStat, error)
	RecordMatchStats(ctx context.Context, stats []PlayerStat) error
	ListRatings(ctx context.Context, league string, playerIDs []int64) ([]Rating, error)
	Get(ctx context.Context, playerID int64, league string) (Rating, bool, error)
	Leaderboard(ctx context.Context, league string, limit int) ([]Rating, error)
	// ApplyMatch locks the scrim row, skips it when already processed, upserts
	// every update and flags the scrim processed, all in one transaction.
	// It reports false when the scrim had already been processed.
	ApplyMatch(ctx context.Context, scrimID int64, league string, updates []Update, at time.Time) (bool, error)
}
