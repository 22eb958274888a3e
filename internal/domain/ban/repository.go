package ban

import (
	"context"
	"time"
)

// Repository describes ban persistence needs from use cases.
type Repository interface {
	Create(ctx context.Context, b Ban) (Ban, error)
	// GetActive returns the active ban ending last, if any.
	GetActive(ctx context.Context, playerID int64, now time.Time) (Ban, bool, error)
	// CountDodgesSince counts non-manual bans starting strictly after since.
	CountDodgesSince(ctx context.Context, playerID int64, since time.Time) (int, error)
	// EndActive sets ban_end = now on every active ban and returns how many changed.
	EndActive(ctx context.Context, playerID int64, now time.Time) (int64, error)
	ListByPlayer(ctx context.Context, playerID int64, limit int) ([]Ban, error)
}
