package gamemap

import (
	"context"
	"time"
)

// Repository describes map persistence needs from use cases.
type Repository interface {
	// ListActive returns active maps ordered by name.
	ListActive(ctx context.Context) ([]Map, error)
	ListByIDs(ctx context.Context, ids []int64) ([]Map, error)
	// PlayCounts returns every active map with its plays by playerIDs after since.
	PlayCounts(ctx context.Context, playerIDs []int64, since time.Time) ([]PlayCount, error)
	// RecordPlays appends every play in one transaction.
	RecordPlays(ctx context.Context, plays []Play) error
	Create(ctx context.Context, m Map) (Map, error)
	SetActive(ctx context.Context, id int64, active bool) (bool, error)
}
