package player

import "context"

// Repository describes player persistence needs from use cases.
type Repository interface {
	GetByID(ctx context.Context, id int64) (Player, bool, error)
	GetByDiscordID(ctx context.Context, discordID string) (Player, bool, error)
	ListByIDs(ctx context.Context, ids []int64) ([]Player, error)
	ListByLeague(ctx context.Context, league string) ([]Player, error)
	Create(ctx context.Context, p Player) (Player, error)
	UpdateLeague(ctx context.Context, id int64, league string) (bool, error)
}
