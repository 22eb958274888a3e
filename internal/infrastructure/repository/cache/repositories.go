package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/riskibarqy/scrim-matchmaker/internal/domain/gamemap"
	"github.com/riskibarqy/scrim-matchmaker/internal/domain/player"
	basecache "github.com/riskibarqy/scrim-matchmaker/internal/platform/cache"
)

type cachedPlayer struct {
	value  player.Player
	exists bool
}

// PlayerRepository caches single-player lookups, which every queue join and
// check-in performs. Writes drop the whole player keyspace.
type PlayerRepository struct {
	next  player.Repository
	cache *basecache.Store[cachedPlayer]
}

func NewPlayerRepository(next player.Repository, ttl time.Duration, maxEntries int) *PlayerRepository {
	return &PlayerRepository{next: next, cache: basecache.NewStore[cachedPlayer](ttl, maxEntries)}
}

func (r *PlayerRepository) GetByID(ctx context.Context, id int64) (player.Player, bool, error) {
	key := "player:id:" + strconv.FormatInt(id, 10)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (cachedPlayer, error) {
		item, exists, err := r.next.GetByID(ctx, id)
		if err != nil {
			return cachedPlayer{}, err
		}
		return cachedPlayer{value: item, exists: exists}, nil
	})
	if err != nil {
		return player.Player{}, false, err
	}
	return v.value, v.exists, nil
}

func (r *PlayerRepository) GetByDiscordID(ctx context.Context, discordID string) (player.Player, bool, error) {
	key := "player:discord:" + discordID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (cachedPlayer, error) {
		item, exists, err := r.next.GetByDiscordID(ctx, discordID)
		if err != nil {
			return cachedPlayer{}, err
		}
		return cachedPlayer{value: item, exists: exists}, nil
	})
	if err != nil {
		return player.Player{}, false, err
	}
	return v.value, v.exists, nil
}

func (r *PlayerRepository) ListByIDs(ctx context.Context, ids []int64) ([]player.Player, error) {
	return r.next.ListByIDs(ctx, ids)
}

func (r *PlayerRepository) ListByLeague(ctx context.Context, league string) ([]player.Player, error) {
	return r.next.ListByLeague(ctx, league)
}

func (r *PlayerRepository) Create(ctx context.Context, p player.Player) (player.Player, error) {
	created, err := r.next.Create(ctx, p)
	if err != nil {
		return player.Player{}, err
	}
	r.cache.DeletePrefix(ctx, "player:")
	return created, nil
}

func (r *PlayerRepository) UpdateLeague(ctx context.Context, id int64, league string) (bool, error) {
	updated, err := r.next.UpdateLeague(ctx, id, league)
	if err != nil {
		return false, err
	}
	r.cache.DeletePrefix(ctx, "player:")
	return updated, nil
}

// MapRepository caches the active map list. Play history is never cached.
type MapRepository struct {
	next  gamemap.Repository
	cache *basecache.Store[[]gamemap.Map]
}

func NewMapRepository(next gamemap.Repository, ttl time.Duration) *MapRepository {
	return &MapRepository{next: next, cache: basecache.NewStore[[]gamemap.Map](ttl, 16)}
}

func (r *MapRepository) ListActive(ctx context.Context) ([]gamemap.Map, error) {
	items, err := r.cache.GetOrLoad(ctx, "map:active", func(ctx context.Context) ([]gamemap.Map, error) {
		items, err := r.next.ListActive(ctx)
		if err != nil {
			return nil, err
		}
		return append([]gamemap.Map(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}
	return append([]gamemap.Map(nil), items...), nil
}

func (r *MapRepository) ListByIDs(ctx context.Context, ids []int64) ([]gamemap.Map, error) {
	return r.next.ListByIDs(ctx, ids)
}

func (r *MapRepository) PlayCounts(ctx context.Context, playerIDs []int64, since time.Time) ([]gamemap.PlayCount, error) {
	return r.next.PlayCounts(ctx, playerIDs, since)
}

func (r *MapRepository) RecordPlays(ctx context.Context, plays []gamemap.Play) error {
	return r.next.RecordPlays(ctx, plays)
}

func (r *MapRepository) Create(ctx context.Context, m gamemap.Map) (gamemap.Map, error) {
	created, err := r.next.Create(ctx, m)
	if err != nil {
		return gamemap.Map{}, err
	}
	r.cache.DeletePrefix(ctx, "map:")
	return created, nil
}

func (r *MapRepository) SetActive(ctx context.Context, id int64, active bool) (bool, error) {
	updated, err := r.next.SetActive(ctx, id, active)
	if err != nil {
		return false, err
	}
	r.cache.DeletePrefix(ctx, "map:")
	return updated, nil
}
