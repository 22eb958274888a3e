package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/scrim-matchmaker/internal/domain/player"
)

type PlayerRepository struct {
	mu        sync.RWMutex
	nextID    int64
	byID      map[int64]player.Player
	byDiscord map[string]int64
}

func NewPlayerRepository(players []player.Player) *PlayerRepository {
	r := &PlayerRepository{
		byID:      make(map[int64]player.Player, len(players)),
		byDiscord: make(map[string]int64, len(players)),
	}
	for _, p := range players {
		if p.ID > r.nextID {
			r.nextID = p.ID
		}
		r.byID[p.ID] = p
		r.byDiscord[p.DiscordID] = p.ID
	}
	return r
}

func (r *PlayerRepository) GetByID(_ context.Context, id int64) (player.Player, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	return p, ok, nil
}

func (r *PlayerRepository) GetByDiscordID(_ context.Context, discordID string) (player.Player, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byDiscord[discordID]
	if !ok {
		return player.Player{}, false, nil
	}
	return r.byID[id], true, nil
}

func (r *PlayerRepository) ListByIDs(_ context.Context, ids []int64) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]player.Player, 0, len(ids))
	for _, id := range ids {
		if p, ok := r.byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *PlayerRepository) ListByLeague(_ context.Context, league string) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]player.Player, 0)
	for _, p := range r.byID {
		if p.League == league {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *PlayerRepository) Create(_ context.Context, p player.Player) (player.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byDiscord[p.DiscordID]; exists {
		return player.Player{}, fmt.Errorf("player with discord id %s already exists", p.DiscordID)
	}

	r.nextID++
	now := time.Now().UTC()
	p.ID = r.nextID
	p.CreatedAt = now
	p.UpdatedAt = now
	r.byID[p.ID] = p
	r.byDiscord[p.DiscordID] = p.ID
	return p, nil
}

func (r *PlayerRepository) UpdateLeague(_ context.Context, id int64, league string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byID[id]
	if !ok {
		return false, nil
	}
	p.League = league
	p.UpdatedAt = time.Now().UTC()
	r.byID[id] = p
	return true, nil
}
