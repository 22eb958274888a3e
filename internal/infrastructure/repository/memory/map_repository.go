package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/scrim-matchmaker/internal/domain/gamemap"
)

type MapRepository struct {
	mu      sync.RWMutex
	nextID  int64
	maps    map[int64]gamemap.Map
	history []gamemap.Play
}

func NewMapRepository(maps []gamemap.Map) *MapRepository {
	r := &MapRepository{maps: make(map[int64]gamemap.Map, len(maps))}
	for _, m := range maps {
		if m.ID > r.nextID {
			r.nextID = m.ID
		}
		r.maps[m.ID] = m
	}
	return r
}

func (r *MapRepository) ListActive(_ context.Context) ([]gamemap.Map, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.activeLocked(), nil
}

func (r *MapRepository) activeLocked() []gamemap.Map {
	out := make([]gamemap.Map, 0, len(r.maps))
	for _, m := range r.maps {
		if m.IsActive {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (r *MapRepository) ListByIDs(_ context.Context, ids []int64) ([]gamemap.Map, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]gamemap.Map, 0, len(ids))
	for _, id := range ids {
		if m, ok := r.maps[id]; ok {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *MapRepository) PlayCounts(_ context.Context, playerIDs []int64, since time.Time) ([]gamemap.PlayCount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	players := make(map[int64]struct{}, len(playerIDs))
	for _, id := range playerIDs {
		players[id] = struct{}{}
	}
	counts := make(map[int64]int)
	for _, play := range r.history {
		if _, ok := players[play.PlayerID]; ok && play.PlayedAt.After(since) {
			counts[play.MapID]++
		}
	}

	active := r.activeLocked()
	out := make([]gamemap.PlayCount, 0, len(active))
	for _, m := range active {
		out = append(out, gamemap.PlayCount{Map: m, Count: counts[m.ID]})
	}
	gamemap.SortByPlayCount(out)
	return out, nil
}

func (r *MapRepository) RecordPlays(_ context.Context, plays []gamemap.Play) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, play := range plays {
		if _, ok := r.maps[play.MapID]; !ok {
			return fmt.Errorf("record play: unknown map %d", play.MapID)
		}
	}
	r.history = append(r.history, plays...)
	return nil
}

// Plays returns a copy of the recorded play history.
func (r *MapRepository) Plays() []gamemap.Play {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]gamemap.Play(nil), r.history...)
}

func (r *MapRepository) Create(_ context.Context, m gamemap.Map) (gamemap.Map, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.maps {
		if existing.UID == m.UID {
			return gamemap.Map{}, fmt.Errorf("map with uid %s already exists", m.UID)
		}
	}
	r.nextID++
	m.ID = r.nextID
	m.CreatedAt = time.Now().UTC()
	r.maps[m.ID] = m
	return m, nil
}

func (r *MapRepository) SetActive(_ context.Context, id int64, active bool) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.maps[id]
	if !ok {
		return false, nil
	}
	m.IsActive = active
	r.maps[id] = m
	return true, nil
}
