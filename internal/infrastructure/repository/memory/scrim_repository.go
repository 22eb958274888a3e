package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/scrim-matchmaker/internal/domain/scrim"
)

type ScrimRepository struct {
	mu      sync.RWMutex
	nextID  int64
	scrims  map[int64]scrim.Scrim
	byUID   map[string]int64
	players map[int64][]scrim.Player
	maps    map[int64][]scrim.Map
	rowID   int64
}

func NewScrimRepository() *ScrimRepository {
	return &ScrimRepository{
		scrims:  make(map[int64]scrim.Scrim),
		byUID:   make(map[string]int64),
		players: make(map[int64][]scrim.Player),
		maps:    make(map[int64][]scrim.Map),
	}
}

func (r *ScrimRepository) Create(_ context.Context, params scrim.CreateParams) (scrim.Scrim, error) {
	if err := params.Validate(); err != nil {
		return scrim.Scrim{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byUID[params.UID]; exists {
		return scrim.Scrim{}, fmt.Errorf("%w: %s", scrim.ErrDuplicateUID, params.UID)
	}

	r.nextID++
	deadline := params.CheckInDeadline
	item := scrim.Scrim{
		ID:              r.nextID,
		UID:             params.UID,
		League:          params.League,
		Status:          scrim.StatusCheckingIn,
		MatchType:       params.MatchType,
		CreatedAt:       params.CreatedAt,
		CheckInDeadline: &deadline,
	}
	r.scrims[item.ID] = item
	r.byUID[item.UID] = item.ID

	for _, playerID := range params.PlayerIDs {
		r.rowID++
		r.players[item.ID] = append(r.players[item.ID], scrim.Player{ID: r.rowID, ScrimID: item.ID, PlayerID: playerID})
	}
	for i, mapID := range params.MapIDs {
		r.rowID++
		r.maps[item.ID] = append(r.maps[item.ID], scrim.Map{ID: r.rowID, ScrimID: item.ID, MapID: mapID, Order: i + 1})
	}

	return item, nil
}

func (r *ScrimRepository) GetByID(_ context.Context, id int64) (scrim.Scrim, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.scrims[id]
	return item, ok, nil
}

func (r *ScrimRepository) GetByUID(_ context.Context, uid string) (scrim.Scrim, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byUID[uid]
	if !ok {
		return scrim.Scrim{}, false, nil
	}
	return r.scrims[id], true, nil
}

func (r *ScrimRepository) ListPlayers(_ context.Context, scrimID int64) ([]scrim.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]scrim.Player(nil), r.players[scrimID]...), nil
}

func (r *ScrimRepository) ListMaps(_ context.Context, scrimID int64) ([]scrim.Map, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]scrim.Map(nil), r.maps[scrimID]...), nil
}

func (r *ScrimRepository) CheckIn(_ context.Context, scrimID, playerID int64, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if item, ok := r.scrims[scrimID]; !ok || item.Status != scrim.StatusCheckingIn {
		return false, nil
	}
	rows := r.players[scrimID]
	for i := range rows {
		if rows[i].PlayerID != playerID || rows[i].CheckedIn {
			continue
		}
		checkedAt := at
		rows[i].CheckedIn = true
		rows[i].CheckInAt = &checkedAt
		return true, nil
	}
	return false, nil
}

func (r *ScrimRepository) UpdateStatus(_ context.Context, scrimID int64, from []scrim.Status, to scrim.Status, completedAt *time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.scrims[scrimID]
	if !ok || !containsStatus(from, item.Status) {
		return false, nil
	}
	item.Status = to
	if completedAt != nil && item.CompletedAt == nil {
		at := *completedAt
		item.CompletedAt = &at
	}
	r.scrims[scrimID] = item
	return true, nil
}

func (r *ScrimRepository) SetWinner(_ context.Context, scrimID int64, winnerTeam int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.scrims[scrimID]
	if !ok {
		return fmt.Errorf("scrim %d not found", scrimID)
	}
	winner := winnerTeam
	item.WinnerTeam = &winner
	r.scrims[scrimID] = item
	return nil
}

func (r *ScrimRepository) ListActiveByLeague(_ context.Context, league string) ([]scrim.Scrim, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]scrim.Scrim, 0)
	for _, item := range r.scrims {
		if item.League == league && (item.Status == scrim.StatusCheckingIn || item.Status == scrim.StatusActive) {
			out = append(out, item)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (r *ScrimRepository) ListRecentByPlayer(_ context.Context, playerID int64, limit int) ([]scrim.Scrim, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := r.byPlayerLocked(playerID)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *ScrimRepository) LatestCheckingInByPlayer(_ context.Context, playerID int64) (scrim.Scrim, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.byPlayerLocked(playerID) {
		if item.Status == scrim.StatusCheckingIn {
			return item, true, nil
		}
	}
	return scrim.Scrim{}, false, nil
}

func (r *ScrimRepository) byPlayerLocked(playerID int64) []scrim.Scrim {
	out := make([]scrim.Scrim, 0)
	for scrimID, rows := range r.players {
		for _, row := range rows {
			if row.PlayerID == playerID {
				out = append(out, r.scrims[scrimID])
				break
			}
		}
	}
	sortNewestFirst(out)
	return out
}

// markRatingProcessed runs apply while holding the scrim lock and flags the
// scrim processed when apply succeeds. It reports false when already processed.
func (r *ScrimRepository) markRatingProcessed(scrimID int64, apply func() error) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.scrims[scrimID]
	if !ok {
		return false, fmt.Errorf("scrim %d not found", scrimID)
	}
	if item.RatingProcessed {
		return false, nil
	}
	if err := apply(); err != nil {
		return false, err
	}
	item.RatingProcessed = true
	r.scrims[scrimID] = item
	return true, nil
}

func containsStatus(list []scrim.Status, s scrim.Status) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

func sortNewestFirst(items []scrim.Scrim) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ID > items[j].ID
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
}
