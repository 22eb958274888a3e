package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/scrim-matchmaker/internal/domain/rating"
)

type ratingKey struct {
	playerID int64
	league   string
}

type statKey struct {
	scrimID  int64
	playerID int64
}

type RatingRepository struct {
	mu      sync.RWMutex
	scrims  *ScrimRepository
	ratings map[ratingKey]rating.Rating
	stats   map[statKey]rating.PlayerStat
}

// NewRatingRepository shares scrims so ApplyMatch can flag processed scrims.
func NewRatingRepository(scrims *ScrimRepository) *RatingRepository {
	return &RatingRepository{
		scrims:  scrims,
		ratings: make(map[ratingKey]rating.Rating),
		stats:   make(map[statKey]rating.PlayerStat),
	}
}

func (r *RatingRepository) ListMatchStats(_ context.Context, scrimID int64) ([]rating.PlayerStat, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]rating.PlayerStat, 0, 4)
	for key, st := range r.stats {
		if key.scrimID == scrimID {
			out = append(out, st)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PlayerID < out[j].PlayerID })
	return out, nil
}

func (r *RatingRepository) RecordMatchStats(_ context.Context, stats []rating.PlayerStat) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, st := range stats {
		r.stats[statKey{scrimID: st.ScrimID, playerID: st.PlayerID}] = st
	}
	return nil
}

func (r *RatingRepository) ListRatings(_ context.Context, league string, playerIDs []int64) ([]rating.Rating, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]rating.Rating, 0, len(playerIDs))
	for _, id := range playerIDs {
		if item, ok := r.ratings[ratingKey{playerID: id, league: league}]; ok {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *RatingRepository) Get(_ context.Context, playerID int64, league string) (rating.Rating, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.ratings[ratingKey{playerID: playerID, league: league}]
	return item, ok, nil
}

// Put seeds or overwrites a rating row.
func (r *RatingRepository) Put(item rating.Rating) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ratings[ratingKey{playerID: item.PlayerID, league: item.League}] = item
}

func (r *RatingRepository) Leaderboard(_ context.Context, league string, limit int) ([]rating.Rating, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]rating.Rating, 0)
	for key, item := range r.ratings {
		if key.league == league {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Rating != out[j].Rating {
			return out[i].Rating > out[j].Rating
		}
		return out[i].PlayerID < out[j].PlayerID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *RatingRepository) ApplyMatch(_ context.Context, scrimID int64, league string, updates []rating.Update, at time.Time) (bool, error) {
	if r.scrims == nil {
		return false, fmt.Errorf("rating repository has no scrim store")
	}

	return r.scrims.markRatingProcessed(scrimID, func() error {
		r.mu.Lock()
		defer r.mu.Unlock()

		for _, u := range updates {
			key := ratingKey{playerID: u.PlayerID, league: league}
			item, ok := r.ratings[key]
			if !ok {
				item = rating.Rating{PlayerID: u.PlayerID, League: league}
			}
			item.Rating = u.NewRating
			if u.IsWin() {
				item.Wins++
			}
			if u.IsLoss() {
				item.Losses++
			}
			item.UpdatedAt = at
			r.ratings[key] = item
		}
		return nil
	})
}
