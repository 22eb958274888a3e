package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/scrim-matchmaker/internal/domain/ban"
)

type BanRepository struct {
	mu     sync.RWMutex
	nextID int64
	items  []ban.Ban
}

func NewBanRepository() *BanRepository {
	return &BanRepository{}
}

func (r *BanRepository) Create(_ context.Context, b ban.Ban) (ban.Ban, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	b.ID = r.nextID
	if b.CreatedAt.IsZero() {
		b.CreatedAt = b.Start
	}
	r.items = append(r.items, b)
	return b, nil
}

func (r *BanRepository) GetActive(_ context.Context, playerID int64, now time.Time) (ban.Ban, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var (
		found ban.Ban
		ok    bool
	)
	for _, b := range r.items {
		if b.PlayerID != playerID || !b.ActiveAt(now) {
			continue
		}
		if !ok || b.End.After(found.End) {
			found, ok = b, true
		}
	}
	return found, ok, nil
}

func (r *BanRepository) CountDodgesSince(_ context.Context, playerID int64, since time.Time) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, b := range r.items {
		if b.PlayerID == playerID && !b.IsManual && b.Start.After(since) {
			count++
		}
	}
	return count, nil
}

func (r *BanRepository) EndActive(_ context.Context, playerID int64, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var ended int64
	for i := range r.items {
		if r.items[i].PlayerID == playerID && r.items[i].ActiveAt(now) {
			r.items[i].End = now
			ended++
		}
	}
	return ended, nil
}

func (r *BanRepository) ListByPlayer(_ context.Context, playerID int64, limit int) ([]ban.Ban, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]ban.Ban, 0)
	for _, b := range r.items {
		if b.PlayerID == playerID {
			out = append(out, b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Start.Equal(out[j].Start) {
			return out[i].ID > out[j].ID
		}
		return out[i].Start.After(out[j].Start)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
