package usecase

import (
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/riskibarqy/scrim-matchmaker/internal/domain/gamemap"
	"github.com/riskibarqy/scrim-matchmaker/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/scrim-matchmaker/internal/platform/logging"
)

func newTestMapService(repo *memory.MapRepository, minPool int) *MapService {
	svc := NewMapService(repo, MapServiceConfig{HistoryDays: 14, MinPoolSize: minPool}, logging.NewNop())
	svc.shuffle = func(int, func(i, j int)) {}
	return svc
}

func TestMapService_Select_PrefersLeastPlayedPool(t *testing.T) {
	repo := memory.NewMapRepository(memory.SeedMaps(12))
	svc := newTestMapService(repo, 3)
	ctx := t.Context()

	// Maps 01..09 were played recently by the group, 10..12 never.
	for id := int64(1); id <= 9; id++ {
		if err := svc.RecordPlay(ctx, 1, id); err != nil {
			t.Fatalf("record play: %v", err)
		}
	}

	selected, err := svc.Select(ctx, []int64{1, 2, 3, 4}, 3)
	if err != nil {
		t.Fatalf("select maps: %v", err)
	}
	got := mapIDsOf(selected)
	if !equalIDs(got, []int64{10, 11, 12}) {
		t.Fatalf("unexpected maps: got=%v want=[10 11 12]", got)
	}
}

func TestMapService_Select_HeavilyPlayedMapsNeverPicked(t *testing.T) {
	repo := memory.NewMapRepository(memory.SeedMaps(20))
	svc := newTestMapService(repo, 10)
	svc.shuffle = rand.Shuffle
	ctx := t.Context()

	played := []int64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	for i := 0; i < 100; i++ {
		if err := svc.RecordPlays(ctx, []int64{1}, played); err != nil {
			t.Fatalf("record plays: %v", err)
		}
	}

	counts, err := svc.PlayCounts(ctx, []int64{1, 2, 3, 4}, 0)
	if err != nil {
		t.Fatalf("play counts: %v", err)
	}
	for _, c := range counts {
		want := 0
		if c.Map.ID <= 10 {
			want = 100
		}
		if c.Count != want {
			t.Fatalf("unexpected count for map %d: got=%d want=%d", c.Map.ID, c.Count, want)
		}
	}

	for round := 0; round < 50; round++ {
		selected, err := svc.Select(ctx, []int64{1, 2, 3, 4}, 3)
		if err != nil {
			t.Fatalf("select maps: %v", err)
		}
		if len(selected) != 3 {
			t.Fatalf("unexpected map count: got=%d want=3", len(selected))
		}
		for _, m := range selected {
			if m.ID <= 10 {
				t.Fatalf("round %d picked played map %d: %v", round, m.ID, mapIDsOf(selected))
			}
		}
	}
}

func TestMapService_Select_ShufflesInsidePoolOnly(t *testing.T) {
	repo := memory.NewMapRepository(memory.SeedMaps(20))
	svc := newTestMapService(repo, 5)
	ctx := t.Context()

	var poolLen int
	svc.shuffle = func(n int, swap func(i, j int)) {
		poolLen = n
		for i := 0; i < n/2; i++ {
			swap(i, n-1-i)
		}
	}

	selected, err := svc.Select(ctx, []int64{1}, 3)
	if err != nil {
		t.Fatalf("select maps: %v", err)
	}
	if poolLen != 5 {
		t.Fatalf("unexpected pool size: got=%d want=5", poolLen)
	}
	if got := mapIDsOf(selected); !equalIDs(got, []int64{5, 4, 3}) {
		t.Fatalf("unexpected maps: got=%v want=[5 4 3]", got)
	}
}

func TestMapService_Select_FewerMapsThanRequested(t *testing.T) {
	repo := memory.NewMapRepository(memory.SeedMaps(2))
	svc := newTestMapService(repo, 10)

	selected, err := svc.Select(t.Context(), []int64{1, 2}, 3)
	if err != nil {
		t.Fatalf("select maps: %v", err)
	}
	if len(selected) != 2 {
		t.Fatalf("unexpected map count: got=%d want=2", len(selected))
	}
}

func TestMapService_Select_NoActiveMaps(t *testing.T) {
	svc := newTestMapService(memory.NewMapRepository(nil), 10)

	if _, err := svc.Select(t.Context(), []int64{1}, 3); !errors.Is(err, gamemap.ErrNoActiveMaps) {
		t.Fatalf("expected ErrNoActiveMaps, got %v", err)
	}
	if _, err := svc.Select(t.Context(), []int64{1}, 0); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestMapService_PlayCounts_IgnoresOldPlays(t *testing.T) {
	repo := memory.NewMapRepository(memory.SeedMaps(3))
	svc := newTestMapService(repo, 10)
	ctx := t.Context()

	now := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now.AddDate(0, 0, -20) }
	if err := svc.RecordPlays(ctx, []int64{1}, []int64{1}); err != nil {
		t.Fatalf("record old play: %v", err)
	}
	svc.now = func() time.Time { return now }
	if err := svc.RecordPlays(ctx, []int64{1, 2}, []int64{2}); err != nil {
		t.Fatalf("record plays: %v", err)
	}

	counts, err := svc.PlayCounts(ctx, []int64{1, 2}, 0)
	if err != nil {
		t.Fatalf("play counts: %v", err)
	}
	byID := make(map[int64]int, len(counts))
	for _, c := range counts {
		byID[c.Map.ID] = c.Count
	}
	if byID[1] != 0 || byID[2] != 2 || byID[3] != 0 {
		t.Fatalf("unexpected counts: %+v", byID)
	}
	if counts[len(counts)-1].Map.ID != 2 {
		t.Fatalf("most played map must sort last: %+v", counts)
	}
	if len(repo.Plays()) != 3 {
		t.Fatalf("unexpected history rows: %d", len(repo.Plays()))
	}
}

func TestMapService_AddMapAndDeactivate(t *testing.T) {
	repo := memory.NewMapRepository(memory.SeedMaps(1))
	svc := newTestMapService(repo, 10)
	ctx := t.Context()

	created, err := svc.AddMap(ctx, AddMapInput{Name: "Ice Loop", UID: "ice-loop", Author: "snow"})
	if err != nil {
		t.Fatalf("add map: %v", err)
	}
	if !created.IsActive {
		t.Fatalf("new map must be active")
	}
	if _, err := svc.AddMap(ctx, AddMapInput{Name: " "}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	if err := svc.SetActive(ctx, created.ID, false); err != nil {
		t.Fatalf("deactivate map: %v", err)
	}
	active, err := svc.ListActive(ctx)
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(active) != 1 || active[0].ID != 1 {
		t.Fatalf("unexpected active maps: %+v", active)
	}
	if err := svc.SetActive(ctx, 404, true); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
