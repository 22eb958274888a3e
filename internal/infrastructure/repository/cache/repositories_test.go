package cache

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/scrim-matchmaker/internal/domain/gamemap"
	"github.com/riskibarqy/scrim-matchmaker/internal/domain/player"
	"github.com/riskibarqy/scrim-matchmaker/internal/infrastructure/repository/memory"
)

type countingPlayers struct {
	player.Repository
	discordLookups atomic.Int32
}

func (c *countingPlayers) GetByDiscordID(ctx context.Context, discordID string) (player.Player, bool, error) {
	c.discordLookups.Add(1)
	return c.Repository.GetByDiscordID(ctx, discordID)
}

type countingMaps struct {
	gamemap.Repository
	activeLoads atomic.Int32
}

func (c *countingMaps) ListActive(ctx context.Context) ([]gamemap.Map, error) {
	c.activeLoads.Add(1)
	return c.Repository.ListActive(ctx)
}

func TestPlayerRepository_CachesLookupsUntilWrite(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	next := &countingPlayers{Repository: memory.NewPlayerRepository(memory.SeedPlayers())}
	repo := NewPlayerRepository(next, time.Minute, 100)

	for i := 0; i < 3; i++ {
		p, ok, err := repo.GetByDiscordID(ctx, "academy-1")
		if err != nil || !ok {
			t.Fatalf("lookup failed: ok=%v err=%v", ok, err)
		}
		if p.League != "Academy" {
			t.Fatalf("unexpected league: %s", p.League)
		}
	}
	if got := next.discordLookups.Load(); got != 1 {
		t.Fatalf("unexpected backend lookups: got=%d want=1", got)
	}

	if _, err := repo.UpdateLeague(ctx, 1, "Master"); err != nil {
		t.Fatalf("update league: %v", err)
	}
	p, _, err := repo.GetByDiscordID(ctx, "academy-1")
	if err != nil {
		t.Fatalf("lookup after update: %v", err)
	}
	if p.League != "Master" {
		t.Fatalf("stale cached league: got=%s want=Master", p.League)
	}
	if got := next.discordLookups.Load(); got != 2 {
		t.Fatalf("unexpected backend lookups: got=%d want=2", got)
	}
}

func TestPlayerRepository_CachesMisses(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	next := &countingPlayers{Repository: memory.NewPlayerRepository(nil)}
	repo := NewPlayerRepository(next, time.Minute, 100)

	for i := 0; i < 2; i++ {
		if _, ok, err := repo.GetByDiscordID(ctx, "ghost"); err != nil || ok {
			t.Fatalf("expected miss: ok=%v err=%v", ok, err)
		}
	}
	if got := next.discordLookups.Load(); got != 1 {
		t.Fatalf("unexpected backend lookups: got=%d want=1", got)
	}
}

func TestMapRepository_InvalidatesOnSetActive(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	next := &countingMaps{Repository: memory.NewMapRepository(memory.SeedMaps(3))}
	repo := NewMapRepository(next, time.Minute)

	maps, err := repo.ListActive(ctx)
	if err != nil || len(maps) != 3 {
		t.Fatalf("unexpected active maps: %d err=%v", len(maps), err)
	}
	maps[0].Name = "mutated"

	again, _ := repo.ListActive(ctx)
	if again[0].Name == "mutated" {
		t.Fatalf("cached slice must not alias caller copies")
	}
	if got := next.activeLoads.Load(); got != 1 {
		t.Fatalf("unexpected loads: got=%d want=1", got)
	}

	if _, err := repo.SetActive(ctx, 2, false); err != nil {
		t.Fatalf("set active: %v", err)
	}
	maps, _ = repo.ListActive(ctx)
	if len(maps) != 2 {
		t.Fatalf("unexpected active maps after deactivation: %d", len(maps))
	}
	if got := next.activeLoads.Load(); got != 2 {
		t.Fatalf("unexpected loads: got=%d want=2", got)
	}
}
