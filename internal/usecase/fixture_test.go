package usecase

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/riskibarqy/scrim-matchmaker/internal/domain/ban"
	"github.com/riskibarqy/scrim-matchmaker/internal/domain/gamemap"
	"github.com/riskibarqy/scrim-matchmaker/internal/domain/league"
	"github.com/riskibarqy/scrim-matchmaker/internal/domain/player"
	"github.com/riskibarqy/scrim-matchmaker/internal/domain/scrim"
	"github.com/riskibarqy/scrim-matchmaker/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/scrim-matchmaker/internal/platform/logging"
)

type eventRecorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *eventRecorder) handle(_ context.Context, event Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *eventRecorder) ofKind(kind EventKind) []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, 0)
	for _, e := range r.events {
		if e.Kind() == kind {
			out = append(out, e)
		}
	}
	return out
}

type queueFixture struct {
	clock      *clock.Mock
	leagues    *league.Registry
	playerRepo *memory.PlayerRepository
	banRepo    *memory.BanRepository
	mapRepo    *memory.MapRepository
	scrimRepo  *memory.ScrimRepository
	ratingRepo *memory.RatingRepository
	deadlines  *DeadlineRegistry
	events     *eventRecorder

	players *PlayerService
	bans    *BanService
	maps    *MapService
	scrims  *ScrimService
	ratings *RatingService
	results *ResultService
	queue   *QueueService
}

type fixtureOption func(*fixtureConfig)

type fixtureConfig struct {
	players  []player.Player
	seedMaps []gamemap.Map
	identity IdentityRegistry
	scrims   func(scrim.Repository) scrim.Repository
	maps     func(gamemap.Repository) gamemap.Repository
}

func withMaps(maps []gamemap.Map) fixtureOption {
	return func(c *fixtureConfig) { c.seedMaps = maps }
}

func withIdentity(identity IdentityRegistry) fixtureOption {
	return func(c *fixtureConfig) { c.identity = identity }
}

// wrapScrimRepo decorates the repository seen by the scrim service only.
func wrapScrimRepo(wrap func(scrim.Repository) scrim.Repository) fixtureOption {
	return func(c *fixtureConfig) { c.scrims = wrap }
}

// wrapMapRepo decorates the repository seen by the map service only.
func wrapMapRepo(wrap func(gamemap.Repository) gamemap.Repository) fixtureOption {
	return func(c *fixtureConfig) { c.maps = wrap }
}

// extraAcademyPlayers adds academy-5.. academy-(4+n) with ids starting at 13.
func extraAcademyPlayers(n int) fixtureOption {
	return func(c *fixtureConfig) {
		for i := 0; i < n; i++ {
			c.players = append(c.players, player.Player{
				ID:        int64(13 + i),
				DiscordID: fmt.Sprintf("academy-%d", 5+i),
				Username:  fmt.Sprintf("Academy Player %d", 5+i),
				League:    league.Academy,
			})
		}
	}
}

func newQueueFixture(t *testing.T, opts ...fixtureOption) *queueFixture {
	t.Helper()

	cfg := fixtureConfig{
		players:  memory.SeedPlayers(),
		seedMaps: memory.SeedMaps(12),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	leagues, err := league.NewRegistry(league.DefaultNames())
	if err != nil {
		t.Fatalf("new league registry: %v", err)
	}

	logger := logging.NewNop()
	f := &queueFixture{
		clock:      clock.NewMock(),
		leagues:    leagues,
		playerRepo: memory.NewPlayerRepository(cfg.players),
		banRepo:    memory.NewBanRepository(),
		mapRepo:    memory.NewMapRepository(cfg.seedMaps),
		scrimRepo:  memory.NewScrimRepository(),
		events:     &eventRecorder{},
	}
	f.ratingRepo = memory.NewRatingRepository(f.scrimRepo)
	f.deadlines = NewDeadlineRegistry(f.clock)

	bus, err := NewEventBus(0, logger)
	if err != nil {
		t.Fatalf("new event bus: %v", err)
	}
	bus.SubscribeAll(f.events.handle)

	f.players = NewPlayerService(f.playerRepo, leagues, cfg.identity, logger)
	f.bans = NewBanService(f.banRepo, ban.DefaultPolicy(), logger)
	var mapRepo gamemap.Repository = f.mapRepo
	if cfg.maps != nil {
		mapRepo = cfg.maps(mapRepo)
	}
	var scrimRepo scrim.Repository = f.scrimRepo
	if cfg.scrims != nil {
		scrimRepo = cfg.scrims(scrimRepo)
	}

	f.maps = NewMapService(mapRepo, MapServiceConfig{HistoryDays: 14, MinPoolSize: 10}, logger)
	f.maps.shuffle = func(int, func(i, j int)) {}
	f.scrims = NewScrimService(scrimRepo, nil, bus, ScrimServiceConfig{CheckInTimeout: 5 * time.Minute}, logger)
	f.ratings = NewRatingService(f.ratingRepo, f.scrimRepo, leagues, logger)
	f.results = NewResultService(f.ratingRepo, f.scrims, f.maps, f.ratings, logger)
	f.players.SetProfileSources(f.bans, f.ratings, f.scrimRepo)
	f.queue = NewQueueService(
		leagues,
		f.players,
		f.bans,
		f.maps,
		f.scrims,
		f.deadlines,
		bus,
		NewResultForm("https://forms.example.com/result", DefaultResultFormFields()),
		QueueServiceConfig{CheckInTimeout: 5 * time.Minute, MapsPerScrim: 3},
		logger,
	)
	t.Cleanup(f.queue.Shutdown)
	return f
}

func (f *queueFixture) joinAll(t *testing.T, discordIDs ...string) []JoinResult {
	t.Helper()
	out := make([]JoinResult, 0, len(discordIDs))
	for _, id := range discordIDs {
		res := f.queue.Join(t.Context(), id)
		if !res.Accepted {
			t.Fatalf("join %s rejected: %s (%s)", id, res.Reason, res.Message)
		}
		out = append(out, res)
	}
	return out
}

func (f *queueFixture) queuedIDs(t *testing.T, leagueName string) []int64 {
	t.Helper()
	entries, err := f.queue.ListLeague(leagueName)
	if err != nil {
		t.Fatalf("list league queue: %v", err)
	}
	return entryPlayerIDs(entries)
}

func (f *queueFixture) onlyPopped(t *testing.T) QueuePoppedEvent {
	t.Helper()
	popped := f.events.ofKind(EventQueuePopped)
	if len(popped) != 1 {
		t.Fatalf("unexpected popped event count: got=%d want=1", len(popped))
	}
	return popped[0].(QueuePoppedEvent)
}

type staticIdentity map[string]bool

func (s staticIdentity) IsValidIdentity(_ context.Context, discordID string) (bool, error) {
	return s[discordID], nil
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
