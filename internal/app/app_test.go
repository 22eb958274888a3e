package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/riskibarqy/scrim-matchmaker/internal/config"
	"github.com/riskibarqy/scrim-matchmaker/internal/domain/league"
	"github.com/riskibarqy/scrim-matchmaker/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/scrim-matchmaker/internal/platform/logging"
)

func memoryConfig() config.Config {
	return config.Config{
		ServiceName:      "scrim-matchmaker-api",
		HTTPAddr:         ":0",
		ReadTimeout:      time.Second,
		WriteTimeout:     time.Second,
		StorageDriver:    config.StorageMemory,
		CacheEnabled:     true,
		CacheTTL:         time.Minute,
		CacheMaxEntries:  64,
		Leagues:          league.DefaultNames(),
		CheckInTimeout:   time.Minute,
		MapsPerScrim:     3,
		MapHistoryDays:   7,
		MinMapPoolSize:   3,
		DodgeBanFirst:    5 * time.Minute,
		DodgeBanSecond:   15 * time.Minute,
		DodgeBanThird:    time.Hour,
		DodgeWindow:      24 * time.Hour,
		EventWorkers:     2,
		SeedMemoryData:   true,
		SeedMapPoolCount: 6,
		InternalToken:    "token",
	}
}

func TestNew_MemoryStorageServesRoutes(t *testing.T) {
	a, err := New(context.Background(), memoryConfig(), logging.NewNop())
	if err != nil {
		t.Fatalf("build app: %v", err)
	}
	defer func() {
		if err := a.Close(context.Background()); err != nil {
			t.Fatalf("close app: %v", err)
		}
	}()

	if a.Server.Addr != ":0" || a.Server.ReadTimeout != time.Second {
		t.Fatalf("unexpected server settings: addr=%s read=%s", a.Server.Addr, a.Server.ReadTimeout)
	}

	rec := httptest.NewRecorder()
	a.Server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("healthz status: %d", rec.Code)
	}

	seeded := memory.SeedPlayers()[0].DiscordID
	rec = httptest.NewRecorder()
	a.Server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/players/"+seeded+"/profile", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("profile status: %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestNew_RejectsEmptyLeagueList(t *testing.T) {
	cfg := memoryConfig()
	cfg.Leagues = nil

	if _, err := New(context.Background(), cfg, logging.NewNop()); err == nil {
		t.Fatalf("expected error for empty league list")
	}
}

func TestClose_NilApp(t *testing.T) {
	var a *App
	if err := a.Close(context.Background()); err != nil {
		t.Fatalf("close nil app: %v", err)
	}
}
