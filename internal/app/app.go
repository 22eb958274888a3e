package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/sourcegraph/conc"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/riskibarqy/scrim-matchmaker/internal/config"
	"github.com/riskibarqy/scrim-matchmaker/internal/domain/ban"
	"github.com/riskibarqy/scrim-matchmaker/internal/domain/gamemap"
	"github.com/riskibarqy/scrim-matchmaker/internal/domain/league"
	"github.com/riskibarqy/scrim-matchmaker/internal/domain/player"
	"github.com/riskibarqy/scrim-matchmaker/internal/domain/rating"
	"github.com/riskibarqy/scrim-matchmaker/internal/domain/scrim"
	"github.com/riskibarqy/scrim-matchmaker/internal/infrastructure/identity"
	"github.com/riskibarqy/scrim-matchmaker/internal/infrastructure/notify"
	"github.com/riskibarqy/scrim-matchmaker/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/scrim-matchmaker/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/scrim-matchmaker/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/scrim-matchmaker/internal/interfaces/httpapi"
	"github.com/riskibarqy/scrim-matchmaker/internal/platform/logging"
	"github.com/riskibarqy/scrim-matchmaker/internal/platform/resilience"
	"github.com/riskibarqy/scrim-matchmaker/internal/usecase"
)

// App is the assembled matchmaking service. Close releases everything New
// opened, in dependency order.
type App struct {
	Server *http.Server
	Queue  *usecase.QueueService

	bus     *usecase.EventBus
	closers []func() error
	logger  *logging.Logger
}

type repositories struct {
	players player.Repository
	bans    ban.Repository
	maps    gamemap.Repository
	scrims  scrim.Repository
	ratings rating.Repository
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	a := &App{logger: logger.Named("app")}

	leagues, err := league.NewRegistry(cfg.Leagues)
	if err != nil {
		return nil, fmt.Errorf("build league registry: %w", err)
	}

	repos, err := a.buildRepositories(cfg)
	if err != nil {
		a.closeAll()
		return nil, err
	}

	registry, err := a.buildIdentity(cfg)
	if err != nil {
		a.closeAll()
		return nil, err
	}

	bus, err := usecase.NewEventBus(cfg.EventWorkers, logger)
	if err != nil {
		a.closeAll()
		return nil, fmt.Errorf("build event bus: %w", err)
	}
	a.bus = bus
	if err := a.subscribeSinks(ctx, cfg, bus); err != nil {
		a.closeAll()
		return nil, err
	}

	policy := ban.Policy{
		First:  cfg.DodgeBanFirst,
		Second: cfg.DodgeBanSecond,
		Third:  cfg.DodgeBanThird,
		Window: cfg.DodgeWindow,
	}

	players := usecase.NewPlayerService(repos.players, leagues, registry, logger)
	bans := usecase.NewBanService(repos.bans, policy, logger)
	maps := usecase.NewMapService(repos.maps, usecase.MapServiceConfig{
		HistoryDays: cfg.MapHistoryDays,
		MinPoolSize: cfg.MinMapPoolSize,
	}, logger)
	scrims := usecase.NewScrimService(repos.scrims, nil, bus, usecase.ScrimServiceConfig{
		CheckInTimeout: cfg.CheckInTimeout,
	}, logger)
	ratings := usecase.NewRatingService(repos.ratings, repos.scrims, leagues, logger)
	results := usecase.NewResultService(repos.ratings, scrims, maps, ratings, logger)
	players.SetProfileSources(bans, ratings, repos.scrims)

	queue := usecase.NewQueueService(
		leagues,
		players,
		bans,
		maps,
		scrims,
		usecase.NewDeadlineRegistry(clock.New()),
		bus,
		usecase.NewResultForm(cfg.ResultFormURL, usecase.DefaultResultFormFields()),
		usecase.QueueServiceConfig{
			CheckInTimeout: cfg.CheckInTimeout,
			MapsPerScrim:   cfg.MapsPerScrim,
		},
		logger,
	)
	a.Queue = queue

	handler := httpapi.NewHandler(leagues, queue, scrims, players, bans, maps, ratings, results, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.InternalToken)

	a.Server = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return a, nil
}

func (a *App) buildRepositories(cfg config.Config) (repositories, error) {
	var repos repositories

	switch cfg.StorageDriver {
	case config.StorageMemory:
		var seededPlayers []player.Player
		var seededMaps []gamemap.Map
		if cfg.SeedMemoryData {
			seededPlayers = memory.SeedPlayers()
			seededMaps = memory.SeedMaps(cfg.SeedMapPoolCount)
		}
		scrimRepo := memory.NewScrimRepository()
		repos = repositories{
			players: memory.NewPlayerRepository(seededPlayers),
			bans:    memory.NewBanRepository(),
			maps:    memory.NewMapRepository(seededMaps),
			scrims:  scrimRepo,
			ratings: memory.NewRatingRepository(scrimRepo),
		}
		a.logger.Info("using in-memory storage", "seeded", cfg.SeedMemoryData)
	default:
		db, err := openDB(cfg.DBURL, cfg.DBDisablePreparedBinary)
		if err != nil {
			return repositories{}, err
		}
		a.closers = append(a.closers, db.Close)
		repos = repositories{
			players: postgres.NewPlayerRepository(db),
			bans:    postgres.NewBanRepository(db),
			maps:    postgres.NewMapRepository(db),
			scrims:  postgres.NewScrimRepository(db),
			ratings: postgres.NewRatingRepository(db),
		}
		a.logger.Info("using postgres storage", "db_name", dbNameFromURL(cfg.DBURL))
	}

	if cfg.CacheEnabled {
		repos.players = cache.NewPlayerRepository(repos.players, cfg.CacheTTL, cfg.CacheMaxEntries)
		repos.maps = cache.NewMapRepository(repos.maps, cfg.CacheTTL)
	}
	return repos, nil
}

func (a *App) buildIdentity(cfg config.Config) (usecase.IdentityRegistry, error) {
	switch cfg.IdentityMode {
	case config.IdentityHTTP:
		return identity.NewHTTPRegistry(&http.Client{}, identity.HTTPRegistryConfig{
			BaseURL:        cfg.IdentityBaseURL,
			VerifyPath:     cfg.IdentityVerifyPath,
			AdminKey:       cfg.IdentityAdminKey,
			Timeout:        cfg.IdentityTimeout,
			CacheTTL:       cfg.IdentityCacheTTL,
			CacheMax:       cfg.CacheMaxEntries,
			CircuitBreaker: breakerConfig(cfg.IdentityCircuit),
		}, a.logger), nil
	case config.IdentitySQL:
		db, err := openDB(cfg.IdentityDBURL, false)
		if err != nil {
			return nil, fmt.Errorf("open identity db: %w", err)
		}
		a.closers = append(a.closers, db.Close)
		return identity.NewSQLRegistry(db, cfg.IdentityGameTitle, cfg.IdentityCacheTTL), nil
	default:
		return usecase.NewAllowAllIdentityRegistry(), nil
	}
}

func (a *App) subscribeSinks(ctx context.Context, cfg config.Config, bus *usecase.EventBus) error {
	if cfg.QStashEnabled {
		publisher := notify.NewQStashPublisher(notify.QStashPublisherConfig{
			BaseURL:        cfg.QStashBaseURL,
			Token:          cfg.QStashToken,
			TargetBaseURL:  cfg.QStashTargetBaseURL,
			EventPath:      cfg.QStashEventPath,
			Retries:        cfg.QStashRetries,
			ForwardToken:   cfg.InternalToken,
			Timeout:        cfg.QStashTimeout,
			CircuitBreaker: breakerConfig(cfg.QStashCircuit),
		}, a.logger)
		bus.SubscribeAll(publisher.Handle)
		a.logger.Info("qstash event sink enabled", "target", cfg.QStashTargetBaseURL)
	}

	if cfg.RedisEnabled {
		client, err := notify.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		a.closers = append(a.closers, client.Close)
		publisher := notify.NewRedisPublisher(client, notify.RedisPublisherConfig{
			ListKey: cfg.RedisListKey,
		}, a.logger)
		bus.SubscribeAll(publisher.Handle)
		a.logger.Info("redis event sink enabled", "addr", cfg.RedisAddr, "list_key", cfg.RedisListKey)
	}
	return nil
}

// Close stops pending check-in deadlines, drains in-flight event deliveries
// and then closes the storage and sink connections.
func (a *App) Close(ctx context.Context) error {
	if a == nil {
		return nil
	}
	if a.Queue != nil {
		a.Queue.Shutdown()
	}

	drained := make(chan struct{})
	go func() {
		defer close(drained)
		a.bus.Close()
	}()
	select {
	case <-drained:
	case <-ctx.Done():
		a.logger.WarnContext(ctx, "event bus drain interrupted", "error", ctx.Err())
	}

	return a.closeAll()
}

func (a *App) closeAll() error {
	errs := make([]error, len(a.closers))
	var wg conc.WaitGroup
	for i, closeFn := range a.closers {
		wg.Go(func() {
			errs[i] = closeFn()
		})
	}
	wg.Wait()
	a.closers = nil

	for _, err := range errs {
		if err != nil {
			return fmt.Errorf("close resources: %w", err)
		}
	}
	return nil
}

func openDB(dsn string, disablePreparedBinary bool) (*sqlx.DB, error) {
	dsn = normalizeDBURL(dsn, disablePreparedBinary)
	db, err := otelsqlx.Open("postgres", dsn,
		otelsql.WithDBName(dbNameFromURL(dsn)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	return db, nil
}

func breakerConfig(c config.CircuitConfig) resilience.CircuitBreakerConfig {
	return resilience.CircuitBreakerConfig{
		Enabled:          c.Enabled,
		FailureThreshold: c.FailureCount,
		OpenTimeout:      c.OpenTimeout,
		HalfOpenMaxReq:   c.HalfOpenMaxReq,
	}
}
