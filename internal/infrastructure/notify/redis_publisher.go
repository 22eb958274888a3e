package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/benbjohnson/clock"
	sonic "github.com/bytedance/sonic"
	"github.com/cenkalti/backoff/v5"
	"github.com/redis/go-redis/v9"

	"github.com/riskibarqy/scrim-matchmaker/internal/platform/logging"
	"github.com/riskibarqy/scrim-matchmaker/internal/usecase"
)

const DefaultRedisListKey = "scrim_events"

type listPusher interface {
	RPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
}

type RedisPublisherConfig struct {
	ListKey         string
	MaxAttempts     uint
	InitialInterval time.Duration
	MaxElapsed      time.Duration
	Clock           clock.Clock
}

// RedisPublisher appends every event envelope to a Redis list for workers
// that drain it with BLPOP.
type RedisPublisher struct {
	client          listPusher
	listKey         string
	maxAttempts     uint
	initialInterval time.Duration
	maxElapsed      time.Duration
	clock           clock.Clock
	logger          *logging.Logger
}

func NewRedisPublisher(client listPusher, cfg RedisPublisherConfig, logger *logging.Logger) *RedisPublisher {
	if logger == nil {
		logger = logging.Default()
	}
	key := strings.TrimSpace(cfg.ListKey)
	if key == "" {
		key = DefaultRedisListKey
	}
	attempts := cfg.MaxAttempts
	if attempts == 0 {
		attempts = 3
	}
	elapsed := cfg.MaxElapsed
	if elapsed <= 0 {
		elapsed = 5 * time.Second
	}
	interval := cfg.InitialInterval
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	clk := cfg.Clock
	if clk == nil {
		clk = clock.New()
	}

	return &RedisPublisher{
		client:          client,
		listKey:         key,
		maxAttempts:     attempts,
		initialInterval: interval,
		maxElapsed:      elapsed,
		clock:           clk,
		logger:          logger.Named("redis_events"),
	}
}

// NewRedisClient opens a client and checks connectivity.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("connect redis at %s: %w", addr, err)
	}
	return rdb, nil
}

// Handle is a usecase.EventHandler.
func (p *RedisPublisher) Handle(ctx context.Context, event usecase.Event) error {
	data, err := sonic.Marshal(NewEnvelope(event, p.clock.Now()))
	if err != nil {
		return fmt.Errorf("marshal event envelope: %w", err)
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = p.initialInterval

	_, err = backoff.Retry(ctx, func() (int64, error) {
		return p.client.RPush(ctx, p.listKey, data).Result()
	},
		backoff.WithBackOff(policy),
		backoff.WithMaxTries(p.maxAttempts),
		backoff.WithMaxElapsedTime(p.maxElapsed),
	)
	if err != nil {
		return fmt.Errorf("rpush event to redis list %q: %w", p.listKey, err)
	}

	p.logger.DebugContext(ctx, "event pushed to redis", "kind", event.Kind(), "scrim_id", event.ScrimRef(), "list", p.listKey)
	return nil
}
