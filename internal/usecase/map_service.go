package usecase

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/riskibarqy/scrim-matchmaker/internal/domain/gamemap"
	"github.com/riskibarqy/scrim-matchmaker/internal/platform/logging"
)

type MapServiceConfig struct {
	HistoryDays int
	MinPoolSize int
}

type MapService struct {
	mapRepo gamemap.Repository
	cfg     MapServiceConfig
	logger  *logging.Logger
	shuffle func(n int, swap func(i, j int))
	now     func() time.Time
}

func NewMapService(mapRepo gamemap.Repository, cfg MapServiceConfig, logger *logging.Logger) *MapService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HistoryDays <= 0 {
		cfg.HistoryDays = 14
	}
	if cfg.MinPoolSize <= 0 {
		cfg.MinPoolSize = 10
	}

	return &MapService{
		mapRepo: mapRepo,
		cfg:     cfg,
		logger:  logger.Named("maps"),
		shuffle: rand.Shuffle,
		now:     time.Now,
	}
}

func (s *MapService) ListActive(ctx context.Context) ([]gamemap.Map, error) {
	maps, err := s.mapRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active maps: %w", err)
	}
	return maps, nil
}

// PlayCounts returns every active map with how often playerIDs played it in
// the last windowDays, least played first. windowDays <= 0 uses the configured window.
func (s *MapService) PlayCounts(ctx context.Context, playerIDs []int64, windowDays int) ([]gamemap.PlayCount, error) {
	if len(playerIDs) == 0 {
		s.logger.WarnContext(ctx, "no players provided for map play counts")
		return nil, nil
	}
	if windowDays <= 0 {
		windowDays = s.cfg.HistoryDays
	}

	since := s.now().AddDate(0, 0, -windowDays)
	counts, err := s.mapRepo.PlayCounts(ctx, playerIDs, since)
	if err != nil {
		return nil, fmt.Errorf("get map play counts: %w", err)
	}
	gamemap.SortByPlayCount(counts)
	return counts, nil
}

// Select picks count maps at random from the least-played pool of the group.
func (s *MapService) Select(ctx context.Context, playerIDs []int64, count int) ([]gamemap.Map, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MapService.Select")
	defer span.End()

	if count <= 0 {
		return nil, fmt.Errorf("%w: map count must be positive", ErrInvalidInput)
	}

	counts, err := s.PlayCounts(ctx, playerIDs, s.cfg.HistoryDays)
	if err != nil {
		return nil, err
	}
	if len(counts) == 0 {
		return nil, gamemap.ErrNoActiveMaps
	}

	if len(counts) < count {
		s.logger.WarnContext(ctx, "not enough maps available, returning all maps",
			"available", len(counts),
			"requested", count,
		)
		return mapsOf(counts), nil
	}

	poolSize := gamemap.PoolSize(len(counts), s.cfg.MinPoolSize)
	if poolSize > len(counts) {
		poolSize = len(counts)
	}
	pool := append([]gamemap.PlayCount(nil), counts[:poolSize]...)
	s.shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })

	selected := mapsOf(pool[:count])
	s.logger.DebugContext(ctx, "maps selected for scrim",
		"player_ids", playerIDs,
		"total_maps", len(counts),
		"pool_size", poolSize,
		"map_ids", mapIDsOf(selected),
	)
	return selected, nil
}

func (s *MapService) RecordPlay(ctx context.Context, playerID, mapID int64) error {
	return s.RecordPlays(ctx, []int64{playerID}, []int64{mapID})
}

// RecordPlays stores one history row per player and map in a single transaction.
func (s *MapService) RecordPlays(ctx context.Context, playerIDs, mapIDs []int64) error {
	if len(playerIDs) == 0 || len(mapIDs) == 0 {
		return nil
	}

	at := s.now()
	plays := make([]gamemap.Play, 0, len(playerIDs)*len(mapIDs))
	for _, playerID := range playerIDs {
		for _, mapID := range mapIDs {
			plays = append(plays, gamemap.Play{PlayerID: playerID, MapID: mapID, PlayedAt: at})
		}
	}

	if err := s.mapRepo.RecordPlays(ctx, plays); err != nil {
		return fmt.Errorf("record map plays: %w", err)
	}
	s.logger.InfoContext(ctx, "map plays recorded", "player_count", len(playerIDs), "map_count", len(mapIDs))
	return nil
}

// ByIDs returns maps in the order of ids, skipping unknown ids.
func (s *MapService) ByIDs(ctx context.Context, ids []int64) ([]gamemap.Map, error) {
	items, err := s.mapRepo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list maps by ids: %w", err)
	}
	byID := make(map[int64]gamemap.Map, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}
	out := make([]gamemap.Map, 0, len(ids))
	for _, id := range ids {
		if item, ok := byID[id]; ok {
			out = append(out, item)
		}
	}
	return out, nil
}

type AddMapInput struct {
	Name   string
	UID    string
	Author string
}

func (s *MapService) AddMap(ctx context.Context, input AddMapInput) (gamemap.Map, error) {
	item := gamemap.Map{
		Name:     strings.TrimSpace(input.Name),
		UID:      strings.TrimSpace(input.UID),
		Author:   strings.TrimSpace(input.Author),
		IsActive: true,
	}
	if err := item.Validate(); err != nil {
		return gamemap.Map{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	created, err := s.mapRepo.Create(ctx, item)
	if err != nil {
		return gamemap.Map{}, fmt.Errorf("create map: %w", err)
	}
	s.logger.InfoContext(ctx, "map added", "map_id", created.ID, "name", created.Name)
	return created, nil
}

func (s *MapService) SetActive(ctx context.Context, mapID int64, active bool) error {
	updated, err := s.mapRepo.SetActive(ctx, mapID, active)
	if err != nil {
		return fmt.Errorf("set map active: %w", err)
	}
	if !updated {
		return fmt.Errorf("%w: map=%d", ErrNotFound, mapID)
	}
	return nil
}

func mapsOf(counts []gamemap.PlayCount) []gamemap.Map {
	out := make([]gamemap.Map, 0, len(counts))
	for _, c := range counts {
		out = append(out, c.Map)
	}
	return out
}

func mapIDsOf(maps []gamemap.Map) []int64 {
	out := make([]int64, 0, len(maps))
	for _, m := range maps {
		out = append(out, m.ID)
	}
	return out
}
