package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/scrim-matchmaker/internal/domain/league"
	"github.com/riskibarqy/scrim-matchmaker/internal/domain/rating"
	"github.com/riskibarqy/scrim-matchmaker/internal/domain/scrim"
	"github.com/riskibarqy/scrim-matchmaker/internal/platform/logging"
)

const (
	defaultLeaderboardLimit = 25
	maxLeaderboardLimit     = 100
)

type ProcessMatchResult struct {
	ScrimID   int64           `json:"scrim_id"`
	Processed bool            `json:"processed"`
	Updates   []rating.Update `json:"updates"`
}

type RatingService struct {
	ratingRepo rating.Repository
	scrimRepo  scrim.Repository
	leagues    *league.Registry
	logger     *logging.Logger
	now        func() time.Time
}

func NewRatingService(
	ratingRepo rating.Repository,
	scrimRepo scrim.Repository,
	leagues *league.Registry,
	logger *logging.Logger,
) *RatingService {
	if logger == nil {
		logger = logging.Default()
	}
	return &RatingService{
		ratingRepo: ratingRepo,
		scrimRepo:  scrimRepo,
		leagues:    leagues,
		logger:     logger.Named("rating"),
		now:        time.Now,
	}
}

// ProcessMatch applies Elo updates for a completed scrim exactly once.
// A scrim that was already processed yields Processed=false and no error.
func (s *RatingService) ProcessMatch(ctx context.Context, scrimID int64) (ProcessMatchResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RatingService.ProcessMatch")
	defer span.End()

	result := ProcessMatchResult{ScrimID: scrimID}

	item, exists, err := s.scrimRepo.GetByID(ctx, scrimID)
	if err != nil {
		return result, fmt.Errorf("get scrim by id: %w", err)
	}
	if !exists {
		return result, fmt.Errorf("%w: scrim=%d", ErrNotFound, scrimID)
	}
	if item.Status != scrim.StatusCompleted {
		return result, fmt.Errorf("%w: scrim %d is %s, not completed", ErrConflict, scrimID, item.Status)
	}
	if item.RatingProcessed {
		s.logger.InfoContext(ctx, "rating already processed", "scrim_id", scrimID)
		return result, nil
	}

	stats, err := s.ratingRepo.ListMatchStats(ctx, scrimID)
	if err != nil {
		return result, fmt.Errorf("list match stats: %w", err)
	}
	if len(stats) == 0 {
		return result, fmt.Errorf("%w: scrim %d has no match stats", ErrConflict, scrimID)
	}

	playerIDs := make([]int64, 0, len(stats))
	for _, st := range stats {
		playerIDs = append(playerIDs, st.PlayerID)
	}
	stored, err := s.ratingRepo.ListRatings(ctx, item.League, playerIDs)
	if err != nil {
		return result, fmt.Errorf("list ratings: %w", err)
	}
	current := make(map[int64]int, len(stored))
	for _, r := range stored {
		current[r.PlayerID] = r.Rating
	}

	updates, err := rating.ComputeUpdates(stats, current, item.WinnerTeam)
	if err != nil {
		return result, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	applied, err := s.ratingRepo.ApplyMatch(ctx, scrimID, item.League, updates, s.now())
	if err != nil {
		return result, fmt.Errorf("apply rating updates: %w", err)
	}
	if !applied {
		s.logger.InfoContext(ctx, "rating already processed", "scrim_id", scrimID)
		return result, nil
	}

	result.Processed = true
	result.Updates = updates
	s.logger.InfoContext(ctx, "ratings updated", "scrim_id", scrimID, "league", item.League, "player_count", len(updates))
	return result, nil
}

// Rating returns the player's league rating, DefaultRating when never rated.
func (s *RatingService) Rating(ctx context.Context, playerID int64, leagueName string) (rating.Rating, error) {
	item, exists, err := s.ratingRepo.Get(ctx, playerID, leagueName)
	if err != nil {
		return rating.Rating{}, fmt.Errorf("get rating: %w", err)
	}
	if !exists {
		return rating.Rating{PlayerID: playerID, League: leagueName, Rating: rating.DefaultRating}, nil
	}
	return item, nil
}

func (s *RatingService) Leaderboard(ctx context.Context, leagueName string, limit int) ([]rating.Rating, error) {
	canonical, err := s.leagues.Normalize(leagueName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if limit <= 0 {
		limit = defaultLeaderboardLimit
	}
	limit = min(limit, maxLeaderboardLimit)

	items, err := s.ratingRepo.Leaderboard(ctx, canonical, limit)
	if err != nil {
		return nil, fmt.Errorf("list leaderboard: %w", err)
	}
	return items, nil
}
