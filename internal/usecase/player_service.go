package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/scrim-matchmaker/internal/domain/league"
	"github.com/riskibarqy/scrim-matchmaker/internal/domain/player"
	"github.com/riskibarqy/scrim-matchmaker/internal/domain/rating"
	"github.com/riskibarqy/scrim-matchmaker/internal/domain/scrim"
	"github.com/riskibarqy/scrim-matchmaker/internal/platform/logging"
)

const profileRecentScrimLimit = 5

// IdentityRegistry answers whether a Discord account belongs to a valid competitor.
type IdentityRegistry interface {
	IsValidIdentity(ctx context.Context, discordID string) (bool, error)
}

type allowAllIdentity struct{}

func (allowAllIdentity) IsValidIdentity(context.Context, string) (bool, error) {
	return true, nil
}

// NewAllowAllIdentityRegistry accepts every account.
func NewAllowAllIdentityRegistry() IdentityRegistry {
	return allowAllIdentity{}
}

type RegisterPlayerInput struct {
	DiscordID string
	Username  string
	League    string
}

type PlayerProfile struct {
	Player              player.Player `json:"player"`
	Banned              bool          `json:"banned"`
	BanSecondsRemaining int64         `json:"ban_seconds_remaining"`
	RecentDodges        int           `json:"recent_dodges"`
	Rating              rating.Rating `json:"rating"`
	RecentScrims        []scrim.Scrim `json:"recent_scrims"`
	CompletedScrims     int           `json:"completed_scrims"`
}

type PlayerService struct {
	playerRepo player.Repository
	leagues    *league.Registry
	identity   IdentityRegistry
	logger     *logging.Logger

	bans    *BanService
	ratings *RatingService
	scrims  scrim.Repository
}

func NewPlayerService(
	playerRepo player.Repository,
	leagues *league.Registry,
	identity IdentityRegistry,
	logger *logging.Logger,
) *PlayerService {
	if identity == nil {
		identity = NewAllowAllIdentityRegistry()
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &PlayerService{
		playerRepo: playerRepo,
		leagues:    leagues,
		identity:   identity,
		logger:     logger.Named("player"),
	}
}

// SetProfileSources wires the collaborators Profile reads from.
func (s *PlayerService) SetProfileSources(bans *BanService, ratings *RatingService, scrims scrim.Repository) {
	s.bans = bans
	s.ratings = ratings
	s.scrims = scrims
}

func (s *PlayerService) GetByDiscordID(ctx context.Context, discordID string) (player.Player, bool, error) {
	discordID = strings.TrimSpace(discordID)
	if discordID == "" {
		return player.Player{}, false, fmt.Errorf("%w: discord id is required", ErrInvalidInput)
	}

	item, exists, err := s.playerRepo.GetByDiscordID(ctx, discordID)
	if err != nil {
		return player.Player{}, false, fmt.Errorf("get player by discord id: %w", err)
	}
	return item, exists, nil
}

func (s *PlayerService) GetByID(ctx context.Context, id int64) (player.Player, bool, error) {
	item, exists, err := s.playerRepo.GetByID(ctx, id)
	if err != nil {
		return player.Player{}, false, fmt.Errorf("get player by id: %w", err)
	}
	return item, exists, nil
}

// GetByIDs returns players in the order of ids; unknown ids are skipped.
func (s *PlayerService) GetByIDs(ctx context.Context, ids []int64) ([]player.Player, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	items, err := s.playerRepo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list players by ids: %w", err)
	}

	byID := make(map[int64]player.Player, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}
	out := make([]player.Player, 0, len(ids))
	for _, id := range ids {
		if item, ok := byID[id]; ok {
			out = append(out, item)
		}
	}
	return out, nil
}

func (s *PlayerService) ListByLeague(ctx context.Context, leagueName string) ([]player.Player, error) {
	canonical, err := s.leagues.Normalize(leagueName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	items, err := s.playerRepo.ListByLeague(ctx, canonical)
	if err != nil {
		return nil, fmt.Errorf("list players by league: %w", err)
	}
	return items, nil
}

func (s *PlayerService) ValidateIdentity(ctx context.Context, discordID string) (bool, error) {
	valid, err := s.identity.IsValidIdentity(ctx, strings.TrimSpace(discordID))
	if err != nil {
		return false, fmt.Errorf("validate identity: %w", err)
	}
	return valid, nil
}

func (s *PlayerService) Register(ctx context.Context, input RegisterPlayerInput) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.Register")
	defer span.End()

	canonical, err := s.leagues.Normalize(input.League)
	if err != nil {
		return player.Player{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	item := player.Player{
		DiscordID: strings.TrimSpace(input.DiscordID),
		Username:  strings.TrimSpace(input.Username),
		League:    canonical,
	}
	if err := item.Validate(); err != nil {
		return player.Player{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	_, exists, err := s.playerRepo.GetByDiscordID(ctx, item.DiscordID)
	if err != nil {
		return player.Player{}, fmt.Errorf("get player by discord id: %w", err)
	}
	if exists {
		return player.Player{}, fmt.Errorf("%w: player already registered: %s", ErrConflict, item.DiscordID)
	}

	created, err := s.playerRepo.Create(ctx, item)
	if err != nil {
		return player.Player{}, fmt.Errorf("create player: %w", err)
	}
	s.logger.InfoContext(ctx, "player registered", "player_id", created.ID, "discord_id", created.DiscordID, "league", created.League)
	return created, nil
}

func (s *PlayerService) UpdateLeague(ctx context.Context, discordID, leagueName string) (player.Player, error) {
	canonical, err := s.leagues.Normalize(leagueName)
	if err != nil {
		return player.Player{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	item, exists, err := s.GetByDiscordID(ctx, discordID)
	if err != nil {
		return player.Player{}, err
	}
	if !exists {
		return player.Player{}, fmt.Errorf("%w: player=%s", ErrNotFound, discordID)
	}

	if _, err := s.playerRepo.UpdateLeague(ctx, item.ID, canonical); err != nil {
		return player.Player{}, fmt.Errorf("update player league: %w", err)
	}
	s.logger.InfoContext(ctx, "player league updated", "player_id", item.ID, "league", canonical)

	item.League = canonical
	return item, nil
}

func (s *PlayerService) Profile(ctx context.Context, discordID string) (PlayerProfile, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.Profile")
	defer span.End()

	item, exists, err := s.GetByDiscordID(ctx, discordID)
	if err != nil {
		return PlayerProfile{}, err
	}
	if !exists {
		return PlayerProfile{}, fmt.Errorf("%w: player=%s", ErrNotFound, discordID)
	}

	profile := PlayerProfile{
		Player: item,
		Rating: rating.Rating{PlayerID: item.ID, League: item.League, Rating: rating.DefaultRating},
	}
	if s.bans != nil {
		if profile.Banned, err = s.bans.IsBanned(ctx, item.ID); err != nil {
			return PlayerProfile{}, err
		}
		if profile.Banned {
			if profile.BanSecondsRemaining, err = s.bans.TimeRemaining(ctx, item.ID); err != nil {
				return PlayerProfile{}, err
			}
		}
		if profile.RecentDodges, err = s.bans.RecentDodgeCount(ctx, item.ID); err != nil {
			return PlayerProfile{}, err
		}
	}
	if s.ratings != nil {
		if profile.Rating, err = s.ratings.Rating(ctx, item.ID, item.League); err != nil {
			return PlayerProfile{}, err
		}
	}
	if s.scrims != nil {
		recent, err := s.scrims.ListRecentByPlayer(ctx, item.ID, profileRecentScrimLimit)
		if err != nil {
			return PlayerProfile{}, fmt.Errorf("list recent scrims: %w", err)
		}
		profile.RecentScrims = recent
		for _, sc := range recent {
			if sc.Status == scrim.StatusCompleted {
				profile.CompletedScrims++
			}
		}
	}

	return profile, nil
}
