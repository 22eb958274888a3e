package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/scrim-matchmaker/internal/domain/ban"
	"github.com/riskibarqy/scrim-matchmaker/internal/platform/logging"
)

const defaultBanHistoryLimit = 10

type BanService struct {
	banRepo ban.Repository
	policy  ban.Policy
	logger  *logging.Logger
	now     func() time.Time
}

func NewBanService(banRepo ban.Repository, policy ban.Policy, logger *logging.Logger) *BanService {
	if logger == nil {
		logger = logging.Default()
	}
	defaults := ban.DefaultPolicy()
	if policy.First <= 0 {
		policy.First = defaults.First
	}
	if policy.Second <= 0 {
		policy.Second = defaults.Second
	}
	if policy.Third <= 0 {
		policy.Third = defaults.Third
	}
	if policy.Window <= 0 {
		policy.Window = defaults.Window
	}

	return &BanService{
		banRepo: banRepo,
		policy:  policy,
		logger:  logger.Named("ban"),
		now:     time.Now,
	}
}

func (s *BanService) IsBanned(ctx context.Context, playerID int64) (bool, error) {
	_, active, err := s.ActiveBan(ctx, playerID)
	return active, err
}

// ActiveBan returns the running ban that ends last.
func (s *BanService) ActiveBan(ctx context.Context, playerID int64) (ban.Ban, bool, error) {
	item, exists, err := s.banRepo.GetActive(ctx, playerID, s.now())
	if err != nil {
		return ban.Ban{}, false, fmt.Errorf("get active ban: %w", err)
	}
	return item, exists, nil
}

// TimeRemaining returns whole seconds left on the active ban, 0 when none.
func (s *BanService) TimeRemaining(ctx context.Context, playerID int64) (int64, error) {
	now := s.now()
	item, exists, err := s.banRepo.GetActive(ctx, playerID, now)
	if err != nil {
		return 0, fmt.Errorf("get active ban: %w", err)
	}
	if !exists {
		return 0, nil
	}
	return int64(item.Remaining(now) / time.Second), nil
}

// RecentDodgeCount counts automatic bans that started inside the dodge window.
func (s *BanService) RecentDodgeCount(ctx context.Context, playerID int64) (int, error) {
	count, err := s.banRepo.CountDodgesSince(ctx, playerID, s.now().Add(-s.policy.Window))
	if err != nil {
		return 0, fmt.Errorf("count recent dodges: %w", err)
	}
	return count, nil
}

func (s *BanService) ApplyDodgePenalty(ctx context.Context, playerID int64) (ban.Ban, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BanService.ApplyDodgePenalty")
	defer span.End()

	prior, err := s.RecentDodgeCount(ctx, playerID)
	if err != nil {
		return ban.Ban{}, err
	}

	start := s.now()
	duration := s.policy.DurationFor(prior)
	item := ban.Ban{
		PlayerID:   playerID,
		Start:      start,
		End:        start.Add(duration),
		Reason:     s.policy.DodgeReason(prior + 1),
		DodgeCount: prior + 1,
		IsManual:   false,
	}
	if err := item.Validate(); err != nil {
		return ban.Ban{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	created, err := s.banRepo.Create(ctx, item)
	if err != nil {
		return ban.Ban{}, fmt.Errorf("create dodge ban: %w", err)
	}

	s.logger.InfoContext(ctx, "dodge penalty applied",
		"player_id", playerID,
		"dodge_count", created.DodgeCount,
		"duration", duration,
		"ban_end", created.End,
	)
	return created, nil
}

func (s *BanService) ApplyManualBan(ctx context.Context, playerID int64, duration time.Duration, reason string) (ban.Ban, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BanService.ApplyManualBan")
	defer span.End()

	reason = strings.TrimSpace(reason)
	if duration <= 0 {
		return ban.Ban{}, fmt.Errorf("%w: ban duration must be positive", ErrInvalidInput)
	}
	if reason == "" {
		return ban.Ban{}, fmt.Errorf("%w: ban reason is required", ErrInvalidInput)
	}

	start := s.now()
	item := ban.Ban{
		PlayerID:   playerID,
		Start:      start,
		End:        start.Add(duration),
		Reason:     reason,
		DodgeCount: 0,
		IsManual:   true,
	}
	if err := item.Validate(); err != nil {
		return ban.Ban{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	created, err := s.banRepo.Create(ctx, item)
	if err != nil {
		return ban.Ban{}, fmt.Errorf("create manual ban: %w", err)
	}

	s.logger.InfoContext(ctx, "manual ban applied",
		"player_id", playerID,
		"reason", reason,
		"duration", duration,
		"ban_end", created.End,
	)
	return created, nil
}

// Unban ends every active ban of the player now and returns how many it ended.
func (s *BanService) Unban(ctx context.Context, playerID int64) (int64, error) {
	ended, err := s.banRepo.EndActive(ctx, playerID, s.now())
	if err != nil {
		return 0, fmt.Errorf("end active bans: %w", err)
	}
	s.logger.InfoContext(ctx, "player unbanned", "player_id", playerID, "bans_ended", ended)
	return ended, nil
}

func (s *BanService) History(ctx context.Context, playerID int64, limit int) ([]ban.Ban, error) {
	if limit <= 0 {
		limit = defaultBanHistoryLimit
	}
	items, err := s.banRepo.ListByPlayer(ctx, playerID, limit)
	if err != nil {
		return nil, fmt.Errorf("list ban history: %w", err)
	}
	return items, nil
}
