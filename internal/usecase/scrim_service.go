package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/scrim-matchmaker/internal/domain/gamemap"
	"github.com/riskibarqy/scrim-matchmaker/internal/domain/scrim"
	"github.com/riskibarqy/scrim-matchmaker/internal/platform/id"
	"github.com/riskibarqy/scrim-matchmaker/internal/platform/logging"
)

const (
	defaultRecentScrimLimit = 10
	scrimUIDAttempts        = 3
)

type ScrimServiceConfig struct {
	CheckInTimeout time.Duration
}

type ScrimService struct {
	scrimRepo scrim.Repository
	uids      id.Generator
	events    EventPublisher
	cfg       ScrimServiceConfig
	logger    *logging.Logger
	now       func() time.Time
}

func NewScrimService(
	scrimRepo scrim.Repository,
	uids id.Generator,
	events EventPublisher,
	cfg ScrimServiceConfig,
	logger *logging.Logger,
) *ScrimService {
	if uids == nil {
		uids = id.NewScrimUIDGenerator()
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.CheckInTimeout <= 0 {
		cfg.CheckInTimeout = 300 * time.Second
	}

	return &ScrimService{
		scrimRepo: scrimRepo,
		uids:      uids,
		events:    events,
		cfg:       cfg,
		logger:    logger.Named("scrim"),
		now:       time.Now,
	}
}

// Create stores a checking_in scrim with its four players and ordered maps.
func (s *ScrimService) Create(ctx context.Context, leagueName string, playerIDs []int64, maps []gamemap.Map) (scrim.Scrim, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScrimService.Create")
	defer span.End()

	if len(playerIDs) != scrim.RequiredPlayers {
		return scrim.Scrim{}, fmt.Errorf("%w: got %d", scrim.ErrInvalidPlayerCount, len(playerIDs))
	}

	now := s.now()
	params := scrim.CreateParams{
		League:          strings.TrimSpace(leagueName),
		MatchType:       scrim.MatchTypeQueue,
		PlayerIDs:       append([]int64(nil), playerIDs...),
		MapIDs:          mapIDsOf(maps),
		CreatedAt:       now,
		CheckInDeadline: now.Add(s.cfg.CheckInTimeout),
	}

	for attempt := 1; ; attempt++ {
		uid, err := s.uids.NewID()
		if err != nil {
			return scrim.Scrim{}, fmt.Errorf("generate scrim uid: %w", err)
		}
		params.UID = uid
		if err := params.Validate(); err != nil {
			if errors.Is(err, scrim.ErrInvalidPlayerCount) {
				return scrim.Scrim{}, err
			}
			return scrim.Scrim{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}

		created, err := s.scrimRepo.Create(ctx, params)
		if errors.Is(err, scrim.ErrDuplicateUID) && attempt < scrimUIDAttempts {
			s.logger.WarnContext(ctx, "scrim uid collision, retrying", "scrim_uid", uid, "attempt", attempt)
			continue
		}
		if err != nil {
			return scrim.Scrim{}, fmt.Errorf("create scrim: %w", err)
		}

		s.logger.InfoContext(ctx, "scrim created",
			"scrim_id", created.ID,
			"scrim_uid", created.UID,
			"league", created.League,
			"player_ids", params.PlayerIDs,
			"map_ids", params.MapIDs,
		)
		return created, nil
	}
}

func (s *ScrimService) GetByID(ctx context.Context, scrimID int64) (scrim.Scrim, bool, error) {
	item, exists, err := s.scrimRepo.GetByID(ctx, scrimID)
	if err != nil {
		return scrim.Scrim{}, false, fmt.Errorf("get scrim by id: %w", err)
	}
	return item, exists, nil
}

func (s *ScrimService) GetByUID(ctx context.Context, uid string) (scrim.Scrim, bool, error) {
	uid = strings.ToUpper(strings.TrimSpace(uid))
	if uid == "" {
		return scrim.Scrim{}, false, fmt.Errorf("%w: scrim uid is required", ErrInvalidInput)
	}
	item, exists, err := s.scrimRepo.GetByUID(ctx, uid)
	if err != nil {
		return scrim.Scrim{}, false, fmt.Errorf("get scrim by uid: %w", err)
	}
	return item, exists, nil
}

func (s *ScrimService) Players(ctx context.Context, scrimID int64) ([]scrim.Player, error) {
	items, err := s.scrimRepo.ListPlayers(ctx, scrimID)
	if err != nil {
		return nil, fmt.Errorf("list scrim players: %w", err)
	}
	return items, nil
}

// Maps returns the scrim maps ordered by map order.
func (s *ScrimService) Maps(ctx context.Context, scrimID int64) ([]scrim.Map, error) {
	items, err := s.scrimRepo.ListMaps(ctx, scrimID)
	if err != nil {
		return nil, fmt.Errorf("list scrim maps: %w", err)
	}
	return items, nil
}

// CheckIn marks a participant as checked in and activates the scrim once all
// four are in. checkedIn is false when the player is not part of a checking_in
// scrim or already checked in; activated reports whether this check-in moved
// the scrim to active.
func (s *ScrimService) CheckIn(ctx context.Context, scrimID, playerID int64) (checkedIn, activated bool, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScrimService.CheckIn")
	defer span.End()

	item, exists, err := s.GetByID(ctx, scrimID)
	if err != nil {
		return false, false, err
	}
	if !exists || item.Status != scrim.StatusCheckingIn {
		s.logger.WarnContext(ctx, "check-in for scrim not accepting check-ins", "scrim_id", scrimID, "player_id", playerID)
		return false, false, nil
	}

	updated, err := s.scrimRepo.CheckIn(ctx, scrimID, playerID, s.now())
	if err != nil {
		return false, false, fmt.Errorf("check in player: %w", err)
	}
	if !updated {
		s.logger.WarnContext(ctx, "player not in checking_in scrim or already checked in", "scrim_id", scrimID, "player_id", playerID)
		return false, false, nil
	}
	s.logger.InfoContext(ctx, "player checked in", "scrim_id", scrimID, "player_id", playerID)

	allIn, err := s.AreAllCheckedIn(ctx, scrimID)
	if err != nil || !allIn {
		return true, false, err
	}
	activated, err = s.Activate(ctx, scrimID)
	if err != nil {
		return true, false, err
	}
	if !activated {
		s.logger.WarnContext(ctx, "all players checked in but scrim left checking_in", "scrim_id", scrimID)
	}
	return true, activated, nil
}

func (s *ScrimService) AreAllCheckedIn(ctx context.Context, scrimID int64) (bool, error) {
	players, err := s.Players(ctx, scrimID)
	if err != nil {
		return false, err
	}
	if len(players) == 0 {
		return false, nil
	}
	for _, p := range players {
		if !p.CheckedIn {
			return false, nil
		}
	}
	return true, nil
}

// NoShows returns the ids of participants that have not checked in.
func (s *ScrimService) NoShows(ctx context.Context, scrimID int64) ([]int64, error) {
	players, err := s.Players(ctx, scrimID)
	if err != nil {
		return nil, err
	}
	out := make([]int64, 0, len(players))
	for _, p := range players {
		if !p.CheckedIn {
			out = append(out, p.PlayerID)
		}
	}
	return out, nil
}

func (s *ScrimService) IsCheckInExpired(ctx context.Context, scrimID int64) (bool, error) {
	item, exists, err := s.GetByID(ctx, scrimID)
	if err != nil || !exists {
		return false, err
	}
	return item.CheckInExpired(s.now()), nil
}

// Activate moves a checking_in scrim to active and announces it.
func (s *ScrimService) Activate(ctx context.Context, scrimID int64) (bool, error) {
	changed, err := s.transition(ctx, scrimID, scrim.StatusActive, nil)
	if err != nil || !changed {
		return changed, err
	}

	item, _, err := s.GetByID(ctx, scrimID)
	if err != nil {
		return true, err
	}
	playerIDs, err := s.participantIDs(ctx, scrimID)
	if err != nil {
		return true, err
	}

	s.publish(ctx, ScrimActivatedEvent{
		ScrimID:   scrimID,
		ScrimUID:  item.UID,
		League:    item.League,
		PlayerIDs: playerIDs,
	})
	return true, nil
}

// Cancel stops a scrim that has not completed yet.
func (s *ScrimService) Cancel(ctx context.Context, scrimID int64) (bool, error) {
	now := s.now()
	return s.transition(ctx, scrimID, scrim.StatusCancelled, &now)
}

// Complete finishes an active scrim and records the winning team when known.
func (s *ScrimService) Complete(ctx context.Context, scrimID int64, winnerTeam *int) (bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScrimService.Complete")
	defer span.End()

	now := s.now()
	changed, err := s.transition(ctx, scrimID, scrim.StatusCompleted, &now)
	if err != nil || !changed {
		return changed, err
	}
	if winnerTeam != nil {
		if err := s.scrimRepo.SetWinner(ctx, scrimID, *winnerTeam); err != nil {
			return true, fmt.Errorf("set scrim winner: %w", err)
		}
	}

	item, _, err := s.GetByID(ctx, scrimID)
	if err != nil {
		return true, err
	}
	playerIDs, err := s.participantIDs(ctx, scrimID)
	if err != nil {
		return true, err
	}
	s.publish(ctx, ScrimCompletedEvent{
		ScrimID:    scrimID,
		ScrimUID:   item.UID,
		League:     item.League,
		PlayerIDs:  playerIDs,
		WinnerTeam: winnerTeam,
		At:         now,
	})
	return true, nil
}

func (s *ScrimService) participantIDs(ctx context.Context, scrimID int64) ([]int64, error) {
	players, err := s.Players(ctx, scrimID)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(players))
	for _, p := range players {
		ids = append(ids, p.PlayerID)
	}
	return ids, nil
}

func (s *ScrimService) transition(ctx context.Context, scrimID int64, to scrim.Status, completedAt *time.Time) (bool, error) {
	changed, err := s.scrimRepo.UpdateStatus(ctx, scrimID, scrim.SourcesFor(to), to, completedAt)
	if err != nil {
		return false, fmt.Errorf("update scrim status to %s: %w", to, err)
	}
	if changed {
		s.logger.InfoContext(ctx, "scrim status changed", "scrim_id", scrimID, "status", to)
	}
	return changed, nil
}

// ActiveByLeague lists checking_in and active scrims, newest first.
func (s *ScrimService) ActiveByLeague(ctx context.Context, leagueName string) ([]scrim.Scrim, error) {
	items, err := s.scrimRepo.ListActiveByLeague(ctx, strings.TrimSpace(leagueName))
	if err != nil {
		return nil, fmt.Errorf("list active scrims: %w", err)
	}
	return items, nil
}

func (s *ScrimService) RecentByPlayer(ctx context.Context, playerID int64, limit int) ([]scrim.Scrim, error) {
	if limit <= 0 {
		limit = defaultRecentScrimLimit
	}
	items, err := s.scrimRepo.ListRecentByPlayer(ctx, playerID, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent scrims: %w", err)
	}
	return items, nil
}

func (s *ScrimService) LatestCheckingIn(ctx context.Context, playerID int64) (scrim.Scrim, bool, error) {
	item, exists, err := s.scrimRepo.LatestCheckingInByPlayer(ctx, playerID)
	if err != nil {
		return scrim.Scrim{}, false, fmt.Errorf("get checking_in scrim: %w", err)
	}
	return item, exists, nil
}

func (s *ScrimService) publish(ctx context.Context, event Event) {
	if s.events == nil {
		return
	}
	s.events.Publish(ctx, event)
}
