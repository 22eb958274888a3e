package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/sourcegraph/conc/panics"

	"github.com/riskibarqy/scrim-matchmaker/internal/domain/league"
	"github.com/riskibarqy/scrim-matchmaker/internal/domain/player"
	"github.com/riskibarqy/scrim-matchmaker/internal/domain/scrim"
	"github.com/riskibarqy/scrim-matchmaker/internal/platform/logging"
)

// JoinRejection says why a join was refused. Empty means accepted.
type JoinRejection string

const (
	RejectNotRegistered   JoinRejection = "not_registered"
	RejectBanned          JoinRejection = "banned"
	RejectInvalidIdentity JoinRejection = "invalid_identity"
	RejectAlreadyQueued   JoinRejection = "already_queued"
	RejectInternal        JoinRejection = "internal_error"
)

const (
	msgNotRegistered   = "You must be registered to join the queue. Please contact an admin."
	msgInvalidIdentity = "You must have a valid player account in the registry to join the queue."
	msgJoinFailed      = "An error occurred while joining the queue."
	msgNotQueued       = "You are not in any queue."
)

// QueueEntry is a player waiting in a league queue. Entries live in memory only.
type QueueEntry struct {
	PlayerID  int64     `json:"player_id"`
	DiscordID string    `json:"discord_id"`
	Username  string    `json:"username"`
	League    string    `json:"league"`
	JoinedAt  time.Time `json:"joined_at"`
}

type JoinResult struct {
	Accepted bool          `json:"accepted"`
	Reason   JoinRejection `json:"reason,omitempty"`
	Message  string        `json:"message"`
	League   string        `json:"league,omitempty"`
	Position int           `json:"position,omitempty"`
	Popped   bool          `json:"popped"`
}

type LeaveResult struct {
	Left    bool   `json:"left"`
	League  string `json:"league,omitempty"`
	Message string `json:"message"`
}

type LeagueQueueStatus struct {
	League string `json:"league"`
	Size   int    `json:"size"`
}

type QueuePosition struct {
	League   string `json:"league"`
	Position int    `json:"position"`
}

// CheckInRejection says why a check-in was refused. Empty means accepted.
type CheckInRejection string

const (
	CheckInNotRegistered  CheckInRejection = "not_registered"
	CheckInNoPendingScrim CheckInRejection = "no_pending_scrim"
	CheckInExpired        CheckInRejection = "expired"
	CheckInAlreadyDone    CheckInRejection = "already_checked_in"
)

type CheckInResult struct {
	Accepted     bool             `json:"accepted"`
	Reason       CheckInRejection `json:"reason,omitempty"`
	Message      string           `json:"message"`
	ScrimUID     string           `json:"scrim_uid,omitempty"`
	AllCheckedIn bool             `json:"all_checked_in"`
}

// DeadlineOutcome reports what a check-in deadline did to its scrim.
type DeadlineOutcome struct {
	ScrimID           int64   `json:"scrim_id"`
	Cancelled         bool    `json:"cancelled"`
	NoShowPlayerIDs   []int64 `json:"no_show_player_ids"`
	RequeuedPlayerIDs []int64 `json:"requeued_player_ids"`
}

type QueueServiceConfig struct {
	CheckInTimeout time.Duration
	MapsPerScrim   int
}

// QueueService owns the per-league admission queues and the pop that turns
// four queued players into a scrim.
type QueueService struct {
	mu     sync.Mutex
	queues map[string][]QueueEntry

	leagues   *league.Registry
	players   *PlayerService
	bans      *BanService
	maps      *MapService
	scrims    *ScrimService
	deadlines *DeadlineRegistry
	events    EventPublisher
	form      *ResultForm
	cfg       QueueServiceConfig
	logger    *logging.Logger
	now       func() time.Time
}

func NewQueueService(
	leagues *league.Registry,
	players *PlayerService,
	bans *BanService,
	maps *MapService,
	scrims *ScrimService,
	deadlines *DeadlineRegistry,
	events EventPublisher,
	form *ResultForm,
	cfg QueueServiceConfig,
	logger *logging.Logger,
) *QueueService {
	if logger == nil {
		logger = logging.Default()
	}
	if deadlines == nil {
		deadlines = NewDeadlineRegistry(nil)
	}
	if cfg.CheckInTimeout <= 0 {
		cfg.CheckInTimeout = 300 * time.Second
	}
	if cfg.MapsPerScrim <= 0 {
		cfg.MapsPerScrim = 3
	}

	queues := make(map[string][]QueueEntry)
	for _, name := range leagues.Names() {
		queues[name] = nil
	}

	s := &QueueService{
		queues:    queues,
		leagues:   leagues,
		players:   players,
		bans:      bans,
		maps:      maps,
		scrims:    scrims,
		deadlines: deadlines,
		events:    events,
		form:      form,
		cfg:       cfg,
		logger:    logger.Named("queue"),
		now:       time.Now,
	}
	s.logger.Info("queue service initialized", "leagues", leagues.Names())
	return s
}

// Join admits a player to their league queue. Refusals and infrastructure
// failures are reported in the result, never as an error.
func (s *QueueService) Join(ctx context.Context, discordID string) JoinResult {
	ctx, span := startUsecaseSpan(ctx, "usecase.QueueService.Join")
	defer span.End()

	discordID = strings.TrimSpace(discordID)
	result, err := s.join(ctx, discordID)
	if err != nil {
		s.logger.ErrorContext(ctx, "error joining queue", "discord_id", discordID, "error", err)
		return JoinResult{Reason: RejectInternal, Message: msgJoinFailed}
	}
	return result
}

func (s *QueueService) join(ctx context.Context, discordID string) (JoinResult, error) {
	p, exists, err := s.players.GetByDiscordID(ctx, discordID)
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			return JoinResult{Reason: RejectNotRegistered, Message: msgNotRegistered}, nil
		}
		return JoinResult{}, err
	}
	if !exists {
		return JoinResult{Reason: RejectNotRegistered, Message: msgNotRegistered}, nil
	}

	banned, err := s.bans.IsBanned(ctx, p.ID)
	if err != nil {
		return JoinResult{}, err
	}
	if banned {
		remaining, err := s.bans.TimeRemaining(ctx, p.ID)
		if err != nil {
			return JoinResult{}, err
		}
		minutes := int64(math.Ceil(float64(remaining) / 60))
		return JoinResult{
			Reason:  RejectBanned,
			Message: fmt.Sprintf("You are banned from queueing for %d more minute(s).", minutes),
		}, nil
	}

	valid, err := s.players.ValidateIdentity(ctx, p.DiscordID)
	if err != nil {
		return JoinResult{}, err
	}
	if !valid {
		return JoinResult{Reason: RejectInvalidIdentity, Message: msgInvalidIdentity}, nil
	}

	leagueName, err := s.leagues.Normalize(p.League)
	if err != nil {
		return JoinResult{}, fmt.Errorf("player %d league: %w", p.ID, err)
	}

	entry := QueueEntry{
		PlayerID:  p.ID,
		DiscordID: p.DiscordID,
		Username:  p.Username,
		League:    leagueName,
		JoinedAt:  s.now(),
	}

	s.mu.Lock()
	if queued, ok := s.findLocked(discordID); ok {
		s.mu.Unlock()
		return JoinResult{
			Reason:  RejectAlreadyQueued,
			Message: fmt.Sprintf("You are already in the %s queue.", queued.League),
		}, nil
	}
	s.queues[leagueName] = append(s.queues[leagueName], entry)
	position := len(s.queues[leagueName])
	batch := s.takeBatchLocked(leagueName)
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "player joined queue", "player_id", p.ID, "league", leagueName, "queue_size", position)

	popped := false
	if batch != nil {
		popped = s.pop(ctx, leagueName, batch)
	}

	return JoinResult{
		Accepted: true,
		Message:  fmt.Sprintf("You joined the %s queue! (%d/%d)", leagueName, position, scrim.RequiredPlayers),
		League:   leagueName,
		Position: position,
		Popped:   popped,
	}, nil
}

// takeBatchLocked removes the first four entries when the queue has reached
// four. Taking the batch off the head is the only way a queue pops.
func (s *QueueService) takeBatchLocked(leagueName string) []QueueEntry {
	queue := s.queues[leagueName]
	if len(queue) < scrim.RequiredPlayers {
		return nil
	}
	batch := append([]QueueEntry(nil), queue[:scrim.RequiredPlayers]...)
	s.queues[leagueName] = append([]QueueEntry(nil), queue[scrim.RequiredPlayers:]...)
	return batch
}

func (s *QueueService) findLocked(discordID string) (QueueEntry, bool) {
	for _, name := range s.leagues.Names() {
		for _, e := range s.queues[name] {
			if e.DiscordID == discordID {
				return e, true
			}
		}
	}
	return QueueEntry{}, false
}

// pop turns a dequeued batch into a scrim. On failure the batch goes back to
// the front of its queue in its original order and pop reports false.
func (s *QueueService) pop(ctx context.Context, leagueName string, batch []QueueEntry) bool {
	ctx, span := startUsecaseSpan(ctx, "usecase.QueueService.pop")
	defer span.End()

	popped, err := s.createScrim(ctx, leagueName, batch)
	if err != nil {
		s.logger.ErrorContext(ctx, "error popping queue, players returned to queue",
			"league", leagueName,
			"player_ids", entryPlayerIDs(batch),
			"error", err,
		)
		s.mu.Lock()
		// Players who re-joined while the lock was released keep their new spot.
		restored := make([]QueueEntry, 0, len(batch))
		for _, e := range batch {
			if _, queued := s.findLocked(e.DiscordID); !queued {
				restored = append(restored, e)
			}
		}
		s.queues[leagueName] = append(restored, s.queues[leagueName]...)
		s.mu.Unlock()
		return false
	}

	s.logger.InfoContext(ctx, "queue popped",
		"league", leagueName,
		"scrim_id", popped.Scrim.ID,
		"scrim_uid", popped.Scrim.UID,
		"player_ids", entryPlayerIDs(batch),
		"map_ids", mapIDsOf(popped.Maps),
	)

	if s.events != nil {
		s.events.Publish(ctx, popped)
	}

	scrimID := popped.Scrim.ID
	s.deadlines.Schedule(scrimID, s.cfg.CheckInTimeout, func() {
		s.onDeadline(scrimID)
	})
	return true
}

func (s *QueueService) createScrim(ctx context.Context, leagueName string, batch []QueueEntry) (QueuePoppedEvent, error) {
	ids := entryPlayerIDs(batch)

	players, err := s.players.GetByIDs(ctx, ids)
	if err != nil {
		return QueuePoppedEvent{}, err
	}
	if len(players) != len(ids) {
		return QueuePoppedEvent{}, fmt.Errorf("%w: resolved %d of %d queued players", ErrNotFound, len(players), len(ids))
	}

	maps, err := s.maps.Select(ctx, ids, s.cfg.MapsPerScrim)
	if err != nil {
		return QueuePoppedEvent{}, fmt.Errorf("select maps: %w", err)
	}

	created, err := s.scrims.Create(ctx, leagueName, ids, maps)
	if err != nil {
		return QueuePoppedEvent{}, err
	}

	names := make([]string, 0, len(players))
	for _, p := range players {
		names = append(names, p.Username)
	}
	mapNames := make([]string, 0, len(maps))
	for _, m := range maps {
		mapNames = append(mapNames, m.Name)
	}

	return QueuePoppedEvent{
		Scrim:         created,
		Players:       players,
		Maps:          maps,
		ResultFormURL: s.form.URL(created.UID, names, mapNames, created.CreatedAt),
	}, nil
}

// onDeadline runs on the deadline timer goroutine, so a panic is logged
// instead of taking the process down.
func (s *QueueService) onDeadline(scrimID int64) {
	ctx := context.Background()
	var err error
	recovered := panics.Try(func() {
		_, err = s.HandleCheckInDeadline(ctx, scrimID)
	})
	if recovered != nil {
		s.logger.ErrorContext(ctx, "check-in timeout handler panicked",
			"scrim_id", scrimID,
			"panic", recovered.String(),
		)
		return
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "error processing check-in timeout", "scrim_id", scrimID, "error", err)
	}
}

// HandleCheckInDeadline cancels a scrim still waiting for check-ins, bans the
// players who never checked in and puts the others back at the front of their
// queue without re-validating them.
func (s *QueueService) HandleCheckInDeadline(ctx context.Context, scrimID int64) (DeadlineOutcome, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.QueueService.HandleCheckInDeadline")
	defer span.End()

	outcome := DeadlineOutcome{ScrimID: scrimID}

	item, exists, err := s.scrims.GetByID(ctx, scrimID)
	if err != nil {
		return outcome, err
	}
	if !exists || item.Status != scrim.StatusCheckingIn {
		return outcome, nil
	}

	// Cancel first so a late check-in cannot activate a scrim whose no-shows
	// are being banned.
	cancelled, err := s.scrims.Cancel(ctx, scrimID)
	if err != nil {
		return outcome, err
	}
	if !cancelled {
		return outcome, nil
	}
	outcome.Cancelled = true

	participants, err := s.scrims.Players(ctx, scrimID)
	if err != nil {
		return outcome, err
	}
	checkedIn := make([]int64, 0, len(participants))
	for _, p := range participants {
		if p.CheckedIn {
			checkedIn = append(checkedIn, p.PlayerID)
		} else {
			outcome.NoShowPlayerIDs = append(outcome.NoShowPlayerIDs, p.PlayerID)
		}
	}

	s.logger.InfoContext(ctx, "check-in timeout expired",
		"scrim_id", scrimID,
		"no_show_count", len(outcome.NoShowPlayerIDs),
	)

	var errs []error
	for _, playerID := range outcome.NoShowPlayerIDs {
		if _, err := s.bans.ApplyDodgePenalty(ctx, playerID); err != nil {
			errs = append(errs, fmt.Errorf("ban no-show %d: %w", playerID, err))
		}
	}

	if len(checkedIn) > 0 {
		players, err := s.players.GetByIDs(ctx, checkedIn)
		if err != nil {
			errs = append(errs, err)
		} else {
			outcome.RequeuedPlayerIDs = s.requeueFront(ctx, players)
		}
	}

	if s.events != nil {
		s.events.Publish(ctx, CheckInTimedOutEvent{
			ScrimID:           scrimID,
			ScrimUID:          item.UID,
			League:            item.League,
			NoShowPlayerIDs:   outcome.NoShowPlayerIDs,
			RequeuedPlayerIDs: outcome.RequeuedPlayerIDs,
		})
	}

	return outcome, errors.Join(errs...)
}

// requeueFront puts players at the head of their league queue, keeping their
// relative order, and pops any queue that reaches four as a result.
func (s *QueueService) requeueFront(ctx context.Context, players []player.Player) []int64 {
	now := s.now()
	byLeague := make(map[string][]QueueEntry)
	order := make([]string, 0, 1)
	requeued := make([]int64, 0, len(players))

	s.mu.Lock()
	for _, p := range players {
		leagueName, err := s.leagues.Normalize(p.League)
		if err != nil {
			s.logger.WarnContext(ctx, "skip requeue for player in unknown league", "player_id", p.ID, "league", p.League)
			continue
		}
		if _, queued := s.findLocked(p.DiscordID); queued {
			continue
		}
		if _, seen := byLeague[leagueName]; !seen {
			order = append(order, leagueName)
		}
		byLeague[leagueName] = append(byLeague[leagueName], QueueEntry{
			PlayerID:  p.ID,
			DiscordID: p.DiscordID,
			Username:  p.Username,
			League:    leagueName,
			JoinedAt:  now,
		})
		requeued = append(requeued, p.ID)
	}

	batches := make(map[string][]QueueEntry)
	for _, leagueName := range order {
		s.queues[leagueName] = append(byLeague[leagueName], s.queues[leagueName]...)
		if batch := s.takeBatchLocked(leagueName); batch != nil {
			batches[leagueName] = batch
		}
	}
	s.mu.Unlock()

	for _, leagueName := range order {
		for _, e := range byLeague[leagueName] {
			s.logger.InfoContext(ctx, "player returned to queue with priority", "player_id", e.PlayerID, "league", leagueName)
		}
		if batch, ok := batches[leagueName]; ok {
			s.pop(ctx, leagueName, batch)
		}
	}

	return requeued
}

func (s *QueueService) Leave(ctx context.Context, discordID string) LeaveResult {
	discordID = strings.TrimSpace(discordID)

	s.mu.Lock()
	for _, name := range s.leagues.Names() {
		queue := s.queues[name]
		for i, e := range queue {
			if e.DiscordID != discordID {
				continue
			}
			s.queues[name] = append(append([]QueueEntry(nil), queue[:i]...), queue[i+1:]...)
			size := len(s.queues[name])
			s.mu.Unlock()

			s.logger.InfoContext(ctx, "player left queue", "discord_id", discordID, "league", name, "queue_size", size)
			return LeaveResult{Left: true, League: name, Message: fmt.Sprintf("You left the %s queue.", name)}
		}
	}
	s.mu.Unlock()

	return LeaveResult{Message: msgNotQueued}
}

// Status returns the length of every league queue in configured order.
func (s *QueueService) Status() []LeagueQueueStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]LeagueQueueStatus, 0, len(s.queues))
	for _, name := range s.leagues.Names() {
		out = append(out, LeagueQueueStatus{League: name, Size: len(s.queues[name])})
	}
	return out
}

func (s *QueueService) ListLeague(leagueName string) ([]QueueEntry, error) {
	canonical, err := s.leagues.Normalize(leagueName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]QueueEntry(nil), s.queues[canonical]...), nil
}

// QueuedLeague reports the league and 1-based position of a queued player.
func (s *QueueService) QueuedLeague(discordID string) (QueuePosition, bool) {
	discordID = strings.TrimSpace(discordID)

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, name := range s.leagues.Names() {
		for i, e := range s.queues[name] {
			if e.DiscordID == discordID {
				return QueuePosition{League: name, Position: i + 1}, true
			}
		}
	}
	return QueuePosition{}, false
}

// ClearLeague empties one queue. Timers and persisted scrims are untouched.
func (s *QueueService) ClearLeague(leagueName string) (int, error) {
	canonical, err := s.leagues.Normalize(leagueName)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	s.mu.Lock()
	count := len(s.queues[canonical])
	s.queues[canonical] = nil
	s.mu.Unlock()

	s.logger.Info("league queue cleared", "league", canonical, "removed_players", count)
	return count, nil
}

func (s *QueueService) ClearAll() int {
	total := 0
	for _, name := range s.leagues.Names() {
		count, _ := s.ClearLeague(name)
		total += count
	}
	return total
}

// CheckIn checks a player into their newest scrim that is waiting for check-ins.
func (s *QueueService) CheckIn(ctx context.Context, discordID string) (CheckInResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.QueueService.CheckIn")
	defer span.End()

	p, exists, err := s.players.GetByDiscordID(ctx, discordID)
	if err != nil && !errors.Is(err, ErrInvalidInput) {
		return CheckInResult{}, err
	}
	if !exists {
		return CheckInResult{
			Reason:  CheckInNotRegistered,
			Message: "You must be registered to check in. Please contact an admin.",
		}, nil
	}

	pending, exists, err := s.scrims.LatestCheckingIn(ctx, p.ID)
	if err != nil {
		return CheckInResult{}, err
	}
	if !exists {
		return CheckInResult{
			Reason:  CheckInNoPendingScrim,
			Message: "You are not in an active scrim waiting for check-in.",
		}, nil
	}
	if pending.CheckInExpired(s.now()) {
		return CheckInResult{
			Reason:   CheckInExpired,
			Message:  "The check-in period for your scrim has expired.",
			ScrimUID: pending.UID,
		}, nil
	}

	accepted, activated, err := s.scrims.CheckIn(ctx, pending.ID, p.ID)
	if err != nil {
		return CheckInResult{}, err
	}
	if !accepted || !activated {
		// The deadline may have cancelled the scrim while this check-in ran.
		current, _, err := s.scrims.GetByID(ctx, pending.ID)
		if err != nil {
			return CheckInResult{}, err
		}
		if current.Status != scrim.StatusCheckingIn {
			return CheckInResult{
				Reason:   CheckInExpired,
				Message:  "The check-in period for your scrim has expired.",
				ScrimUID: pending.UID,
			}, nil
		}
	}
	if !accepted {
		return CheckInResult{
			Reason:   CheckInAlreadyDone,
			Message:  "You have already checked in for this scrim.",
			ScrimUID: pending.UID,
		}, nil
	}

	if activated {
		s.deadlines.Cancel(pending.ID)
		return CheckInResult{
			Accepted:     true,
			Message:      fmt.Sprintf("You have checked in! All players are ready. Scrim %s is now active!", pending.UID),
			ScrimUID:     pending.UID,
			AllCheckedIn: true,
		}, nil
	}
	return CheckInResult{
		Accepted: true,
		Message:  fmt.Sprintf("You have checked in for scrim %s. Waiting for other players...", pending.UID),
		ScrimUID: pending.UID,
	}, nil
}

// ForceCancel drops the pending deadline and cancels a scrim that has not completed.
func (s *QueueService) ForceCancel(ctx context.Context, scrimID int64) (bool, error) {
	_, exists, err := s.scrims.GetByID(ctx, scrimID)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, fmt.Errorf("%w: scrim=%d", ErrNotFound, scrimID)
	}

	s.deadlines.Cancel(scrimID)
	cancelled, err := s.scrims.Cancel(ctx, scrimID)
	if err != nil {
		return false, err
	}
	s.logger.InfoContext(ctx, "scrim force cancelled", "scrim_id", scrimID, "cancelled", cancelled)
	return cancelled, nil
}

// Shutdown stops every pending check-in timer. Queue contents are dropped with the process.
func (s *QueueService) Shutdown() {
	stopped := s.deadlines.Stop()
	s.logger.Info("queue service stopped", "pending_deadlines", stopped)
}

func entryPlayerIDs(entries []QueueEntry) []int64 {
	out := make([]int64, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.PlayerID)
	}
	return out
}
