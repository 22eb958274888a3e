package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/scrim-matchmaker/internal/domain/rating"
	"github.com/riskibarqy/scrim-matchmaker/internal/domain/scrim"
	"github.com/riskibarqy/scrim-matchmaker/internal/platform/logging"
)

type ResultStatInput struct {
	PlayerID   int64
	TeamID     int
	Points     int
	IsFinished bool
	IsDNF      bool
	NbRespawns int
}

type SubmitResultInput struct {
	ScrimUID   string
	WinnerTeam *int
	Stats      []ResultStatInput
}

type SubmitResultOutput struct {
	Scrim            scrim.Scrim     `json:"scrim"`
	AlreadyProcessed bool            `json:"already_processed"`
	Updates          []rating.Update `json:"updates"`
}

// ResultService ingests match results: it stores stats, completes the scrim,
// records map plays and updates ratings.
type ResultService struct {
	ratingRepo rating.Repository
	scrims     *ScrimService
	maps       *MapService
	ratings    *RatingService
	logger     *logging.Logger
	now        func() time.Time
}

func NewResultService(
	ratingRepo rating.Repository,
	scrims *ScrimService,
	maps *MapService,
	ratings *RatingService,
	logger *logging.Logger,
) *ResultService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ResultService{
		ratingRepo: ratingRepo,
		scrims:     scrims,
		maps:       maps,
		ratings:    ratings,
		logger:     logger.Named("result"),
		now:        time.Now,
	}
}

func (s *ResultService) Submit(ctx context.Context, input SubmitResultInput) (SubmitResultOutput, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ResultService.Submit")
	defer span.End()

	item, exists, err := s.scrims.GetByUID(ctx, strings.TrimSpace(input.ScrimUID))
	if err != nil {
		return SubmitResultOutput{}, err
	}
	if !exists {
		return SubmitResultOutput{}, fmt.Errorf("%w: scrim=%s", ErrNotFound, input.ScrimUID)
	}

	switch {
	case item.Status == scrim.StatusCompleted && item.RatingProcessed:
		return SubmitResultOutput{Scrim: item, AlreadyProcessed: true}, nil
	case item.Status == scrim.StatusCompleted:
		return s.finish(ctx, item)
	case item.Status != scrim.StatusActive:
		return SubmitResultOutput{}, fmt.Errorf("%w: scrim %s is %s", ErrConflict, item.UID, item.Status)
	}

	participants, err := s.scrims.Players(ctx, item.ID)
	if err != nil {
		return SubmitResultOutput{}, err
	}
	stats, err := s.validateStats(item, participants, input)
	if err != nil {
		return SubmitResultOutput{}, err
	}

	if err := s.ratingRepo.RecordMatchStats(ctx, stats); err != nil {
		return SubmitResultOutput{}, fmt.Errorf("record match stats: %w", err)
	}

	completed, err := s.scrims.Complete(ctx, item.ID, input.WinnerTeam)
	if err != nil {
		return SubmitResultOutput{}, err
	}
	if !completed {
		return SubmitResultOutput{}, fmt.Errorf("%w: scrim %s could not be completed", ErrConflict, item.UID)
	}

	mapRows, err := s.scrims.Maps(ctx, item.ID)
	if err != nil {
		return SubmitResultOutput{}, err
	}
	mapIDs := make([]int64, 0, len(mapRows))
	for _, m := range mapRows {
		mapIDs = append(mapIDs, m.MapID)
	}
	playerIDs := make([]int64, 0, len(participants))
	for _, p := range participants {
		playerIDs = append(playerIDs, p.PlayerID)
	}
	if err := s.maps.RecordPlays(ctx, playerIDs, mapIDs); err != nil {
		return SubmitResultOutput{}, err
	}

	return s.finish(ctx, item)
}

func (s *ResultService) finish(ctx context.Context, item scrim.Scrim) (SubmitResultOutput, error) {
	processed, err := s.ratings.ProcessMatch(ctx, item.ID)
	if err != nil {
		return SubmitResultOutput{}, err
	}

	refreshed, _, err := s.scrims.GetByID(ctx, item.ID)
	if err != nil {
		return SubmitResultOutput{}, err
	}
	s.logger.InfoContext(ctx, "scrim result accepted", "scrim_id", item.ID, "scrim_uid", item.UID, "rated", processed.Processed)
	return SubmitResultOutput{
		Scrim:            refreshed,
		AlreadyProcessed: !processed.Processed,
		Updates:          processed.Updates,
	}, nil
}

func (s *ResultService) validateStats(item scrim.Scrim, participants []scrim.Player, input SubmitResultInput) ([]rating.PlayerStat, error) {
	if len(input.Stats) != len(participants) {
		return nil, fmt.Errorf("%w: expected %d player results, got %d", ErrInvalidInput, len(participants), len(input.Stats))
	}

	inScrim := make(map[int64]struct{}, len(participants))
	for _, p := range participants {
		inScrim[p.PlayerID] = struct{}{}
	}

	now := s.now()
	seen := make(map[int64]struct{}, len(input.Stats))
	teams := make(map[int]int, 2)
	out := make([]rating.PlayerStat, 0, len(input.Stats))
	for _, st := range input.Stats {
		if _, ok := inScrim[st.PlayerID]; !ok {
			return nil, fmt.Errorf("%w: player %d is not part of scrim %s", ErrInvalidInput, st.PlayerID, item.UID)
		}
		if _, dup := seen[st.PlayerID]; dup {
			return nil, fmt.Errorf("%w: duplicate result for player %d", ErrInvalidInput, st.PlayerID)
		}
		if st.Points < 0 || st.NbRespawns < 0 {
			return nil, fmt.Errorf("%w: negative stats for player %d", ErrInvalidInput, st.PlayerID)
		}
		seen[st.PlayerID] = struct{}{}
		teams[st.TeamID]++

		out = append(out, rating.PlayerStat{
			ScrimID:    item.ID,
			PlayerID:   st.PlayerID,
			TeamID:     st.TeamID,
			Points:     st.Points,
			IsFinished: st.IsFinished,
			IsDNF:      st.IsDNF,
			NbRespawns: st.NbRespawns,
			CreatedAt:  now,
		})
	}

	if len(teams) != 2 {
		return nil, fmt.Errorf("%w: results must cover exactly two teams, got %d", ErrInvalidInput, len(teams))
	}
	if input.WinnerTeam != nil {
		if _, ok := teams[*input.WinnerTeam]; !ok {
			return nil, fmt.Errorf("%w: winner team %d has no players", ErrInvalidInput, *input.WinnerTeam)
		}
	}

	return out, nil
}
