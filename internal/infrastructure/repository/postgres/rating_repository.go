package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/scrim-matchmaker/internal/domain/rating"
	qb "github.com/riskibarqy/scrim-matchmaker/internal/platform/querybuilder"
)

type RatingRepository struct {
	db *sqlx.DB
}

var (
	eloRatingColumns = []string{"player_id", "league", "rating", "wins", "losses", "updated_at"}
	matchStatColumns = []string{
		"scrim_id",
		"player_id",
		"team_id",
		"points",
		"is_finished",
		"is_dnf",
		"nb_respawns",
		"created_at",
	}
)

func NewRatingRepository(db *sqlx.DB) *RatingRepository {
	return &RatingRepository{db: db}
}

func (r *RatingRepository) ListMatchStats(ctx context.Context, scrimID int64) ([]rating.PlayerStat, error) {
	query, args, err := qb.Select(matchStatColumns...).
		From("match_player_stats").
		Where(qb.Eq("scrim_id", scrimID)).
		OrderBy("player_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list match stats query: %w", err)
	}

	var rows []matchPlayerStatTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list match stats: %w", err)
	}

	out := make([]rating.PlayerStat, 0, len(rows))
	for _, row := range rows {
		out = append(out, rating.PlayerStat{
			ScrimID:    row.ScrimID,
			PlayerID:   row.PlayerID,
			TeamID:     row.TeamID,
			Points:     row.Points,
			IsFinished: row.IsFinished,
			IsDNF:      row.IsDNF,
			NbRespawns: row.NbRespawns,
			CreatedAt:  row.CreatedAt,
		})
	}
	return out, nil
}

// RecordMatchStats upserts on (scrim_id, player_id) so a resubmission overwrites.
func (r *RatingRepository) RecordMatchStats(ctx context.Context, stats []rating.PlayerStat) error {
	if len(stats) == 0 {
		return nil
	}

	insert := qb.InsertInto("match_player_stats").Columns(matchStatColumns...)
	for _, s := range stats {
		insert.Values(s.ScrimID, s.PlayerID, s.TeamID, s.Points, s.IsFinished, s.IsDNF, s.NbRespawns, s.CreatedAt)
	}
	query, args, err := insert.Suffix(`ON CONFLICT (scrim_id, player_id) DO UPDATE SET
		team_id = EXCLUDED.team_id,
		points = EXCLUDED.points,
		is_finished = EXCLUDED.is_finished,
		is_dnf = EXCLUDED.is_dnf,
		nb_respawns = EXCLUDED.nb_respawns`).ToSQL()
	if err != nil {
		return fmt.Errorf("build record match stats query: %w", err)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx record match stats: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("record match stats: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit record match stats: %w", err)
	}
	return nil
}

func (r *RatingRepository) ListRatings(ctx context.Context, league string, playerIDs []int64) ([]rating.Rating, error) {
	query, args, err := qb.Select(eloRatingColumns...).
		From("elo_ratings").
		Where(qb.Eq("league", league), qb.In("player_id", int64SliceToAny(playerIDs))).
		OrderBy("player_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list ratings query: %w", err)
	}
	return r.selectRatings(ctx, query, args)
}

func (r *RatingRepository) Get(ctx context.Context, playerID int64, league string) (rating.Rating, bool, error) {
	query, args, err := qb.Select(eloRatingColumns...).
		From("elo_ratings").
		Where(qb.Eq("player_id", playerID), qb.Eq("league", league)).
		ToSQL()
	if err != nil {
		return rating.Rating{}, false, fmt.Errorf("build get rating query: %w", err)
	}

	var row eloRatingTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return rating.Rating{}, false, nil
		}
		return rating.Rating{}, false, fmt.Errorf("get rating: %w", err)
	}
	return ratingFromRow(row), true, nil
}

func (r *RatingRepository) Leaderboard(ctx context.Context, league string, limit int) ([]rating.Rating, error) {
	query, args, err := qb.Select(eloRatingColumns...).
		From("elo_ratings").
		Where(qb.Eq("league", league)).
		OrderBy("rating DESC", "player_id").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build leaderboard query: %w", err)
	}
	return r.selectRatings(ctx, query, args)
}

func (r *RatingRepository) ApplyMatch(ctx context.Context, scrimID int64, league string, updates []rating.Update, at time.Time) (bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin tx apply match: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	lockQuery, lockArgs, err := qb.Select("elo_processed").
		From("scrims").
		Where(qb.Eq("id", scrimID)).
		ForUpdate().
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build lock scrim query: %w", err)
	}

	var processed bool
	if err := tx.GetContext(ctx, &processed, lockQuery, lockArgs...); err != nil {
		if isNotFound(err) {
			return false, fmt.Errorf("lock scrim %d: not found", scrimID)
		}
		return false, fmt.Errorf("lock scrim: %w", err)
	}
	if processed {
		return false, nil
	}

	if len(updates) > 0 {
		upsert := qb.InsertInto("elo_ratings").Columns(eloRatingColumns...)
		for _, u := range updates {
			wins, losses := 0, 0
			if u.IsWin() {
				wins = 1
			}
			if u.IsLoss() {
				losses = 1
			}
			upsert.Values(u.PlayerID, league, u.NewRating, wins, losses, at)
		}
		query, args, err := upsert.Suffix(`ON CONFLICT (player_id, league) DO UPDATE SET
			rating = EXCLUDED.rating,
			wins = elo_ratings.wins + EXCLUDED.wins,
			losses = elo_ratings.losses + EXCLUDED.losses,
			updated_at = EXCLUDED.updated_at`).ToSQL()
		if err != nil {
			return false, fmt.Errorf("build upsert ratings query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return false, fmt.Errorf("upsert ratings: %w", err)
		}
	}

	flagQuery, flagArgs, err := qb.Update("scrims").
		Set("elo_processed", true).
		Where(qb.Eq("id", scrimID)).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build flag scrim processed query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, flagQuery, flagArgs...); err != nil {
		return false, fmt.Errorf("flag scrim processed: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit apply match: %w", err)
	}
	return true, nil
}

func (r *RatingRepository) selectRatings(ctx context.Context, query string, args []any) ([]rating.Rating, error) {
	var rows []eloRatingTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select ratings: %w", err)
	}
	out := make([]rating.Rating, 0, len(rows))
	for _, row := range rows {
		out = append(out, ratingFromRow(row))
	}
	return out, nil
}

func ratingFromRow(row eloRatingTableModel) rating.Rating {
	return rating.Rating{
		PlayerID:  row.PlayerID,
		League:    row.League,
		Rating:    row.Rating,
		Wins:      row.Wins,
		Losses:    row.Losses,
		UpdatedAt: row.UpdatedAt,
	}
}
