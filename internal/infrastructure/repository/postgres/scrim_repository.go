package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/scrim-matchmaker/internal/domain/scrim"
	qb "github.com/riskibarqy/scrim-matchmaker/internal/platform/querybuilder"
)

type ScrimRepository struct {
	db *sqlx.DB
}

var scrimSelectColumns = []string{
	"s.id",
	"s.scrim_uid",
	"s.league",
	"s.status",
	"s.match_type",
	"s.winner_team",
	"s.elo_processed",
	"s.created_at",
	"s.checkin_deadline",
	"s.completed_at",
}

var scrimReturningColumns = []string{
	"id",
	"scrim_uid",
	"league",
	"status",
	"match_type",
	"winner_team",
	"elo_processed",
	"created_at",
	"checkin_deadline",
	"completed_at",
}

func NewScrimRepository(db *sqlx.DB) *ScrimRepository {
	return &ScrimRepository{db: db}
}

func (r *ScrimRepository) Create(ctx context.Context, params scrim.CreateParams) (scrim.Scrim, error) {
	if err := params.Validate(); err != nil {
		return scrim.Scrim{}, err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return scrim.Scrim{}, fmt.Errorf("begin tx create scrim: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query, args, err := qb.InsertModel("scrims", scrimInsertModel{
		UID:             params.UID,
		League:          params.League,
		Status:          string(scrim.StatusCheckingIn),
		MatchType:       params.MatchType,
		CreatedAt:       params.CreatedAt,
		CheckInDeadline: params.CheckInDeadline,
	}, "RETURNING "+joinColumns(scrimReturningColumns))
	if err != nil {
		return scrim.Scrim{}, fmt.Errorf("build insert scrim query: %w", err)
	}

	var row scrimTableModel
	if err := tx.GetContext(ctx, &row, query, args...); err != nil {
		if isUniqueViolation(err) {
			return scrim.Scrim{}, fmt.Errorf("%w: %s", scrim.ErrDuplicateUID, params.UID)
		}
		return scrim.Scrim{}, fmt.Errorf("insert scrim: %w", err)
	}

	players := qb.InsertInto("scrim_players").Columns("scrim_id", "player_id", "checked_in")
	for _, playerID := range params.PlayerIDs {
		players.Values(row.ID, playerID, false)
	}
	playerQuery, playerArgs, err := players.ToSQL()
	if err != nil {
		return scrim.Scrim{}, fmt.Errorf("build insert scrim players query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, playerQuery, playerArgs...); err != nil {
		return scrim.Scrim{}, fmt.Errorf("insert scrim players: %w", err)
	}

	if len(params.MapIDs) > 0 {
		maps := qb.InsertInto("scrim_maps").Columns("scrim_id", "map_id", "map_order")
		for i, mapID := range params.MapIDs {
			maps.Values(row.ID, mapID, i+1)
		}
		mapQuery, mapArgs, err := maps.ToSQL()
		if err != nil {
			return scrim.Scrim{}, fmt.Errorf("build insert scrim maps query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, mapQuery, mapArgs...); err != nil {
			return scrim.Scrim{}, fmt.Errorf("insert scrim maps: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return scrim.Scrim{}, fmt.Errorf("commit create scrim: %w", err)
	}
	return scrimFromRow(row), nil
}

func (r *ScrimRepository) GetByID(ctx context.Context, id int64) (scrim.Scrim, bool, error) {
	return r.getOne(ctx, qb.Eq("s.id", id))
}

func (r *ScrimRepository) GetByUID(ctx context.Context, uid string) (scrim.Scrim, bool, error) {
	return r.getOne(ctx, qb.Eq("s.scrim_uid", uid))
}

func (r *ScrimRepository) getOne(ctx context.Context, cond qb.Condition) (scrim.Scrim, bool, error) {
	query, args, err := qb.Select(scrimSelectColumns...).From("scrims s").Where(cond).ToSQL()
	if err != nil {
		return scrim.Scrim{}, false, fmt.Errorf("build get scrim query: %w", err)
	}

	var row scrimTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return scrim.Scrim{}, false, nil
		}
		return scrim.Scrim{}, false, fmt.Errorf("get scrim: %w", err)
	}
	return scrimFromRow(row), true, nil
}

func (r *ScrimRepository) ListPlayers(ctx context.Context, scrimID int64) ([]scrim.Player, error) {
	query, args, err := qb.Select("id", "scrim_id", "player_id", "checked_in", "checkin_at").
		From("scrim_players").
		Where(qb.Eq("scrim_id", scrimID)).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list scrim players query: %w", err)
	}

	var rows []scrimPlayerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list scrim players: %w", err)
	}

	out := make([]scrim.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, scrim.Player{
			ID:        row.ID,
			ScrimID:   row.ScrimID,
			PlayerID:  row.PlayerID,
			CheckedIn: row.CheckedIn,
			CheckInAt: nullTimeToPtr(row.CheckInAt),
		})
	}
	return out, nil
}

func (r *ScrimRepository) ListMaps(ctx context.Context, scrimID int64) ([]scrim.Map, error) {
	query, args, err := qb.Select("id", "scrim_id", "map_id", "map_order").
		From("scrim_maps").
		Where(qb.Eq("scrim_id", scrimID)).
		OrderBy("map_order").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list scrim maps query: %w", err)
	}

	var rows []scrimMapTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list scrim maps: %w", err)
	}

	out := make([]scrim.Map, 0, len(rows))
	for _, row := range rows {
		out = append(out, scrim.Map{ID: row.ID, ScrimID: row.ScrimID, MapID: row.MapID, Order: row.MapOrder})
	}
	return out, nil
}

func (r *ScrimRepository) CheckIn(ctx context.Context, scrimID, playerID int64, at time.Time) (bool, error) {
	query, args, err := checkInQuery(scrimID, playerID, at)
	if err != nil {
		return false, fmt.Errorf("build check in query: %w", err)
	}
	return r.execAffected(ctx, query, args, "check in player")
}

// checkInQuery only touches rows of a scrim that is still checking_in, so a
// check-in racing the deadline cannot land on a cancelled scrim.
func checkInQuery(scrimID, playerID int64, at time.Time) (string, []any, error) {
	return qb.Update("scrim_players").
		Set("checked_in", true).
		Set("checkin_at", at).
		Where(
			qb.Eq("scrim_id", scrimID),
			qb.Eq("player_id", playerID),
			qb.Eq("checked_in", false),
			qb.Expr("EXISTS (SELECT 1 FROM scrims s WHERE s.id = scrim_players.scrim_id AND s.status = ?)", string(scrim.StatusCheckingIn)),
		).
		ToSQL()
}

func (r *ScrimRepository) UpdateStatus(ctx context.Context, scrimID int64, from []scrim.Status, to scrim.Status, completedAt *time.Time) (bool, error) {
	if len(from) == 0 {
		return false, fmt.Errorf("%w: no source status for %s", scrim.ErrInvalidTransition, to)
	}
	sources := make([]any, 0, len(from))
	for _, s := range from {
		sources = append(sources, string(s))
	}

	update := qb.Update("scrims").Set("status", string(to))
	if completedAt != nil {
		update.SetExpr("completed_at", "COALESCE(completed_at, ?)", *completedAt)
	}
	query, args, err := update.
		Where(qb.Eq("id", scrimID), qb.In("status", sources)).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build update scrim status query: %w", err)
	}
	return r.execAffected(ctx, query, args, "update scrim status")
}

func (r *ScrimRepository) SetWinner(ctx context.Context, scrimID int64, winnerTeam int) error {
	query, args, err := qb.Update("scrims").
		Set("winner_team", winnerTeam).
		Where(qb.Eq("id", scrimID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build set winner query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("set scrim winner: %w", err)
	}
	return nil
}

func (r *ScrimRepository) ListActiveByLeague(ctx context.Context, league string) ([]scrim.Scrim, error) {
	query, args, err := qb.Select(scrimSelectColumns...).From("scrims s").
		Where(
			qb.Eq("s.league", league),
			qb.In("s.status", []any{string(scrim.StatusCheckingIn), string(scrim.StatusActive)}),
		).
		OrderBy("s.created_at DESC", "s.id DESC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list active scrims query: %w", err)
	}
	return r.selectScrims(ctx, query, args)
}

func (r *ScrimRepository) ListRecentByPlayer(ctx context.Context, playerID int64, limit int) ([]scrim.Scrim, error) {
	query, args, err := qb.Select(scrimSelectColumns...).From("scrims s").
		Join("JOIN scrim_players sp ON sp.scrim_id = s.id").
		Where(qb.Eq("sp.player_id", playerID)).
		OrderBy("s.created_at DESC", "s.id DESC").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list recent scrims query: %w", err)
	}
	return r.selectScrims(ctx, query, args)
}

func (r *ScrimRepository) LatestCheckingInByPlayer(ctx context.Context, playerID int64) (scrim.Scrim, bool, error) {
	query, args, err := qb.Select(scrimSelectColumns...).From("scrims s").
		Join("JOIN scrim_players sp ON sp.scrim_id = s.id").
		Where(
			qb.Eq("sp.player_id", playerID),
			qb.Eq("s.status", string(scrim.StatusCheckingIn)),
		).
		OrderBy("s.created_at DESC", "s.id DESC").
		Limit(1).
		ToSQL()
	if err != nil {
		return scrim.Scrim{}, false, fmt.Errorf("build latest checking_in scrim query: %w", err)
	}

	var row scrimTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return scrim.Scrim{}, false, nil
		}
		return scrim.Scrim{}, false, fmt.Errorf("get latest checking_in scrim: %w", err)
	}
	return scrimFromRow(row), true, nil
}

func (r *ScrimRepository) selectScrims(ctx context.Context, query string, args []any) ([]scrim.Scrim, error) {
	var rows []scrimTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select scrims: %w", err)
	}
	out := make([]scrim.Scrim, 0, len(rows))
	for _, row := range rows {
		out = append(out, scrimFromRow(row))
	}
	return out, nil
}

func (r *ScrimRepository) execAffected(ctx context.Context, query string, args []any, op string) (bool, error) {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: read affected rows: %w", op, err)
	}
	return affected > 0, nil
}

func scrimFromRow(row scrimTableModel) scrim.Scrim {
	return scrim.Scrim{
		ID:              row.ID,
		UID:             row.UID,
		League:          row.League,
		Status:          scrim.Status(row.Status),
		MatchType:       row.MatchType,
		WinnerTeam:      nullInt64ToIntPtr(row.WinnerTeam),
		RatingProcessed: row.EloProcessed,
		CreatedAt:       row.CreatedAt,
		CheckInDeadline: nullTimeToPtr(row.CheckInDeadline),
		CompletedAt:     nullTimeToPtr(row.CompletedAt),
	}
}
