package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/scrim-matchmaker/internal/domain/gamemap"
	qb "github.com/riskibarqy/scrim-matchmaker/internal/platform/querybuilder"
)

type MapRepository struct {
	db *sqlx.DB
}

var mapSelectColumns = []string{
	"m.id",
	"m.name",
	"m.uid",
	"m.author",
	"m.is_active",
	"m.created_at",
}

func NewMapRepository(db *sqlx.DB) *MapRepository {
	return &MapRepository{db: db}
}

func (r *MapRepository) ListActive(ctx context.Context) ([]gamemap.Map, error) {
	query, args, err := qb.Select(mapSelectColumns...).From("maps m").
		Where(qb.Eq("m.is_active", true)).
		OrderBy("m.name").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list active maps query: %w", err)
	}
	return r.selectMaps(ctx, query, args)
}

func (r *MapRepository) ListByIDs(ctx context.Context, ids []int64) ([]gamemap.Map, error) {
	if len(ids) == 0 {
		return []gamemap.Map{}, nil
	}
	query, args, err := qb.Select(mapSelectColumns...).From("maps m").
		Where(qb.In("m.id", int64SliceToAny(ids))).
		OrderBy("m.id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list maps by ids query: %w", err)
	}
	return r.selectMaps(ctx, query, args)
}

func (r *MapRepository) selectMaps(ctx context.Context, query string, args []any) ([]gamemap.Map, error) {
	var rows []mapTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select maps: %w", err)
	}
	out := make([]gamemap.Map, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapFromRow(row))
	}
	return out, nil
}

// PlayCounts left-joins the play history so never-played maps count zero.
func (r *MapRepository) PlayCounts(ctx context.Context, playerIDs []int64, since time.Time) ([]gamemap.PlayCount, error) {
	placeholders := make([]string, len(playerIDs))
	joinArgs := make([]any, 0, len(playerIDs)+1)
	for i, id := range playerIDs {
		placeholders[i] = "?"
		joinArgs = append(joinArgs, id)
	}
	joinArgs = append(joinArgs, since)

	playerFilter := "FALSE"
	if len(playerIDs) > 0 {
		playerFilter = "h.player_id IN (" + strings.Join(placeholders, ", ") + ")"
	}

	query, args, err := qb.Select(append(append([]string(nil), mapSelectColumns...), "COUNT(h.id) AS play_count")...).
		From("maps m").
		Join("LEFT JOIN map_play_history h ON h.map_id = m.id AND "+playerFilter+" AND h.played_at > ?", joinArgs...).
		Where(qb.Eq("m.is_active", true)).
		GroupBy(mapSelectColumns...).
		OrderBy("play_count ASC", "m.name ASC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build map play counts query: %w", err)
	}

	var rows []mapPlayCountRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select map play counts: %w", err)
	}

	out := make([]gamemap.PlayCount, 0, len(rows))
	for _, row := range rows {
		out = append(out, gamemap.PlayCount{Map: mapFromRow(row.mapTableModel), Count: row.PlayCount})
	}
	return out, nil
}

func (r *MapRepository) RecordPlays(ctx context.Context, plays []gamemap.Play) error {
	if len(plays) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx record map plays: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	insert := qb.InsertInto("map_play_history").Columns("player_id", "map_id", "played_at")
	for _, play := range plays {
		insert.Values(play.PlayerID, play.MapID, play.PlayedAt)
	}
	query, args, err := insert.ToSQL()
	if err != nil {
		return fmt.Errorf("build insert map plays query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert map plays: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit record map plays: %w", err)
	}
	return nil
}

func (r *MapRepository) Create(ctx context.Context, m gamemap.Map) (gamemap.Map, error) {
	author := sql.NullString{String: m.Author, Valid: strings.TrimSpace(m.Author) != ""}
	query, args, err := qb.InsertModel("maps", mapInsertModel{
		Name:     m.Name,
		UID:      m.UID,
		Author:   author,
		IsActive: m.IsActive,
	}, "RETURNING id, name, uid, author, is_active, created_at")
	if err != nil {
		return gamemap.Map{}, fmt.Errorf("build insert map query: %w", err)
	}

	var row mapTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return gamemap.Map{}, fmt.Errorf("insert map: %w", err)
	}
	return mapFromRow(row), nil
}

func (r *MapRepository) SetActive(ctx context.Context, id int64, active bool) (bool, error) {
	query, args, err := qb.Update("maps").
		Set("is_active", active).
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build set map active query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("set map active: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("read affected rows: %w", err)
	}
	return affected > 0, nil
}

func mapFromRow(row mapTableModel) gamemap.Map {
	return gamemap.Map{
		ID:        row.ID,
		Name:      row.Name,
		UID:       row.UID,
		Author:    nullStringValue(row.Author),
		IsActive:  row.IsActive,
		CreatedAt: row.CreatedAt,
	}
}
