package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/scrim-matchmaker/internal/domain/ban"
	qb "github.com/riskibarqy/scrim-matchmaker/internal/platform/querybuilder"
)

type BanRepository struct {
	db *sqlx.DB
}

var banSelectColumns = []string{
	"id",
	"player_id",
	"ban_start",
	"ban_end",
	"reason",
	"dodge_count",
	"is_manual",
	"created_at",
}

func NewBanRepository(db *sqlx.DB) *BanRepository {
	return &BanRepository{db: db}
}

func (r *BanRepository) Create(ctx context.Context, b ban.Ban) (ban.Ban, error) {
	query, args, err := qb.InsertModel("queue_bans", banInsertModel{
		PlayerID:   b.PlayerID,
		BanStart:   b.Start,
		BanEnd:     b.End,
		Reason:     b.Reason,
		DodgeCount: b.DodgeCount,
		IsManual:   b.IsManual,
	}, "RETURNING "+joinColumns(banSelectColumns))
	if err != nil {
		return ban.Ban{}, fmt.Errorf("build insert ban query: %w", err)
	}

	var row banTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return ban.Ban{}, fmt.Errorf("insert ban: %w", err)
	}
	return banFromRow(row), nil
}

func (r *BanRepository) GetActive(ctx context.Context, playerID int64, now time.Time) (ban.Ban, bool, error) {
	query, args, err := qb.Select(banSelectColumns...).From("queue_bans").
		Where(
			qb.Eq("player_id", playerID),
			qb.Expr("ban_start <= ?", now),
			qb.Gt("ban_end", now),
		).
		OrderBy("ban_end DESC").
		Limit(1).
		ToSQL()
	if err != nil {
		return ban.Ban{}, false, fmt.Errorf("build get active ban query: %w", err)
	}

	var row banTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return ban.Ban{}, false, nil
		}
		return ban.Ban{}, false, fmt.Errorf("get active ban: %w", err)
	}
	return banFromRow(row), true, nil
}

func (r *BanRepository) CountDodgesSince(ctx context.Context, playerID int64, since time.Time) (int, error) {
	query, args, err := qb.Select("COUNT(1)").From("queue_bans").
		Where(
			qb.Eq("player_id", playerID),
			qb.Eq("is_manual", false),
			qb.Gt("ban_start", since),
		).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count dodges query: %w", err)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count dodges: %w", err)
	}
	return count, nil
}

func (r *BanRepository) EndActive(ctx context.Context, playerID int64, now time.Time) (int64, error) {
	query, args, err := qb.Update("queue_bans").
		Set("ban_end", now).
		Where(
			qb.Eq("player_id", playerID),
			qb.Expr("ban_start <= ?", now),
			qb.Gt("ban_end", now),
		).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build end active bans query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("end active bans: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("read affected rows: %w", err)
	}
	return affected, nil
}

func (r *BanRepository) ListByPlayer(ctx context.Context, playerID int64, limit int) ([]ban.Ban, error) {
	query, args, err := qb.Select(banSelectColumns...).From("queue_bans").
		Where(qb.Eq("player_id", playerID)).
		OrderBy("ban_start DESC", "id DESC").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list bans query: %w", err)
	}

	var rows []banTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list bans: %w", err)
	}

	out := make([]ban.Ban, 0, len(rows))
	for _, row := range rows {
		out = append(out, banFromRow(row))
	}
	return out, nil
}

func banFromRow(row banTableModel) ban.Ban {
	return ban.Ban{
		ID:         row.ID,
		PlayerID:   row.PlayerID,
		Start:      row.BanStart,
		End:        row.BanEnd,
		Reason:     row.Reason,
		DodgeCount: row.DodgeCount,
		IsManual:   row.IsManual,
		CreatedAt:  row.CreatedAt,
	}
}
