package postgres

import (
	"database/sql"
	"time"
)

type scrimTableModel struct {
	ID              int64         `db:"id"`
	UID             string        `db:"scrim_uid"`
	League          string        `db:"league"`
	Status          string        `db:"status"`
	MatchType       string        `db:"match_type"`
	WinnerTeam      sql.NullInt64 `db:"winner_team"`
	EloProcessed    bool          `db:"elo_processed"`
	CreatedAt       time.Time     `db:"created_at"`
	CheckInDeadline sql.NullTime  `db:"checkin_deadline"`
	CompletedAt     sql.NullTime  `db:"completed_at"`
}

type scrimInsertModel struct {
	UID             string    `db:"scrim_uid"`
	League          string    `db:"league"`
	Status          string    `db:"status"`
	MatchType       string    `db:"match_type"`
	CreatedAt       time.Time `db:"created_at"`
	CheckInDeadline time.Time `db:"checkin_deadline"`
}

type scrimPlayerTableModel struct {
	ID        int64        `db:"id"`
	ScrimID   int64        `db:"scrim_id"`
	PlayerID  int64        `db:"player_id"`
	CheckedIn bool         `db:"checked_in"`
	CheckInAt sql.NullTime `db:"checkin_at"`
}

type scrimMapTableModel struct {
	ID       int64 `db:"id"`
	ScrimID  int64 `db:"scrim_id"`
	MapID    int64 `db:"map_id"`
	MapOrder int   `db:"map_order"`
}
