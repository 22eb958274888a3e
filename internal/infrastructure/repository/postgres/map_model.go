package postgres

import (
	"database/sql"
	"time"
)

type mapTableModel struct {
	ID        int64          `db:"id"`
	Name      string         `db:"name"`
	UID       string         `db:"uid"`
	Author    sql.NullString `db:"author"`
	IsActive  bool           `db:"is_active"`
	CreatedAt time.Time      `db:"created_at"`
}

type mapPlayCountRow struct {
	mapTableModel
	PlayCount int `db:"play_count"`
}

type mapInsertModel struct {
	Name     string         `db:"name"`
	UID      string         `db:"uid"`
	Author   sql.NullString `db:"author"`
	IsActive bool           `db:"is_active"`
}
