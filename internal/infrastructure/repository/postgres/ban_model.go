package postgres

import "time"

type banTableModel struct {
	ID         int64     `db:"id"`
	PlayerID   int64     `db:"player_id"`
	BanStart   time.Time `db:"ban_start"`
	BanEnd     time.Time `db:"ban_end"`
	Reason     string    `db:"reason"`
	DodgeCount int       `db:"dodge_count"`
	IsManual   bool      `db:"is_manual"`
	CreatedAt  time.Time `db:"created_at"`
}

type banInsertModel struct {
	PlayerID   int64     `db:"player_id"`
	BanStart   time.Time `db:"ban_start"`
	BanEnd     time.Time `db:"ban_end"`
	Reason     string    `db:"reason"`
	DodgeCount int       `db:"dodge_count"`
	IsManual   bool      `db:"is_manual"`
}
