package postgres

import "time"

type playerTableModel struct {
	ID        int64     `db:"id"`
	DiscordID string    `db:"discord_id"`
	Username  string    `db:"discord_username"`
	League    string    `db:"league"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type playerInsertModel struct {
	DiscordID string `db:"discord_id"`
	Username  string `db:"discord_username"`
	League    string `db:"league"`
}
