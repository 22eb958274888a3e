package postgres

import "time"

type eloRatingTableModel struct {
	PlayerID  int64     `db:"player_id"`
	League    string    `db:"league"`
	Rating    int       `db:"rating"`
	Wins      int       `db:"wins"`
	Losses    int       `db:"losses"`
	UpdatedAt time.Time `db:"updated_at"`
}

type matchPlayerStatTableModel struct {
	ScrimID    int64     `db:"scrim_id"`
	PlayerID   int64     `db:"player_id"`
	TeamID     int       `db:"team_id"`
	Points     int       `db:"points"`
	IsFinished bool      `db:"is_finished"`
	IsDNF      bool      `db:"is_dnf"`
	NbRespawns int       `db:"nb_respawns"`
	CreatedAt  time.Time `db:"created_at"`
}
