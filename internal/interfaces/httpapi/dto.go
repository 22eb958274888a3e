package httpapi

import (
	"time"

	"github.com/riskibarqy/scrim-matchmaker/internal/domain/ban"
	"github.com/riskibarqy/scrim-matchmaker/internal/domain/gamemap"
	"github.com/riskibarqy/scrim-matchmaker/internal/domain/player"
	"github.com/riskibarqy/scrim-matchmaker/internal/domain/rating"
	"github.com/riskibarqy/scrim-matchmaker/internal/domain/scrim"
	"github.com/riskibarqy/scrim-matchmaker/internal/usecase"
)

type discordRequest struct {
	DiscordID string `json:"discord_id" validate:"required,max=32"`
}

type resetQueueRequest struct {
	League string `json:"league" validate:"omitempty,max=64"`
}

type registerPlayerRequest struct {
	DiscordID string `json:"discord_id" validate:"required,max=32"`
	Username  string `json:"username" validate:"required,max=100"`
	League    string `json:"league" validate:"required,max=64"`
}

type updateLeagueRequest struct {
	League string `json:"league" validate:"required,max=64"`
}

type banPlayerRequest struct {
	DiscordID       string `json:"discord_id" validate:"required,max=32"`
	DurationMinutes int    `json:"duration_minutes" validate:"required,min=1,max=525600"`
	Reason          string `json:"reason" validate:"required,max=255"`
}

type addMapRequest struct {
	Name   string `json:"name" validate:"required,max=255"`
	UID    string `json:"uid" validate:"required,max=64"`
	Author string `json:"author" validate:"omitempty,max=255"`
}

type setMapActiveRequest struct {
	Active *bool `json:"active" validate:"required"`
}

type submitResultRequest struct {
	WinnerTeam *int                `json:"winner_team" validate:"omitempty,min=1"`
	Stats      []resultStatRequest `json:"stats" validate:"required,min=1,dive"`
}

type resultStatRequest struct {
	PlayerID   int64 `json:"player_id" validate:"required,min=1"`
	TeamID     int   `json:"team_id" validate:"required,min=1"`
	Points     int   `json:"points" validate:"min=0"`
	IsFinished bool  `json:"is_finished"`
	IsDNF      bool  `json:"is_dnf"`
	NbRespawns int   `json:"nb_respawns" validate:"min=0"`
}

type playerDTO struct {
	ID        int64  `json:"id"`
	DiscordID string `json:"discord_id"`
	Username  string `json:"username"`
	League    string `json:"league"`
}

func playerToDTO(p player.Player) playerDTO {
	return playerDTO{
		ID:        p.ID,
		DiscordID: p.DiscordID,
		Username:  p.Username,
		League:    p.League,
	}
}

type mapDTO struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	UID      string `json:"uid"`
	Author   string `json:"author,omitempty"`
	IsActive bool   `json:"is_active"`
}

func mapToDTO(m gamemap.Map) mapDTO {
	return mapDTO{
		ID:       m.ID,
		Name:     m.Name,
		UID:      m.UID,
		Author:   m.Author,
		IsActive: m.IsActive,
	}
}

type scrimDTO struct {
	ID              int64      `json:"id"`
	UID             string     `json:"scrim_uid"`
	League          string     `json:"league"`
	Status          string     `json:"status"`
	MatchType       string     `json:"match_type"`
	WinnerTeam      *int       `json:"winner_team,omitempty"`
	RatingProcessed bool       `json:"elo_processed"`
	CreatedAt       time.Time  `json:"created_at"`
	CheckInDeadline *time.Time `json:"checkin_deadline,omitempty"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
}

func scrimToDTO(s scrim.Scrim) scrimDTO {
	return scrimDTO{
		ID:              s.ID,
		UID:             s.UID,
		League:          s.League,
		Status:          string(s.Status),
		MatchType:       s.MatchType,
		WinnerTeam:      s.WinnerTeam,
		RatingProcessed: s.RatingProcessed,
		CreatedAt:       s.CreatedAt,
		CheckInDeadline: s.CheckInDeadline,
		CompletedAt:     s.CompletedAt,
	}
}

func scrimsToDTO(items []scrim.Scrim) []scrimDTO {
	out := make([]scrimDTO, 0, len(items))
	for _, item := range items {
		out = append(out, scrimToDTO(item))
	}
	return out
}

type scrimParticipantDTO struct {
	PlayerID  int64      `json:"player_id"`
	DiscordID string     `json:"discord_id,omitempty"`
	Username  string     `json:"username,omitempty"`
	CheckedIn bool       `json:"checked_in"`
	CheckInAt *time.Time `json:"checkin_at,omitempty"`
}

type scrimMapDTO struct {
	Order int    `json:"order"`
	MapID int64  `json:"map_id"`
	Name  string `json:"name,omitempty"`
	UID   string `json:"uid,omitempty"`
}

type scrimDetailDTO struct {
	scrimDTO
	Players []scrimParticipantDTO `json:"players"`
	Maps    []scrimMapDTO         `json:"maps"`
}

type banDTO struct {
	ID         int64     `json:"id"`
	PlayerID   int64     `json:"player_id"`
	Start      time.Time `json:"ban_start"`
	End        time.Time `json:"ban_end"`
	Reason     string    `json:"reason"`
	DodgeCount int       `json:"dodge_count"`
	IsManual   bool      `json:"is_manual"`
}

func banToDTO(b ban.Ban) banDTO {
	return banDTO{
		ID:         b.ID,
		PlayerID:   b.PlayerID,
		Start:      b.Start,
		End:        b.End,
		Reason:     b.Reason,
		DodgeCount: b.DodgeCount,
		IsManual:   b.IsManual,
	}
}

type ratingDTO struct {
	Rank     int    `json:"rank,omitempty"`
	PlayerID int64  `json:"player_id"`
	Username string `json:"username,omitempty"`
	League   string `json:"league"`
	Rating   int    `json:"rating"`
	Wins     int    `json:"wins"`
	Losses   int    `json:"losses"`
}

func ratingToDTO(r rating.Rating) ratingDTO {
	return ratingDTO{
		PlayerID: r.PlayerID,
		League:   r.League,
		Rating:   r.Rating,
		Wins:     r.Wins,
		Losses:   r.Losses,
	}
}

type profileDTO struct {
	Player              playerDTO  `json:"player"`
	Banned              bool       `json:"banned"`
	BanMinutesRemaining int64      `json:"ban_minutes_remaining,omitempty"`
	RecentDodges        int        `json:"recent_dodges"`
	Rating              ratingDTO  `json:"rating"`
	CompletedScrims     int        `json:"completed_scrims"`
	RecentScrims        []scrimDTO `json:"recent_scrims"`
}

func profileToDTO(p usecase.PlayerProfile) profileDTO {
	return profileDTO{
		Player:              playerToDTO(p.Player),
		Banned:              p.Banned,
		BanMinutesRemaining: ceilMinutes(p.BanSecondsRemaining),
		RecentDodges:        p.RecentDodges,
		Rating:              ratingToDTO(p.Rating),
		CompletedScrims:     p.CompletedScrims,
		RecentScrims:        scrimsToDTO(p.RecentScrims),
	}
}

type dodgesDTO struct {
	Player       playerDTO `json:"player"`
	RecentDodges int       `json:"recent_dodges"`
	Bans         []banDTO  `json:"bans"`
}

type updateDTO struct {
	PlayerID  int64   `json:"player_id"`
	TeamID    int     `json:"team_id"`
	OldRating int     `json:"old_rating"`
	NewRating int     `json:"new_rating"`
	Result    float64 `json:"result"`
}

type submitResultDTO struct {
	Scrim            scrimDTO    `json:"scrim"`
	AlreadyProcessed bool        `json:"already_processed"`
	Updates          []updateDTO `json:"updates"`
}

func submitResultToDTO(out usecase.SubmitResultOutput) submitResultDTO {
	updates := make([]updateDTO, 0, len(out.Updates))
	for _, u := range out.Updates {
		updates = append(updates, updateDTO{
			PlayerID:  u.PlayerID,
			TeamID:    u.TeamID,
			OldRating: u.OldRating,
			NewRating: u.NewRating,
			Result:    u.Result,
		})
	}
	return submitResultDTO{
		Scrim:            scrimToDTO(out.Scrim),
		AlreadyProcessed: out.AlreadyProcessed,
		Updates:          updates,
	}
}

func ceilMinutes(seconds int64) int64 {
	if seconds <= 0 {
		return 0
	}
	return (seconds + 59) / 60
}
