package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/riskibarqy/scrim-matchmaker/internal/domain/player"
	"github.com/riskibarqy/scrim-matchmaker/internal/usecase"
)

const dodgeHistoryLimit = 10

type resetQueueResult struct {
	League  string `json:"league,omitempty"`
	Removed int    `json:"removed"`
}

type unbanResult struct {
	PlayerID int64 `json:"player_id"`
	Removed  int64 `json:"removed"`
}

type cancelScrimResult struct {
	ScrimID   int64 `json:"scrim_id"`
	Cancelled bool  `json:"cancelled"`
}

func (h *Handler) ResetQueue(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ResetQueue")
	defer span.End()

	var req resetQueueRequest
	if r.ContentLength != 0 {
		if err := h.decodeAndValidate(ctx, r, &req); err != nil {
			writeError(ctx, w, err)
			return
		}
	}

	if strings.TrimSpace(req.League) == "" {
		removed := h.queueService.ClearAll()
		h.logger.InfoContext(ctx, "all queues reset", "removed", removed)
		writeSuccess(ctx, w, http.StatusOK, resetQueueResult{Removed: removed})
		return
	}

	canonical, err := h.leagues.Normalize(req.League)
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err))
		return
	}
	removed, err := h.queueService.ClearLeague(canonical)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, resetQueueResult{League: canonical, Removed: removed})
}

func (h *Handler) RegisterPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RegisterPlayer")
	defer span.End()

	var req registerPlayerRequest
	if err := h.decodeAndValidate(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	created, err := h.playerService.Register(ctx, usecase.RegisterPlayerInput{
		DiscordID: req.DiscordID,
		Username:  req.Username,
		League:    req.League,
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusCreated, playerToDTO(created))
}

func (h *Handler) UpdatePlayerLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdatePlayerLeague")
	defer span.End()

	var req updateLeagueRequest
	if err := h.decodeAndValidate(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	updated, err := h.playerService.UpdateLeague(ctx, r.PathValue("discordID"), req.League)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, playerToDTO(updated))
}

func (h *Handler) GetPlayerDodges(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayerDodges")
	defer span.End()

	item, err := h.requirePlayer(ctx, r.PathValue("discordID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	count, err := h.banService.RecentDodgeCount(ctx, item.ID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	history, err := h.banService.History(ctx, item.ID, dodgeHistoryLimit)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	out := dodgesDTO{
		Player:       playerToDTO(item),
		RecentDodges: count,
		Bans:         make([]banDTO, 0, len(history)),
	}
	for _, b := range history {
		out.Bans = append(out.Bans, banToDTO(b))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) BanPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.BanPlayer")
	defer span.End()

	var req banPlayerRequest
	if err := h.decodeAndValidate(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.requirePlayer(ctx, req.DiscordID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	created, err := h.banService.ApplyManualBan(ctx, item.ID, time.Duration(req.DurationMinutes)*time.Minute, req.Reason)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if position, queued := h.queueService.QueuedLeague(item.DiscordID); queued {
		h.queueService.Leave(ctx, item.DiscordID)
		h.logger.InfoContext(ctx, "banned player removed from queue", "player_id", item.ID, "league", position.League)
	}
	writeSuccess(ctx, w, http.StatusCreated, banToDTO(created))
}

func (h *Handler) UnbanPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UnbanPlayer")
	defer span.End()

	item, err := h.requirePlayer(ctx, r.PathValue("discordID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	removed, err := h.banService.Unban(ctx, item.ID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, unbanResult{PlayerID: item.ID, Removed: removed})
}

func (h *Handler) CancelScrim(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CancelScrim")
	defer span.End()

	scrimID, err := pathInt64(r, "scrimID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	cancelled, err := h.queueService.ForceCancel(ctx, scrimID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, cancelScrimResult{ScrimID: scrimID, Cancelled: cancelled})
}

func (h *Handler) AddMap(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AddMap")
	defer span.End()

	var req addMapRequest
	if err := h.decodeAndValidate(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	created, err := h.mapService.AddMap(ctx, usecase.AddMapInput{
		Name:   req.Name,
		UID:    req.UID,
		Author: req.Author,
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusCreated, mapToDTO(created))
}

func (h *Handler) SetMapActive(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SetMapActive")
	defer span.End()

	mapID, err := pathInt64(r, "mapID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req setMapActiveRequest
	if err := h.decodeAndValidate(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.mapService.SetActive(ctx, mapID, *req.Active); err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, map[string]any{"map_id": mapID, "is_active": *req.Active})
}

func (h *Handler) requirePlayer(ctx context.Context, discordID string) (player.Player, error) {
	item, exists, err := h.playerService.GetByDiscordID(ctx, discordID)
	if err != nil {
		return player.Player{}, err
	}
	if !exists {
		return player.Player{}, fmt.Errorf("%w: player=%s", usecase.ErrNotFound, discordID)
	}
	return item, nil
}
