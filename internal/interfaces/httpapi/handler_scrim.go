package httpapi

import (
	"fmt"
	"net/http"

	"github.com/riskibarqy/scrim-matchmaker/internal/domain/gamemap"
	"github.com/riskibarqy/scrim-matchmaker/internal/domain/player"
	"github.com/riskibarqy/scrim-matchmaker/internal/usecase"
)

func (h *Handler) GetScrim(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetScrim")
	defer span.End()

	uid := r.PathValue("scrimUID")
	item, exists, err := h.scrimService.GetByUID(ctx, uid)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if !exists {
		writeError(ctx, w, fmt.Errorf("%w: scrim=%s", usecase.ErrNotFound, uid))
		return
	}

	participants, err := h.scrimService.Players(ctx, item.ID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	assigned, err := h.scrimService.Maps(ctx, item.ID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	playerIDs := make([]int64, 0, len(participants))
	for _, p := range participants {
		playerIDs = append(playerIDs, p.PlayerID)
	}
	players, err := h.playerService.GetByIDs(ctx, playerIDs)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	playersByID := make(map[int64]player.Player, len(players))
	for _, p := range players {
		playersByID[p.ID] = p
	}

	mapIDs := make([]int64, 0, len(assigned))
	for _, m := range assigned {
		mapIDs = append(mapIDs, m.MapID)
	}
	maps, err := h.mapService.ByIDs(ctx, mapIDs)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	mapsByID := make(map[int64]gamemap.Map, len(maps))
	for _, m := range maps {
		mapsByID[m.ID] = m
	}

	out := scrimDetailDTO{
		scrimDTO: scrimToDTO(item),
		Players:  make([]scrimParticipantDTO, 0, len(participants)),
		Maps:     make([]scrimMapDTO, 0, len(assigned)),
	}
	for _, p := range participants {
		info := playersByID[p.PlayerID]
		out.Players = append(out.Players, scrimParticipantDTO{
			PlayerID:  p.PlayerID,
			DiscordID: info.DiscordID,
			Username:  info.Username,
			CheckedIn: p.CheckedIn,
			CheckInAt: p.CheckInAt,
		})
	}
	for _, m := range assigned {
		info := mapsByID[m.MapID]
		out.Maps = append(out.Maps, scrimMapDTO{
			Order: m.Order,
			MapID: m.MapID,
			Name:  info.Name,
			UID:   info.UID,
		})
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) ListActiveScrims(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListActiveScrims")
	defer span.End()

	leagueName, err := h.pathLeague(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.scrimService.ActiveByLeague(ctx, leagueName)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, scrimsToDTO(items))
}

func (h *Handler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Leaderboard")
	defer span.End()

	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.ratingService.Leaderboard(ctx, r.PathValue("league"), limit)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	ids := make([]int64, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.PlayerID)
	}
	players, err := h.playerService.GetByIDs(ctx, ids)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	names := make(map[int64]string, len(players))
	for _, p := range players {
		names[p.ID] = p.Username
	}

	out := make([]ratingDTO, 0, len(items))
	for i, item := range items {
		row := ratingToDTO(item)
		row.Rank = i + 1
		row.Username = names[item.PlayerID]
		out = append(out, row)
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}
