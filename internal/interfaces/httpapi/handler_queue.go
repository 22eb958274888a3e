package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/riskibarqy/scrim-matchmaker/internal/usecase"
)

func (h *Handler) JoinQueue(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.JoinQueue")
	defer span.End()

	var req discordRequest
	if err := h.decodeAndValidate(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result := h.queueService.Join(ctx, req.DiscordID)
	if !result.Accepted {
		h.logger.InfoContext(ctx, "queue join refused", "discord_id", req.DiscordID, "reason", result.Reason)
	}
	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) LeaveQueue(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.LeaveQueue")
	defer span.End()

	var req discordRequest
	if err := h.decodeAndValidate(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, h.queueService.Leave(ctx, req.DiscordID))
}

func (h *Handler) QueueStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.QueueStatus")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, h.queueService.Status())
}

func (h *Handler) ListLeagueQueue(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListLeagueQueue")
	defer span.End()

	entries, err := h.queueService.ListLeague(r.PathValue("league"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, entries)
}

func (h *Handler) GetQueuedPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetQueuedPlayer")
	defer span.End()

	discordID := strings.TrimSpace(r.PathValue("discordID"))
	position, ok := h.queueService.QueuedLeague(discordID)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: player %s is not queued", usecase.ErrNotFound, discordID))
		return
	}
	writeSuccess(ctx, w, http.StatusOK, position)
}

func (h *Handler) CheckIn(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CheckIn")
	defer span.End()

	var req discordRequest
	if err := h.decodeAndValidate(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.queueService.CheckIn(ctx, req.DiscordID)
	if err != nil {
		h.logger.ErrorContext(ctx, "check-in failed", "discord_id", req.DiscordID, "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, result)
}
