package httpapi

import (
	"net/http"

	"github.com/riskibarqy/scrim-matchmaker/internal/usecase"
)

func (h *Handler) SubmitResult(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitResult")
	defer span.End()

	var req submitResultRequest
	if err := h.decodeAndValidate(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	input := usecase.SubmitResultInput{
		ScrimUID:   r.PathValue("scrimUID"),
		WinnerTeam: req.WinnerTeam,
		Stats:      make([]usecase.ResultStatInput, 0, len(req.Stats)),
	}
	for _, stat := range req.Stats {
		input.Stats = append(input.Stats, usecase.ResultStatInput{
			PlayerID:   stat.PlayerID,
			TeamID:     stat.TeamID,
			Points:     stat.Points,
			IsFinished: stat.IsFinished,
			IsDNF:      stat.IsDNF,
			NbRespawns: stat.NbRespawns,
		})
	}

	out, err := h.resultService.Submit(ctx, input)
	if err != nil {
		h.logger.WarnContext(ctx, "result submission failed", "scrim_uid", input.ScrimUID, "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, submitResultToDTO(out))
}
