package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/riskibarqy/scrim-matchmaker/internal/domain/league"
	"github.com/riskibarqy/scrim-matchmaker/internal/platform/logging"
	"github.com/riskibarqy/scrim-matchmaker/internal/usecase"
)

type Handler struct {
	leagues       *league.Registry
	queueService  *usecase.QueueService
	scrimService  *usecase.ScrimService
	playerService *usecase.PlayerService
	banService    *usecase.BanService
	mapService    *usecase.MapService
	ratingService *usecase.RatingService
	resultService *usecase.ResultService
	logger        *logging.Logger
	validator     *validator.Validate
}

func NewHandler(
	leagues *league.Registry,
	queueService *usecase.QueueService,
	scrimService *usecase.ScrimService,
	playerService *usecase.PlayerService,
	banService *usecase.BanService,
	mapService *usecase.MapService,
	ratingService *usecase.RatingService,
	resultService *usecase.ResultService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		leagues:       leagues,
		queueService:  queueService,
		scrimService:  scrimService,
		playerService: playerService,
		banService:    banService,
		mapService:    mapService,
		ratingService: ratingService,
		resultService: resultService,
		logger:        logger.Named("handler"),
		validator:     validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

// decodeAndValidate reads a strict JSON body into dst and runs struct validation.
func (h *Handler) decodeAndValidate(ctx context.Context, r *http.Request, dst any) error {
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return h.validateRequest(ctx, dst)
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

func (h *Handler) pathLeague(r *http.Request) (string, error) {
	canonical, err := h.leagues.Normalize(r.PathValue("league"))
	if err != nil {
		return "", fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err)
	}
	return canonical, nil
}

func pathInt64(r *http.Request, name string) (int64, error) {
	raw := strings.TrimSpace(r.PathValue(name))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid %s %q", usecase.ErrInvalidInput, name, raw)
	}
	return id, nil
}

func queryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%w: invalid %s %q", usecase.ErrInvalidInput, name, raw)
	}
	return v, nil
}
