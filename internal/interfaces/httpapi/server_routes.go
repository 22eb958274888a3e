package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/queue/join", handler.JoinQueue)
	mux.HandleFunc("POST /v1/queue/leave", handler.LeaveQueue)
	mux.HandleFunc("GET /v1/queue/status", handler.QueueStatus)
	mux.HandleFunc("GET /v1/queue/leagues/{league}", handler.ListLeagueQueue)
	mux.HandleFunc("GET /v1/queue/players/{discordID}", handler.GetQueuedPlayer)

	mux.HandleFunc("POST /v1/scrims/checkin", handler.CheckIn)
	mux.HandleFunc("GET /v1/scrims/{scrimUID}", handler.GetScrim)
	mux.HandleFunc("GET /v1/leagues/{league}/scrims/active", handler.ListActiveScrims)
	mux.HandleFunc("GET /v1/leagues/{league}/leaderboard", handler.Leaderboard)

	mux.HandleFunc("GET /v1/players/{discordID}/profile", handler.GetPlayerProfile)
}

func registerAdminRoutes(mux *http.ServeMux, handler *Handler, token string) {
	guard := func(fn http.HandlerFunc) http.Handler {
		return RequireInternalToken(token, fn)
	}

	mux.Handle("POST /v1/admin/queue/reset", guard(handler.ResetQueue))
	mux.Handle("POST /v1/admin/players", guard(handler.RegisterPlayer))
	mux.Handle("PUT /v1/admin/players/{discordID}/league", guard(handler.UpdatePlayerLeague))
	mux.Handle("GET /v1/admin/players/{discordID}/dodges", guard(handler.GetPlayerDodges))
	mux.Handle("POST /v1/admin/bans", guard(handler.BanPlayer))
	mux.Handle("DELETE /v1/admin/bans/{discordID}", guard(handler.UnbanPlayer))
	mux.Handle("POST /v1/admin/scrims/{scrimID}/cancel", guard(handler.CancelScrim))
	mux.Handle("POST /v1/admin/maps", guard(handler.AddMap))
	mux.Handle("PUT /v1/admin/maps/{mapID}/active", guard(handler.SetMapActive))
}

func registerInternalRoutes(mux *http.ServeMux, handler *Handler, token string) {
	mux.Handle("POST /v1/internal/scrims/{scrimUID}/results", RequireInternalToken(token, http.HandlerFunc(handler.SubmitResult)))
}
