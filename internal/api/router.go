package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/diarioapp/diario/internal/journal"
)

// RouterConfig controls auth and the frontend redirect target.
type RouterConfig struct {
	AuthEnabled bool
	Token       string
	UserID      string
	AppURL      string
}

// NewRouter creates a chi router with all API routes mounted under /api.
// google may be nil when Google sync is not configured.
func NewRouter(svc *journal.Service, google GoogleService, cfg RouterConfig) chi.Router {
	h := NewHandler(svc, google, cfg.AppURL)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		// The OAuth callback arrives from Google's redirect, outside any
		// Authorization header; the user is identified by the state param.
		r.Get("/auth/google/callback", h.GoogleCallback)

		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(cfg.AuthEnabled, cfg.Token, cfg.UserID))

			r.Post("/analyze", h.Analyze)
			r.Get("/days/{date}/cards", h.ListCards)
			r.Patch("/cards/{id}", h.UpdateCard)
			r.Delete("/cards/{id}", h.DeleteCard)

			r.Get("/auth/google", h.GoogleAuth)
			r.Get("/auth/google/status", h.GoogleStatus)
			r.Post("/auth/google/disconnect", h.GoogleDisconnect)

			r.Post("/google/calendar/sync", h.CalendarSync)
			r.Post("/google/tasks/sync", h.TasksSync)
		})
	})

	return r
}
