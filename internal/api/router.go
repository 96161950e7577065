package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	mw "github.com/tenderscope/tenderscope/internal/api/middleware"
	"github.com/tenderscope/tenderscope/internal/api/response"
)

// Dependencies holds all handler and middleware dependencies for the router.
type Dependencies struct {
	Auth      *mw.Auth
	RateLimit *mw.RateLimit

	HealthHandler http.HandlerFunc

	UploadTenderHandler http.HandlerFunc
	ListTendersHandler  http.HandlerFunc
	GetTenderHandler    http.HandlerFunc
	DeleteTenderHandler http.HandlerFunc

	AnalyzeHandler http.HandlerFunc
	PollJobHandler http.HandlerFunc

	CompareHandler http.HandlerFunc
	MatchHandler   http.HandlerFunc
	ChatHandler    http.HandlerFunc

	GetProfileHandler http.HandlerFunc
	PutProfileHandler http.HandlerFunc

	CreateKeyHandler http.HandlerFunc
	ListKeysHandler  http.HandlerFunc
	RevokeKeyHandler http.HandlerFunc
}

// NewRouter builds the Chi router with middleware stack and all routes.
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.Logger)
	r.Use(mw.Recovery)

	// Public health check
	r.Get("/api/v1/health", orNotImplemented(deps.HealthHandler))

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(deps.Auth.Authenticate)
		r.Use(deps.RateLimit.Limit)

		r.Post("/api/v1/tenders", orNotImplemented(deps.UploadTenderHandler))
		r.Get("/api/v1/tenders", orNotImplemented(deps.ListTendersHandler))
		r.Get("/api/v1/tenders/{tenderID}", orNotImplemented(deps.GetTenderHandler))
		r.Delete("/api/v1/tenders/{tenderID}", orNotImplemented(deps.DeleteTenderHandler))

		r.Post("/api/v1/analyze", orNotImplemented(deps.AnalyzeHandler))
		r.Get("/api/v1/analyze/{jobID}", orNotImplemented(deps.PollJobHandler))

		r.Post("/api/v1/compare", orNotImplemented(deps.CompareHandler))
		r.Post("/api/v1/match", orNotImplemented(deps.MatchHandler))
		r.Post("/api/v1/chat", orNotImplemented(deps.ChatHandler))

		r.Get("/api/v1/profile", orNotImplemented(deps.GetProfileHandler))
		r.Put("/api/v1/profile", orNotImplemented(deps.PutProfileHandler))

		// Admin routes
		r.Group(func(r chi.Router) {
			r.Use(deps.Auth.RequireScope("admin"))

			r.Post("/api/v1/admin/keys", orNotImplemented(deps.CreateKeyHandler))
			r.Get("/api/v1/admin/keys", orNotImplemented(deps.ListKeysHandler))
			r.Delete("/api/v1/admin/keys/{keyID}", orNotImplemented(deps.RevokeKeyHandler))
		})
	})

	return r
}

// orNotImplemented returns the handler if non-nil, or a 501 placeholder.
func orNotImplemented(h http.HandlerFunc) http.HandlerFunc {
	if h != nil {
		return h
	}
	return func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, http.StatusNotImplemented, "NOT_IMPLEMENTED", "Endpoint not yet implemented", nil)
	}
}
