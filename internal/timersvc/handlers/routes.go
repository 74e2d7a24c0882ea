package handlers

import (
	"github.com/go-chi/chi"
	"github.com/go-chi/jwtauth"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

func (h *Handler) SetRoutes(r *chi.Mux) {
	r.NotFound(NotFoundHandler)
	r.MethodNotAllowed(MethodNotAllowedHandler)

	r.Get("/api/timer", h.GetTimer)
	r.Post("/api/timer", h.CreateTimer)
	r.Put("/api/timer", h.UpdateTimer)
	r.Delete("/api/timer", h.DeleteTimer)

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health", h.HealthHandler)
		r.Get("/ws", h.HandleWebSocket)

		// Secure routes
		if h.tokenAuth != nil {
			r.Group(func(r chi.Router) {
				r.Use(jwtauth.Verifier(h.tokenAuth))
				r.Use(jwtauth.Authenticator)

				r.Get("/status", h.StatusHandler)
			})
		}
	})
}

// InitAuth enables the JWT protected routes. An empty key leaves them off.
func (h *Handler) InitAuth(jwtKey string) {
	if jwtKey == "" {
		log.Warn("JWT_SECRET_KEY not set, /v1/status is disabled")
		return
	}
	h.tokenAuth = jwtauth.New("HS256", []byte(jwtKey), nil)
}

// IssueToken signs a token accepted by the secure routes.
func (h *Handler) IssueToken(claims map[string]interface{}) (string, error) {
	_, tokenString, err := h.tokenAuth.Encode(claims)
	return tokenString, err
}
