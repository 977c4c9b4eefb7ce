package auth

import (
	"net/http"

	"github.com/EstateHub/marketplace-backend/internal/middleware"
	"github.com/go-chi/chi/v5"
)

func SetupRoutes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Post("/login", h.Login)
	r.Post("/register", h.Register)
	r.Post("/logout", h.Logout)
	r.Get("/me", h.Me)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireSession(h.resolver))
		r.Post("/password", h.UpdatePassword)
	})

	return r
}
