package notifications

import (
	"net/http"

	"github.com/EstateHub/marketplace-backend/internal/middleware"
	"github.com/go-chi/chi/v5"
)

func SetupRoutes(h *Handler, auth middleware.Authenticator) http.Handler {
	r := chi.NewRouter()

	r.Delete("/{id}", h.DeleteNotification)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireSession(auth))
		r.Get("/", h.ListNotifications)
	})

	return r
}
