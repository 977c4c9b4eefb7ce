package notifications

import (
	"net/http"

	"github.com/EstateHub/marketplace-backend/internal/apperr"
	"github.com/EstateHub/marketplace-backend/internal/utils"
	"github.com/go-chi/chi/v5"
)

type Handler struct {
	repo Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

// DeleteNotification only checks that an Authorization header is present.
// It does not check that the notification belongs to the caller.
func (h *Handler) DeleteNotification(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("Authorization") == "" {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, err := utils.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		utils.WriteAppError(w, "notifications", err)
		return
	}

	found, err := h.repo.Delete(r.Context(), id)
	if err != nil {
		utils.WriteAppError(w, "notifications", err)
		return
	}
	if !found {
		utils.WriteError(w, http.StatusNotFound, "Notification not found")
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// ListNotifications runs behind RequireSession.
func (h *Handler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.WriteAppError(w, "notifications", apperr.ErrUnauthenticated)
		return
	}

	list, err := h.repo.ListForUser(r.Context(), userID, listLimit)
	if err != nil {
		utils.WriteAppError(w, "notifications", err)
		return
	}
	if list == nil {
		list = []Notification{}
	}

	utils.WriteJSON(w, http.StatusOK, map[string]any{"notifications": list})
}
