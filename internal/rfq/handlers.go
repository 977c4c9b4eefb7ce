package rfq

import (
	"net/http"

	"github.com/EstateHub/marketplace-backend/internal/utils"
	"github.com/go-chi/chi/v5"
)

type Handler struct {
	repo Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

// GetRequest returns one RFQ with its line items. There is no caller or
// ownership check on this route.
func (h *Handler) GetRequest(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		utils.WriteAppError(w, "rfq", err)
		return
	}

	req, err := h.repo.FindByID(r.Context(), id)
	if err != nil {
		utils.WriteAppError(w, "rfq", err)
		return
	}
	if req == nil {
		utils.WriteError(w, http.StatusNotFound, "RFQ not found")
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]*Request{"rfqRequest": req})
}
