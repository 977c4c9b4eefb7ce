package pages

import (
	"fmt"
	"net/http"

	"github.com/EstateHub/marketplace-backend/internal/utils"
	"github.com/go-chi/chi/v5"
)

func RootHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, "Server is up!")
}

// Shell stands in for a front-end page. It only runs after the route guard
// has let the request through.
type Shell struct {
	Page   string `json:"page"`
	UserID string `json:"user_id"`
}

func shellHandler(page string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := utils.GetUserIDFromContext(r.Context())
		utils.WriteJSON(w, http.StatusOK, Shell{Page: page, UserID: userID})
	}
}

// Mount registers the root handler and a shell for every page path.
func Mount(r chi.Router, paths []string) {
	r.Get("/", RootHandler)
	for _, p := range paths {
		r.Get(p, shellHandler(p))
	}
}
