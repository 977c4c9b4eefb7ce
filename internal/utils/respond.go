package utils

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/EstateHub/marketplace-backend/internal/apperr"
)

// ErrorResponse is the JSON envelope for every failed API call.
type ErrorResponse struct {
	Error string `json:"error"`
}

func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("[http] encode response: %v", err)
	}
}

func WriteError(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, ErrorResponse{Error: msg})
}

// WriteAppError maps err to a status and writes the envelope. Storage and
// unknown errors are logged under tag and reported without internals.
func WriteAppError(w http.ResponseWriter, tag string, err error) {
	status := apperr.Status(err)

	var verr *apperr.ValidationError
	switch {
	case errors.As(err, &verr):
		WriteError(w, status, verr.Msg)
	case status == http.StatusUnauthorized:
		WriteError(w, status, "Unauthorized")
	case status == http.StatusNotFound:
		WriteError(w, status, "Not found")
	default:
		log.Printf("[%s] %v", tag, err)
		WriteError(w, http.StatusInternalServerError, "Internal server error")
	}
}
