package utils

import (
	"strconv"

	"github.com/EstateHub/marketplace-backend/internal/apperr"
	"github.com/google/uuid"
)

func GenerateUUID() string {
	return uuid.NewString()
}

// ParseID parses a positive integer path id.
func ParseID(raw string) (uint, error) {
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || n == 0 {
		return 0, apperr.Validation("Invalid id %q", raw)
	}
	return uint(n), nil
}
