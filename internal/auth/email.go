package auth

import (
	"net/mail"
	"strings"

	"golang.org/x/text/cases"
)

var emailFolder = cases.Fold()

// NormalizeEmail trims and case-folds an address so lookups are case-insensitive.
// It returns false for anything that is not a bare address.
func NormalizeEmail(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	addr, err := mail.ParseAddress(trimmed)
	if err != nil || addr.Address != trimmed {
		return "", false
	}
	return emailFolder.String(trimmed), true
}
