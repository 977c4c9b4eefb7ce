package db

import (
	"fmt"
	"regexp"

	"gorm.io/gorm"
)

var schemaName = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// EnsureSchemas creates each postgres schema if it is missing.
func EnsureSchemas(d *gorm.DB, schemas ...string) error {
	for _, s := range schemas {
		if !schemaName.MatchString(s) {
			return fmt.Errorf("invalid schema name %q", s)
		}
		if err := d.Exec(`CREATE SCHEMA IF NOT EXISTS "` + s + `"`).Error; err != nil {
			return fmt.Errorf("ensure schema %s: %w", s, err)
		}
	}
	return nil
}
