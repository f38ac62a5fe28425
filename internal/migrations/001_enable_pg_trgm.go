package migrations

import (
	"gorm.io/gorm"
)

// Migration001EnablePgTrgm installs the trigram extension used by the title search index.
func Migration001EnablePgTrgm() Migration {
	return Migration{
		ID:           "001_enable_pg_trgm",
		Name:         "Enable pg_trgm extension",
		PostgresOnly: true,
		Up: func(db *gorm.DB) error {
			return db.Exec(`CREATE EXTENSION IF NOT EXISTS pg_trgm`).Error
		},
		Down: func(db *gorm.DB) error {
			return db.Exec(`DROP EXTENSION IF EXISTS pg_trgm`).Error
		},
	}
}
