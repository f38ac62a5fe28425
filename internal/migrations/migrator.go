// Package migrations applies the schema changes AutoMigrate cannot express: extensions,
// expression and partial indexes.
package migrations

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type Migration struct {
	ID        string // sortable, e.g. "002_add_course_search_indexes"
	Name      string
	Up        func(db *gorm.DB) error
	Down      func(db *gorm.DB) error
	DependsOn []string

	// PostgresOnly steps are skipped, and left unrecorded, on other dialects.
	PostgresOnly bool
}

// MigrationRecord is one row of schema_migrations.
type MigrationRecord struct {
	ID        string    `gorm:"primaryKey;type:text"`
	Name      string    `gorm:"type:text"`
	AppliedAt time.Time `gorm:"autoCreateTime"`
}

func (MigrationRecord) TableName() string {
	return "schema_migrations"
}

type Migrator struct {
	db         *gorm.DB
	migrations []Migration
}

func NewMigrator(db *gorm.DB) *Migrator {
	return &Migrator{db: db, migrations: GetMigrations()}
}

// GetMigrations returns every registered migration in apply order.
func GetMigrations() []Migration {
	return []Migration{
		Migration001EnablePgTrgm(),
		Migration002AddCourseSearchIndexes(),
		Migration003AddPublishedChapterIndex(),
	}
}

func (m *Migrator) dialect() string {
	return m.db.Dialector.Name()
}

func (m *Migrator) applies(mg Migration) bool {
	return !mg.PostgresOnly || m.dialect() == "postgres"
}

func (m *Migrator) applied() (map[string]bool, error) {
	if err := m.db.AutoMigrate(&MigrationRecord{}); err != nil {
		return nil, fmt.Errorf("create schema_migrations: %w", err)
	}

	var records []MigrationRecord
	if err := m.db.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("read schema_migrations: %w", err)
	}
	done := make(map[string]bool, len(records))
	for _, r := range records {
		done[r.ID] = true
	}
	return done, nil
}

// Run applies the pending migrations in order, each in its own transaction.
func (m *Migrator) Run() error {
	done, err := m.applied()
	if err != nil {
		return err
	}

	for _, mg := range m.migrations {
		if done[mg.ID] {
			continue
		}
		if !m.applies(mg) {
			log.Debug().Str("migration", mg.ID).Str("dialect", m.dialect()).Msg("Skipping PostgreSQL-only migration")
			continue
		}
		for _, dep := range mg.DependsOn {
			if !done[dep] {
				return fmt.Errorf("migration %s depends on %s which is not applied", mg.ID, dep)
			}
		}

		log.Info().Str("migration", mg.ID).Str("name", mg.Name).Msg("Running migration")
		err := m.db.Transaction(func(tx *gorm.DB) error {
			if err := mg.Up(tx); err != nil {
				return err
			}
			return tx.Create(&MigrationRecord{ID: mg.ID, Name: mg.Name}).Error
		})
		if err != nil {
			log.Error().Err(err).Str("migration", mg.ID).Msg("Migration failed")
			return fmt.Errorf("migration %s failed: %w", mg.ID, err)
		}
		done[mg.ID] = true
	}
	return nil
}

// Rollback reverts the most recently applied migration that has a Down step and
// returns its id, or "" when nothing is applied.
func (m *Migrator) Rollback() (string, error) {
	done, err := m.applied()
	if err != nil {
		return "", err
	}

	for i := len(m.migrations) - 1; i >= 0; i-- {
		mg := m.migrations[i]
		if !done[mg.ID] {
			continue
		}
		if mg.Down == nil {
			return "", fmt.Errorf("migration %s cannot be rolled back", mg.ID)
		}

		err := m.db.Transaction(func(tx *gorm.DB) error {
			if err := mg.Down(tx); err != nil {
				return err
			}
			return tx.Delete(&MigrationRecord{ID: mg.ID}).Error
		})
		if err != nil {
			return "", fmt.Errorf("rollback %s failed: %w", mg.ID, err)
		}
		log.Info().Str("migration", mg.ID).Msg("Migration rolled back")
		return mg.ID, nil
	}
	return "", nil
}
