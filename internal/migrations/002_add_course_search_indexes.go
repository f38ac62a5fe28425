package migrations

import (
	"gorm.io/gorm"
)

// courseTitleTrgmIndex matches the catalog filter expression, LOWER(title).
const courseTitleTrgmIndex = `
	CREATE INDEX IF NOT EXISTS idx_courses_title_trgm
	ON courses USING gin (lower(title) gin_trgm_ops)
`

// Migration002AddCourseSearchIndexes adds the indexes behind the catalog listing:
// 1. Case-insensitive title search (LOWER(title) LIKE '%q%')
// 2. Published courses ordered by newest first
//
// CREATE INDEX CONCURRENTLY cannot run inside the migrator's transaction, so
// these use plain IF NOT EXISTS statements.
func Migration002AddCourseSearchIndexes() Migration {
	return Migration{
		ID:           "002_add_course_search_indexes",
		Name:         "Add trigram and published-course indexes",
		PostgresOnly: true,
		DependsOn:    []string{"001_enable_pg_trgm"},
		Up: func(db *gorm.DB) error {
			if err := db.Exec(courseTitleTrgmIndex).Error; err != nil {
				return err
			}

			published := `
				CREATE INDEX IF NOT EXISTS idx_courses_published_created
				ON courses (created_at DESC)
				WHERE is_published = true
			`
			return db.Exec(published).Error
		},
		Down: func(db *gorm.DB) error {
			if err := db.Exec(`DROP INDEX IF EXISTS idx_courses_published_created`).Error; err != nil {
				return err
			}
			return db.Exec(`DROP INDEX IF EXISTS idx_courses_title_trgm`).Error
		},
	}
}
