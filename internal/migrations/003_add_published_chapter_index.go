package migrations

import (
	"gorm.io/gorm"
)

// Migration003AddPublishedChapterIndex speeds up the published-chapter count taken
// on every unpublish and the learner outline. Partial indexes work on SQLite too.
func Migration003AddPublishedChapterIndex() Migration {
	return Migration{
		ID:   "003_add_published_chapter_index",
		Name: "Add partial index on published chapters",
		Up: func(db *gorm.DB) error {
			return db.Exec(`
				CREATE INDEX IF NOT EXISTS idx_chapters_published
				ON chapters (course_id, position)
				WHERE is_published = true
			`).Error
		},
		Down: func(db *gorm.DB) error {
			return db.Exec(`DROP INDEX IF EXISTS idx_chapters_published`).Error
		},
	}
}
