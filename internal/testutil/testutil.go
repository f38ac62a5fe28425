// Package testutil builds isolated in-memory databases and fixtures for tests.
package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pushp314/coursehub-backend/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB opens a private in-memory SQLite database with the full schema.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("Failed to open test DB: %v", err)
	}

	// One connection keeps transactions and concurrent readers on the same database
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("Failed to migrate test DB: %v", err)
	}
	return db
}

// Fixtures creates rows with sensible defaults.
type Fixtures struct {
	T   *testing.T
	DB  *gorm.DB
	seq int
}

func NewFixtures(t *testing.T, db *gorm.DB) *Fixtures {
	return &Fixtures{T: t, DB: db}
}

func (f *Fixtures) id(prefix string) string {
	f.seq++
	return fmt.Sprintf("%s-%d", prefix, f.seq)
}

func (f *Fixtures) create(value interface{}) {
	f.T.Helper()
	if err := f.DB.Create(value).Error; err != nil {
		f.T.Fatalf("Failed to create fixture %T: %v", value, err)
	}
}

func (f *Fixtures) User(name string) models.User {
	user := models.User{ID: f.id("user"), Name: name, Email: name + "@test.com", Role: models.RoleUser}
	f.create(&user)
	return user
}

func (f *Fixtures) Category(name string) models.Category {
	category := models.Category{ID: f.id("cat"), Name: name}
	f.create(&category)
	return category
}

// Course creates a course owned by ownerID; mutate applies overrides before insert.
func (f *Fixtures) Course(ownerID, title string, mutate ...func(*models.Course)) models.Course {
	course := models.Course{
		ID:        f.id("course"),
		UserID:    ownerID,
		Title:     title,
		CreatedAt: time.Now().Add(time.Duration(f.seq) * time.Second),
	}
	for _, m := range mutate {
		m(&course)
	}
	f.create(&course)
	return course
}

// PublishableCourse has every required scalar field filled in.
func (f *Fixtures) PublishableCourse(ownerID, title, categoryID string, mutate ...func(*models.Course)) models.Course {
	price := 49.99
	all := append([]func(*models.Course){func(c *models.Course) {
		c.Description = "About " + title
		c.ImageURL = "https://cdn.test/" + title + ".png"
		c.Price = &price
		c.CategoryID = &categoryID
	}}, mutate...)
	return f.Course(ownerID, title, all...)
}

func (f *Fixtures) Chapter(courseID, title string, position int, published bool, mutate ...func(*models.Chapter)) models.Chapter {
	chapter := models.Chapter{
		ID:          f.id("chapter"),
		CourseID:    courseID,
		Title:       title,
		Description: "About " + title,
		VideoURL:    "https://cdn.test/" + title + ".mp4",
		Position:    position,
		IsPublished: published,
	}
	for _, m := range mutate {
		m(&chapter)
	}
	f.create(&chapter)
	return chapter
}

func (f *Fixtures) Purchase(userID, courseID string) models.Purchase {
	purchase := models.Purchase{ID: f.id("purchase"), UserID: userID, CourseID: courseID}
	f.create(&purchase)
	return purchase
}

func (f *Fixtures) Completed(userID, chapterID string) models.UserProgress {
	progress := models.UserProgress{ID: f.id("progress"), UserID: userID, ChapterID: chapterID, IsCompleted: true}
	f.create(&progress)
	return progress
}

func (f *Fixtures) Attachment(courseID, name string) models.Attachment {
	attachment := models.Attachment{
		ID:          f.id("attachment"),
		CourseID:    courseID,
		Name:        name,
		URL:         "https://cdn.test/" + name,
		URLPublicID: "course_attachments/" + name,
	}
	f.create(&attachment)
	return attachment
}

// Upload records key as stored by userID.
func (f *Fixtures) Upload(userID, key string) models.Upload {
	upload := models.Upload{Key: key, UserID: userID, URL: "https://cdn.test/" + key}
	f.create(&upload)
	return upload
}
