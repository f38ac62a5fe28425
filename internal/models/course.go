package models

import (
	"strings"
	"time"
)

type Course struct {
	ID        string    `gorm:"primaryKey;type:text" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	UserID        string   `gorm:"index;not null" json:"userId"`
	Title         string   `gorm:"type:text;not null" json:"title"`
	Description   string   `gorm:"type:text" json:"description"`
	ImageURL      string   `json:"imageUrl"`
	ImagePublicID string   `json:"imagePublicId"`
	Price         *float64 `json:"price"`
	CategoryID    *string  `gorm:"index" json:"categoryId"`
	IsPublished   bool     `gorm:"default:false;index" json:"isPublished"`

	Category    *Category    `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Chapters    []Chapter    `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"chapters,omitempty"`
	Attachments []Attachment `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"attachments,omitempty"`
}

func (Course) TableName() string {
	return "courses"
}

// IsFree reports whether the course can be unlocked without payment.
func (c Course) IsFree() bool {
	return c.Price != nil && *c.Price == 0
}

// HasCategory treats an empty id the same as a missing one.
func (c Course) HasCategory() bool {
	return c.CategoryID != nil && strings.TrimSpace(*c.CategoryID) != ""
}
