package models

import "time"

type Chapter struct {
	ID        string    `gorm:"primaryKey;type:text" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	CourseID      string `gorm:"index:idx_chapters_course_position,priority:1;not null" json:"courseId"`
	Title         string `gorm:"type:text;not null" json:"title"`
	Description   string `gorm:"type:text" json:"description"`
	VideoURL      string `json:"videoUrl"`
	VideoPublicID string `json:"videoPublicId"`
	Position      int    `gorm:"index:idx_chapters_course_position,priority:2" json:"position"`
	IsPublished   bool   `gorm:"default:false" json:"isPublished"`
	IsFree        bool   `gorm:"default:false" json:"isFree"`
}

func (Chapter) TableName() string {
	return "chapters"
}
