package models

import "time"

type Attachment struct {
	ID        string    `gorm:"primaryKey;type:text" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	CourseID    string `gorm:"index;not null" json:"courseId"`
	Name        string `json:"name"`
	URL         string `json:"url"`
	URLPublicID string `json:"urlPublicId"`
}

func (Attachment) TableName() string {
	return "attachments"
}
