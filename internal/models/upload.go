package models

import "time"

// Upload records who stored a media object. Courses may only reference and delete
// objects their owner uploaded.
type Upload struct {
	Key       string    `gorm:"column:object_key;primaryKey;type:text" json:"key"`
	UserID    string    `gorm:"index;not null" json:"userId"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Upload) TableName() string {
	return "uploads"
}
