package models

import "time"

type UserProgress struct {
	ID        string    `gorm:"primaryKey;type:text" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	UserID      string `gorm:"uniqueIndex:idx_user_progress_user_chapter,priority:1;not null" json:"userId"`
	ChapterID   string `gorm:"uniqueIndex:idx_user_progress_user_chapter,priority:2;index;not null" json:"chapterId"`
	IsCompleted bool   `gorm:"default:false" json:"isCompleted"`
}

func (UserProgress) TableName() string {
	return "user_progress"
}
