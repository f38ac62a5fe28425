package models

import "time"

// Purchase unlocks every non-free chapter of a course for one user.
type Purchase struct {
	ID        string    `gorm:"primaryKey;type:text" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	UserID    string `gorm:"uniqueIndex:idx_purchases_user_course,priority:1;not null" json:"userId"`
	CourseID  string `gorm:"uniqueIndex:idx_purchases_user_course,priority:2;index;not null" json:"courseId"`
	PaymentID string `json:"paymentId,omitempty"`
}

func (Purchase) TableName() string {
	return "purchases"
}
