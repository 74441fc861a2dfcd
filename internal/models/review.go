package models

import "time"

// Review is one AI review transaction. Rows are written once and never
// updated.
type Review struct {
	ID                    string    `gorm:"primaryKey;size:36" json:"id"`
	UserID                uint      `gorm:"index:idx_reviews_user_created,priority:1;not null" json:"user_id"`
	Code                  string    `gorm:"type:text;not null" json:"code"`
	Language              string    `gorm:"size:50;index;not null;default:javascript" json:"language"`
	ReviewText            string    `gorm:"type:text;not null" json:"review"`
	Rating                int       `gorm:"not null" json:"rating"`
	Tags                  []string  `gorm:"serializer:json;type:text" json:"tags"`
	ReviewDurationSeconds int       `gorm:"not null;default:0" json:"review_time"`
	CreatedAt             time.Time `gorm:"index:idx_reviews_user_created,priority:2" json:"created_at"`
}

func (Review) TableName() string { return "reviews" }
