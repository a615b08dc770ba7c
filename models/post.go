package models

import (
	"time"

	"gorm.io/gorm"
)

// PostBodyMaxLen is the maximum body length in runes.
const PostBodyMaxLen = 140

// Post is a short message owned by one user. Posts are never edited.
type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Body      string    `gorm:"size:140;not null" json:"body"`
	Timestamp time.Time `gorm:"index;not null" json:"timestamp"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Author    User      `gorm:"foreignKey:UserID" json:"author"`
}

// TableName keeps the singular table name used by the existing schema.
func (Post) TableName() string { return "post" }

// BeforeCreate defaults the timestamp to the creation time.
func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.Timestamp.IsZero() {
		p.Timestamp = time.Now().UTC()
	}
	return nil
}
