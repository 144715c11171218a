package models

import "time"

// Post represents a blog entry.
type Post struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Title   string `gorm:"size:255;not null" json:"title"`
	Content string `gorm:"type:text;not null" json:"content"`
	// DatePosted is stamped once at creation and never touched by edits.
	DatePosted time.Time `gorm:"not null" json:"date_posted"`
	// AuthorID is a plain column, not a foreign key; it is only filled when
	// author recording is switched on.
	AuthorID *uint `gorm:"index" json:"author_id,omitempty"`
}

// TableName keeps the historical table name.
func (Post) TableName() string {
	return "blog"
}
