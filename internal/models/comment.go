package models

import (
	"time"
)

// Comment is a reply to a post
type Comment struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	PostID    int64     `gorm:"not null;index:posts_comment_post_idx;column:post_id" json:"post_id"`
	AuthorID  int64     `gorm:"not null;column:author_id" json:"author_id"`
	Text      string    `gorm:"type:text;not null;column:text" json:"text"`
	CreatedAt time.Time `gorm:"not null;column:created_at" json:"created_at"`

	// Relationships
	Post   *Post `gorm:"foreignKey:PostID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	Author *User `gorm:"foreignKey:AuthorID;references:ID;constraint:OnDelete:CASCADE" json:"author,omitempty"`
}

// TableName specifies the table name for Comment
func (Comment) TableName() string {
	return "posts_comment"
}
