package models

import (
	"time"
)

// PostTextMaxLen is the maximum post length in characters
const PostTextMaxLen = 200

// Post represents an authored entry, optionally filed under a group
type Post struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Text      string    `gorm:"type:varchar(200);not null;column:text" json:"text"`
	CreatedAt time.Time `gorm:"not null;index:posts_post_created_idx;column:created_at" json:"created_at"`
	AuthorID  int64     `gorm:"not null;index:posts_post_author_idx;column:author_id" json:"author_id"`
	GroupID   *int64    `gorm:"index:posts_post_group_idx;column:group_id" json:"group_id,omitempty"`
	Image     string    `gorm:"type:varchar(255);not null;default:'';column:image" json:"image,omitempty"`

	// Relationships
	Author *User  `gorm:"foreignKey:AuthorID;references:ID;constraint:OnDelete:CASCADE" json:"author,omitempty"`
	Group  *Group `gorm:"foreignKey:GroupID;references:ID;constraint:OnDelete:SET NULL" json:"group,omitempty"`
}

// TableName specifies the table name for Post
func (Post) TableName() string {
	return "posts_post"
}

// Preview returns the first 15 characters of the text
func (p *Post) Preview() string {
	r := []rune(p.Text)
	if len(r) > 15 {
		return string(r[:15])
	}
	return p.Text
}
