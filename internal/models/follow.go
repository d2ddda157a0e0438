package models

import (
	"time"
)

// Follow is a directed subscription edge: User follows Author
type Follow struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;column:id"`
	UserID    int64     `gorm:"not null;uniqueIndex:posts_follow_user_author_ux,priority:1;column:user_id"`
	AuthorID  int64     `gorm:"not null;uniqueIndex:posts_follow_user_author_ux,priority:2;index:posts_follow_author_idx;column:author_id"`
	CreatedAt time.Time `gorm:"not null;column:created_at"`

	// Relationships
	User   *User `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
	Author *User `gorm:"foreignKey:AuthorID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for Follow
func (Follow) TableName() string {
	return "posts_follow"
}
