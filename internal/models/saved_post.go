package models

import "time"

// SavedPost represents a bookmarked/saved post by a user
type SavedPost struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `json:"user_id" gorm:"index;uniqueIndex:idx_user_post_save"`
	PostID    string    `json:"post_id" gorm:"index;uniqueIndex:idx_user_post_save"`
	CreatedAt time.Time `json:"created_at"`
}

func (SavedPost) TableName() string {
	return "saves"
}

// SavedPostDetail is a save together with the post it points at.
type SavedPostDetail struct {
	SavedPost
	Post Post `json:"post"`
}
