package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post represents a social media post stored in MongoDB
type Post struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Creator   string             `json:"creator" bson:"creator"` // User.ID of the author
	Caption   string             `json:"caption" bson:"caption"`
	ImageURL  string             `json:"image_url" bson:"imageUrl"`
	ImageID   string             `json:"image_id" bson:"imageId"`
	Location  string             `json:"location" bson:"location"`
	Tags      []string           `json:"tags" bson:"tags"`
	Likes     []string           `json:"likes" bson:"likes"` // User.IDs
	CreatedAt time.Time          `json:"created_at" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updatedAt"`
}

// PostPage is one page of the infinite feed. NextCursor is empty once the
// feed is exhausted.
type PostPage struct {
	Documents  []Post `json:"documents"`
	NextCursor string `json:"next_cursor,omitempty"`
}

// NewPost defines the input for creating a post. Tags is the raw
// comma-separated form value.
type NewPost struct {
	UserID   string  `json:"-"`
	Caption  string  `json:"caption" form:"caption" validate:"required,min=5,max=2200"`
	Location string  `json:"location" form:"location" validate:"required,min=2,max=100"`
	Tags     string  `json:"tags" form:"tags"`
	File     *Upload `json:"-" form:"-"`
}

// UpdatePost defines the input for editing a post. ImageID and ImageURL are
// the post's current image, kept when File is nil.
type UpdatePost struct {
	PostID   string  `json:"-"`
	Caption  string  `json:"caption" form:"caption" validate:"required,min=5,max=2200"`
	Location string  `json:"location" form:"location" validate:"required,min=2,max=100"`
	Tags     string  `json:"tags" form:"tags"`
	ImageID  string  `json:"-"`
	ImageURL string  `json:"-"`
	File     *Upload `json:"-" form:"-"`
}

// LikePostRequest carries the complete resulting set of liker ids.
type LikePostRequest struct {
	Likes []string `json:"likes"`
}
