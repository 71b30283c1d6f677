package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post represents a social media post stored in MongoDB. Likes has set
// semantics (a user id appears at most once); comments are embedded and kept
// in insertion order.
type Post struct {
	ID        primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Content   string               `json:"content" bson:"content"`
	Image     string               `json:"image,omitempty" bson:"image,omitempty"`
	Author    primitive.ObjectID   `json:"author" bson:"author"`
	Likes     []primitive.ObjectID `json:"likes" bson:"likes"`
	Comments  []Comment            `json:"comments" bson:"comments"`
	CreatedAt time.Time            `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time            `json:"updated_at" bson:"updated_at"`
}

// Comment is embedded in a post; it has no identity of its own and is never
// updated or deleted independently.
type Comment struct {
	Content   string             `json:"content" bson:"content"`
	Author    primitive.ObjectID `json:"author" bson:"author"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}

// PostResponse is a Post with the author (and each comment's author) resolved
// to a public summary.
type PostResponse struct {
	ID        primitive.ObjectID   `json:"id"`
	Content   string               `json:"content"`
	Image     string               `json:"image,omitempty"`
	Author    UserSummary          `json:"author"`
	Likes     []primitive.ObjectID `json:"likes"`
	Comments  []CommentResponse    `json:"comments"`
	CreatedAt time.Time            `json:"created_at"`
	UpdatedAt time.Time            `json:"updated_at"`
}

// CommentResponse is a Comment with its author resolved to a public summary.
type CommentResponse struct {
	Content   string      `json:"content"`
	Author    UserSummary `json:"author"`
	CreatedAt time.Time   `json:"created_at"`
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Content string `json:"content" validate:"required,min=1,max=2000"`
	Image   string `json:"image,omitempty" validate:"omitempty,url"`
}

// CreateCommentRequest defines the request body for commenting on a post
type CreateCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=500"`
}
