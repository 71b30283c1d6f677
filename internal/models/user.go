package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a registered account stored in MongoDB. The following and
// followers arrays are kept symmetric: if A follows B then B's followers
// contains A, and removing the edge removes both entries.
type User struct {
	ID        primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Email     string               `json:"email" bson:"email"`
	Username  string               `json:"username" bson:"username"`
	Password  string               `json:"-" bson:"password"` // bcrypt hash, never serialized
	Avatar    string               `json:"avatar,omitempty" bson:"avatar,omitempty"`
	Bio       string               `json:"bio,omitempty" bson:"bio,omitempty"`
	Following []primitive.ObjectID `json:"following" bson:"following"`
	Followers []primitive.ObjectID `json:"followers" bson:"followers"`
	CreatedAt time.Time            `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time            `json:"updated_at" bson:"updated_at"`
}

// UserSummary is the reduced projection embedded in other entities' responses.
type UserSummary struct {
	ID       primitive.ObjectID `json:"id" bson:"_id"`
	Username string             `json:"username" bson:"username"`
	Avatar   string             `json:"avatar,omitempty" bson:"avatar,omitempty"`
}

// Summary returns the public projection of the user.
func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Username: u.Username, Avatar: u.Avatar}
}

// IsFollowing reports whether id is present in the user's following set.
func (u *User) IsFollowing(id primitive.ObjectID) bool {
	for _, f := range u.Following {
		if f == id {
			return true
		}
	}
	return false
}

// ProfileResponse is a User with the social edges resolved to public
// summaries, mirroring the shape returned by profile and follow endpoints.
type ProfileResponse struct {
	ID        primitive.ObjectID `json:"id"`
	Email     string             `json:"email"`
	Username  string             `json:"username"`
	Avatar    string             `json:"avatar,omitempty"`
	Bio       string             `json:"bio,omitempty"`
	Following []UserSummary      `json:"following"`
	Followers []UserSummary      `json:"followers"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// RegisterRequest defines the request body for user registration
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=2,max=30"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginRequest defines the request body for user login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest defines the request body for a partial profile update
type UpdateProfileRequest struct {
	Username *string `json:"username,omitempty" validate:"omitempty,min=2,max=30"`
	Avatar   *string `json:"avatar,omitempty"`
	Bio      *string `json:"bio,omitempty" validate:"omitempty,max=500"`
}
