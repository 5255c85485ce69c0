package users

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a caregiver account as stored in the users collection
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName  string             `bson:"fullName" json:"fullName"`
	Email     string             `bson:"email" json:"email"`
	Password  string             `bson:"password" json:"-"`
	CreatedAt string             `bson:"createdAt" json:"createdAt"`
}

// UserSummary is what signup and login return
type UserSummary struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

// Summary strips the credential and storage types from a user
func (u *User) Summary() *UserSummary {
	return &UserSummary{
		ID:       u.ID.Hex(),
		FullName: u.FullName,
		Email:    u.Email,
	}
}

// SignupRequest represents the request to register a caregiver
type SignupRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents the request to authenticate a caregiver
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate validates the signup request
func (r *SignupRequest) Validate() error {
	if strings.TrimSpace(r.FullName) == "" {
		return ErrMissingFullName
	}
	if strings.TrimSpace(r.Email) == "" {
		return ErrMissingEmail
	}
	if r.Password == "" {
		return ErrMissingPassword
	}
	return nil
}

// Validate validates the login request. An empty password is left to the
// credential check so it fails like any other mismatch.
func (r *LoginRequest) Validate() error {
	if strings.TrimSpace(r.Email) == "" {
		return ErrMissingEmail
	}
	return nil
}
