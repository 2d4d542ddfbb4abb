package domain

import "time"

// User is a registered account. Email is the unique, case-sensitive login key.
// PasswordHash never leaves the server.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Avatar       *string   `json:"avatar,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ProfileUpdate carries the optional fields accepted by PUT /auth/profile.
// Nil fields are left untouched.
type ProfileUpdate struct {
	Name   *string
	Avatar *string
}
