package dto

import "time"

// ProfileRequest carries the profile fields reported by the identity provider.
type ProfileRequest struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar"`
}

// UserResponse describes the caller's profile.
type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Avatar    string    `json:"avatar"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// RoleRequest sets the role of a user.
type RoleRequest struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}
