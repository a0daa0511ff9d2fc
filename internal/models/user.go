package models

import "time"

// UserProfile is the public profile returned by /users/profile/ and embedded
// in photos and collections.
type UserProfile struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	FullName       string    `json:"full_name"`
	ProfilePicture *string   `json:"profile_picture,omitempty"`
	Bio            string    `json:"bio,omitempty"`
	About          string    `json:"about,omitempty"`
	Phone          string    `json:"phone,omitempty"`
	Website        string    `json:"website,omitempty"`
	Location       string    `json:"location,omitempty"`
	FollowersCount int       `json:"followers_count"`
	FollowingCount int       `json:"following_count"`
	DateJoined     time.Time `json:"date_joined"`
	Role           *string   `json:"role,omitempty"`
}

// ProfileUpdate is the PUT /users/profile/ payload. Nil fields are left
// unchanged by the server.
type ProfileUpdate struct {
	Username *string `json:"username,omitempty"`
	FullName *string `json:"full_name,omitempty"`
	Bio      *string `json:"bio,omitempty"`
	About    *string `json:"about,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Website  *string `json:"website,omitempty"`
	Location *string `json:"location,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
	Role     string `json:"role,omitempty"`
}

// AuthResponse is returned by login and register.
type AuthResponse struct {
	Token   string      `json:"token"`
	Refresh string      `json:"refresh,omitempty"`
	User    UserProfile `json:"user"`
}

// TokenRequest carries the refresh token for refresh and logout calls.
type TokenRequest struct {
	Refresh string `json:"refresh,omitempty"`
}

type TokenResponse struct {
	Token   string `json:"token"`
	Refresh string `json:"refresh,omitempty"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// MessageResponse is the {"message": "..."} body of acknowledgement endpoints.
type MessageResponse struct {
	Message string `json:"message"`
}
