package dto

import "time"

// LoginRequest is the JSON body for POST /auth/login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest is the JSON body for POST /auth/register.
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=40,alphanumunicode"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	Email    string `json:"email" binding:"omitempty,email,max=254"`
	Location string `json:"location" binding:"max=120"`
}

// UserResponse is returned when user info is needed (e.g. after login).
type UserResponse struct {
	ID        int64     `json:"id" validate:"required,gt=0"`
	Username  string    `json:"username" validate:"required"`
	Role      string    `json:"role" validate:"oneof=user admin"`
	Location  string    `json:"location"`
	Bio       string    `json:"bio"`
	IsBanned  bool      `json:"isBanned"`
	CreatedAt time.Time `json:"createdAt"`
}

type ListUsersResponse struct {
	Items []UserResponse `json:"items"`
}

// ProfileResponse is a public profile with the user's pets.
type ProfileResponse struct {
	User UserResponse  `json:"user"`
	Pets []PetResponse `json:"pets"`
}
