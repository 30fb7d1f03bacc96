package dto

import "time"

type CreatePetRequest struct {
	Name      string `json:"name" binding:"required,min=1,max=80"`
	Species   string `json:"species" binding:"required,min=1,max=40"`
	Breed     string `json:"breed" binding:"max=80"`
	Birthdate Date   `json:"birthdate"`
	Bio       string `json:"bio" binding:"max=500"`
}

type UpdatePetRequest struct {
	Name      *string `json:"name" binding:"omitempty,min=1,max=80"`
	Species   *string `json:"species" binding:"omitempty,min=1,max=40"`
	Breed     *string `json:"breed" binding:"omitempty,max=80"`
	Birthdate *Date   `json:"birthdate"`
	Bio       *string `json:"bio" binding:"omitempty,max=500"`
}

type PetResponse struct {
	ID        int64      `json:"id"`
	OwnerID   int64      `json:"ownerId"`
	Name      string     `json:"name"`
	Species   string     `json:"species"`
	Breed     string     `json:"breed,omitempty"`
	Birthdate *time.Time `json:"birthdate,omitempty"`
	Bio       string     `json:"bio,omitempty"`
	AvatarURL string     `json:"avatarUrl,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

type ListPetsResponse struct {
	Items []PetResponse `json:"items"`
}
