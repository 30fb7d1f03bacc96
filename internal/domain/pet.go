package domain

import "time"

type Pet struct {
	ID        int64
	OwnerID   int64
	Name      string
	Species   string
	Breed     string
	Birthdate *time.Time
	Bio       string
	AvatarKey string

	CreatedAt time.Time
	UpdatedAt time.Time
}
