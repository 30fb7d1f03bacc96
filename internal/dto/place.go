package dto

type CreatePlaceRequest struct {
	Title       string   `json:"title" binding:"required,min=1,max=120"`
	Description string   `json:"description" binding:"max=2000"`
	Address     string   `json:"address" binding:"max=200"`
	Latitude    *float64 `json:"latitude" binding:"omitempty,min=-90,max=90"`
	Longitude   *float64 `json:"longitude" binding:"omitempty,min=-180,max=180"`
	IsActive    *bool    `json:"isActive"`
	Category    string   `json:"category" binding:"max=20"`
	Phone       string   `json:"phone" binding:"max=40"`
	Website     string   `json:"website" binding:"omitempty,url,max=500"`
}

type UpdatePlaceRequest struct {
	Title            *string  `json:"title" binding:"omitempty,min=1,max=120"`
	Description      *string  `json:"description" binding:"omitempty,max=2000"`
	Address          *string  `json:"address" binding:"omitempty,max=200"`
	Latitude         *float64 `json:"latitude" binding:"omitempty,min=-90,max=90"`
	Longitude        *float64 `json:"longitude" binding:"omitempty,min=-180,max=180"`
	ClearCoordinates bool     `json:"clearCoordinates"`
	IsActive         *bool    `json:"isActive"`
	Category         *string  `json:"category" binding:"omitempty,max=20"`
	Phone            *string  `json:"phone" binding:"omitempty,max=40"`
	Website          *string  `json:"website" binding:"omitempty,max=500"`
}

type PlaceResponse struct {
	ID          int64    `json:"id" validate:"required,gt=0"`
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description"`
	Address     string   `json:"address,omitempty"`
	Latitude    *float64 `json:"latitude,omitempty" validate:"omitempty,gte=-90,lte=90"`
	Longitude   *float64 `json:"longitude,omitempty" validate:"omitempty,gte=-180,lte=180"`
	IsActive    bool     `json:"isActive"`
	Category    string   `json:"category" validate:"oneof=pet-friendly shop vet"`
	Phone       string   `json:"phone,omitempty"`
	Website     string   `json:"website,omitempty"`
	Distance    *float64 `json:"distance,omitempty" validate:"omitempty,gte=0"`
}

type ListPlacesResponse struct {
	Items []PlaceResponse `json:"items" validate:"dive"`
}
