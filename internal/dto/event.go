package dto

import "time"

type CreateEventRequest struct {
	Title       string   `json:"title" binding:"required,min=1,max=120"`
	Description string   `json:"description" binding:"max=2000"`
	Date        Date     `json:"date"`
	Location    string   `json:"location" binding:"max=200"`
	Latitude    *float64 `json:"latitude" binding:"omitempty,min=-90,max=90"`
	Longitude   *float64 `json:"longitude" binding:"omitempty,min=-180,max=180"`
	ImageURL    string   `json:"imageUrl" binding:"omitempty,url,max=500"`
}

// UpdateEventRequest is a partial update; nil fields are left unchanged.
// ClearCoordinates removes both coordinates.
type UpdateEventRequest struct {
	Title            *string  `json:"title" binding:"omitempty,min=1,max=120"`
	Description      *string  `json:"description" binding:"omitempty,max=2000"`
	Date             *Date    `json:"date"`
	Location         *string  `json:"location" binding:"omitempty,max=200"`
	Latitude         *float64 `json:"latitude" binding:"omitempty,min=-90,max=90"`
	Longitude        *float64 `json:"longitude" binding:"omitempty,min=-180,max=180"`
	ClearCoordinates bool     `json:"clearCoordinates"`
	ImageURL         *string  `json:"imageUrl" binding:"omitempty,max=500"`
}

type EventResponse struct {
	ID             int64     `json:"id" validate:"required,gt=0"`
	Title          string    `json:"title" validate:"required"`
	Description    string    `json:"description"`
	Date           time.Time `json:"date" validate:"required"`
	Location       string    `json:"location"`
	Latitude       *float64  `json:"latitude,omitempty" validate:"omitempty,gte=-90,lte=90"`
	Longitude      *float64  `json:"longitude,omitempty" validate:"omitempty,gte=-180,lte=180"`
	ImageURL       string    `json:"imageUrl,omitempty"`
	AttendeesCount int       `json:"attendeesCount" validate:"gte=0"`
	IsPast         bool      `json:"isPast"`
	IsToday        bool      `json:"isToday"`
	IsTomorrow     bool      `json:"isTomorrow"`
	Attending      *bool     `json:"attending,omitempty"`
}

type ListEventsResponse struct {
	Items []EventResponse `json:"items" validate:"dive"`
}

type AttendanceResponse struct {
	EventID        int64 `json:"eventId" validate:"required,gt=0"`
	Attending      bool  `json:"attending"`
	AttendeesCount int   `json:"attendeesCount" validate:"gte=0"`
}
