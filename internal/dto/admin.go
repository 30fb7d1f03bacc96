package dto

type LocationStatResponse struct {
	Location string `json:"location" validate:"required"`
	Users    int    `json:"users" validate:"gte=0"`
	Pets     int    `json:"pets" validate:"gte=0"`
}

type LocationAnalyticsResponse struct {
	Items []LocationStatResponse `json:"items" validate:"dive"`
}
