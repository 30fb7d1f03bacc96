package dto

import "github.com/topgambajrjdeveloper/barkandmeow-sub000/internal/geomap"

// EventMapResponse pairs the event cards with the marker layer built from them.
type EventMapResponse struct {
	Items []EventResponse `json:"items"`
	Map   geomap.View     `json:"map"`
}

type PlaceMapResponse struct {
	Items []PlaceResponse `json:"items"`
	Map   geomap.View     `json:"map"`
}
