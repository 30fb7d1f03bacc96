package handlers

import (
	"net/http"

	"github.com/topgambajrjdeveloper/barkandmeow-sub000/internal/dto"
	"github.com/topgambajrjdeveloper/barkandmeow-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

// MapHandler serves the card list together with its marker layer so both
// views stay in sync.
type MapHandler struct {
	maps   *service.MapService
	events *service.EventService
}

func NewMapHandler(maps *service.MapService, events *service.EventService) *MapHandler {
	return &MapHandler{maps: maps, events: events}
}

// Events godoc
// @Summary      Events with map markers
// @Tags         map
// @Produce      json
// @Param        filter  query     string  false  "all, upcoming or past"
// @Param        lat     query     number  false  "User latitude"
// @Param        lng     query     number  false  "User longitude"
// @Success      200     {object}  dto.EventMapResponse
// @Failure      400     {object}  map[string]string
// @Router       /map/events [get]
func (h *MapHandler) Events(c *gin.Context) {
	user, err := userLocation(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	q, err := eventQuery(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	list, view, err := h.maps.Events(c.Request.Context(), q, user)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.EventMapResponse{Items: eventsToResponses(h.events, list), Map: view})
}

// Places godoc
// @Summary      Places with map markers
// @Tags         map
// @Produce      json
// @Param        category  query     string  false  "pet-friendly, shop or vet"
// @Param        q         query     string  false  "Text search"
// @Param        lat       query     number  false  "User latitude"
// @Param        lng       query     number  false  "User longitude"
// @Success      200       {object}  dto.PlaceMapResponse
// @Failure      400       {object}  map[string]string
// @Router       /map/services [get]
func (h *MapHandler) Places(c *gin.Context) {
	user, err := userLocation(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	q, err := placeQuery(c, user)
	if err != nil {
		badRequest(c, err)
		return
	}
	list, view, err := h.maps.Places(c.Request.Context(), q, user)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.PlaceMapResponse{Items: placesToResponses(list), Map: view})
}
