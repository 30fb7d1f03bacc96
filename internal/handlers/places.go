package handlers

import (
	"net/http"

	dom "github.com/topgambajrjdeveloper/barkandmeow-sub000/internal/domain"
	"github.com/topgambajrjdeveloper/barkandmeow-sub000/internal/dto"
	"github.com/topgambajrjdeveloper/barkandmeow-sub000/internal/listing"
	"github.com/topgambajrjdeveloper/barkandmeow-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

type PlaceHandler struct {
	svc *service.PlaceService
}

func NewPlaceHandler(svc *service.PlaceService) *PlaceHandler {
	return &PlaceHandler{svc: svc}
}

// placeQuery reads category, q and sort. Sort defaults to distance when the
// caller sent a location.
func placeQuery(c *gin.Context, from *dom.Coordinates) (listing.PlaceQuery, error) {
	cat, err := queryCategory(c)
	if err != nil {
		return listing.PlaceQuery{}, err
	}
	sortRaw := c.Query("sort")
	if sortRaw == "" && from != nil {
		sortRaw = string(listing.SortByDistance)
	}
	sort, err := listing.ParsePlaceSort(sortRaw)
	if err != nil {
		return listing.PlaceQuery{}, err
	}
	return listing.PlaceQuery{Category: cat, Text: c.Query("q"), OnlyActive: true, Sort: sort}, nil
}

// List godoc
// @Summary      List active places
// @Tags         services
// @Produce      json
// @Param        category  query     string  false  "pet-friendly, shop or vet"
// @Param        q         query     string  false  "Text search"
// @Param        lat       query     number  false  "Caller latitude"
// @Param        lng       query     number  false  "Caller longitude"
// @Param        sort      query     string  false  "title or distance"
// @Success      200       {object}  dto.ListPlacesResponse
// @Failure      400       {object}  map[string]string
// @Router       /services [get]
func (h *PlaceHandler) List(c *gin.Context) {
	from, err := userLocation(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	q, err := placeQuery(c, from)
	if err != nil {
		badRequest(c, err)
		return
	}
	list, err := h.svc.List(c.Request.Context(), service.PlaceListQuery{PlaceQuery: q, From: from})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ListPlacesResponse{Items: placesToResponses(list)})
}

// Get godoc
// @Summary      Get a place
// @Tags         services
// @Produce      json
// @Param        id   path      int     true   "Place ID"
// @Param        lat  query     number  false  "Caller latitude"
// @Param        lng  query     number  false  "Caller longitude"
// @Success      200  {object}  dto.PlaceResponse
// @Failure      404  {object}  map[string]string
// @Router       /services/{id} [get]
func (h *PlaceHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	from, err := userLocation(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	p, err := h.svc.Get(c.Request.Context(), id, false, from)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, placeToResponse(p))
}

// Create godoc
// @Summary      Create a place
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        body  body      dto.CreatePlaceRequest  true  "Place"
// @Success      201   {object}  dto.PlaceResponse
// @Failure      400   {object}  map[string]string
// @Router       /admin/services [post]
func (h *PlaceHandler) Create(c *gin.Context) {
	var req dto.CreatePlaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	cat, err := dom.ParseCategory(req.Category)
	if err != nil {
		badRequest(c, err)
		return
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	p, err := h.svc.Create(c.Request.Context(), service.PlaceInput{
		Title:       req.Title,
		Description: req.Description,
		Address:     req.Address,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		IsActive:    active,
		Category:    cat,
		Phone:       req.Phone,
		Website:     req.Website,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, placeToResponse(p))
}

// Update godoc
// @Summary      Update a place
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        id    path      int  true  "Place ID"
// @Param        body  body      dto.UpdatePlaceRequest  true  "Partial update"
// @Success      200   {object}  dto.PlaceResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /admin/services/{id} [patch]
func (h *PlaceHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdatePlaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	patch := service.PlacePatch{
		Title:            req.Title,
		Description:      req.Description,
		Address:          req.Address,
		Latitude:         req.Latitude,
		Longitude:        req.Longitude,
		ClearCoordinates: req.ClearCoordinates,
		IsActive:         req.IsActive,
		Phone:            req.Phone,
		Website:          req.Website,
	}
	if req.Category != nil {
		cat, err := dom.ParseCategory(*req.Category)
		if err != nil {
			badRequest(c, err)
			return
		}
		patch.Category = &cat
	}
	p, err := h.svc.Update(c.Request.Context(), id, patch)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, placeToResponse(p))
}

// Delete godoc
// @Summary      Delete a place
// @Tags         admin
// @Security     CookieAuth
// @Param        id   path  int  true  "Place ID"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /admin/services/{id} [delete]
func (h *PlaceHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func placeToResponse(p dom.Place) dto.PlaceResponse {
	return dto.PlaceResponse{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Address:     p.Address,
		Latitude:    p.Latitude,
		Longitude:   p.Longitude,
		IsActive:    p.IsActive,
		Category:    string(p.Category),
		Phone:       p.Phone,
		Website:     p.Website,
		Distance:    p.Distance,
	}
}

func placesToResponses(list []dom.Place) []dto.PlaceResponse {
	out := make([]dto.PlaceResponse, len(list))
	for i := range list {
		out[i] = placeToResponse(list[i])
	}
	return out
}
