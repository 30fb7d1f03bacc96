package handlers

import (
	"bytes"
	"net/http"
	"strconv"
	"time"

	"github.com/topgambajrjdeveloper/barkandmeow-sub000/internal/auth"
	dom "github.com/topgambajrjdeveloper/barkandmeow-sub000/internal/domain"
	"github.com/topgambajrjdeveloper/barkandmeow-sub000/internal/dto"
	"github.com/topgambajrjdeveloper/barkandmeow-sub000/internal/listing"
	"github.com/topgambajrjdeveloper/barkandmeow-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

type EventHandler struct {
	svc *service.EventService
}

func NewEventHandler(svc *service.EventService) *EventHandler {
	return &EventHandler{svc: svc}
}

// eventQuery reads filter, from and to.
func eventQuery(c *gin.Context) (service.EventQuery, error) {
	f, err := listing.ParseEventFilter(c.Query("filter"))
	if err != nil {
		return service.EventQuery{}, err
	}
	from, err := queryTime(c, "from", false)
	if err != nil {
		return service.EventQuery{}, err
	}
	to, err := queryTime(c, "to", true)
	if err != nil {
		return service.EventQuery{}, err
	}
	return service.EventQuery{Filter: f, From: from, To: to}, nil
}

// List godoc
// @Summary      List events
// @Description  upcoming and all are sorted by date ascending, past by date descending
// @Tags         events
// @Produce      json
// @Param        filter  query     string  false  "all, upcoming or past"
// @Param        from    query     string  false  "YYYY-MM-DD or RFC3339"
// @Param        to      query     string  false  "YYYY-MM-DD or RFC3339"
// @Success      200     {object}  dto.ListEventsResponse
// @Failure      400     {object}  map[string]string
// @Failure      500     {object}  map[string]string
// @Router       /events [get]
func (h *EventHandler) List(c *gin.Context) {
	q, err := eventQuery(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	list, err := h.svc.List(c.Request.Context(), q)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ListEventsResponse{Items: eventsToResponses(h.svc, list)})
}

// Get godoc
// @Summary      Get an event
// @Tags         events
// @Produce      json
// @Param        id   path      int  true  "Event ID"
// @Success      200  {object}  dto.EventResponse
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /events/{id} [get]
func (h *EventHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	e, attending, err := h.svc.Get(c.Request.Context(), id, auth.UserIDFromContext(c))
	if err != nil {
		writeError(c, err)
		return
	}
	resp := eventToResponse(h.svc, e)
	resp.Attending = attending
	c.JSON(http.StatusOK, resp)
}

// ICS godoc
// @Summary      Export an event as iCalendar
// @Tags         events
// @Produce      text/calendar
// @Param        id   path  int  true  "Event ID"
// @Success      200  {string}  string
// @Failure      404  {object}  map[string]string
// @Router       /events/{id}/ics [get]
func (h *EventHandler) ICS(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := h.svc.WriteICS(c.Request.Context(), &buf, id); err != nil {
		writeError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="event-`+strconv.FormatInt(id, 10)+`.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", buf.Bytes())
}

// Attend godoc
// @Summary      Attend an event
// @Tags         events
// @Produce      json
// @Security     CookieAuth
// @Param        id   path      int  true  "Event ID"
// @Success      200  {object}  dto.AttendanceResponse
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /events/{id}/attend [post]
func (h *EventHandler) Attend(c *gin.Context) {
	h.changeAttendance(c, true)
}

// Unattend godoc
// @Summary      Stop attending an event
// @Tags         events
// @Produce      json
// @Security     CookieAuth
// @Param        id   path      int  true  "Event ID"
// @Success      200  {object}  dto.AttendanceResponse
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /events/{id}/attend [delete]
func (h *EventHandler) Unattend(c *gin.Context) {
	h.changeAttendance(c, false)
}

func (h *EventHandler) changeAttendance(c *gin.Context, attend bool) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	userID := auth.UserIDFromContext(c)
	var (
		n   int
		err error
	)
	if attend {
		n, err = h.svc.Attend(c.Request.Context(), id, userID)
	} else {
		n, err = h.svc.Unattend(c.Request.Context(), id, userID)
	}
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.AttendanceResponse{EventID: id, Attending: attend, AttendeesCount: n})
}

// Create godoc
// @Summary      Create an event
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        body  body      dto.CreateEventRequest  true  "Event"
// @Success      201   {object}  dto.EventResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /admin/events [post]
func (h *EventHandler) Create(c *gin.Context) {
	var req dto.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	in := service.EventInput{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		ImageURL:    req.ImageURL,
	}
	if req.Date.Set() {
		in.Date = *req.Date.Ptr()
	}
	e, err := h.svc.Create(c.Request.Context(), auth.UserIDFromContext(c), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, eventToResponse(h.svc, e))
}

// Update godoc
// @Summary      Update an event
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        id    path      int  true  "Event ID"
// @Param        body  body      dto.UpdateEventRequest  true  "Partial update"
// @Success      200   {object}  dto.EventResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /admin/events/{id} [patch]
func (h *EventHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	var date *time.Time
	if req.Date != nil {
		date = req.Date.Ptr()
	}
	e, err := h.svc.Update(c.Request.Context(), id, service.EventPatch{
		Title:            req.Title,
		Description:      req.Description,
		Date:             date,
		Location:         req.Location,
		Latitude:         req.Latitude,
		Longitude:        req.Longitude,
		ClearCoordinates: req.ClearCoordinates,
		ImageURL:         req.ImageURL,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, eventToResponse(h.svc, e))
}

// Delete godoc
// @Summary      Delete an event
// @Tags         admin
// @Security     CookieAuth
// @Param        id   path  int  true  "Event ID"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /admin/events/{id} [delete]
func (h *EventHandler) Delete(c *gin.Context) {
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

func eventToResponse(svc *service.EventService, e dom.Event) dto.EventResponse {
	l := svc.Labels(e)
	return dto.EventResponse{
		ID:             e.ID,
		Title:          e.Title,
		Description:    e.Description,
		Date:           e.Date,
		Location:       e.Location,
		Latitude:       e.Latitude,
		Longitude:      e.Longitude,
		ImageURL:       e.ImageURL,
		AttendeesCount: e.AttendeesCount,
		IsPast:         l.IsPast,
		IsToday:        l.IsToday,
		IsTomorrow:     l.IsTomorrow,
	}
}

func eventsToResponses(svc *service.EventService, list []dom.Event) []dto.EventResponse {
	out := make([]dto.EventResponse, len(list))
	for i := range list {
		out[i] = eventToResponse(svc, list[i])
	}
	return out
}
