package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	dom "github.com/topgambajrjdeveloper/barkandmeow-sub000/internal/domain"
	"github.com/topgambajrjdeveloper/barkandmeow-sub000/internal/listing"
	"github.com/topgambajrjdeveloper/barkandmeow-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

func parseID(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// writeError maps service errors to HTTP status codes. Unknown errors are
// attached to the context for the request logger and reported as 500.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrUserBanned):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrUsernameTaken):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrImageTooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidCoordinates),
		errors.Is(err, service.ErrEventInPast),
		errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrUnsupportedImage),
		errors.Is(err, listing.ErrUnknownFilter):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// userLocation reads the optional lat/lng query pair. Both or neither must be
// given.
func userLocation(c *gin.Context) (*dom.Coordinates, error) {
	latRaw, lngRaw := strings.TrimSpace(c.Query("lat")), strings.TrimSpace(c.Query("lng"))
	if latRaw == "" && lngRaw == "" {
		return nil, nil
	}
	var lat, lng *float64
	if latRaw != "" {
		v, err := strconv.ParseFloat(latRaw, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid lat: %w", err)
		}
		lat = &v
	}
	if lngRaw != "" {
		v, err := strconv.ParseFloat(lngRaw, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid lng: %w", err)
		}
		lng = &v
	}
	return dom.CoordinatesFrom(lat, lng)
}

// queryTime parses a date-only or RFC3339 query value. A date-only upper
// bound covers the whole day.
func queryTime(c *gin.Context, name string, endOfDay bool) (*time.Time, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		if endOfDay {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: use YYYY-MM-DD or RFC3339", name)
	}
	return &t, nil
}

func queryCategory(c *gin.Context) (*dom.Category, error) {
	raw := strings.TrimSpace(c.Query("category"))
	if raw == "" || raw == "all" {
		return nil, nil
	}
	cat, err := dom.ParseCategory(raw)
	if err != nil {
		return nil, err
	}
	return &cat, nil
}

func queryInt(c *gin.Context, name string, def int) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return def
	}
	return v
}
