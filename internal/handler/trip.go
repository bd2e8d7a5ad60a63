package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/devbada/hogumeter-sub001/internal/domain"
	"github.com/devbada/hogumeter-sub001/internal/service"
)

// TripHandler handles HTTP requests for trip history.
type TripHandler struct {
	tripService *service.TripService
}

// NewTripHandler creates a new TripHandler.
func NewTripHandler(tripService *service.TripService) *TripHandler {
	return &TripHandler{tripService: tripService}
}

// TripResponse is the HTTP representation of a completed trip.
type TripResponse struct {
	TripID         string               `json:"trip_id"`
	DeviceID       string               `json:"device_id"`
	StartedAt      string               `json:"started_at"`
	EndedAt        string               `json:"ended_at"`
	DistanceMeters float64              `json:"distance_meters"`
	DurationSec    int64                `json:"duration_seconds"`
	StartRegion    string               `json:"start_region"`
	EndRegion      string               `json:"end_region"`
	StartDisplay   string               `json:"start_display,omitempty"`
	EndDisplay     string               `json:"end_display,omitempty"`
	Fare           domain.FareBreakdown `json:"fare"`
	EndedBy        string               `json:"ended_by"`
	PathPoints     int                  `json:"path_points"`
}

// TripPageResponse is one page of trip history.
type TripPageResponse struct {
	Trips    []TripResponse `json:"trips"`
	Total    int64          `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
}

func toTripResponse(trip *domain.Trip) TripResponse {
	return TripResponse{
		TripID:         trip.ID,
		DeviceID:       trip.DeviceID,
		StartedAt:      trip.StartedAt.Format(time.RFC3339),
		EndedAt:        trip.EndedAt.Format(time.RFC3339),
		DistanceMeters: trip.DistanceMeters,
		DurationSec:    int64(trip.Duration.Seconds()),
		StartRegion:    string(trip.StartRegion),
		EndRegion:      string(trip.EndRegion),
		StartDisplay:   trip.StartDisplay,
		EndDisplay:     trip.EndDisplay,
		Fare:           trip.Fare,
		EndedBy:        string(trip.EndedBy),
		PathPoints:     len(trip.Path),
	}
}

// List handles GET /v1/trips?device_id=..&page=..&page_size=..
func (h *TripHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	result, err := h.tripService.History(c.Request.Context(), c.Query("device_id"), page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := TripPageResponse{
		Trips:    make([]TripResponse, 0, len(result.Trips)),
		Total:    result.Total,
		Page:     result.Page,
		PageSize: result.PageSize,
	}
	for _, trip := range result.Trips {
		resp.Trips = append(resp.Trips, toTripResponse(trip))
	}

	respondJSON(c, http.StatusOK, resp)
}

// Get handles GET /v1/trips/:id.
func (h *TripHandler) Get(c *gin.Context) {
	trip, err := h.tripService.GetTrip(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toTripResponse(trip))
}

// Delete handles DELETE /v1/trips/:id.
func (h *TripHandler) Delete(c *gin.Context) {
	if err := h.tripService.DeleteTrip(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
