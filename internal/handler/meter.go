package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/devbada/hogumeter-sub001/internal/domain"
	"github.com/devbada/hogumeter-sub001/internal/service"
)

// MeterHandler handles HTTP requests for the live trip meter.
type MeterHandler struct {
	meterService *service.MeterService
}

// NewMeterHandler creates a new MeterHandler.
func NewMeterHandler(meterService *service.MeterService) *MeterHandler {
	return &MeterHandler{meterService: meterService}
}

// FixRequest is one GPS fix from the location provider.
type FixRequest struct {
	Latitude  float64  `json:"lat" binding:"required"`
	Longitude float64  `json:"lng" binding:"required"`
	Timestamp int64    `json:"ts_unix_ms"`
	SpeedMps  *float64 `json:"speed_mps"`
	Accuracy  float64  `json:"accuracy_m"`
}

func (r FixRequest) toFix() domain.GpsFix {
	fix := domain.GpsFix{
		Latitude:  r.Latitude,
		Longitude: r.Longitude,
		SpeedMps:  domain.SpeedUnavailable,
		Accuracy:  r.Accuracy,
	}
	if r.Timestamp > 0 {
		fix.Timestamp = time.UnixMilli(r.Timestamp).UTC()
	}
	if r.SpeedMps != nil && *r.SpeedMps >= 0 {
		fix.SpeedMps = *r.SpeedMps
	}
	return fix
}

// PromptRequest is the user's answer to the idle prompt.
type PromptRequest struct {
	Action string `json:"action" binding:"required"`
}

// StartTrip handles POST /v1/meter/:device_id/start.
func (h *MeterHandler) StartTrip(c *gin.Context) {
	var req FixRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, service.ErrInvalidFix)
		return
	}

	snap, err := h.meterService.StartTrip(c.Request.Context(), c.Param("device_id"), req.toFix())
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, snap)
}

// IngestFix handles POST /v1/meter/:device_id/fixes.
func (h *MeterHandler) IngestFix(c *gin.Context) {
	var req FixRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, service.ErrInvalidFix)
		return
	}

	if err := h.meterService.IngestFix(c.Request.Context(), c.Param("device_id"), req.toFix()); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusAccepted)
}

// StopTrip handles POST /v1/meter/:device_id/stop.
func (h *MeterHandler) StopTrip(c *gin.Context) {
	trip, err := h.meterService.StopTrip(c.Request.Context(), c.Param("device_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toTripResponse(trip))
}

// ResetTrip handles POST /v1/meter/:device_id/reset.
func (h *MeterHandler) ResetTrip(c *gin.Context) {
	if err := h.meterService.ResetTrip(c.Request.Context(), c.Param("device_id")); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ResolvePrompt handles POST /v1/meter/:device_id/prompt.
func (h *MeterHandler) ResolvePrompt(c *gin.Context) {
	var req PromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, service.ErrInvalidPromptAction)
		return
	}

	if err := h.meterService.ResolvePrompt(c.Request.Context(), c.Param("device_id"), req.Action); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Live handles GET /v1/meter/:device_id/live.
func (h *MeterHandler) Live(c *gin.Context) {
	snap, err := h.meterService.LiveSnapshot(c.Request.Context(), c.Param("device_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, snap)
}
