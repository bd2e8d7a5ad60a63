package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/devbada/hogumeter-sub001/internal/domain"
	"github.com/devbada/hogumeter-sub001/internal/service"
	"github.com/devbada/hogumeter-sub001/internal/tariff"
)

// TariffHandler handles HTTP requests for region fare schedules.
type TariffHandler struct {
	tariffService *service.TariffService
}

// NewTariffHandler creates a new TariffHandler.
func NewTariffHandler(tariffService *service.TariffService) *TariffHandler {
	return &TariffHandler{tariffService: tariffService}
}

// RegionFareResponse is the HTTP representation of a schedule.
type RegionFareResponse struct {
	Code            string                                `json:"code"`
	DisplayName     string                                `json:"display_name"`
	Tiers           map[domain.TierKind]domain.TariffTier `json:"tiers"`
	SurchargeAmount int64                                 `json:"surcharge_amount"`
	IsUserCreated   bool                                  `json:"is_user_created"`
}

// UpsertTariffRequest is the canonical three-tier upsert payload.
type UpsertTariffRequest struct {
	DisplayName     string                                `json:"display_name"`
	Tiers           map[domain.TierKind]domain.TariffTier `json:"tiers" binding:"required"`
	SurchargeAmount int64                                 `json:"surcharge_amount"`
}

func toRegionFareResponse(fare *domain.RegionFare) RegionFareResponse {
	return RegionFareResponse{
		Code:            string(fare.Code),
		DisplayName:     fare.DisplayName,
		Tiers:           fare.Tiers,
		SurchargeAmount: fare.SurchargeAmount,
		IsUserCreated:   fare.IsUserCreated,
	}
}

// List handles GET /v1/tariffs.
func (h *TariffHandler) List(c *gin.Context) {
	fares, err := h.tariffService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]RegionFareResponse, 0, len(fares))
	for _, fare := range fares {
		resp = append(resp, toRegionFareResponse(fare))
	}
	respondJSON(c, http.StatusOK, resp)
}

// Get handles GET /v1/tariffs/:code.
func (h *TariffHandler) Get(c *gin.Context) {
	fare, err := h.tariffService.Get(c.Request.Context(), domain.RegionCode(c.Param("code")))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRegionFareResponse(fare))
}

// Upsert handles PUT /v1/tariffs/:code.
func (h *TariffHandler) Upsert(c *gin.Context) {
	var req UpsertTariffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, service.ErrInvalidTariff)
		return
	}

	fare := &domain.RegionFare{
		Code:            domain.RegionCode(c.Param("code")),
		DisplayName:     req.DisplayName,
		Tiers:           req.Tiers,
		SurchargeAmount: req.SurchargeAmount,
	}
	if err := h.tariffService.Upsert(c.Request.Context(), fare); err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRegionFareResponse(fare))
}

// UpsertLegacy handles PUT /v1/tariffs/:code/legacy, accepting the
// older single-tier-plus-surcharge-rate schema.
func (h *TariffHandler) UpsertLegacy(c *gin.Context) {
	var req tariff.LegacyRegionFare
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, service.ErrInvalidTariff)
		return
	}
	req.Code = c.Param("code")

	fare, err := h.tariffService.UpsertLegacy(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRegionFareResponse(fare))
}

// Delete handles DELETE /v1/tariffs/:code.
func (h *TariffHandler) Delete(c *gin.Context) {
	if err := h.tariffService.Delete(c.Request.Context(), domain.RegionCode(c.Param("code"))); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
