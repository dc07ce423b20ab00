package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sprint_beacon/internal/service"
)

// RangeRequest chooses the run distance source.
type RangeRequest struct {
	UseLidar *bool `json:"use_lidar" binding:"required" example:"true"`
	// Manual distance in yards; also the fallback while no LiDAR reading exists.
	ManualRangeYards *float64 `json:"manual_range_yards,omitempty" example:"40"`
}

// @Summary      Get range settings
// @Tags         range
// @Produce      json
// @Success      200  {object}  models.BeaconSettings
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/range [get]
// @Security     BearerAuth
func (h *Handler) getRange(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Setup.Settings())
}

// @Summary      Set range settings
// @Tags         range
// @Accept       json
// @Produce      json
// @Param        body  body      RangeRequest  true  "Range source"
// @Success      200   {object}  models.BeaconSettings
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/range [put]
// @Security     BearerAuth
func (h *Handler) putRange(c *gin.Context) {
	var req RangeRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	st, err := h.services.Setup.SetRange(c.Request.Context(), service.RangeParams{
		UseLidar:    *req.UseLidar,
		ManualYards: req.ManualRangeYards,
	})
	if err != nil {
		h.settingsError(c, "range_set_failed", err)
		return
	}
	c.JSON(http.StatusOK, st)
}
