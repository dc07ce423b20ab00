package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"sprint_beacon/internal/service"
)

// RunnerRequest names a runner.
type RunnerRequest struct {
	Name string `json:"name" binding:"required" example:"Ada"`
}

// settingsError treats validation failures as bad requests.
func (h *Handler) settingsError(c *gin.Context, logKey string, err error) {
	if errors.Is(err, service.ErrInvalidRunner) || errors.Is(err, service.ErrInvalidRange) {
		h.logAndJSONError(c, http.StatusBadRequest, err.Error(), logKey, err)
		return
	}
	h.logAndJSONError(c, http.StatusInternalServerError, "failed to save settings", logKey, err)
}

// @Summary      List runners
// @Tags         runners
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "runners, selected"
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/runners [get]
// @Security     BearerAuth
func (h *Handler) listRunners(c *gin.Context) {
	runners, err := h.services.Runners.List(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to load runners", "runners_list_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"runners":  runners,
		"selected": h.services.Setup.Settings().SelectedRunner,
	})
}

// @Summary      Add runner
// @Tags         runners
// @Accept       json
// @Produce      json
// @Param        body  body      RunnerRequest  true  "Runner"
// @Success      201   {object}  models.Runner
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/runners [post]
// @Security     BearerAuth
func (h *Handler) addRunner(c *gin.Context) {
	var req RunnerRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	r, err := h.services.Runners.Add(c.Request.Context(), req.Name)
	if err != nil {
		h.settingsError(c, "runner_add_failed", err)
		return
	}
	c.JSON(http.StatusCreated, r)
}

// @Summary      Select runner
// @Description  Future runs are recorded for this runner. Unknown names are created.
// @Tags         runners
// @Accept       json
// @Produce      json
// @Param        body  body      RunnerRequest  true  "Runner"
// @Success      200   {object}  models.BeaconSettings
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/runners/selected [put]
// @Security     BearerAuth
func (h *Handler) selectRunner(c *gin.Context) {
	var req RunnerRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	st, err := h.services.Setup.SelectRunner(c.Request.Context(), req.Name)
	if err != nil {
		h.settingsError(c, "runner_select_failed", err)
		return
	}
	c.JSON(http.StatusOK, st)
}
