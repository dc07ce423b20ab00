package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"sprint_beacon/internal/service"
)

const (
	statusOK           = "ok"
	statusConnecting   = "connecting"
	statusDisconnected = "disconnected"
	statusSent         = "sent"

	errGetState        = "failed to load state"
	errInvalidBodyPref = "invalid body: "
)

// logAndJSONError logs err under logKey and writes userMsg with httpCode.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		if httpCode >= http.StatusInternalServerError {
			h.log.Errorw(logKey, fields...)
		} else {
			h.log.Infow(logKey, fields...)
		}
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// beaconError maps control errors to HTTP codes.
func (h *Handler) beaconError(c *gin.Context, logKey string, err error) {
	switch {
	case errors.Is(err, service.ErrNoAddress):
		h.logAndJSONError(c, http.StatusBadRequest, err.Error(), logKey, err)
	case errors.Is(err, service.ErrNotConnected), errors.Is(err, service.ErrAlreadyConnected):
		h.logAndJSONError(c, http.StatusConflict, err.Error(), logKey, err)
	default:
		h.logAndJSONError(c, http.StatusInternalServerError, err.Error(), logKey, err)
	}
}

// respondWithStatusAndState includes the current state when it can be read.
func (h *Handler) respondWithStatusAndState(c *gin.Context, status string, extra gin.H) {
	resp := gin.H{"status": status}
	for k, v := range extra {
		resp[k] = v
	}
	if st, err := h.services.Monitoring.GetState(c.Request.Context()); err == nil {
		resp["state"] = st
	}
	c.JSON(http.StatusOK, resp)
}

// ConnectRequest selects the beacon to connect to.
type ConnectRequest struct {
	// Beacon address; empty uses the configured one.
	Address string `json:"address" example:"F4:12:FA:00:11:22"`
}

// ToggleRequest switches a beacon feature on or off.
type ToggleRequest struct {
	On *bool `json:"on" binding:"required" example:"true"`
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": statusOK})
}

// @Summary      Connect to the beacon
// @Description  Starts the connection handshake; follow progress in link_state.
// @Tags         beacon
// @Accept       json
// @Produce      json
// @Param        body  body      ConnectRequest  false  "Beacon address"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/beacon/connect [post]
// @Security     BearerAuth
func (h *Handler) connectBeacon(c *gin.Context) {
	var req ConnectRequest
	if c.Request.ContentLength != 0 {
		if ok := h.bindJSONOrBadRequest(c, &req); !ok {
			return
		}
	}
	if err := h.services.Beacon.Connect(c.Request.Context(), req.Address); err != nil {
		h.beaconError(c, "beacon_connect_failed", err)
		return
	}
	h.respondWithStatusAndState(c, statusConnecting, gin.H{})
}

// @Summary      Disconnect from the beacon
// @Tags         beacon
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/beacon/disconnect [post]
// @Security     BearerAuth
func (h *Handler) disconnectBeacon(c *gin.Context) {
	if err := h.services.Beacon.Disconnect(c.Request.Context()); err != nil {
		h.beaconError(c, "beacon_disconnect_failed", err)
		return
	}
	h.respondWithStatusAndState(c, statusDisconnected, gin.H{})
}

// @Summary      Arm the start gate
// @Tags         beacon
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/beacon/arm [post]
// @Security     BearerAuth
func (h *Handler) armBeacon(c *gin.Context) {
	if err := h.services.Beacon.Arm(c.Request.Context()); err != nil {
		h.beaconError(c, "beacon_arm_failed", err)
		return
	}
	h.respondWithStatusAndState(c, statusSent, gin.H{"command": "arm"})
}

// @Summary      Switch the range laser
// @Tags         beacon
// @Accept       json
// @Produce      json
// @Param        body  body      ToggleRequest  true  "Laser on/off"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/beacon/laser [post]
// @Security     BearerAuth
func (h *Handler) setLaser(c *gin.Context) {
	var req ToggleRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	if err := h.services.Beacon.SetLaser(c.Request.Context(), *req.On); err != nil {
		h.beaconError(c, "beacon_laser_failed", err)
		return
	}
	h.respondWithStatusAndState(c, statusSent, gin.H{"command": "laser", "on": *req.On})
}

// @Summary      Switch automatic re-arming
// @Tags         beacon
// @Accept       json
// @Produce      json
// @Param        body  body      ToggleRequest  true  "Auto on/off"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/beacon/auto [post]
// @Security     BearerAuth
func (h *Handler) setAuto(c *gin.Context) {
	var req ToggleRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	if err := h.services.Beacon.SetAuto(c.Request.Context(), *req.On); err != nil {
		h.beaconError(c, "beacon_auto_failed", err)
		return
	}
	h.respondWithStatusAndState(c, statusSent, gin.H{"command": "auto", "on": *req.On})
}

// @Summary      Get beacon state
// @Tags         beacon
// @Produce      json
// @Success      200  {object}  models.BeaconState
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/beacon/state [get]
// @Security     BearerAuth
func (h *Handler) getState(c *gin.Context) {
	st, err := h.services.Monitoring.GetState(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errGetState, "beacon_get_state_failed", err)
		return
	}
	c.JSON(http.StatusOK, st)
}
