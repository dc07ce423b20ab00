package handlers

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"sprint_beacon/internal/logger"
	"sprint_beacon/internal/service"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger) *Handler {
	return &Handler{services: services, log: logger.OrNop(log).Named("http")}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", h.health)

	h.registerAuthRoutes(router)
	h.registerAPIRoutes(router)

	// Live state feed on the same port.
	router.GET("/ws", h.wsConnect)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/sign-up", h.signUp)
		auth.POST("/sign-in", h.signIn)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1", h.userIDMiddleware)
	{
		h.registerBeaconRoutes(api)
		h.registerRunRoutes(api)
		h.registerRunnerRoutes(api)
		h.registerRangeRoutes(api)
		h.registerLogRoutes(api)
	}
}

func (h *Handler) registerBeaconRoutes(api *gin.RouterGroup) {
	beacon := api.Group("/beacon")
	{
		// Body example: {"address":"F4:12:FA:00:11:22"}
		beacon.POST("/connect", h.connectBeacon)
		beacon.POST("/disconnect", h.disconnectBeacon)
		beacon.POST("/arm", h.armBeacon)
		// Body example: {"on":true}
		beacon.POST("/laser", h.setLaser)
		beacon.POST("/auto", h.setAuto)
		beacon.GET("/state", h.getState)
	}
}

func (h *Handler) registerRunRoutes(api *gin.RouterGroup) {
	runs := api.Group("/runs")
	{
		runs.GET("", h.listRuns)
		runs.GET("/stats", h.runStats)
	}
}

func (h *Handler) registerRunnerRoutes(api *gin.RouterGroup) {
	runners := api.Group("/runners")
	{
		runners.GET("", h.listRunners)
		runners.POST("", h.addRunner)
		runners.PUT("/selected", h.selectRunner)
	}
}

func (h *Handler) registerRangeRoutes(api *gin.RouterGroup) {
	api.GET("/range", h.getRange)
	api.PUT("/range", h.putRange)
}

func (h *Handler) registerLogRoutes(api *gin.RouterGroup) {
	api.GET("/logs", h.getLogs)
}
