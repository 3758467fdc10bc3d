package handlers

import (
	"net/http"
	"time"

	"controlling_irrigation/internal/logger"
	"controlling_irrigation/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const statusOK = "ok"

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
	loc      *time.Location
	stream   streamLimits
}

type streamLimits struct {
	def time.Duration
	max time.Duration
}

// Option customizes NewHandler.
type Option func(*Handler)

// WithLocation sets the zone for query times given without an offset.
func WithLocation(loc *time.Location) Option {
	return func(h *Handler) {
		if loc != nil {
			h.loc = loc
		}
	}
}

// WithStreamIntervals bounds the ?interval of the status stream.
func WithStreamIntervals(def, max time.Duration) Option {
	return func(h *Handler) {
		if def > 0 && max >= def {
			h.stream = streamLimits{def: def, max: max}
		}
	}
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger, opts ...Option) *Handler {
	h := &Handler{
		services: services,
		log:      log,
		loc:      time.UTC,
		stream:   streamLimits{def: defaultInterval, max: maxInterval},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestID(), h.requestLogger())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/health", h.health)

	h.registerConfigRoutes(router)
	h.registerStatusRoutes(router)
	router.GET("/logs", h.getLogs)
	router.GET("/ws", h.wsConnect)

	return router
}

func (h *Handler) registerConfigRoutes(r *gin.Engine) {
	r.GET("/config", h.getConfig)

	stations := r.Group("/config/station")
	{
		stations.POST("", h.addStation)
		stations.GET("/:station_id", h.getStation)
		stations.DELETE("/:station_id", h.deleteStation)
		stations.PUT("/:station_id/description", h.setStationDescription)
		stations.PUT("/:station_id/name", h.setStationName)
		stations.PUT("/:station_id/enable", h.enableStation)
		stations.PUT("/:station_id/disable", h.disableStation)
		stations.PUT("/:station_id/override", h.setOverride)
		stations.DELETE("/:station_id/override", h.clearOverride)

		programs := stations.Group("/:station_id/program")
		{
			programs.GET("", h.listPrograms)
			programs.POST("", h.addProgram)
			programs.GET("/:program_id", h.getProgram)
			programs.DELETE("/:program_id", h.deleteProgram)
			programs.PUT("/:program_id/:field", h.updateProgram)
		}
	}
}

func (h *Handler) registerStatusRoutes(r *gin.Engine) {
	status := r.Group("/status")
	{
		status.GET("/station", h.getStatuses)
		status.GET("/station/:station_id", h.getStatus)
		status.GET("/station/:station_id/is_active", h.getIsActive)
		status.GET("/active_stations", h.getActiveStations)
	}
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": statusOK})
}
