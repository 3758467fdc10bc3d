package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const errEvaluate = "failed to evaluate stations"

// @Summary      Status of every station
// @Description  All stations are evaluated at the same instant.
// @Tags         status
// @Produce      json
// @Success      200  {array}   irrigation.StationSummary
// @Router       /status/station [get]
func (h *Handler) getStatuses(c *gin.Context) {
	sums, err := h.services.Monitoring.Statuses(c.Request.Context())
	if err != nil {
		h.respondError(c, err, errEvaluate, "status_list_failed")
		return
	}
	c.JSON(http.StatusOK, sums)
}

// @Summary      Status of one station
// @Tags         status
// @Produce      json
// @Param        station_id  path  int  true  "Station id"
// @Success      200  {object}  irrigation.StationSummary
// @Failure      404  {object}  map[string]string
// @Router       /status/station/{station_id} [get]
func (h *Handler) getStatus(c *gin.Context) {
	sid, err := pathID(c, "station_id")
	if err != nil {
		h.respondError(c, err, "", "")
		return
	}
	sum, err := h.services.Monitoring.Status(c.Request.Context(), sid)
	if err != nil {
		h.respondError(c, err, errEvaluate, "status_get_failed", "station_id", sid)
		return
	}
	c.JSON(http.StatusOK, sum)
}

// @Summary      Is the station valve open
// @Tags         status
// @Produce      json
// @Param        station_id  path  int  true  "Station id"
// @Success      200  {boolean}  bool
// @Failure      404  {object}   map[string]string
// @Router       /status/station/{station_id}/is_active [get]
func (h *Handler) getIsActive(c *gin.Context) {
	sid, err := pathID(c, "station_id")
	if err != nil {
		h.respondError(c, err, "", "")
		return
	}
	active, err := h.services.Monitoring.IsActive(c.Request.Context(), sid)
	if err != nil {
		h.respondError(c, err, errEvaluate, "status_is_active_failed", "station_id", sid)
		return
	}
	c.JSON(http.StatusOK, active)
}

// @Summary      Verdict of every station
// @Tags         status
// @Produce      json
// @Success      200  {object}  map[string]bool
// @Router       /status/active_stations [get]
func (h *Handler) getActiveStations(c *gin.Context) {
	active, err := h.services.Monitoring.ActiveStations(c.Request.Context())
	if err != nil {
		h.respondError(c, err, errEvaluate, "status_active_failed")
		return
	}
	c.JSON(http.StatusOK, active)
}
