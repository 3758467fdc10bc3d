package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"controlling_irrigation/internal/irrigation"
	"controlling_irrigation/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errLoadConfig    = "failed to load configuration"
	errUpdateStation = "failed to update station"
)

// @Summary      Full configuration
// @Tags         config
// @Produce      json
// @Success      200  {object}  irrigation.Config
// @Failure      500  {object}  map[string]string
// @Router       /config [get]
func (h *Handler) getConfig(c *gin.Context) {
	cfg, err := h.services.Stations.Snapshot(c.Request.Context())
	if err != nil {
		h.respondError(c, err, errLoadConfig, "config_snapshot_failed")
		return
	}
	c.JSON(http.StatusOK, cfg)
}

// @Summary      Get station
// @Tags         config
// @Produce      json
// @Param        station_id  path  int  true  "Station id"
// @Success      200  {object}  irrigation.Station
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /config/station/{station_id} [get]
func (h *Handler) getStation(c *gin.Context) {
	sid, err := pathID(c, "station_id")
	if err != nil {
		h.respondError(c, err, "", "")
		return
	}
	st, err := h.services.Stations.GetStation(c.Request.Context(), sid)
	if err != nil {
		h.respondError(c, err, errLoadConfig, "station_get_failed", "station_id", sid)
		return
	}
	c.JSON(http.StatusOK, st)
}

// @Summary      Add station
// @Description  Creates a disabled station with one default program under the lowest free id.
// @Tags         config
// @Produce      json
// @Success      201  {object}  irrigation.Station
// @Failure      500  {object}  map[string]string
// @Router       /config/station [post]
func (h *Handler) addStation(c *gin.Context) {
	st, err := h.services.Stations.AddStation(c.Request.Context())
	if err != nil {
		h.respondError(c, err, errUpdateStation, "station_add_failed")
		return
	}
	c.Header("Location", fmt.Sprintf("/status/station/%d", st.ID))
	c.JSON(http.StatusCreated, st)
}

// @Summary      Delete station
// @Tags         config
// @Param        station_id  path  int  true  "Station id"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /config/station/{station_id} [delete]
func (h *Handler) deleteStation(c *gin.Context) {
	sid, err := pathID(c, "station_id")
	if err != nil {
		h.respondError(c, err, "", "")
		return
	}
	if err := h.services.Stations.DeleteStation(c.Request.Context(), sid); err != nil {
		h.respondError(c, err, errUpdateStation, "station_delete_failed", "station_id", sid)
		return
	}
	c.Status(http.StatusNoContent)
}

// stationUpdate runs fn for the path station and answers with the updated station.
func (h *Handler) stationUpdate(c *gin.Context, logKey string, fn func(sid int) error) {
	sid, err := pathID(c, "station_id")
	if err != nil {
		h.respondError(c, err, "", "")
		return
	}
	if err := fn(sid); err != nil {
		h.respondError(c, err, errUpdateStation, logKey, "station_id", sid)
		return
	}
	st, err := h.services.Stations.GetStation(c.Request.Context(), sid)
	if err != nil {
		h.respondError(c, err, errLoadConfig, "station_get_failed", "station_id", sid)
		return
	}
	c.JSON(http.StatusOK, st)
}

// @Summary      Set station description
// @Tags         config
// @Param        station_id  path   int     true  "Station id"
// @Param        desc        query  string  true  "Description"
// @Success      200  {object}  irrigation.Station
// @Router       /config/station/{station_id}/description [put]
func (h *Handler) setStationDescription(c *gin.Context) {
	desc, ok := c.GetQuery("desc")
	if !ok {
		h.respondError(c, badRequest("missing 'desc'"), "", "")
		return
	}
	h.stationUpdate(c, "station_description_failed", func(sid int) error {
		return h.services.Stations.SetStationDescription(c.Request.Context(), sid, desc)
	})
}

// @Summary      Set station name
// @Tags         config
// @Param        station_id  path   int     true  "Station id"
// @Param        name        query  string  true  "Name"
// @Success      200  {object}  irrigation.Station
// @Router       /config/station/{station_id}/name [put]
func (h *Handler) setStationName(c *gin.Context) {
	name, ok := c.GetQuery("name")
	if !ok {
		h.respondError(c, badRequest("missing 'name'"), "", "")
		return
	}
	h.stationUpdate(c, "station_name_failed", func(sid int) error {
		return h.services.Stations.SetStationName(c.Request.Context(), sid, name)
	})
}

// @Summary      Enable station
// @Tags         config
// @Param        station_id  path  int  true  "Station id"
// @Success      200  {object}  irrigation.Station
// @Router       /config/station/{station_id}/enable [put]
func (h *Handler) enableStation(c *gin.Context) {
	h.stationUpdate(c, "station_enable_failed", func(sid int) error {
		return h.services.Stations.SetStationEnabled(c.Request.Context(), sid, true)
	})
}

// @Summary      Disable station
// @Tags         config
// @Param        station_id  path  int  true  "Station id"
// @Success      200  {object}  irrigation.Station
// @Router       /config/station/{station_id}/disable [put]
func (h *Handler) disableStation(c *gin.Context) {
	h.stationUpdate(c, "station_disable_failed", func(sid int) error {
		return h.services.Stations.SetStationEnabled(c.Request.Context(), sid, false)
	})
}

// @Summary      Set manual override
// @Description  An active override forces the station on or off regardless of its programs.
// @Tags         config
// @Param        station_id     path   int     true   "Station id"
// @Param        start_time     query  string  false  "Start (RFC3339 or 'YYYY-MM-DD HH:MM:SS'); defaults to now"
// @Param        duration       query  string  true   "ISO-8601 span (PT30M) or Go duration (30m)"
// @Param        override_type  query  string  true   "Override type"  Enums(on,off)
// @Param        enabled        query  bool    false  "Defaults to true"
// @Success      200  {object}  irrigation.Station
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /config/station/{station_id}/override [put]
func (h *Handler) setOverride(c *gin.Context) {
	p, err := h.parseOverride(c)
	if err != nil {
		h.respondError(c, err, "", "")
		return
	}
	h.stationUpdate(c, "override_set_failed", func(sid int) error {
		return h.services.Stations.SetOverride(c.Request.Context(), sid, p)
	})
}

func (h *Handler) parseOverride(c *gin.Context) (service.OverrideParams, error) {
	var p service.OverrideParams

	start := time.Now()
	if qs := c.Query("start_time"); qs != "" {
		t, err := h.parseQueryTime(qs)
		if err != nil {
			return p, err
		}
		start = t
	}

	d, err := irrigation.ParseDuration(c.Query("duration"))
	if err != nil {
		return p, err
	}

	typ, err := irrigation.ParseOverrideType(c.Query("override_type"))
	if err != nil {
		return p, err
	}

	enabled := true
	if qs := strings.TrimSpace(c.Query("enabled")); qs != "" {
		if enabled, err = strconv.ParseBool(qs); err != nil {
			return p, badRequest("invalid 'enabled' %q", qs)
		}
	}

	return service.OverrideParams{StartTime: start, Duration: d.Std(), Type: typ, Enabled: enabled}, nil
}

// @Summary      Clear manual override
// @Tags         config
// @Param        station_id  path  int  true  "Station id"
// @Success      200  {object}  irrigation.Station
// @Router       /config/station/{station_id}/override [delete]
func (h *Handler) clearOverride(c *gin.Context) {
	h.stationUpdate(c, "override_clear_failed", func(sid int) error {
		return h.services.Stations.ClearOverride(c.Request.Context(), sid)
	})
}
