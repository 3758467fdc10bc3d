package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"controlling_irrigation/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errFromInvalid = "invalid 'from' time; use RFC3339 or YYYY-MM-DD"
	errToInvalid   = "invalid 'to' time; use RFC3339 or YYYY-MM-DD"
	errLoadLogs    = "failed to load logs"

	layoutDateTime = "2006-01-02 15:04:05"
	layoutNaive    = "2006-01-02T15:04:05"
	layoutDate     = "2006-01-02"
)

// isDateOnly reports whether the query string represents a date without time component.
func isDateOnly(s string) bool {
	return !strings.ContainsAny(s, "T ")
}

// @Summary      Activity log
// @Description  Configuration changes, oldest first. Dates without a time make 'to' inclusive to the end of that day.
// @Tags         logs
// @Produce      json
// @Param        from        query  string  false  "Start of range (RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD')"  example(2025-08-01)
// @Param        to          query  string  false  "End of range; date-only treated as end of day"  example(2025-08-31)
// @Param        type        query  string  false  "Event type"  Enums(STATION_ADDED,STATION_DELETED,STATION_UPDATED,OVERRIDE_SET,OVERRIDE_CLEARED,PROGRAM_ADDED,PROGRAM_DELETED,PROGRAM_UPDATED,CONFIG_RELOADED)
// @Param        station_id  query  int     false  "Only events of this station"
// @Success      200  {object}  map[string]interface{}  "count, events"
// @Failure      400  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /logs [get]
func (h *Handler) getLogs(c *gin.Context) {
	var (
		from, to  time.Time
		stationID int
		eventType = strings.ToUpper(strings.TrimSpace(c.Query("type")))
		err       error
	)
	if qs := c.Query("from"); qs != "" {
		if from, err = h.parseQueryTime(qs); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errFromInvalid})
			return
		}
	}
	if qs := c.Query("to"); qs != "" {
		if to, err = h.parseQueryTime(qs); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errToInvalid})
			return
		}
		if isDateOnly(qs) {
			to = to.Add(24*time.Hour - time.Nanosecond)
		}
	}
	if qs := c.Query("station_id"); qs != "" {
		if stationID, err = strconv.Atoi(qs); err != nil || stationID <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'station_id'"})
			return
		}
	}

	events, err := h.services.EventLog.List(c.Request.Context(), service.LogFilter{
		From:      from,
		To:        to,
		Type:      eventType,
		StationID: stationID,
	})
	if err != nil {
		h.respondError(c, err, errLoadLogs, "logs_list_failed", "from", from, "to", to, "type", eventType)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":  len(events),
		"events": events,
	})
}

// parseQueryTime accepts RFC3339 or a zone-less date/time, read in the
// handler's location.
func (h *Handler) parseQueryTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	for _, layout := range []string{layoutDateTime, layoutNaive, layoutDate} {
		if t, err := time.ParseInLocation(layout, s, h.loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, badRequest(
		"invalid time %q, expected RFC3339 (e.g. 2025-08-27T15:04:05Z), 'YYYY-MM-DD HH:MM:SS' or 'YYYY-MM-DD'", s)
}
