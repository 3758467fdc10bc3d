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

const errUpdateProgram = "failed to update program"

func (h *Handler) programPath(c *gin.Context) (sid, pid int, err error) {
	if sid, err = pathID(c, "station_id"); err != nil {
		return 0, 0, err
	}
	if pid, err = pathID(c, "program_id"); err != nil {
		return 0, 0, err
	}
	return sid, pid, nil
}

// @Summary      List station programs
// @Tags         programs
// @Produce      json
// @Param        station_id  path  int  true  "Station id"
// @Success      200  {array}   irrigation.Program
// @Failure      404  {object}  map[string]string
// @Router       /config/station/{station_id}/program [get]
func (h *Handler) listPrograms(c *gin.Context) {
	sid, err := pathID(c, "station_id")
	if err != nil {
		h.respondError(c, err, "", "")
		return
	}
	list, err := h.services.Programs.ListPrograms(c.Request.Context(), sid)
	if err != nil {
		h.respondError(c, err, errLoadConfig, "program_list_failed", "station_id", sid)
		return
	}
	c.JSON(http.StatusOK, list)
}

// @Summary      Add program
// @Description  Attaches a disabled Tuesday 08:00 program (30 minutes) under the lowest free id.
// @Tags         programs
// @Produce      json
// @Param        station_id  path  int  true  "Station id"
// @Success      201  {object}  irrigation.Program
// @Failure      404  {object}  map[string]string
// @Router       /config/station/{station_id}/program [post]
func (h *Handler) addProgram(c *gin.Context) {
	sid, err := pathID(c, "station_id")
	if err != nil {
		h.respondError(c, err, "", "")
		return
	}
	p, err := h.services.Programs.AddProgram(c.Request.Context(), sid)
	if err != nil {
		h.respondError(c, err, errUpdateProgram, "program_add_failed", "station_id", sid)
		return
	}
	c.Header("Location", fmt.Sprintf("/config/station/%d/program/%d", sid, p.ID))
	c.JSON(http.StatusCreated, p)
}

// @Summary      Get program
// @Tags         programs
// @Produce      json
// @Param        station_id  path  int  true  "Station id"
// @Param        program_id  path  int  true  "Program id"
// @Success      200  {object}  irrigation.Program
// @Failure      404  {object}  map[string]string
// @Router       /config/station/{station_id}/program/{program_id} [get]
func (h *Handler) getProgram(c *gin.Context) {
	sid, pid, err := h.programPath(c)
	if err != nil {
		h.respondError(c, err, "", "")
		return
	}
	p, err := h.services.Programs.GetProgram(c.Request.Context(), sid, pid)
	if err != nil {
		h.respondError(c, err, errLoadConfig, "program_get_failed", "station_id", sid, "program_id", pid)
		return
	}
	c.JSON(http.StatusOK, p)
}

// @Summary      Delete program
// @Tags         programs
// @Param        station_id  path  int  true  "Station id"
// @Param        program_id  path  int  true  "Program id"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /config/station/{station_id}/program/{program_id} [delete]
func (h *Handler) deleteProgram(c *gin.Context) {
	sid, pid, err := h.programPath(c)
	if err != nil {
		h.respondError(c, err, "", "")
		return
	}
	if err := h.services.Programs.DeleteProgram(c.Request.Context(), sid, pid); err != nil {
		h.respondError(c, err, errUpdateProgram, "program_delete_failed", "station_id", sid, "program_id", pid)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary      Update one program field
// @Description  field is one of name, description, trigger, day, duration, enabled, disabled, start_time,
// @Description  enabled_after, enabled_before. The value travels in the query parameter of the same name
// @Description  (description also accepts descr). An empty enabled_after/enabled_before clears the bound.
// @Tags         programs
// @Produce      json
// @Param        station_id  path   int     true   "Station id"
// @Param        program_id  path   int     true   "Program id"
// @Param        field       path   string  true   "Field"
// @Param        trigger     query  string  false  "Trigger"  Enums(daily,even_days,odd_days,week_days,week_ends,day_of_week)
// @Param        day         query  string  false  "Day name or 0-based index (0 = monday)"
// @Param        duration    query  string  false  "ISO-8601 span (PT30M) or Go duration (30m)"
// @Param        start_time  query  string  false  "HH:MM[:SS]"
// @Success      200  {object}  irrigation.Program
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /config/station/{station_id}/program/{program_id}/{field} [put]
func (h *Handler) updateProgram(c *gin.Context) {
	sid, pid, err := h.programPath(c)
	if err != nil {
		h.respondError(c, err, "", "")
		return
	}
	change, err := h.parseProgramChange(c, c.Param("field"))
	if err != nil {
		h.respondError(c, err, "", "")
		return
	}
	p, err := h.services.Programs.UpdateProgram(c.Request.Context(), sid, pid, change)
	if err != nil {
		h.respondError(c, err, errUpdateProgram, "program_update_failed",
			"station_id", sid, "program_id", pid, "field", change.Field)
		return
	}
	c.JSON(http.StatusOK, p)
}

func requiredQuery(c *gin.Context, keys ...string) (string, error) {
	for _, k := range keys {
		if v, ok := c.GetQuery(k); ok {
			return v, nil
		}
	}
	return "", badRequest("missing '%s'", keys[0])
}

func (h *Handler) parseProgramChange(c *gin.Context, field string) (service.ProgramChange, error) {
	switch field {
	case "name":
		v, err := requiredQuery(c, "name")
		if err != nil {
			return service.ProgramChange{}, err
		}
		return service.ChangeName(v), nil

	case "description":
		v, err := requiredQuery(c, "description", "descr", "desc")
		if err != nil {
			return service.ProgramChange{}, err
		}
		return service.ChangeDescription(v), nil

	case "trigger":
		v, err := requiredQuery(c, "trigger")
		if err != nil {
			return service.ProgramChange{}, err
		}
		t, err := irrigation.ParseTrigger(v)
		if err != nil {
			return service.ProgramChange{}, err
		}
		return service.ChangeTrigger(t), nil

	case "day":
		v, err := requiredQuery(c, "day")
		if err != nil {
			return service.ProgramChange{}, err
		}
		d, err := parseDay(v)
		if err != nil {
			return service.ProgramChange{}, err
		}
		return service.ChangeWeekDay(d), nil

	case "duration":
		v, err := requiredQuery(c, "duration")
		if err != nil {
			return service.ProgramChange{}, err
		}
		d, err := irrigation.ParseDuration(v)
		if err != nil {
			return service.ProgramChange{}, err
		}
		return service.ChangeDuration(d.Std()), nil

	case "start_time":
		v, err := requiredQuery(c, "start_time")
		if err != nil {
			return service.ProgramChange{}, err
		}
		ct, err := irrigation.ParseClockTime(v)
		if err != nil {
			return service.ProgramChange{}, err
		}
		return service.ChangeStartTime(ct), nil

	case "enabled":
		return service.ChangeEnabled(true), nil

	case "disabled":
		return service.ChangeEnabled(false), nil

	case "enabled_after":
		t, err := h.optionalQueryTime(c, "enabled_after")
		if err != nil {
			return service.ProgramChange{}, err
		}
		return service.ChangeEnabledAfter(t), nil

	case "enabled_before":
		t, err := h.optionalQueryTime(c, "enabled_before")
		if err != nil {
			return service.ProgramChange{}, err
		}
		return service.ChangeEnabledBefore(t), nil
	}
	return service.ProgramChange{}, irrigation.NotFoundError("unknown program field %q", field)
}

// parseDay accepts a day name or its 0-based index.
func parseDay(s string) (irrigation.DayOfWeek, error) {
	if i, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
		return irrigation.DayFromIndex(i)
	}
	return irrigation.ParseDay(s)
}

// optionalQueryTime returns nil when key is absent or empty.
func (h *Handler) optionalQueryTime(c *gin.Context, key string) (*time.Time, error) {
	qs := strings.TrimSpace(c.Query(key))
	if qs == "" || strings.EqualFold(qs, "null") {
		return nil, nil
	}
	t, err := h.parseQueryTime(qs)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
