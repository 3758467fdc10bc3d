package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"controlling_irrigation/internal/irrigation"

	"github.com/gin-gonic/gin"
)

// statusFor maps a service error to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, irrigation.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, irrigation.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes {"error": ...}. Client errors carry the error text;
// server errors are logged under logKey and answered with userMsg.
func (h *Handler) respondError(c *gin.Context, err error, userMsg, logKey string, kv ...any) {
	code := statusFor(err)
	if code < http.StatusInternalServerError {
		c.JSON(code, gin.H{"error": err.Error()})
		return
	}
	if h.log != nil {
		fields := append([]any{"err", err, "request_id", c.GetString(requestIDKey)}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(code, gin.H{"error": userMsg})
}

func badRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", irrigation.ErrInvalidInput, fmt.Sprintf(format, args...))
}

// pathID reads a positive integer path parameter.
func pathID(c *gin.Context, name string) (int, error) {
	v, err := strconv.Atoi(c.Param(name))
	if err != nil || v <= 0 {
		return 0, badRequest("%s must be a positive integer", name)
	}
	return v, nil
}
