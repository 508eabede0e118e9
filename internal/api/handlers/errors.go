package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Adriano-luizello/Profeta-sub001/internal/service"
)

// statusFor maps a service error onto an HTTP status
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrFileRejected), errors.Is(err, service.ErrInvalidSettings):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrAnalysisNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrManualMappingRequired), errors.Is(err, service.ErrNoValidRows):
		return http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrForecastUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err with its mapped status. Internal errors are logged
// and their message is not leaked.
func respondError(c *gin.Context, err error, extra gin.H) {
	status := statusFor(err)
	body := gin.H{"error": err.Error()}
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
		body["error"] = "internal server error"
	}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(status, body)
}
