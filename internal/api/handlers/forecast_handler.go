package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Adriano-luizello/Profeta-sub001/internal/service"
)

type ForecastHandler struct {
	forecastService *service.ForecastService
}

func NewForecastHandler(forecastService *service.ForecastService) *ForecastHandler {
	return &ForecastHandler{forecastService: forecastService}
}

// Refresh asks the forecast service for new predictions and stores the
// resulting demand rates. ?reuse=true reads the last stored forecast instead.
func (h *ForecastHandler) Refresh(c *gin.Context) {
	reuse, _ := strconv.ParseBool(c.DefaultQuery("reuse", "false"))

	result, err := h.forecastService.Refresh(c.Request.Context(), c.Param("id"), reuse)
	if err != nil {
		respondError(c, err, nil)
		return
	}

	c.JSON(http.StatusOK, result)
}
