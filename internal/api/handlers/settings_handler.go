package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Adriano-luizello/Profeta-sub001/internal/domain"
	"github.com/Adriano-luizello/Profeta-sub001/internal/service"
)

type SettingsHandler struct {
	settingsService *service.SettingsService
}

func NewSettingsHandler(settingsService *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

func (h *SettingsHandler) GetSettings(c *gin.Context) {
	view, err := h.settingsService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, nil)
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	var update domain.Settings
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	view, err := h.settingsService.Update(c.Request.Context(), c.Param("id"), update)
	if err != nil {
		respondError(c, err, nil)
		return
	}

	c.JSON(http.StatusOK, view)
}
