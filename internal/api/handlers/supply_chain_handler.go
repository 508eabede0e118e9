package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Adriano-luizello/Profeta-sub001/internal/recommendation"
	"github.com/Adriano-luizello/Profeta-sub001/internal/service"
	"github.com/Adriano-luizello/Profeta-sub001/internal/supplychain"
)

type SupplyChainHandler struct {
	supplyChainService *service.SupplyChainService
}

func NewSupplyChainHandler(supplyChainService *service.SupplyChainService) *SupplyChainHandler {
	return &SupplyChainHandler{supplyChainService: supplyChainService}
}

// GetMetrics returns per-product supply-chain metrics, most urgent first
func (h *SupplyChainHandler) GetMetrics(c *gin.Context) {
	metrics, err := h.supplyChainService.Metrics(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, nil)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": metrics, "total": len(metrics)})
}

func (h *SupplyChainHandler) GetSummary(c *gin.Context) {
	summary, err := h.supplyChainService.Summary(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, nil)
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (h *SupplyChainHandler) GetRecommendations(c *gin.Context) {
	recs, err := h.supplyChainService.Recommendations(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, nil)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": recs, "total": len(recs)})
}

type generateRequest struct {
	Inputs []recommendation.Input `json:"inputs" binding:"required"`
	Params *supplychain.Params    `json:"params"`
}

// Generate runs the recommendation generator on caller-supplied inputs
func (h *SupplyChainHandler) Generate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p := supplychain.DefaultParams()
	if req.Params != nil {
		p = req.Params.WithDefaults()
	}

	recs := recommendation.Generate(req.Inputs, p)
	c.JSON(http.StatusOK, gin.H{"data": recs, "total": len(recs)})
}
