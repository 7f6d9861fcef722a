package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bramment1/poke-trade-scan-web/internal/services"
)

type PriceHandler struct {
	priceService *services.PriceService
}

func NewPriceHandler(priceService *services.PriceService) *PriceHandler {
	return &PriceHandler{
		priceService: priceService,
	}
}

type estimatePriceRequest struct {
	SetID   string `json:"setId"`
	Number  string `json:"number"`
	Variant string `json:"variant"`
}

// EstimatePrice merges the pricing sources for one card variant
func (h *PriceHandler) EstimatePrice(c *gin.Context) {
	var req estimatePriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	estimate, err := h.priceService.EstimatePrice(c.Request.Context(), req.SetID, req.Number, req.Variant)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, estimate)
}
