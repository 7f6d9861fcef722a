package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/bramment1/poke-trade-scan-web/internal/models"
	"github.com/bramment1/poke-trade-scan-web/internal/services"
)

type CardHandler struct {
	catalog *services.CatalogService
}

func NewCardHandler(catalog *services.CatalogService) *CardHandler {
	return &CardHandler{
		catalog: catalog,
	}
}

func (h *CardHandler) SearchCards(c *gin.Context) {
	results, err := h.catalog.Search(c.Request.Context(), services.SearchFilter{
		Query:  c.Query("q"),
		SetID:  c.Query("setId"),
		Status: c.Query("status"),
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, results)
}

// GetCard returns the card and its visible offers. The route is a catch-all
// because card numbers like "4/102" contain slashes.
func (h *CardHandler) GetCard(c *gin.Context) {
	cardID := strings.TrimPrefix(c.Param("cardId"), "/")
	if cardID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "card id is required"})
		return
	}

	detail, err := h.catalog.GetDetail(c.Request.Context(), cardID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

// GetStatuses lists the valid listing statuses
func (h *CardHandler) GetStatuses(c *gin.Context) {
	c.JSON(http.StatusOK, models.AllStatuses())
}

// GetConditions lists the conventional condition labels
func (h *CardHandler) GetConditions(c *gin.Context) {
	c.JSON(http.StatusOK, models.AllConditions())
}
