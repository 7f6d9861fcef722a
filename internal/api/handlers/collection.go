package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bramment1/poke-trade-scan-web/internal/services"
)

type CollectionHandler struct {
	catalog *services.CatalogService
}

func NewCollectionHandler(catalog *services.CatalogService) *CollectionHandler {
	return &CollectionHandler{
		catalog: catalog,
	}
}

type addToCollectionRequest struct {
	Username  string   `json:"username"`
	SetID     string   `json:"setId"`
	Number    string   `json:"number"`
	Name      *string  `json:"name"`
	Condition string   `json:"condition"`
	Status    string   `json:"status"`
	Price     *float64 `json:"price"`
}

// AddToCollection records a listing and creates the canonical card on first use.
// Every call appends a new entry; there is no edit.
func (h *CollectionHandler) AddToCollection(c *gin.Context) {
	var req addToCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	cardID, err := h.catalog.AddToCollection(c.Request.Context(), services.AddEntryInput{
		Username:  req.Username,
		SetID:     req.SetID,
		Number:    req.Number,
		Name:      req.Name,
		Condition: req.Condition,
		Status:    req.Status,
		Price:     req.Price,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "cardId": cardID})
}
