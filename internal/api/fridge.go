package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/smartfridge-backend/internal/service"
)

// FridgeHandler serves pantry management.
type FridgeHandler struct {
	store  *service.RecipeService
	logger *zap.SugaredLogger
}

func NewFridgeHandler(store *service.RecipeService, logger *zap.SugaredLogger) *FridgeHandler {
	return &FridgeHandler{store: store, logger: logger}
}

func (h *FridgeHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/fridge", h.GetSupplies)
	router.PUT("/fridge", h.ReplaceSupplies)
	router.PUT("/fridge/order", h.UpdateOrder)
	router.POST("/fridge/:item", h.AddItem)
	router.PUT("/fridge/:item", h.UpdateItemCount)
	router.DELETE("/fridge/:item", h.RemoveItem)
}

// GetSupplies answers GET /api/fridge.
func (h *FridgeHandler) GetSupplies(c *gin.Context) {
	supplies, err := h.store.GetSupplies(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"supplies": supplies})
}

// ReplaceSupplies answers PUT /api/fridge with a full pantry replacement.
func (h *FridgeHandler) ReplaceSupplies(c *gin.Context) {
	var req struct {
		Supplies []string `json:"supplies"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Supplies == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "supplies list is required"})
		return
	}

	if err := h.store.ReplaceSupplies(c.Request.Context(), req.Supplies); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Fridge updated successfully", "supplies": req.Supplies})
}

// UpdateOrder answers PUT /api/fridge/order.
func (h *FridgeHandler) UpdateOrder(c *gin.Context) {
	var req struct {
		Items []string `json:"items"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.Items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "items list is required"})
		return
	}

	if err := h.store.UpdateSupplyOrder(c.Request.Context(), req.Items); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order updated successfully"})
}

// AddItem answers POST /api/fridge/{item}?count=N, accumulating quantity.
func (h *FridgeHandler) AddItem(c *gin.Context) {
	item := strings.TrimSpace(c.Param("item"))
	if item == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Item name is required"})
		return
	}

	count := 1
	if raw := c.Query("count"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "count must be an integer"})
			return
		}
		count = parsed
	}
	if count < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Count must be at least 1"})
		return
	}

	if err := h.store.AddSupply(c.Request.Context(), item, count); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Added %d %s to fridge", count, item)})
}

// UpdateItemCount answers PUT /api/fridge/{item} with body {count}.
func (h *FridgeHandler) UpdateItemCount(c *gin.Context) {
	item := strings.TrimSpace(c.Param("item"))
	if item == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Item name is required"})
		return
	}

	var req struct {
		Count *int `json:"count"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Count == nil || *req.Count < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Count must be at least 1"})
		return
	}

	if err := h.store.UpdateSupplyCount(c.Request.Context(), item, *req.Count); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Updated %s count to %d", item, *req.Count)})
}

// RemoveItem answers DELETE /api/fridge/{item}.
func (h *FridgeHandler) RemoveItem(c *gin.Context) {
	item := strings.TrimSpace(c.Param("item"))
	if item == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Item name is required"})
		return
	}

	if err := h.store.RemoveSupply(c.Request.Context(), item); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Removed %s from fridge", item)})
}
