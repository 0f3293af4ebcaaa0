package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	inventoryapp "github.com/workshoperp/backend/internal/application/inventory"
	"github.com/workshoperp/backend/internal/domain/inventory"
)

// ItemHandler handles item and stock endpoints
type ItemHandler struct {
	BaseHandler
	itemService *inventoryapp.ItemService
}

// NewItemHandler creates a new ItemHandler
func NewItemHandler(itemService *inventoryapp.ItemService) *ItemHandler {
	return &ItemHandler{itemService: itemService}
}

// RegisterRoutes registers the item routes
func (h *ItemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	items := rg.Group("/items")
	items.POST("", h.Create)
	items.GET("", h.List)
	items.GET("/:id", h.GetByID)
	items.PUT("/:id", h.Update)
	items.DELETE("/:id", h.Delete)
	items.POST("/:id/adjust", h.AdjustStock)
	items.GET("/:id/stock", h.GetStockInfo)
	items.GET("/:id/adjustments", h.GetStockHistory)
}

// Create creates an item at zero stock
func (h *ItemHandler) Create(c *gin.Context) {
	var req inventoryapp.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	req.CreatedBy = getActorID(c)

	item, err := h.itemService.CreateItem(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, item)
}

// GetByID returns a single item
func (h *ItemHandler) GetByID(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid item ID format")
		return
	}

	item, err := h.itemService.GetItem(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, item)
}

// List returns a paginated list of items
func (h *ItemHandler) List(c *gin.Context) {
	baseFilter, err := bindListFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := inventory.ItemFilter{Filter: baseFilter}
	if rawType := c.Query("type"); rawType != "" {
		itemType := inventory.ItemType(rawType)
		filter.Type = &itemType
	}
	if filter.CategoryID, err = parseUUIDQuery(c, "category_id"); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	filter.InStock, _ = strconv.ParseBool(c.Query("in_stock"))

	result, err := h.itemService.ListItems(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	Paginated(&h.BaseHandler, c, result)
}

// Update updates the editable item fields
func (h *ItemHandler) Update(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid item ID format")
		return
	}

	var req inventoryapp.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	item, err := h.itemService.UpdateItem(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, item)
}

// Delete removes an item without stock or history
func (h *ItemHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid item ID format")
		return
	}

	if err := h.itemService.DeleteItem(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

// AdjustStock applies a signed stock delta to an item
func (h *ItemHandler) AdjustStock(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid item ID format")
		return
	}

	var req inventoryapp.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	req.CreatedBy = getActorID(c)

	item, err := h.itemService.AdjustStock(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, item)
}

// GetStockInfo returns the stock position of an item
func (h *ItemHandler) GetStockInfo(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid item ID format")
		return
	}

	info, err := h.itemService.GetStockInfo(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, info)
}

// GetStockHistory returns the paginated adjustment history of an item
func (h *ItemHandler) GetStockHistory(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid item ID format")
		return
	}

	baseFilter, err := bindListFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := inventory.AdjustmentFilter{Filter: baseFilter}
	if filter.StartDate, err = parseDateQuery(c, "start_date"); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if filter.EndDate, err = parseDateQuery(c, "end_date"); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if raw := c.Query("increase"); raw != "" {
		increase, err := strconv.ParseBool(raw)
		if err != nil {
			h.BadRequest(c, "invalid increase: expected true or false")
			return
		}
		filter.Increase = &increase
	}

	result, err := h.itemService.GetStockHistory(c.Request.Context(), id, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	Paginated(&h.BaseHandler, c, result)
}
