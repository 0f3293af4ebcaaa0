package handler

import (
	"github.com/gin-gonic/gin"
	inventoryapp "github.com/workshoperp/backend/internal/application/inventory"
)

// ItemCategoryHandler handles item category endpoints
type ItemCategoryHandler struct {
	BaseHandler
	categoryService *inventoryapp.CategoryService
}

// NewItemCategoryHandler creates a new ItemCategoryHandler
func NewItemCategoryHandler(categoryService *inventoryapp.CategoryService) *ItemCategoryHandler {
	return &ItemCategoryHandler{categoryService: categoryService}
}

// RegisterRoutes registers the item category routes
func (h *ItemCategoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	categories := rg.Group("/item-categories")
	categories.POST("", h.Create)
	categories.GET("", h.List)
	categories.PUT("/:id", h.Update)
	categories.DELETE("/:id", h.Delete)
}

// Create creates an item category
func (h *ItemCategoryHandler) Create(c *gin.Context) {
	var req inventoryapp.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	category, err := h.categoryService.CreateCategory(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, category)
}

// List returns a paginated list of item categories
func (h *ItemCategoryHandler) List(c *gin.Context) {
	filter, err := bindListFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.categoryService.ListCategories(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	Paginated(&h.BaseHandler, c, result)
}

// Update renames an item category
func (h *ItemCategoryHandler) Update(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid category ID format")
		return
	}

	var req inventoryapp.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	category, err := h.categoryService.UpdateCategory(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, category)
}

// Delete removes an item category that no item references
func (h *ItemCategoryHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid category ID format")
		return
	}

	if err := h.categoryService.DeleteCategory(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}
