package handler

import (
	"github.com/gin-gonic/gin"
	productionapp "github.com/workshoperp/backend/internal/application/production"
)

// RecipeHandler handles recipe endpoints
type RecipeHandler struct {
	BaseHandler
	recipeService *productionapp.RecipeService
}

// NewRecipeHandler creates a new RecipeHandler
func NewRecipeHandler(recipeService *productionapp.RecipeService) *RecipeHandler {
	return &RecipeHandler{recipeService: recipeService}
}

// RegisterRoutes registers the recipe routes
func (h *RecipeHandler) RegisterRoutes(rg *gin.RouterGroup) {
	recipes := rg.Group("/recipes")
	recipes.POST("", h.Create)
	recipes.GET("", h.List)
	recipes.GET("/:id", h.GetByID)
	recipes.PUT("/:id", h.Update)
	recipes.DELETE("/:id", h.Delete)
	recipes.GET("/:id/cost", h.GetCostBreakdown)
}

// Create creates a recipe for a final item
func (h *RecipeHandler) Create(c *gin.Context) {
	var req productionapp.CreateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	req.CreatedBy = getActorID(c)

	recipe, err := h.recipeService.CreateRecipe(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, recipe)
}

// GetByID returns a single recipe with its ingredients
func (h *RecipeHandler) GetByID(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid recipe ID format")
		return
	}

	recipe, err := h.recipeService.GetRecipe(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, recipe)
}

// List returns a paginated list of recipes
func (h *RecipeHandler) List(c *gin.Context) {
	filter, err := bindListFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.recipeService.ListRecipes(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	Paginated(&h.BaseHandler, c, result)
}

// Update replaces the ingredient list of a recipe
func (h *RecipeHandler) Update(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid recipe ID format")
		return
	}

	var req productionapp.UpdateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	recipe, err := h.recipeService.UpdateRecipe(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, recipe)
}

// Delete removes a recipe that no production batch uses
func (h *RecipeHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid recipe ID format")
		return
	}

	if err := h.recipeService.DeleteRecipe(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

// GetCostBreakdown prices one unit of output at current average prices
func (h *RecipeHandler) GetCostBreakdown(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid recipe ID format")
		return
	}

	cost, err := h.recipeService.GetCostBreakdown(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, cost)
}
