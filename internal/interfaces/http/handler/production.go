package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	productionapp "github.com/workshoperp/backend/internal/application/production"
	"github.com/workshoperp/backend/internal/domain/production"
)

// ProductionHandler handles production batch endpoints
type ProductionHandler struct {
	BaseHandler
	productionService *productionapp.ProductionService
}

// NewProductionHandler creates a new ProductionHandler
func NewProductionHandler(productionService *productionapp.ProductionService) *ProductionHandler {
	return &ProductionHandler{productionService: productionService}
}

// RegisterRoutes registers the production routes
func (h *ProductionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	productions := rg.Group("/productions")
	productions.POST("", h.Create)
	productions.GET("", h.List)
	productions.GET("/:id", h.GetByID)
	productions.DELETE("/:id", h.Delete)
	productions.PATCH("/:id/notes", h.UpdateNotes)
	productions.PUT("/:id/ingredients", h.UpdateIngredients)
	productions.GET("/:id/feasibility", h.GetFeasibility)
	productions.POST("/:id/start", h.Start)
	productions.POST("/:id/complete", h.Complete)
}

// StartProductionRequest optionally overrides the batch start date
type StartProductionRequest struct {
	StartDate *time.Time `json:"start_date"`
}

// Create plans a DRAFT batch from a recipe
func (h *ProductionHandler) Create(c *gin.Context) {
	var req productionapp.CreateProductionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	req.CreatedBy = getActorID(c)

	batch, err := h.productionService.CreateProduction(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, batch)
}

// GetByID returns a single batch with its ingredients and output items
func (h *ProductionHandler) GetByID(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid production ID format")
		return
	}

	batch, err := h.productionService.GetProduction(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, batch)
}

// List returns a paginated list of batches
func (h *ProductionHandler) List(c *gin.Context) {
	baseFilter, err := bindListFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := production.ProductionFilter{Filter: baseFilter}
	if filter.RecipeID, err = parseUUIDQuery(c, "recipe_id"); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if filter.FinalItemID, err = parseUUIDQuery(c, "final_item_id"); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if rawStatus := c.Query("status"); rawStatus != "" {
		status := production.Status(rawStatus)
		filter.Status = &status
	}

	result, err := h.productionService.ListProductions(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	Paginated(&h.BaseHandler, c, result)
}

// Delete removes a DRAFT batch
func (h *ProductionHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid production ID format")
		return
	}

	if err := h.productionService.DeleteProduction(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

// UpdateNotes changes the notes of a DRAFT batch
func (h *ProductionHandler) UpdateNotes(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid production ID format")
		return
	}

	var req productionapp.UpdateNotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	batch, err := h.productionService.UpdateNotes(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, batch)
}

// UpdateIngredients replaces the ingredient list of a DRAFT batch
func (h *ProductionHandler) UpdateIngredients(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid production ID format")
		return
	}

	var req productionapp.UpdateIngredientsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	batch, err := h.productionService.UpdateIngredients(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, batch)
}

// GetFeasibility reports whether current stock covers the batch and
// how many units it could support
func (h *ProductionHandler) GetFeasibility(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid production ID format")
		return
	}

	report, err := h.productionService.GetFeasibility(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, report)
}

// Start consumes the ingredient stock and moves the batch to IN_PROCESS
func (h *ProductionHandler) Start(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid production ID format")
		return
	}

	var req StartProductionRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		h.BindingError(c, err)
		return
	}
	startDate := time.Now()
	if req.StartDate != nil {
		startDate = *req.StartDate
	}

	batch, err := h.productionService.StartProduction(c.Request.Context(), id, startDate)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, batch)
}

// Complete receives the finished units into stock, one serial per unit
func (h *ProductionHandler) Complete(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid production ID format")
		return
	}

	var req productionapp.CompleteProductionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	if req.CompletionDate.IsZero() {
		req.CompletionDate = time.Now()
	}

	batch, err := h.productionService.CompleteProduction(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, batch)
}
