package handler

import (
	"github.com/gin-gonic/gin"
	financeapp "github.com/workshoperp/backend/internal/application/finance"
	"github.com/workshoperp/backend/internal/domain/finance"
)

// ExpenseHandler handles expense and expense category endpoints
type ExpenseHandler struct {
	BaseHandler
	expenseService *financeapp.ExpenseService
}

// NewExpenseHandler creates a new ExpenseHandler
func NewExpenseHandler(expenseService *financeapp.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService}
}

// RegisterRoutes registers the expense routes
func (h *ExpenseHandler) RegisterRoutes(rg *gin.RouterGroup) {
	categories := rg.Group("/expense-categories")
	categories.POST("", h.CreateCategory)
	categories.GET("", h.ListCategories)
	categories.PUT("/:id", h.UpdateCategory)
	categories.DELETE("/:id", h.DeleteCategory)

	expenses := rg.Group("/expenses")
	expenses.POST("", h.Create)
	expenses.GET("", h.List)
	expenses.GET("/:id", h.GetByID)
	expenses.DELETE("/:id", h.Delete)
}

// CreateCategory creates an expense category
func (h *ExpenseHandler) CreateCategory(c *gin.Context) {
	var req financeapp.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	category, err := h.expenseService.CreateCategory(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, category)
}

// ListCategories returns a paginated list of expense categories
func (h *ExpenseHandler) ListCategories(c *gin.Context) {
	filter, err := bindListFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.expenseService.ListCategories(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	Paginated(&h.BaseHandler, c, result)
}

// UpdateCategory renames an expense category
func (h *ExpenseHandler) UpdateCategory(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid category ID format")
		return
	}

	var req financeapp.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	category, err := h.expenseService.UpdateCategory(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, category)
}

// DeleteCategory removes an expense category with no expenses
func (h *ExpenseHandler) DeleteCategory(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid category ID format")
		return
	}

	if err := h.expenseService.DeleteCategory(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

// Create records an expense and debits the paying account
func (h *ExpenseHandler) Create(c *gin.Context) {
	var req financeapp.CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	req.CreatedBy = getActorID(c)

	expense, err := h.expenseService.CreateExpense(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, expense)
}

// GetByID returns a single expense
func (h *ExpenseHandler) GetByID(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid expense ID format")
		return
	}

	expense, err := h.expenseService.GetExpense(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, expense)
}

// List returns a paginated list of expenses
func (h *ExpenseHandler) List(c *gin.Context) {
	baseFilter, err := bindListFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := finance.ExpenseFilter{Filter: baseFilter}
	if filter.CategoryID, err = parseUUIDQuery(c, "category_id"); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if filter.AccountID, err = parseUUIDQuery(c, "account_id"); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.expenseService.ListExpenses(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	Paginated(&h.BaseHandler, c, result)
}

// Delete reverses an expense: the ledger entry is removed and the
// account balance restored
func (h *ExpenseHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid expense ID format")
		return
	}

	if err := h.expenseService.DeleteExpense(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}
