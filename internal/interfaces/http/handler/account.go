package handler

import (
	"github.com/gin-gonic/gin"
	financeapp "github.com/workshoperp/backend/internal/application/finance"
)

// AccountHandler handles cash and bank account endpoints
type AccountHandler struct {
	BaseHandler
	accountService *financeapp.AccountService
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(accountService *financeapp.AccountService) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

// RegisterRoutes registers the account routes
func (h *AccountHandler) RegisterRoutes(rg *gin.RouterGroup) {
	accounts := rg.Group("/accounts")
	accounts.POST("", h.Create)
	accounts.GET("", h.List)
	accounts.GET("/:id", h.GetByID)
	accounts.PUT("/:id", h.Update)
	accounts.DELETE("/:id", h.Delete)
}

// Create creates a cash or bank account. A positive opening balance is
// booked as an opening ledger entry.
func (h *AccountHandler) Create(c *gin.Context) {
	var req financeapp.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	req.CreatedBy = getActorID(c)

	account, err := h.accountService.CreateAccount(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, account)
}

// GetByID returns a single account
func (h *AccountHandler) GetByID(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid account ID format")
		return
	}

	account, err := h.accountService.GetAccount(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, account)
}

// List returns a paginated list of accounts
func (h *AccountHandler) List(c *gin.Context) {
	filter, err := bindListFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if accountType := c.Query("type"); accountType != "" {
		filter.Filters["type"] = accountType
	}

	result, err := h.accountService.ListAccounts(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	Paginated(&h.BaseHandler, c, result)
}

// Update updates the editable account fields
func (h *AccountHandler) Update(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid account ID format")
		return
	}

	var req financeapp.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	account, err := h.accountService.UpdateAccount(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, account)
}

// Delete removes an account without transaction history
func (h *AccountHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid account ID format")
		return
	}

	if err := h.accountService.DeleteAccount(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}
