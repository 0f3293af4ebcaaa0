package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	ledgerapp "github.com/workshoperp/backend/internal/application/ledger"
	"github.com/workshoperp/backend/internal/domain/ledger"
)

// LedgerHandler handles ledger posting and balance endpoints
type LedgerHandler struct {
	BaseHandler
	ledgerService *ledgerapp.Service
}

// NewLedgerHandler creates a new LedgerHandler
func NewLedgerHandler(ledgerService *ledgerapp.Service) *LedgerHandler {
	return &LedgerHandler{ledgerService: ledgerService}
}

// RegisterRoutes registers the ledger routes
func (h *LedgerHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/ledger")
	group.POST("/entries", h.CreateEntry)
	group.GET("/:entity/:id/balance", h.GetBalance)
	group.POST("/:entity/:id/recalculate", h.RecalculateBalance)
	group.GET("/:entity/:id/entries", h.GetLedger)
}

// entityRefFromPath builds an entity reference from the entity kind and
// ID path parameters
func entityRefFromPath(c *gin.Context) (ledger.EntityRef, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return ledger.EntityRef{}, false
	}

	switch c.Param("entity") {
	case "accounts":
		return ledger.AccountRef(id), true
	case "suppliers":
		return ledger.SupplierRef(id), true
	case "customers":
		return ledger.CustomerRef(id), true
	default:
		return ledger.EntityRef{}, false
	}
}

// CreateEntry posts a manual ledger entry against exactly one entity
func (h *LedgerHandler) CreateEntry(c *gin.Context) {
	var req ledgerapp.CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	req.CreatedBy = getActorID(c)

	entry, err := h.ledgerService.CreateEntry(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, entry)
}

// GetBalance returns the stored balance of an entity
func (h *LedgerHandler) GetBalance(c *gin.Context) {
	ref, ok := entityRefFromPath(c)
	if !ok {
		h.BadRequest(c, "Entity must be one of accounts, suppliers or customers, with a valid UUID")
		return
	}

	balance, err := h.ledgerService.GetBalance(c.Request.Context(), ref)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, balance)
}

// RecalculateBalance replays the full entry history of an entity and
// overwrites its stored balance
func (h *LedgerHandler) RecalculateBalance(c *gin.Context) {
	ref, ok := entityRefFromPath(c)
	if !ok {
		h.BadRequest(c, "Entity must be one of accounts, suppliers or customers, with a valid UUID")
		return
	}

	balance, err := h.ledgerService.RecalculateBalance(c.Request.Context(), ref)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, balance)
}

// GetLedger returns the paginated statement of an entity
func (h *LedgerHandler) GetLedger(c *gin.Context) {
	ref, ok := entityRefFromPath(c)
	if !ok {
		h.BadRequest(c, "Entity must be one of accounts, suppliers or customers, with a valid UUID")
		return
	}

	var query ledgerapp.LedgerQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BindingError(c, err)
		return
	}

	result, err := h.ledgerService.GetLedger(c.Request.Context(), ref, query)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	Paginated(&h.BaseHandler, c, result)
}
