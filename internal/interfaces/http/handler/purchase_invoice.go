package handler

import (
	"github.com/gin-gonic/gin"
	purchasingapp "github.com/workshoperp/backend/internal/application/purchasing"
	"github.com/workshoperp/backend/internal/domain/purchasing"
)

// PurchaseInvoiceHandler handles purchase invoice endpoints
type PurchaseInvoiceHandler struct {
	BaseHandler
	invoiceService *purchasingapp.InvoiceService
}

// NewPurchaseInvoiceHandler creates a new PurchaseInvoiceHandler
func NewPurchaseInvoiceHandler(invoiceService *purchasingapp.InvoiceService) *PurchaseInvoiceHandler {
	return &PurchaseInvoiceHandler{invoiceService: invoiceService}
}

// RegisterRoutes registers the purchase invoice routes
func (h *PurchaseInvoiceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	invoices := rg.Group("/purchase-invoices")
	invoices.POST("", h.Create)
	invoices.GET("", h.List)
	invoices.GET("/summary", h.GetSummary)
	invoices.GET("/:id", h.GetByID)
	invoices.PUT("/:id", h.Update)
	invoices.DELETE("/:id", h.Delete)
}

// Create books a purchase invoice: stock in, payable up, optional
// inline payment, all in one transaction
func (h *PurchaseInvoiceHandler) Create(c *gin.Context) {
	var req purchasingapp.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	req.CreatedBy = getActorID(c)

	invoice, err := h.invoiceService.CreateInvoice(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, invoice)
}

// GetByID returns a single invoice with its lines
func (h *PurchaseInvoiceHandler) GetByID(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	invoice, err := h.invoiceService.GetInvoice(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, invoice)
}

// List returns a paginated list of invoices
func (h *PurchaseInvoiceHandler) List(c *gin.Context) {
	baseFilter, err := bindListFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := purchasing.InvoiceFilter{Filter: baseFilter}
	if filter.SupplierID, err = parseUUIDQuery(c, "supplier_id"); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if rawStatus := c.Query("status"); rawStatus != "" {
		status := purchasing.PaymentStatus(rawStatus)
		filter.Status = &status
	}
	if filter.StartDate, err = parseDateQuery(c, "start_date"); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if filter.EndDate, err = parseDateQuery(c, "end_date"); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.invoiceService.ListInvoices(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	Paginated(&h.BaseHandler, c, result)
}

// GetSummary returns invoice counts and totals grouped by status
func (h *PurchaseInvoiceHandler) GetSummary(c *gin.Context) {
	summary, err := h.invoiceService.GetSummary(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, summary)
}

// Update replaces the lines of an unpaid invoice and re-applies its
// stock and ledger effects
func (h *PurchaseInvoiceHandler) Update(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	var req purchasingapp.UpdateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	invoice, err := h.invoiceService.UpdateInvoice(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, invoice)
}

// Delete reverses an invoice without payments: stock out, payable down,
// linked records removed
func (h *PurchaseInvoiceHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	if err := h.invoiceService.DeleteInvoice(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}
