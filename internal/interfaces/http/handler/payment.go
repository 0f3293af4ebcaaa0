package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	purchasingapp "github.com/workshoperp/backend/internal/application/purchasing"
	"github.com/workshoperp/backend/internal/domain/purchasing"
)

// PaymentHandler handles supplier payment endpoints
type PaymentHandler struct {
	BaseHandler
	paymentService *purchasingapp.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentService *purchasingapp.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// RegisterRoutes registers the payment routes
func (h *PaymentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	payments := rg.Group("/payments")
	payments.POST("", h.Create)
	payments.GET("", h.List)
	payments.GET("/:id", h.GetByID)
	payments.DELETE("/:id", h.Delete)
}

// Create books a payment: the paying account is debited, the supplier
// payable drops, and a linked invoice moves toward PAID
func (h *PaymentHandler) Create(c *gin.Context) {
	var req purchasingapp.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	req.CreatedBy = getActorID(c)

	payment, err := h.paymentService.CreatePayment(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, payment)
}

// GetByID returns a single payment
func (h *PaymentHandler) GetByID(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid payment ID format")
		return
	}

	payment, err := h.paymentService.GetPayment(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, payment)
}

// List returns a paginated list of payments
func (h *PaymentHandler) List(c *gin.Context) {
	baseFilter, err := bindListFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := purchasing.PaymentFilter{Filter: baseFilter}
	if filter.SupplierID, err = parseUUIDQuery(c, "supplier_id"); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if filter.AccountID, err = parseUUIDQuery(c, "account_id"); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if filter.PurchaseInvoiceID, err = parseUUIDQuery(c, "purchase_invoice_id"); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	filter.DirectOnly, _ = strconv.ParseBool(c.Query("direct_only"))
	if filter.StartDate, err = parseDateQuery(c, "start_date"); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if filter.EndDate, err = parseDateQuery(c, "end_date"); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.paymentService.ListPayments(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	Paginated(&h.BaseHandler, c, result)
}

// Delete reverses a payment: the account is refunded and the supplier
// payable restored
func (h *PaymentHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid payment ID format")
		return
	}

	if err := h.paymentService.DeletePayment(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}
