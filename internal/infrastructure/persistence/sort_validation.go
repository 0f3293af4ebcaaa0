package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// OrderClause builds a validated "field DIR" order expression. Unknown
// fields fall back to defaultField; the direction defaults to ASC.
func OrderClause(orderBy, orderDir string, allowedFields map[string]bool, defaultField string) string {
	field := ValidateSortField(orderBy, allowedFields, defaultField)
	dir := "ASC"
	if strings.EqualFold(strings.TrimSpace(orderDir), "desc") {
		dir = "DESC"
	}
	return field + " " + dir
}

// CommonSortFields contains fields common to most entities
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// AccountSortFields contains allowed sort fields for accounts
var AccountSortFields = map[string]bool{
	"id":              true,
	"created_at":      true,
	"updated_at":      true,
	"name":            true,
	"type":            true,
	"opening_balance": true,
	"current_balance": true,
}

// SupplierSortFields contains allowed sort fields for suppliers
var SupplierSortFields = map[string]bool{
	"id":              true,
	"created_at":      true,
	"updated_at":      true,
	"name":            true,
	"contact_person":  true,
	"phone":           true,
	"opening_balance": true,
	"current_balance": true,
}

// CustomerSortFields contains allowed sort fields for customers
var CustomerSortFields = map[string]bool{
	"id":              true,
	"created_at":      true,
	"updated_at":      true,
	"name":            true,
	"phone":           true,
	"opening_balance": true,
	"current_balance": true,
}

// LedgerEntrySortFields contains allowed sort fields for ledger entries
var LedgerEntrySortFields = map[string]bool{
	"id":               true,
	"created_at":       true,
	"updated_at":       true,
	"transaction_type": true,
	"transaction_date": true,
	"amount":           true,
	"balance":          true,
}

// ItemSortFields contains allowed sort fields for items
var ItemSortFields = map[string]bool{
	"id":          true,
	"created_at":  true,
	"updated_at":  true,
	"name":        true,
	"type":        true,
	"category_id": true,
	"quantity":    true,
	"avg_price":   true,
}

// AdjustmentSortFields contains allowed sort fields for stock adjustments
var AdjustmentSortFields = map[string]bool{
	"id":              true,
	"created_at":      true,
	"updated_at":      true,
	"delta":           true,
	"quantity_before": true,
	"quantity_after":  true,
	"avg_price":       true,
}

// InvoiceSortFields contains allowed sort fields for purchase invoices
var InvoiceSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"invoice_number": true,
	"invoice_date":   true,
	"supplier_id":    true,
	"status":         true,
	"total_amount":   true,
	"paid_amount":    true,
}

// PaymentSortFields contains allowed sort fields for payments
var PaymentSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"payment_number": true,
	"payment_date":   true,
	"supplier_id":    true,
	"account_id":     true,
	"amount":         true,
}

// ExpenseSortFields contains allowed sort fields for expenses
var ExpenseSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"expense_date": true,
	"category_id":  true,
	"account_id":   true,
	"amount":       true,
}

// RecipeSortFields contains allowed sort fields for recipes
var RecipeSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"final_item_id": true,
}

// ProductionSortFields contains allowed sort fields for production batches
var ProductionSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"batch_number":  true,
	"recipe_id":     true,
	"final_item_id": true,
	"status":        true,
	"quantity":      true,
	"total_cost":    true,
	"cost_per_unit": true,
}
