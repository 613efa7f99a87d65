package persistence

import (
	"strings"
)

// ValidateSortOrder normalizes the sort direction to ASC or DESC.
// Returns "DESC" if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	if strings.EqualFold(strings.TrimSpace(orderDir), "asc") {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates a sort field against a whitelist of column
// names. Returns the defaultField when the input is empty or not allowed.
// Order-by values are interpolated into SQL so they must never come from the
// request unchecked.
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

// CouponSortFields contains allowed sort fields for coupons
var CouponSortFields = map[string]bool{
	"id":                 true,
	"created_at":         true,
	"updated_at":         true,
	"coupon_number":      true,
	"customer_name":      true,
	"vehicle_model_name": true,
	"payment_method":     true,
	"total_amount":       true,
	"balance":            true,
	"purchase_date":      true,
	"status":             true,
}

// VehicleSortFields contains allowed sort fields for the model catalog
var VehicleSortFields = map[string]bool{
	"id":                true,
	"created_at":        true,
	"updated_at":        true,
	"model_name":        true,
	"brand":             true,
	"unit_price":        true,
	"received_quantity": true,
	"sold_quantity":     true,
	"stock_quantity":    true,
}

// InventoryUnitSortFields contains allowed sort fields for physical units
var InventoryUnitSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"model_name":     true,
	"engine_number":  true,
	"chassis_number": true,
	"status":         true,
	"sold_at":        true,
}

// CustomerSortFields contains allowed sort fields for customers
var CustomerSortFields = map[string]bool{
	"id":                 true,
	"created_at":         true,
	"updated_at":         true,
	"customer_number":    true,
	"name":               true,
	"phone":              true,
	"purchase_count":     true,
	"last_purchase_date": true,
}

// LedgerEntrySortFields contains allowed sort fields for ledger entries
var LedgerEntrySortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"entry_date": true,
	"amount":     true,
	"category":   true,
}

// BankDepositSortFields contains allowed sort fields for bank deposits
var BankDepositSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"deposit_date":   true,
	"depositor_name": true,
	"amount":         true,
	"bank_name":      true,
	"matched":        true,
}
