package finance

import (
	"strings"
	"time"

	"github.com/akrmotors/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerEntry is one dated cash-book posting. Positive amounts are money
// taken in, negative amounts are payouts. Entries written against a coupon
// carry an explicit reference; older books only mention the coupon number
// somewhere in the free-text description.
type LedgerEntry struct {
	shared.BaseAggregateRoot
	EntryDate   time.Time       `gorm:"not null;index"`
	Description string          `gorm:"not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	CouponID    *uuid.UUID      `gorm:"type:uuid;index"`
	Category    string
}

// TableName returns the table name for GORM
func (LedgerEntry) TableName() string {
	return "ledger_entries"
}

// NewLedgerEntry creates a ledger posting
func NewLedgerEntry(entryDate time.Time, description string, amount decimal.Decimal, couponID *uuid.UUID) (*LedgerEntry, error) {
	if entryDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_ENTRY_DATE", "Entry date is required")
	}
	if description == "" {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Entry description cannot be empty")
	}
	if amount.IsZero() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Entry amount cannot be zero")
	}

	return &LedgerEntry{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		EntryDate:         entryDate,
		Description:       description,
		Amount:            amount,
		CouponID:          couponID,
	}, nil
}

// IsCollection reports whether the entry brought money in
func (e *LedgerEntry) IsCollection() bool {
	return e.Amount.IsPositive()
}

// ReferencesCoupon reports whether the entry belongs to the given coupon,
// either through the explicit reference or, failing that, by the coupon
// number appearing in the description text.
func (e *LedgerEntry) ReferencesCoupon(couponID uuid.UUID, couponNumber string) bool {
	if e.CouponID != nil {
		return *e.CouponID == couponID
	}
	if couponNumber == "" {
		return false
	}
	return strings.Contains(strings.ToUpper(e.Description), strings.ToUpper(couponNumber))
}

// MentionsCoupon reports whether the entry looks like a coupon collection at
// all: an explicit reference or the word coupon in the description. This is
// deliberately looser than ReferencesCoupon; the gap between the two is a
// bookkeeping quality signal, not a bug.
func (e *LedgerEntry) MentionsCoupon() bool {
	if e.CouponID != nil {
		return true
	}
	return strings.Contains(strings.ToUpper(e.Description), "COUPON")
}
