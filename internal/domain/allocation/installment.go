package allocation

import (
	"time"

	"github.com/akrmotors/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InstallmentCount is the fixed number of installment slots per coupon
const InstallmentCount = 3

// Installment is one of exactly three scheduled partial payments for a
// financed coupon. PaidAmount accumulates and never decreases.
type Installment struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key"`
	CouponID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_installment_coupon_slot,priority:1"`
	Slot       int       `gorm:"not null;uniqueIndex:idx_installment_coupon_slot,priority:2"` // 1, 2 or 3
	Amount     decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"` // expected amount
	DueDate    time.Time       `gorm:"not null"`
	PaidAmount decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	PaidDate   *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TableName returns the table name for GORM
func (Installment) TableName() string {
	return "installments"
}

// NewInstallment creates an installment slot
func NewInstallment(slot int, amount decimal.Decimal, dueDate time.Time) Installment {
	now := time.Now()
	return Installment{
		ID:         uuid.New(),
		Slot:       slot,
		Amount:     amount,
		DueDate:    dueDate,
		PaidAmount: decimal.Zero,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// IsSatisfied reports whether the accumulated payments cover the expected
// amount. Zero-amount slots are trivially satisfied.
func (i *Installment) IsSatisfied() bool {
	return i.PaidAmount.GreaterThanOrEqual(i.Amount)
}

// RecordPayment accumulates a payment against the slot. Payments are
// append-only: a negative amount would make PaidAmount non-monotonic and is
// rejected.
func (i *Installment) RecordPayment(amount decimal.Decimal, paidAt time.Time) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_PAYMENT", "Payment amount must be positive")
	}
	i.PaidAmount = i.PaidAmount.Add(amount)
	i.PaidDate = &paidAt
	i.UpdatedAt = time.Now()
	return nil
}

// Outstanding returns the unpaid remainder of the slot, floored at zero
func (i *Installment) Outstanding() decimal.Decimal {
	out := i.Amount.Sub(i.PaidAmount)
	if out.IsNegative() {
		return decimal.Zero
	}
	return out
}
