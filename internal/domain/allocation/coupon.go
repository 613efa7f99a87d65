package allocation

import (
	"fmt"
	"time"

	"github.com/akrmotors/backoffice/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PaymentMethod identifies how a vehicle sale is settled
type PaymentMethod string

const (
	PaymentMethodFull         PaymentMethod = "FULL_PAYMENT"
	PaymentMethodLeasingAKR   PaymentMethod = "LEASING_AKR"
	PaymentMethodLeasingOther PaymentMethod = "LEASING_OTHER"
)

// IsValid checks if the method is a known PaymentMethod
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodFull, PaymentMethodLeasingAKR, PaymentMethodLeasingOther:
		return true
	}
	return false
}

// String returns the string representation of PaymentMethod
func (m PaymentMethod) String() string {
	return string(m)
}

// IsFinanced reports whether the sale carries an in-house installment plan.
// Only AKR leasing is collected through this system; other leasing companies
// track their own collections.
func (m PaymentMethod) IsFinanced() bool {
	return m == PaymentMethodLeasingAKR
}

// CouponStatus is the payment-completion state of a coupon
type CouponStatus string

const (
	CouponStatusPending   CouponStatus = "PENDING"
	CouponStatusCompleted CouponStatus = "COMPLETED"
)

// IsValid checks if the status is a valid CouponStatus
func (s CouponStatus) IsValid() bool {
	return s == CouponStatusPending || s == CouponStatusCompleted
}

// String returns the string representation of CouponStatus
func (s CouponStatus) String() string {
	return string(s)
}

// chequeReleaseDelayDays is the gap between the down payment and the
// release of the customer's cheque
const chequeReleaseDelayDays = 4

// scheduleTolerance is the rounding slack allowed between the financed
// balance and the sum of the three installment amounts (integer-cent splits)
var scheduleTolerance = decimal.NewFromFloat(0.02)

// CustomerDetails is the customer identity captured on a coupon
type CustomerDetails struct {
	Name    string
	NIC     string
	Phone   string
	Address string
}

// VehicleDetails identifies the physical unit being sold
type VehicleDetails struct {
	ModelName     string
	EngineNumber  string
	ChassisNumber string
}

// Financials carries the monetary fields of a sale. All amounts are LKR.
type Financials struct {
	TotalAmount    decimal.Decimal
	DownPayment    decimal.Decimal
	RegFee         decimal.Decimal
	DocCharge      decimal.Decimal
	InterestAmount decimal.Decimal // AKR leasing only
	DiscountAmount decimal.Decimal
}

// Coupon is the vehicle allocation coupon aggregate root: the sale record
// tying a customer to a specific vehicle unit and its payment plan.
type Coupon struct {
	shared.BaseAggregateRoot
	CouponNumber string          `gorm:"uniqueIndex;not null"`
	Customer     CustomerDetails `gorm:"embedded;embeddedPrefix:customer_"`
	Vehicle      VehicleDetails  `gorm:"embedded;embeddedPrefix:vehicle_"`

	PaymentMethod  PaymentMethod
	TotalAmount    decimal.Decimal
	DownPayment    decimal.Decimal
	RegFee         decimal.Decimal
	DocCharge      decimal.Decimal
	InterestAmount decimal.Decimal
	DiscountAmount decimal.Decimal
	Balance        decimal.Decimal

	Installments []Installment `gorm:"foreignKey:CouponID"`

	PurchaseDate      time.Time
	DownPaymentDate   *time.Time
	ChequeReleaseDate *time.Time
	ChequeReleased    bool
	ChequeReleasedAt  *time.Time

	Status CouponStatus `gorm:"type:varchar(20);not null;index"`
	Remark string
}

// TableName returns the table name for GORM
func (Coupon) TableName() string {
	return "coupons"
}

// NewCoupon creates a coupon for a single sale. The financed balance is
// computed from the financials and the status is derived immediately; the
// caller schedules installments afterwards when the sale is AKR-financed.
func NewCoupon(couponNumber string, customer CustomerDetails, vehicle VehicleDetails, method PaymentMethod, fin Financials, purchaseDate time.Time) (*Coupon, error) {
	if couponNumber == "" {
		return nil, shared.NewDomainError("INVALID_COUPON_NUMBER", "Coupon number cannot be empty")
	}
	if customer.Name == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER_NAME", "Customer name cannot be empty")
	}
	if customer.Phone == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER_PHONE", "Customer phone cannot be empty")
	}
	if vehicle.ModelName == "" {
		return nil, shared.NewDomainError("INVALID_VEHICLE", "Vehicle model name cannot be empty")
	}
	if vehicle.EngineNumber == "" && vehicle.ChassisNumber == "" {
		return nil, shared.NewDomainError("INVALID_VEHICLE", "Engine or chassis number is required")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", fmt.Sprintf("Unknown payment method %q", method))
	}
	if purchaseDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_PURCHASE_DATE", "Purchase date is required")
	}

	coupon := &Coupon{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CouponNumber:      couponNumber,
		Customer:          customer,
		Vehicle:           vehicle,
		PaymentMethod:     method,
		PurchaseDate:      purchaseDate,
		Installments:      make([]Installment, 0, InstallmentCount),
		Status:            CouponStatusPending,
	}

	if err := coupon.ApplyFinancials(fin); err != nil {
		return nil, err
	}

	coupon.AddDomainEvent(NewCouponCreatedEvent(coupon))

	return coupon, nil
}

// ApplyFinancials recomputes the fee math and the financed balance from a
// full set of monetary fields. The computation is idempotent: it always works
// from the given values, never from a diff against the stored ones.
//
// balance = totalAmount + interest − (downPayment + regFee + docCharge + discount)
func (c *Coupon) ApplyFinancials(fin Financials) error {
	if fin.TotalAmount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Total amount must be positive")
	}
	for _, v := range []struct {
		name   string
		amount decimal.Decimal
	}{
		{"down payment", fin.DownPayment},
		{"registration fee", fin.RegFee},
		{"documentation charge", fin.DocCharge},
		{"interest amount", fin.InterestAmount},
		{"discount amount", fin.DiscountAmount},
	} {
		if v.amount.IsNegative() {
			return shared.NewDomainError("INVALID_AMOUNT", fmt.Sprintf("Negative %s is not allowed", v.name))
		}
	}
	if !fin.InterestAmount.IsZero() && c.PaymentMethod != PaymentMethodLeasingAKR {
		return shared.NewDomainError("INVALID_AMOUNT", "Interest amount applies to AKR leasing only")
	}

	collected := fin.DownPayment.Add(fin.RegFee).Add(fin.DocCharge).Add(fin.DiscountAmount)
	balance := fin.TotalAmount.Add(fin.InterestAmount).Sub(collected)
	if balance.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Collected amounts exceed the total amount")
	}

	c.TotalAmount = fin.TotalAmount
	c.DownPayment = fin.DownPayment
	c.RegFee = fin.RegFee
	c.DocCharge = fin.DocCharge
	c.InterestAmount = fin.InterestAmount
	c.DiscountAmount = fin.DiscountAmount
	c.Balance = balance
	c.UpdatedAt = time.Now()

	c.RefreshStatus()
	return nil
}

// SetSchedule installs the three installment slots for a financed sale.
// The amounts must cover the balance within rounding slack.
func (c *Coupon) SetSchedule(installments [InstallmentCount]Installment) error {
	if !c.PaymentMethod.IsFinanced() {
		return shared.NewDomainError("INVALID_STATE", "Only AKR-financed coupons carry an installment schedule")
	}

	sum := decimal.Zero
	for _, inst := range installments {
		sum = sum.Add(inst.Amount)
	}
	if sum.Sub(c.Balance).Abs().GreaterThan(scheduleTolerance) {
		return shared.NewDomainError("INVALID_SCHEDULE",
			fmt.Sprintf("Installment amounts %s do not cover the financed balance %s", sum, c.Balance))
	}

	c.Installments = c.Installments[:0]
	for i := range installments {
		installments[i].CouponID = c.ID
		c.Installments = append(c.Installments, installments[i])
	}
	c.UpdatedAt = time.Now()

	c.RefreshStatus()
	return nil
}

// RecordInstallmentPayment accumulates a payment on one slot and re-derives
// the completion status.
func (c *Coupon) RecordInstallmentPayment(slot int, amount decimal.Decimal, paidAt time.Time) error {
	if slot < 1 || slot > InstallmentCount {
		return shared.NewDomainError("INVALID_SLOT", fmt.Sprintf("Installment slot must be between 1 and %d", InstallmentCount))
	}
	if len(c.Installments) != InstallmentCount {
		return shared.NewDomainError("INVALID_STATE", "Coupon has no installment schedule")
	}

	for idx := range c.Installments {
		if c.Installments[idx].Slot == slot {
			if err := c.Installments[idx].RecordPayment(amount, paidAt); err != nil {
				return err
			}
			c.UpdatedAt = time.Now()
			c.RefreshStatus()
			return nil
		}
	}
	return shared.NewDomainError("INVALID_SLOT", "Installment slot not found")
}

// SetInstallmentPaid overwrites a slot's accumulated payment. Used by the
// idempotent update path which re-applies the full request body; the new
// figure may not be lower than what is already recorded.
func (c *Coupon) SetInstallmentPaid(slot int, paidAmount decimal.Decimal, paidAt *time.Time) error {
	if slot < 1 || slot > InstallmentCount {
		return shared.NewDomainError("INVALID_SLOT", fmt.Sprintf("Installment slot must be between 1 and %d", InstallmentCount))
	}
	if paidAmount.IsNegative() {
		return shared.NewDomainError("INVALID_PAYMENT", "Paid amount cannot be negative")
	}

	for idx := range c.Installments {
		if c.Installments[idx].Slot == slot {
			if paidAmount.LessThan(c.Installments[idx].PaidAmount) {
				return shared.NewDomainError("INVALID_PAYMENT", "Paid amount cannot decrease")
			}
			c.Installments[idx].PaidAmount = paidAmount
			c.Installments[idx].PaidDate = paidAt
			c.Installments[idx].UpdatedAt = time.Now()
			c.UpdatedAt = time.Now()
			c.RefreshStatus()
			return nil
		}
	}
	return shared.NewDomainError("INVALID_SLOT", "Installment slot not found")
}

// DeriveStatus computes the completion status as a pure function of the
// payment method and per-slot satisfaction. Full payments and third-party
// leasing complete immediately; AKR leasing completes only when every slot
// is individually satisfied.
func (c *Coupon) DeriveStatus() CouponStatus {
	switch c.PaymentMethod {
	case PaymentMethodFull, PaymentMethodLeasingOther:
		return CouponStatusCompleted
	case PaymentMethodLeasingAKR:
		if len(c.Installments) != InstallmentCount {
			return CouponStatusPending
		}
		for idx := range c.Installments {
			if !c.Installments[idx].IsSatisfied() {
				return CouponStatusPending
			}
		}
		return CouponStatusCompleted
	}
	return CouponStatusPending
}

// RefreshStatus recomputes and stores the derived status. The stored copy
// exists for query performance only and is rewritten on every mutation so it
// can never drift from the derivation.
func (c *Coupon) RefreshStatus() {
	c.Status = c.DeriveStatus()
}

// SetDownPaymentDate records when the down payment was taken and derives the
// cheque release date when a non-zero down payment exists.
func (c *Coupon) SetDownPaymentDate(date time.Time) {
	c.DownPaymentDate = &date
	if c.DownPayment.IsPositive() {
		release := date.AddDate(0, 0, chequeReleaseDelayDays)
		c.ChequeReleaseDate = &release
		if c.ChequeReleasedAt == nil {
			c.ChequeReleased = false
		}
	}
	c.UpdatedAt = time.Now()
}

// MarkChequeReleased flags the customer's cheque as released and stamps the
// release time. Re-invoking on an already-released coupon re-stamps the
// timestamp; it is not an error.
func (c *Coupon) MarkChequeReleased(releasedAt time.Time) error {
	if c.ChequeReleaseDate == nil {
		return shared.NewDomainError("INVALID_STATE", "Coupon has no cheque release date")
	}
	c.ChequeReleased = true
	c.ChequeReleasedAt = &releasedAt
	c.UpdatedAt = time.Now()

	c.AddDomainEvent(NewChequeReleasedEvent(c))
	return nil
}

// SetRemark sets the coupon remark
func (c *Coupon) SetRemark(remark string) {
	c.Remark = remark
	c.UpdatedAt = time.Now()
}

// IsPending returns true if the coupon is awaiting collection
func (c *Coupon) IsPending() bool {
	return c.Status == CouponStatusPending
}

// IsCompleted returns true if collection is complete
func (c *Coupon) IsCompleted() bool {
	return c.Status == CouponStatusCompleted
}

// GetInstallment returns the slot with the given number, or nil
func (c *Coupon) GetInstallment(slot int) *Installment {
	for idx := range c.Installments {
		if c.Installments[idx].Slot == slot {
			return &c.Installments[idx]
		}
	}
	return nil
}

// InstallmentTotal returns the sum of the three expected amounts
func (c *Coupon) InstallmentTotal() decimal.Decimal {
	total := decimal.Zero
	for idx := range c.Installments {
		total = total.Add(c.Installments[idx].Amount)
	}
	return total
}

// OutstandingBalance returns the unpaid remainder across all slots
func (c *Coupon) OutstandingBalance() decimal.Decimal {
	total := decimal.Zero
	for idx := range c.Installments {
		total = total.Add(c.Installments[idx].Outstanding())
	}
	return total
}
