package allocation

import (
	"time"

	"github.com/akrmotors/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeCoupon = "Coupon"

// Event type constants
const (
	EventTypeCouponCreated  = "CouponCreated"
	EventTypeCouponUpdated  = "CouponUpdated"
	EventTypeCouponDeleted  = "CouponDeleted"
	EventTypeChequeReleased = "ChequeReleased"
)

// CouponCreatedEvent is raised when a sale is recorded. Handlers use it to
// resync vehicle stock and upsert the linked customer record.
type CouponCreatedEvent struct {
	shared.BaseDomainEvent
	CouponID      uuid.UUID       `json:"coupon_id"`
	CouponNumber  string          `json:"coupon_number"`
	ModelName     string          `json:"model_name"`
	EngineNumber  string          `json:"engine_number"`
	ChassisNumber string          `json:"chassis_number"`
	CustomerName    string          `json:"customer_name"`
	CustomerPhone   string          `json:"customer_phone"`
	CustomerNIC     string          `json:"customer_nic"`
	CustomerAddress string          `json:"customer_address"`
	DownPayment     decimal.Decimal `json:"down_payment"`
	PurchaseDate    time.Time       `json:"purchase_date"`
}

// NewCouponCreatedEvent creates a new CouponCreatedEvent
func NewCouponCreatedEvent(c *Coupon) *CouponCreatedEvent {
	return &CouponCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCouponCreated, AggregateTypeCoupon, c.ID),
		CouponID:        c.ID,
		CouponNumber:    c.CouponNumber,
		ModelName:       c.Vehicle.ModelName,
		EngineNumber:    c.Vehicle.EngineNumber,
		ChassisNumber:   c.Vehicle.ChassisNumber,
		CustomerName:    c.Customer.Name,
		CustomerPhone:   c.Customer.Phone,
		CustomerNIC:     c.Customer.NIC,
		CustomerAddress: c.Customer.Address,
		DownPayment:     c.DownPayment,
		PurchaseDate:    c.PurchaseDate,
	}
}

// EventType returns the event type name
func (e *CouponCreatedEvent) EventType() string {
	return EventTypeCouponCreated
}

// CouponUpdatedEvent is raised when a coupon is mutated after creation
type CouponUpdatedEvent struct {
	shared.BaseDomainEvent
	CouponID        uuid.UUID    `json:"coupon_id"`
	CouponNumber    string       `json:"coupon_number"`
	ModelName       string       `json:"model_name"`
	CustomerName    string       `json:"customer_name"`
	CustomerPhone   string       `json:"customer_phone"`
	CustomerNIC     string       `json:"customer_nic"`
	CustomerAddress string       `json:"customer_address"`
	PurchaseDate    time.Time    `json:"purchase_date"`
	Status          CouponStatus `json:"status"`
}

// NewCouponUpdatedEvent creates a new CouponUpdatedEvent
func NewCouponUpdatedEvent(c *Coupon) *CouponUpdatedEvent {
	return &CouponUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCouponUpdated, AggregateTypeCoupon, c.ID),
		CouponID:        c.ID,
		CouponNumber:    c.CouponNumber,
		ModelName:       c.Vehicle.ModelName,
		CustomerName:    c.Customer.Name,
		CustomerPhone:   c.Customer.Phone,
		CustomerNIC:     c.Customer.NIC,
		CustomerAddress: c.Customer.Address,
		PurchaseDate:    c.PurchaseDate,
		Status:          c.Status,
	}
}

// EventType returns the event type name
func (e *CouponUpdatedEvent) EventType() string {
	return EventTypeCouponUpdated
}

// CouponDeletedEvent is raised when a sale is reversed. The stock resync
// handler listens for it so the freed unit counts back into the catalog.
type CouponDeletedEvent struct {
	shared.BaseDomainEvent
	CouponID     uuid.UUID `json:"coupon_id"`
	CouponNumber string    `json:"coupon_number"`
	ModelName    string    `json:"model_name"`
}

// NewCouponDeletedEvent creates a new CouponDeletedEvent
func NewCouponDeletedEvent(c *Coupon) *CouponDeletedEvent {
	return &CouponDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCouponDeleted, AggregateTypeCoupon, c.ID),
		CouponID:        c.ID,
		CouponNumber:    c.CouponNumber,
		ModelName:       c.Vehicle.ModelName,
	}
}

// EventType returns the event type name
func (e *CouponDeletedEvent) EventType() string {
	return EventTypeCouponDeleted
}

// ChequeReleasedEvent is raised when the customer's cheque is released
type ChequeReleasedEvent struct {
	shared.BaseDomainEvent
	CouponID     uuid.UUID `json:"coupon_id"`
	CouponNumber string    `json:"coupon_number"`
	ReleasedAt   time.Time `json:"released_at"`
}

// NewChequeReleasedEvent creates a new ChequeReleasedEvent
func NewChequeReleasedEvent(c *Coupon) *ChequeReleasedEvent {
	releasedAt := time.Now()
	if c.ChequeReleasedAt != nil {
		releasedAt = *c.ChequeReleasedAt
	}
	return &ChequeReleasedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeChequeReleased, AggregateTypeCoupon, c.ID),
		CouponID:        c.ID,
		CouponNumber:    c.CouponNumber,
		ReleasedAt:      releasedAt,
	}
}

// EventType returns the event type name
func (e *ChequeReleasedEvent) EventType() string {
	return EventTypeChequeReleased
}
