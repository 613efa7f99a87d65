package partner

import (
	"time"

	"github.com/akrmotors/backoffice/internal/domain/shared"
)

// Customer is the cross-sale identity of a buyer. Walk-in customers carry no
// account number, so the identity key is the name plus phone pair; repeated
// purchases under the same pair accumulate on one record.
type Customer struct {
	shared.BaseAggregateRoot
	CustomerNumber string `gorm:"uniqueIndex;not null"`
	Name           string `gorm:"not null;index:idx_customers_identity,priority:1"`
	Phone          string `gorm:"not null;index:idx_customers_identity,priority:2"`
	NIC            string
	Address        string

	PurchaseCount    int `gorm:"not null;default:0"`
	LastPurchaseDate *time.Time
}

// TableName returns the table name for GORM
func (Customer) TableName() string {
	return "customers"
}

// NewCustomer creates a customer record
func NewCustomer(customerNumber, name, phone string) (*Customer, error) {
	if customerNumber == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER_NUMBER", "Customer number cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Customer name cannot be empty")
	}
	if phone == "" {
		return nil, shared.NewDomainError("INVALID_PHONE", "Customer phone cannot be empty")
	}

	customer := &Customer{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CustomerNumber:    customerNumber,
		Name:              name,
		Phone:             phone,
	}

	customer.AddDomainEvent(NewCustomerCreatedEvent(customer))
	return customer, nil
}

// UpdateContact refreshes the mutable contact fields. Empty values leave the
// stored ones untouched so a sparse sale record never erases known details.
func (c *Customer) UpdateContact(nic, address string) {
	if nic != "" {
		c.NIC = nic
	}
	if address != "" {
		c.Address = address
	}
	c.UpdatedAt = time.Now()
}

// RecordPurchase bumps the purchase tally for one sale
func (c *Customer) RecordPurchase(purchaseDate time.Time) {
	c.PurchaseCount++
	if c.LastPurchaseDate == nil || purchaseDate.After(*c.LastPurchaseDate) {
		c.LastPurchaseDate = &purchaseDate
	}
	c.UpdatedAt = time.Now()
}

// IsRepeatBuyer reports whether more than one sale is on record
func (c *Customer) IsRepeatBuyer() bool {
	return c.PurchaseCount > 1
}
