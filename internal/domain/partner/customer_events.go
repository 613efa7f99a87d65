package partner

import (
	"github.com/akrmotors/backoffice/internal/domain/shared"
)

// AggregateTypeCustomer is the aggregate type name for customers
const AggregateTypeCustomer = "Customer"

// EventTypeCustomerCreated is emitted when a new buyer identity is registered
const EventTypeCustomerCreated = "CustomerCreated"

// CustomerCreatedEvent is emitted when a customer record is first created
type CustomerCreatedEvent struct {
	shared.BaseDomainEvent
	CustomerNumber string
	Name           string
	Phone          string
}

// NewCustomerCreatedEvent creates a CustomerCreatedEvent
func NewCustomerCreatedEvent(customer *Customer) *CustomerCreatedEvent {
	return &CustomerCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCustomerCreated, AggregateTypeCustomer, customer.ID),
		CustomerNumber:  customer.CustomerNumber,
		Name:            customer.Name,
		Phone:           customer.Phone,
	}
}

// EventType returns the event type
func (e *CustomerCreatedEvent) EventType() string {
	return EventTypeCustomerCreated
}
