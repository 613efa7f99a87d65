package partner

import (
	"time"

	"github.com/akrmotors/backoffice/internal/domain/partner"
	"github.com/google/uuid"
)

// UpsertCustomerInput carries the customer details a sale record knows
type UpsertCustomerInput struct {
	Name         string
	Phone        string
	NIC          string
	Address      string
	PurchaseDate time.Time
}

// CustomerListFilter carries list query parameters
type CustomerListFilter struct {
	Page      int    `form:"page"`
	PageSize  int    `form:"page_size"`
	Search    string `form:"search"`
	SortBy    string `form:"sort_by"`
	SortOrder string `form:"sort_order"`
}

// CustomerResponse represents a customer in API responses
type CustomerResponse struct {
	ID               uuid.UUID  `json:"id"`
	CustomerNumber   string     `json:"customer_number"`
	Name             string     `json:"name"`
	Phone            string     `json:"phone"`
	NIC              string     `json:"nic"`
	Address          string     `json:"address"`
	PurchaseCount    int        `json:"purchase_count"`
	LastPurchaseDate *time.Time `json:"last_purchase_date"`
	RepeatBuyer      bool       `json:"repeat_buyer"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// ToCustomerResponse converts a domain customer to its API shape
func ToCustomerResponse(customer *partner.Customer) CustomerResponse {
	return CustomerResponse{
		ID:               customer.ID,
		CustomerNumber:   customer.CustomerNumber,
		Name:             customer.Name,
		Phone:            customer.Phone,
		NIC:              customer.NIC,
		Address:          customer.Address,
		PurchaseCount:    customer.PurchaseCount,
		LastPurchaseDate: customer.LastPurchaseDate,
		RepeatBuyer:      customer.IsRepeatBuyer(),
		CreatedAt:        customer.CreatedAt,
		UpdatedAt:        customer.UpdatedAt,
	}
}
