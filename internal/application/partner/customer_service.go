package partner

import (
	"context"
	"errors"

	"github.com/akrmotors/backoffice/internal/domain/allocation"
	"github.com/akrmotors/backoffice/internal/domain/partner"
	"github.com/akrmotors/backoffice/internal/domain/shared"
	"github.com/google/uuid"
)

// customerNumberWidth is the zero-padded width of generated customer numbers
const customerNumberWidth = 4

// CustomerService maintains the cross-sale customer book
type CustomerService struct {
	customerRepo partner.CustomerRepository
	allocator    allocation.NumberAllocator
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(customerRepo partner.CustomerRepository, allocator allocation.NumberAllocator) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		allocator:    allocator,
	}
}

// UpsertFromSale folds one sale's customer details into the book. The
// identity key is the name plus phone pair: a known pair accumulates the
// purchase, an unknown one gets a fresh record.
func (s *CustomerService) UpsertFromSale(ctx context.Context, input UpsertCustomerInput) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByNameAndPhone(ctx, input.Name, input.Phone)
	if err != nil {
		var domainErr *shared.DomainError
		if !errors.As(err, &domainErr) || domainErr.Code != shared.ErrNotFound.Code {
			return nil, err
		}

		customerNumber, err := s.allocator.Next(ctx, allocation.PrefixCustomer, customerNumberWidth)
		if err != nil {
			return nil, err
		}
		customer, err = partner.NewCustomer(customerNumber, input.Name, input.Phone)
		if err != nil {
			return nil, err
		}
	}

	customer.UpdateContact(input.NIC, input.Address)
	customer.RecordPurchase(input.PurchaseDate)

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}
	customer.ClearDomainEvents()

	response := ToCustomerResponse(customer)
	return &response, nil
}

// RefreshFromSale re-applies a sale's customer details after the sale is
// edited. A known (name, phone) pair only has its contact details refreshed,
// so editing a coupon never double counts the purchase; an unseen pair is
// treated as a new buyer.
func (s *CustomerService) RefreshFromSale(ctx context.Context, input UpsertCustomerInput) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByNameAndPhone(ctx, input.Name, input.Phone)
	if err != nil {
		var domainErr *shared.DomainError
		if !errors.As(err, &domainErr) || domainErr.Code != shared.ErrNotFound.Code {
			return nil, err
		}
		return s.UpsertFromSale(ctx, input)
	}

	customer.UpdateContact(input.NIC, input.Address)

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}
	customer.ClearDomainEvents()

	response := ToCustomerResponse(customer)
	return &response, nil
}

// GetByID retrieves a customer by ID
func (s *CustomerService) GetByID(ctx context.Context, id uuid.UUID) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToCustomerResponse(customer)
	return &response, nil
}

// List retrieves customers with filtering and pagination
func (s *CustomerService) List(ctx context.Context, filter CustomerListFilter) (*shared.Paginated[CustomerResponse], error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		Search:   filter.Search,
		OrderBy:  filter.SortBy,
		OrderDir: filter.SortOrder,
		Filters:  map[string]interface{}{},
	}

	customers, err := s.customerRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.customerRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	items := make([]CustomerResponse, 0, len(customers))
	for i := range customers {
		items = append(items, ToCustomerResponse(&customers[i]))
	}

	result := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &result, nil
}
