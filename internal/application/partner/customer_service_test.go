package partner

import (
	"context"
	"testing"
	"time"

	"github.com/akrmotors/backoffice/internal/domain/partner"
	"github.com/akrmotors/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Mock Repositories
// =============================================================================

// MockCustomerRepository is a mock implementation of CustomerRepository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByNameAndPhone(ctx context.Context, name, phone string) (*partner.Customer, error) {
	args := m.Called(ctx, name, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Customer, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockNumberAllocator is a mock implementation of NumberAllocator
type MockNumberAllocator struct {
	mock.Mock
}

func (m *MockNumberAllocator) Next(ctx context.Context, prefix string, width int) (string, error) {
	args := m.Called(ctx, prefix, width)
	return args.String(0), args.Error(1)
}

// =============================================================================
// UpsertFromSale Tests
// =============================================================================

func TestCustomerService_UpsertFromSale(t *testing.T) {
	ctx := context.Background()
	purchaseDate := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	input := UpsertCustomerInput{
		Name:         "Nimal Perera",
		Phone:        "0771234567",
		NIC:          "851234567V",
		Address:      "12 Galle Road",
		PurchaseDate: purchaseDate,
	}

	t.Run("creates a record for an unknown buyer", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		alloc := new(MockNumberAllocator)
		service := NewCustomerService(repo, alloc)

		repo.On("FindByNameAndPhone", ctx, "Nimal Perera", "0771234567").Return(nil, shared.ErrNotFound)
		alloc.On("Next", ctx, mock.Anything, customerNumberWidth).Return("AKR-CUS-0001", nil)
		repo.On("Save", ctx, mock.AnythingOfType("*partner.Customer")).Return(nil)

		resp, err := service.UpsertFromSale(ctx, input)
		require.NoError(t, err)

		assert.Equal(t, "AKR-CUS-0001", resp.CustomerNumber)
		assert.Equal(t, 1, resp.PurchaseCount)
		assert.Equal(t, "851234567V", resp.NIC)
		repo.AssertExpectations(t)
		alloc.AssertExpectations(t)
	})

	t.Run("accumulates onto a known buyer", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		alloc := new(MockNumberAllocator)
		service := NewCustomerService(repo, alloc)

		existing, err := partner.NewCustomer("AKR-CUS-0001", "Nimal Perera", "0771234567")
		require.NoError(t, err)
		existing.RecordPurchase(purchaseDate.AddDate(0, -2, 0))

		repo.On("FindByNameAndPhone", ctx, "Nimal Perera", "0771234567").Return(existing, nil)
		repo.On("Save", ctx, existing).Return(nil)

		resp, err := service.UpsertFromSale(ctx, input)
		require.NoError(t, err)

		assert.Equal(t, 2, resp.PurchaseCount)
		assert.True(t, resp.RepeatBuyer)
		alloc.AssertNotCalled(t, "Next", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("propagates storage failures", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		alloc := new(MockNumberAllocator)
		service := NewCustomerService(repo, alloc)

		repo.On("FindByNameAndPhone", ctx, "Nimal Perera", "0771234567").
			Return(nil, shared.NewDomainError("DB_ERROR", "connection lost"))

		_, err := service.UpsertFromSale(ctx, input)
		assert.Error(t, err)
	})
}

func TestCustomerService_RefreshFromSale(t *testing.T) {
	ctx := context.Background()
	purchaseDate := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	input := UpsertCustomerInput{
		Name:         "Nimal Perera",
		Phone:        "0771234567",
		NIC:          "851234567V",
		Address:      "45 Kandy Road",
		PurchaseDate: purchaseDate,
	}

	t.Run("refreshes contact without counting another purchase", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		alloc := new(MockNumberAllocator)
		service := NewCustomerService(repo, alloc)

		existing, err := partner.NewCustomer("AKR-CUS-0001", "Nimal Perera", "0771234567")
		require.NoError(t, err)
		existing.UpdateContact("851234567V", "12 Galle Road")
		existing.RecordPurchase(purchaseDate)

		repo.On("FindByNameAndPhone", ctx, "Nimal Perera", "0771234567").Return(existing, nil)
		repo.On("Save", ctx, existing).Return(nil)

		resp, err := service.RefreshFromSale(ctx, input)
		require.NoError(t, err)

		assert.Equal(t, 1, resp.PurchaseCount)
		assert.Equal(t, "45 Kandy Road", resp.Address)
		repo.AssertExpectations(t)
	})

	t.Run("treats an unseen pair as a new buyer", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		alloc := new(MockNumberAllocator)
		service := NewCustomerService(repo, alloc)

		repo.On("FindByNameAndPhone", ctx, "Nimal Perera", "0771234567").Return(nil, shared.ErrNotFound)
		alloc.On("Next", ctx, mock.Anything, customerNumberWidth).Return("AKR-CUS-0002", nil)
		repo.On("Save", ctx, mock.AnythingOfType("*partner.Customer")).Return(nil)

		resp, err := service.RefreshFromSale(ctx, input)
		require.NoError(t, err)

		assert.Equal(t, "AKR-CUS-0002", resp.CustomerNumber)
		assert.Equal(t, 1, resp.PurchaseCount)
	})
}
