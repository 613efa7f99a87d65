package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/akrmotors/backoffice/internal/domain/allocation"
	"github.com/akrmotors/backoffice/internal/domain/inventory"
	"github.com/akrmotors/backoffice/internal/domain/shared"
)

// =============================================================================
// Mock Repositories
// =============================================================================

// MockVehicleRepository is a mock implementation of VehicleRepository
type MockVehicleRepository struct {
	mock.Mock
}

func (m *MockVehicleRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Vehicle, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.Vehicle), args.Error(1)
}

func (m *MockVehicleRepository) FindByModelName(ctx context.Context, modelName string) (*inventory.Vehicle, error) {
	args := m.Called(ctx, modelName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.Vehicle), args.Error(1)
}

func (m *MockVehicleRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.Vehicle, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]inventory.Vehicle), args.Error(1)
}

func (m *MockVehicleRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockVehicleRepository) Save(ctx context.Context, vehicle *inventory.Vehicle) error {
	args := m.Called(ctx, vehicle)
	return args.Error(0)
}

func (m *MockVehicleRepository) SaveWithLock(ctx context.Context, vehicle *inventory.Vehicle) error {
	args := m.Called(ctx, vehicle)
	return args.Error(0)
}

func (m *MockVehicleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockInventoryUnitRepository is a mock implementation of InventoryUnitRepository
type MockInventoryUnitRepository struct {
	mock.Mock
}

func (m *MockInventoryUnitRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.InventoryUnit, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.InventoryUnit), args.Error(1)
}

func (m *MockInventoryUnitRepository) FindBySerial(ctx context.Context, engineNumber, chassisNumber string) (*inventory.InventoryUnit, error) {
	args := m.Called(ctx, engineNumber, chassisNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.InventoryUnit), args.Error(1)
}

func (m *MockInventoryUnitRepository) FindByModelName(ctx context.Context, modelName string) ([]inventory.InventoryUnit, error) {
	args := m.Called(ctx, modelName)
	return args.Get(0).([]inventory.InventoryUnit), args.Error(1)
}

func (m *MockInventoryUnitRepository) FindByCouponID(ctx context.Context, couponID uuid.UUID) ([]inventory.InventoryUnit, error) {
	args := m.Called(ctx, couponID)
	return args.Get(0).([]inventory.InventoryUnit), args.Error(1)
}

func (m *MockInventoryUnitRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.InventoryUnit, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]inventory.InventoryUnit), args.Error(1)
}

func (m *MockInventoryUnitRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInventoryUnitRepository) CountByStatus(ctx context.Context, status inventory.UnitStatus) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInventoryUnitRepository) Save(ctx context.Context, unit *inventory.InventoryUnit) error {
	args := m.Called(ctx, unit)
	return args.Error(0)
}

func (m *MockInventoryUnitRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockCouponRepository is a mock implementation of allocation.CouponRepository
type MockCouponRepository struct {
	mock.Mock
}

func (m *MockCouponRepository) FindByID(ctx context.Context, id uuid.UUID) (*allocation.Coupon, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*allocation.Coupon), args.Error(1)
}

func (m *MockCouponRepository) FindByNumber(ctx context.Context, couponNumber string) (*allocation.Coupon, error) {
	args := m.Called(ctx, couponNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*allocation.Coupon), args.Error(1)
}

func (m *MockCouponRepository) FindByModelName(ctx context.Context, modelName string) ([]allocation.Coupon, error) {
	args := m.Called(ctx, modelName)
	return args.Get(0).([]allocation.Coupon), args.Error(1)
}

func (m *MockCouponRepository) FindAll(ctx context.Context, filter shared.Filter) ([]allocation.Coupon, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]allocation.Coupon), args.Error(1)
}

func (m *MockCouponRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCouponRepository) CountByStatus(ctx context.Context, status allocation.CouponStatus) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCouponRepository) FindChequePending(ctx context.Context) ([]allocation.Coupon, error) {
	args := m.Called(ctx)
	return args.Get(0).([]allocation.Coupon), args.Error(1)
}

func (m *MockCouponRepository) FindChequeReleased(ctx context.Context) ([]allocation.Coupon, error) {
	args := m.Called(ctx)
	return args.Get(0).([]allocation.Coupon), args.Error(1)
}

func (m *MockCouponRepository) Save(ctx context.Context, coupon *allocation.Coupon) error {
	args := m.Called(ctx, coupon)
	return args.Error(0)
}

func (m *MockCouponRepository) SaveWithLock(ctx context.Context, coupon *allocation.Coupon) error {
	args := m.Called(ctx, coupon)
	return args.Error(0)
}

func (m *MockCouponRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// =============================================================================
// Test helpers
// =============================================================================

func newTestInventoryService() (*InventoryService, *MockVehicleRepository, *MockInventoryUnitRepository, *MockCouponRepository) {
	vehicleRepo := new(MockVehicleRepository)
	unitRepo := new(MockInventoryUnitRepository)
	couponRepo := new(MockCouponRepository)
	service := NewInventoryService(vehicleRepo, unitRepo, couponRepo, zap.NewNop())
	return service, vehicleRepo, unitRepo, couponRepo
}

func newCataloguedVehicle(t *testing.T, modelName string, stock int) *inventory.Vehicle {
	t.Helper()
	vehicle, err := inventory.NewVehicle(modelName, "Bajaj", decimal.NewFromInt(350000))
	require.NoError(t, err)
	if stock > 0 {
		require.NoError(t, vehicle.AddStock(stock))
	}
	vehicle.ClearDomainEvents()
	return vehicle
}

func newAvailableUnit(t *testing.T, vehicleID uuid.UUID, modelName, engine string) inventory.InventoryUnit {
	t.Helper()
	unit, err := inventory.NewInventoryUnit(vehicleID, modelName, engine, "", "Red")
	require.NoError(t, err)
	unit.ClearDomainEvents()
	return *unit
}

func newSaleCoupon(t *testing.T, modelName, engine string) allocation.Coupon {
	t.Helper()
	coupon, err := allocation.NewCoupon(
		"AKR-C-0001",
		allocation.CustomerDetails{Name: "Nimal Perera", Phone: "0771234567"},
		allocation.VehicleDetails{ModelName: modelName, EngineNumber: engine},
		allocation.PaymentMethodFull,
		allocation.Financials{
			TotalAmount: decimal.NewFromInt(400000),
			DownPayment: decimal.NewFromInt(400000),
		},
		time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	coupon.ClearDomainEvents()
	return *coupon
}

// =============================================================================
// Tests
// =============================================================================

func TestInventoryService_AddStock(t *testing.T) {
	service, vehicleRepo, _, _ := newTestInventoryService()

	vehicle := newCataloguedVehicle(t, "RE 4S", 2)
	vehicleRepo.On("FindByID", mock.Anything, vehicle.ID).Return(vehicle, nil)
	vehicleRepo.On("SaveWithLock", mock.Anything, vehicle).Return(nil)

	resp, err := service.AddStock(context.Background(), vehicle.ID, AddStockRequest{Quantity: 3})

	require.NoError(t, err)
	assert.Equal(t, 5, resp.StockQuantity)
	vehicleRepo.AssertExpectations(t)
}

func TestInventoryService_AddStock_RejectsNonPositive(t *testing.T) {
	service, vehicleRepo, _, _ := newTestInventoryService()

	vehicle := newCataloguedVehicle(t, "RE 4S", 2)
	vehicleRepo.On("FindByID", mock.Anything, vehicle.ID).Return(vehicle, nil)

	_, err := service.AddStock(context.Background(), vehicle.ID, AddStockRequest{Quantity: 0})

	assert.Error(t, err)
	vehicleRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
}

func TestInventoryService_RegisterUnit_DuplicateSerial(t *testing.T) {
	service, vehicleRepo, unitRepo, _ := newTestInventoryService()

	vehicle := newCataloguedVehicle(t, "RE 4S", 1)
	existing := newAvailableUnit(t, vehicle.ID, "RE 4S", "ENG-001")

	vehicleRepo.On("FindByModelName", mock.Anything, "RE 4S").Return(vehicle, nil)
	unitRepo.On("FindBySerial", mock.Anything, "ENG-001", "").Return(&existing, nil)

	_, err := service.RegisterUnit(context.Background(), RegisterUnitRequest{
		ModelName:    "RE 4S",
		EngineNumber: "ENG-001",
	})

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	unitRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestInventoryService_ResyncModel(t *testing.T) {
	service, vehicleRepo, unitRepo, couponRepo := newTestInventoryService()

	// Four received units; one sold by a coupon. The recount must land
	// the catalog at 3 and bind the sold unit to the coupon.
	vehicle := newCataloguedVehicle(t, "RE 4S", 4)
	units := []inventory.InventoryUnit{
		newAvailableUnit(t, vehicle.ID, "RE 4S", "ENG-001"),
		newAvailableUnit(t, vehicle.ID, "RE 4S", "ENG-002"),
		newAvailableUnit(t, vehicle.ID, "RE 4S", "ENG-003"),
		newAvailableUnit(t, vehicle.ID, "RE 4S", "ENG-004"),
	}
	coupons := []allocation.Coupon{newSaleCoupon(t, "RE 4S", "ENG-002")}

	vehicleRepo.On("FindByModelName", mock.Anything, "RE 4S").Return(vehicle, nil)
	couponRepo.On("FindByModelName", mock.Anything, "RE 4S").Return(coupons, nil)
	unitRepo.On("FindByModelName", mock.Anything, "RE 4S").Return(units, nil)
	vehicleRepo.On("Save", mock.Anything, vehicle).Return(nil)
	unitRepo.On("Save", mock.Anything, mock.Anything).Return(nil)

	resp, err := service.ResyncModel(context.Background(), "RE 4S")

	require.NoError(t, err)
	assert.Equal(t, 3, resp.StockQuantity)
	assert.Equal(t, 1, resp.SoldCount)
	assert.Equal(t, 1, resp.UnitsMarked)
	assert.Equal(t, 0, resp.UnitsMissing)
	assert.Equal(t, 3, vehicle.StockQuantity)
	vehicleRepo.AssertExpectations(t)
}

func TestInventoryService_UpdateUnit_CorrectsSerial(t *testing.T) {
	service, vehicleRepo, unitRepo, couponRepo := newTestInventoryService()

	vehicle := newCataloguedVehicle(t, "RE 4S", 1)
	unit := newAvailableUnit(t, vehicle.ID, "RE 4S", "ENG-001")

	unitRepo.On("FindByID", mock.Anything, unit.ID).Return(&unit, nil)
	unitRepo.On("FindBySerial", mock.Anything, "ENG-009", "").Return(nil, shared.ErrNotFound)
	unitRepo.On("Save", mock.Anything, mock.AnythingOfType("*inventory.InventoryUnit")).Return(nil)
	vehicleRepo.On("FindByModelName", mock.Anything, "RE 4S").Return(vehicle, nil)
	couponRepo.On("FindByModelName", mock.Anything, "RE 4S").Return([]allocation.Coupon{}, nil)
	unitRepo.On("FindByModelName", mock.Anything, "RE 4S").Return([]inventory.InventoryUnit{unit}, nil)
	vehicleRepo.On("Save", mock.Anything, vehicle).Return(nil)

	resp, err := service.UpdateUnit(context.Background(), unit.ID, UpdateUnitRequest{
		EngineNumber: "ENG-009",
		Color:        "Black",
	})

	require.NoError(t, err)
	assert.Equal(t, "ENG-009", resp.EngineNumber)
	assert.Equal(t, "Black", resp.Color)
	unitRepo.AssertExpectations(t)
}

func TestInventoryService_UpdateUnit_SerialTakenByAnotherUnit(t *testing.T) {
	service, _, unitRepo, _ := newTestInventoryService()

	vehicleID := uuid.New()
	unit := newAvailableUnit(t, vehicleID, "RE 4S", "ENG-001")
	other := newAvailableUnit(t, vehicleID, "RE 4S", "ENG-002")

	unitRepo.On("FindByID", mock.Anything, unit.ID).Return(&unit, nil)
	unitRepo.On("FindBySerial", mock.Anything, "ENG-002", "").Return(&other, nil)

	_, err := service.UpdateUnit(context.Background(), unit.ID, UpdateUnitRequest{EngineNumber: "ENG-002"})

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	unitRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestInventoryService_DeleteUnit(t *testing.T) {
	service, vehicleRepo, unitRepo, couponRepo := newTestInventoryService()

	vehicle := newCataloguedVehicle(t, "RE 4S", 1)
	unit := newAvailableUnit(t, vehicle.ID, "RE 4S", "ENG-001")

	unitRepo.On("FindByID", mock.Anything, unit.ID).Return(&unit, nil)
	vehicleRepo.On("FindByModelName", mock.Anything, "RE 4S").Return(vehicle, nil)
	unitRepo.On("Delete", mock.Anything, unit.ID).Return(nil)
	vehicleRepo.On("SaveWithLock", mock.Anything, vehicle).Return(nil)
	couponRepo.On("FindByModelName", mock.Anything, "RE 4S").Return([]allocation.Coupon{}, nil)
	unitRepo.On("FindByModelName", mock.Anything, "RE 4S").Return([]inventory.InventoryUnit{}, nil)
	vehicleRepo.On("Save", mock.Anything, vehicle).Return(nil)

	err := service.DeleteUnit(context.Background(), unit.ID)

	require.NoError(t, err)
	assert.Equal(t, 0, vehicle.ReceivedQuantity)
	assert.Equal(t, 0, vehicle.StockQuantity)
	unitRepo.AssertExpectations(t)
}

func TestInventoryService_DeleteUnit_SoldUnitRejected(t *testing.T) {
	service, _, unitRepo, _ := newTestInventoryService()

	unit := newAvailableUnit(t, uuid.New(), "RE 4S", "ENG-001")
	require.NoError(t, unit.MarkSold(uuid.New(), time.Now()))

	unitRepo.On("FindByID", mock.Anything, unit.ID).Return(&unit, nil)

	err := service.DeleteUnit(context.Background(), unit.ID)

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "UNIT_SOLD", domainErr.Code)
	unitRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestInventoryService_ResyncModel_UnknownModelIsCatalogued(t *testing.T) {
	service, vehicleRepo, unitRepo, couponRepo := newTestInventoryService()

	vehicleRepo.On("FindByModelName", mock.Anything, "CT100").Return(nil, shared.ErrNotFound)
	couponRepo.On("FindByModelName", mock.Anything, "CT100").Return([]allocation.Coupon{}, nil)
	unitRepo.On("FindByModelName", mock.Anything, "CT100").Return([]inventory.InventoryUnit{}, nil)
	vehicleRepo.On("Save", mock.Anything, mock.Anything).Return(nil)

	resp, err := service.ResyncModel(context.Background(), "CT100")

	require.NoError(t, err)
	assert.Equal(t, "CT100", resp.ModelName)
	assert.Equal(t, 0, resp.StockQuantity)
}

func TestInventoryService_ResyncModel_SaleWithoutUnit(t *testing.T) {
	service, vehicleRepo, unitRepo, couponRepo := newTestInventoryService()

	vehicle := newCataloguedVehicle(t, "RE 4S", 0)
	coupons := []allocation.Coupon{newSaleCoupon(t, "RE 4S", "ENG-UNSEEN")}

	vehicleRepo.On("FindByModelName", mock.Anything, "RE 4S").Return(vehicle, nil)
	couponRepo.On("FindByModelName", mock.Anything, "RE 4S").Return(coupons, nil)
	unitRepo.On("FindByModelName", mock.Anything, "RE 4S").Return([]inventory.InventoryUnit{}, nil)
	vehicleRepo.On("Save", mock.Anything, vehicle).Return(nil)

	resp, err := service.ResyncModel(context.Background(), "RE 4S")

	require.NoError(t, err)
	assert.Equal(t, 1, resp.UnitsMissing)
	assert.Equal(t, 0, resp.StockQuantity)
}
