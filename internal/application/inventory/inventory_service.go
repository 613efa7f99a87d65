package inventory

import (
	"context"
	"errors"

	"github.com/akrmotors/backoffice/internal/domain/allocation"
	"github.com/akrmotors/backoffice/internal/domain/inventory"
	"github.com/akrmotors/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// InventoryService maintains the model catalog, the physical units and the
// stock tallies derived from the coupon book
type InventoryService struct {
	vehicleRepo inventory.VehicleRepository
	unitRepo    inventory.InventoryUnitRepository
	couponRepo  allocation.CouponRepository
	syncService *inventory.StockSyncService
	logger      *zap.Logger
}

// NewInventoryService creates a new InventoryService
func NewInventoryService(
	vehicleRepo inventory.VehicleRepository,
	unitRepo inventory.InventoryUnitRepository,
	couponRepo allocation.CouponRepository,
	logger *zap.Logger,
) *InventoryService {
	return &InventoryService{
		vehicleRepo: vehicleRepo,
		unitRepo:    unitRepo,
		couponRepo:  couponRepo,
		syncService: inventory.NewStockSyncService(),
		logger:      logger,
	}
}

// CreateVehicle registers a catalog model
func (s *InventoryService) CreateVehicle(ctx context.Context, req CreateVehicleRequest) (*VehicleResponse, error) {
	if existing, err := s.vehicleRepo.FindByModelName(ctx, req.ModelName); err == nil && existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Model is already catalogued")
	}

	vehicle, err := inventory.NewVehicle(req.ModelName, req.Brand, req.UnitPrice)
	if err != nil {
		return nil, err
	}
	if req.Description != "" {
		vehicle.Description = req.Description
	}

	if err := s.vehicleRepo.Save(ctx, vehicle); err != nil {
		return nil, err
	}
	vehicle.ClearDomainEvents()

	response := ToVehicleResponse(vehicle)
	return &response, nil
}

// GetVehicle retrieves a catalog model by ID
func (s *InventoryService) GetVehicle(ctx context.Context, id uuid.UUID) (*VehicleResponse, error) {
	vehicle, err := s.vehicleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToVehicleResponse(vehicle)
	return &response, nil
}

// ListVehicles retrieves catalog models with filtering and pagination
func (s *InventoryService) ListVehicles(ctx context.Context, filter VehicleListFilter) (*shared.Paginated[VehicleResponse], error) {
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

	vehicles, err := s.vehicleRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.vehicleRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	items := make([]VehicleResponse, 0, len(vehicles))
	for i := range vehicles {
		items = append(items, ToVehicleResponse(&vehicles[i]))
	}

	result := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &result, nil
}

// AddStock takes received units of a model into stock
func (s *InventoryService) AddStock(ctx context.Context, vehicleID uuid.UUID, req AddStockRequest) (*VehicleResponse, error) {
	vehicle, err := s.vehicleRepo.FindByID(ctx, vehicleID)
	if err != nil {
		return nil, err
	}

	if err := vehicle.AddStock(req.Quantity); err != nil {
		return nil, err
	}

	if err := s.vehicleRepo.SaveWithLock(ctx, vehicle); err != nil {
		return nil, err
	}
	vehicle.ClearDomainEvents()

	response := ToVehicleResponse(vehicle)
	return &response, nil
}

// RegisterUnit registers one physical unit against its model, adding it to
// the model's stock tally
func (s *InventoryService) RegisterUnit(ctx context.Context, req RegisterUnitRequest) (*UnitResponse, error) {
	vehicle, err := s.vehicleRepo.FindByModelName(ctx, req.ModelName)
	if err != nil {
		return nil, err
	}

	if req.EngineNumber != "" || req.ChassisNumber != "" {
		if existing, err := s.unitRepo.FindBySerial(ctx, req.EngineNumber, req.ChassisNumber); err == nil && existing != nil {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "A unit with this serial is already registered")
		}
	}

	unit, err := inventory.NewInventoryUnit(vehicle.ID, vehicle.ModelName, req.EngineNumber, req.ChassisNumber, req.Color)
	if err != nil {
		return nil, err
	}

	if err := vehicle.AddStock(1); err != nil {
		return nil, err
	}

	if err := s.unitRepo.Save(ctx, unit); err != nil {
		return nil, err
	}
	if err := s.vehicleRepo.SaveWithLock(ctx, vehicle); err != nil {
		return nil, err
	}
	vehicle.ClearDomainEvents()

	response := ToUnitResponse(unit)
	return &response, nil
}

// GetUnit retrieves one physical unit
func (s *InventoryService) GetUnit(ctx context.Context, id uuid.UUID) (*UnitResponse, error) {
	unit, err := s.unitRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	response := ToUnitResponse(unit)
	return &response, nil
}

// UpdateUnit corrects a unit's serials or color, then rebuilds the model's
// stock tally so serial rebinding against the coupon book takes effect
func (s *InventoryService) UpdateUnit(ctx context.Context, id uuid.UUID, req UpdateUnitRequest) (*UnitResponse, error) {
	unit, err := s.unitRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.EngineNumber != "" || req.ChassisNumber != "" {
		if existing, err := s.unitRepo.FindBySerial(ctx, req.EngineNumber, req.ChassisNumber); err == nil && existing != nil && existing.ID != unit.ID {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "A unit with this serial is already registered")
		}
	}

	if err := unit.UpdateDetails(req.EngineNumber, req.ChassisNumber, req.Color); err != nil {
		return nil, err
	}
	if err := s.unitRepo.Save(ctx, unit); err != nil {
		return nil, err
	}

	if _, err := s.ResyncModel(ctx, unit.ModelName); err != nil {
		return nil, err
	}

	updated, err := s.unitRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToUnitResponse(updated)
	return &response, nil
}

// DeleteUnit removes a unit from the register and rebuilds the model's stock
// tally. A sold unit stays put until its sale record is deleted first.
func (s *InventoryService) DeleteUnit(ctx context.Context, id uuid.UUID) error {
	unit, err := s.unitRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !unit.IsAvailable() {
		return shared.NewDomainError("UNIT_SOLD", "Unit is bound to a sale record and cannot be deleted")
	}

	vehicle, err := s.vehicleRepo.FindByModelName(ctx, unit.ModelName)
	if err != nil {
		return err
	}
	if err := vehicle.RemoveStock(1); err != nil {
		return err
	}

	if err := s.unitRepo.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.vehicleRepo.SaveWithLock(ctx, vehicle); err != nil {
		return err
	}
	vehicle.ClearDomainEvents()

	_, err = s.ResyncModel(ctx, unit.ModelName)
	return err
}

// ListUnits retrieves the physical units of one model, or every registered
// unit when no model is given
func (s *InventoryService) ListUnits(ctx context.Context, modelName string) ([]UnitResponse, error) {
	var (
		units []inventory.InventoryUnit
		err   error
	)
	if modelName == "" {
		filter := shared.DefaultFilter()
		filter.PageSize = 500
		units, err = s.unitRepo.FindAll(ctx, filter)
	} else {
		units, err = s.unitRepo.FindByModelName(ctx, modelName)
	}
	if err != nil {
		return nil, err
	}

	items := make([]UnitResponse, 0, len(units))
	for i := range units {
		items = append(items, ToUnitResponse(&units[i]))
	}
	return items, nil
}

// ResyncModel rebuilds one model's stock tally and unit bindings from the
// coupon book. A model the catalog has never seen is registered on the fly
// so its sales still get counted.
func (s *InventoryService) ResyncModel(ctx context.Context, modelName string) (*ResyncResponse, error) {
	vehicle, err := s.vehicleRepo.FindByModelName(ctx, modelName)
	if err != nil {
		var domainErr *shared.DomainError
		if !errors.As(err, &domainErr) || domainErr.Code != shared.ErrNotFound.Code {
			return nil, err
		}
		vehicle, err = inventory.NewVehicle(modelName, "", decimal.Zero)
		if err != nil {
			return nil, err
		}
		s.logger.Info("cataloguing unknown model during stock resync",
			zap.String("model_name", modelName),
		)
	}

	coupons, err := s.couponRepo.FindByModelName(ctx, modelName)
	if err != nil {
		return nil, err
	}
	unitRecords, err := s.unitRepo.FindByModelName(ctx, modelName)
	if err != nil {
		return nil, err
	}

	units := make([]*inventory.InventoryUnit, 0, len(unitRecords))
	for i := range unitRecords {
		units = append(units, &unitRecords[i])
	}

	sales := make([]inventory.SaleRecord, 0, len(coupons))
	for i := range coupons {
		coupon := &coupons[i]
		sales = append(sales, inventory.SaleRecord{
			CouponID:      coupon.ID,
			ModelName:     coupon.Vehicle.ModelName,
			EngineNumber:  coupon.Vehicle.EngineNumber,
			ChassisNumber: coupon.Vehicle.ChassisNumber,
			SoldAt:        coupon.PurchaseDate,
		})
	}

	result, err := s.syncService.Recount(vehicle, units, sales)
	if err != nil {
		return nil, err
	}

	if err := s.vehicleRepo.Save(ctx, vehicle); err != nil {
		return nil, err
	}
	for _, unit := range units {
		if err := s.unitRepo.Save(ctx, unit); err != nil {
			return nil, err
		}
		unit.ClearDomainEvents()
	}
	vehicle.ClearDomainEvents()

	if result.UnitsMissing > 0 {
		s.logger.Warn("stock resync found sales with no matching unit",
			zap.String("model_name", modelName),
			zap.Int("units_missing", result.UnitsMissing),
		)
	}

	return &ResyncResponse{
		ModelName:     vehicle.ModelName,
		SoldCount:     result.SoldCount,
		StockQuantity: vehicle.StockQuantity,
		UnitsMarked:   result.UnitsMarked,
		UnitsMissing:  result.UnitsMissing,
	}, nil
}
