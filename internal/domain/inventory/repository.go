package inventory

import (
	"context"

	"github.com/akrmotors/backoffice/internal/domain/shared"
	"github.com/google/uuid"
)

// VehicleRepository defines persistence for the model catalog
type VehicleRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Vehicle, error)
	FindByModelName(ctx context.Context, modelName string) (*Vehicle, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Vehicle, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, vehicle *Vehicle) error
	SaveWithLock(ctx context.Context, vehicle *Vehicle) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// InventoryUnitRepository defines persistence for physical units
type InventoryUnitRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*InventoryUnit, error)
	FindBySerial(ctx context.Context, engineNumber, chassisNumber string) (*InventoryUnit, error)
	FindByModelName(ctx context.Context, modelName string) ([]InventoryUnit, error)
	FindByCouponID(ctx context.Context, couponID uuid.UUID) ([]InventoryUnit, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]InventoryUnit, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	CountByStatus(ctx context.Context, status UnitStatus) (int64, error)
	Save(ctx context.Context, unit *InventoryUnit) error
	Delete(ctx context.Context, id uuid.UUID) error
}
