package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/akrmotors/backoffice/internal/domain/inventory"
	"github.com/akrmotors/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormInventoryUnitRepository implements InventoryUnitRepository using GORM
type GormInventoryUnitRepository struct {
	db *gorm.DB
}

// NewGormInventoryUnitRepository creates a new GormInventoryUnitRepository
func NewGormInventoryUnitRepository(db *gorm.DB) *GormInventoryUnitRepository {
	return &GormInventoryUnitRepository{db: db}
}

// FindByID finds a unit by its ID
func (r *GormInventoryUnitRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.InventoryUnit, error) {
	var unit inventory.InventoryUnit
	if err := r.db.WithContext(ctx).First(&unit, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &unit, nil
}

// FindBySerial finds a unit by engine or chassis number. Either serial may be
// empty; empty serials never match.
func (r *GormInventoryUnitRepository) FindBySerial(ctx context.Context, engineNumber, chassisNumber string) (*inventory.InventoryUnit, error) {
	if engineNumber == "" && chassisNumber == "" {
		return nil, shared.ErrNotFound
	}

	query := r.db.WithContext(ctx)
	switch {
	case engineNumber != "" && chassisNumber != "":
		query = query.Where("engine_number = ? OR chassis_number = ?", engineNumber, chassisNumber)
	case engineNumber != "":
		query = query.Where("engine_number = ?", engineNumber)
	default:
		query = query.Where("chassis_number = ?", chassisNumber)
	}

	var unit inventory.InventoryUnit
	if err := query.First(&unit).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &unit, nil
}

// FindByModelName finds every unit of the given vehicle model
func (r *GormInventoryUnitRepository) FindByModelName(ctx context.Context, modelName string) ([]inventory.InventoryUnit, error) {
	var units []inventory.InventoryUnit
	if err := r.db.WithContext(ctx).
		Where("model_name = ?", modelName).
		Order("created_at ASC").
		Find(&units).Error; err != nil {
		return nil, err
	}
	return units, nil
}

// FindByCouponID finds the units referenced by a coupon
func (r *GormInventoryUnitRepository) FindByCouponID(ctx context.Context, couponID uuid.UUID) ([]inventory.InventoryUnit, error) {
	var units []inventory.InventoryUnit
	if err := r.db.WithContext(ctx).
		Where("coupon_id = ?", couponID).
		Find(&units).Error; err != nil {
		return nil, err
	}
	return units, nil
}

// FindAll finds all units matching the filter
func (r *GormInventoryUnitRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.InventoryUnit, error) {
	var units []inventory.InventoryUnit
	query := r.applyFilter(r.db.WithContext(ctx).Model(&inventory.InventoryUnit{}), filter)

	if err := query.Find(&units).Error; err != nil {
		return nil, err
	}
	return units, nil
}

// Count counts units matching the filter
func (r *GormInventoryUnitRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&inventory.InventoryUnit{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByStatus counts units in the given status
func (r *GormInventoryUnitRepository) CountByStatus(ctx context.Context, status inventory.UnitStatus) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&inventory.InventoryUnit{}).
		Where("status = ?", status).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a unit
func (r *GormInventoryUnitRepository) Save(ctx context.Context, unit *inventory.InventoryUnit) error {
	return r.db.WithContext(ctx).Save(unit).Error
}

// Delete deletes a unit
func (r *GormInventoryUnitRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&inventory.InventoryUnit{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormInventoryUnitRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		field := ValidateSortField(filter.OrderBy, InventoryUnitSortFields, "created_at")
		query = query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("model_name ASC, created_at ASC")
	}

	return query
}

func (r *GormInventoryUnitRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where(
			"LOWER(model_name) LIKE ? OR LOWER(engine_number) LIKE ? OR LOWER(chassis_number) LIKE ?",
			pattern, pattern, pattern,
		)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "model_name":
			query = query.Where("model_name = ?", value)
		}
	}

	return query
}
