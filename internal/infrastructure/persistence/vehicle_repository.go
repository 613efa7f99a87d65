package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/akrmotors/backoffice/internal/domain/inventory"
	"github.com/akrmotors/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormVehicleRepository implements VehicleRepository using GORM
type GormVehicleRepository struct {
	db *gorm.DB
}

// NewGormVehicleRepository creates a new GormVehicleRepository
func NewGormVehicleRepository(db *gorm.DB) *GormVehicleRepository {
	return &GormVehicleRepository{db: db}
}

// FindByID finds a vehicle model by its ID
func (r *GormVehicleRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Vehicle, error) {
	var vehicle inventory.Vehicle
	if err := r.db.WithContext(ctx).First(&vehicle, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &vehicle, nil
}

// FindByModelName finds a vehicle model by its catalog name
func (r *GormVehicleRepository) FindByModelName(ctx context.Context, modelName string) (*inventory.Vehicle, error) {
	var vehicle inventory.Vehicle
	if err := r.db.WithContext(ctx).First(&vehicle, "model_name = ?", modelName).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &vehicle, nil
}

// FindAll finds all vehicle models matching the filter
func (r *GormVehicleRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.Vehicle, error) {
	var vehicles []inventory.Vehicle
	query := r.applyFilter(r.db.WithContext(ctx).Model(&inventory.Vehicle{}), filter)

	if err := query.Find(&vehicles).Error; err != nil {
		return nil, err
	}
	return vehicles, nil
}

// Count counts vehicle models matching the filter
func (r *GormVehicleRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&inventory.Vehicle{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a vehicle model
func (r *GormVehicleRepository) Save(ctx context.Context, vehicle *inventory.Vehicle) error {
	return r.db.WithContext(ctx).Save(vehicle).Error
}

// SaveWithLock saves a vehicle model with optimistic locking (version check)
func (r *GormVehicleRepository) SaveWithLock(ctx context.Context, vehicle *inventory.Vehicle) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Get current version from database
		var currentVersion int
		if err := tx.Model(&inventory.Vehicle{}).
			Where("id = ?", vehicle.ID).
			Select("version").
			Scan(&currentVersion).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}

		if currentVersion != vehicle.Version {
			return shared.NewDomainError("OPTIMISTIC_LOCK_ERROR", "The vehicle record has been modified by another transaction")
		}

		vehicle.Version++
		vehicle.UpdatedAt = time.Now()

		result := tx.Model(&inventory.Vehicle{}).
			Where("id = ? AND version = ?", vehicle.ID, currentVersion).
			Select("*").
			Omit("id", "created_at").
			Updates(vehicle)

		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewDomainError("OPTIMISTIC_LOCK_ERROR", "The vehicle record has been modified by another transaction")
		}
		return nil
	})
}

// Delete deletes a vehicle model
func (r *GormVehicleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&inventory.Vehicle{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormVehicleRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		field := ValidateSortField(filter.OrderBy, VehicleSortFields, "model_name")
		query = query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("model_name ASC")
	}

	return query
}

func (r *GormVehicleRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(model_name) LIKE ? OR LOWER(brand) LIKE ?", pattern, pattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "brand":
			query = query.Where("brand = ?", value)
		case "in_stock":
			if inStock, ok := value.(bool); ok && inStock {
				query = query.Where("stock_quantity > 0")
			}
		}
	}

	return query
}
