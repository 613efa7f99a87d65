package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/akrmotors/backoffice/internal/domain/allocation"
	"github.com/akrmotors/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCouponRepository implements CouponRepository using GORM
type GormCouponRepository struct {
	db *gorm.DB
}

// NewGormCouponRepository creates a new GormCouponRepository
func NewGormCouponRepository(db *gorm.DB) *GormCouponRepository {
	return &GormCouponRepository{db: db}
}

// FindByID finds a coupon by its ID with installments loaded
func (r *GormCouponRepository) FindByID(ctx context.Context, id uuid.UUID) (*allocation.Coupon, error) {
	var coupon allocation.Coupon
	if err := r.db.WithContext(ctx).
		Preload("Installments", func(db *gorm.DB) *gorm.DB { return db.Order("slot ASC") }).
		First(&coupon, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &coupon, nil
}

// FindByNumber finds a coupon by its human-readable number
func (r *GormCouponRepository) FindByNumber(ctx context.Context, couponNumber string) (*allocation.Coupon, error) {
	var coupon allocation.Coupon
	if err := r.db.WithContext(ctx).
		Preload("Installments", func(db *gorm.DB) *gorm.DB { return db.Order("slot ASC") }).
		First(&coupon, "coupon_number = ?", couponNumber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &coupon, nil
}

// FindByModelName finds every coupon selling the given vehicle model
func (r *GormCouponRepository) FindByModelName(ctx context.Context, modelName string) ([]allocation.Coupon, error) {
	var coupons []allocation.Coupon
	if err := r.db.WithContext(ctx).
		Where("vehicle_model_name = ?", modelName).
		Order("purchase_date ASC").
		Find(&coupons).Error; err != nil {
		return nil, err
	}
	return coupons, nil
}

// FindAll finds all coupons matching the filter
func (r *GormCouponRepository) FindAll(ctx context.Context, filter shared.Filter) ([]allocation.Coupon, error) {
	var coupons []allocation.Coupon
	query := r.applyFilter(r.db.WithContext(ctx).Model(&allocation.Coupon{}), filter)

	if err := query.
		Preload("Installments", func(db *gorm.DB) *gorm.DB { return db.Order("slot ASC") }).
		Find(&coupons).Error; err != nil {
		return nil, err
	}
	return coupons, nil
}

// Count counts coupons matching the filter
func (r *GormCouponRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&allocation.Coupon{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByStatus counts coupons in the given payment status
func (r *GormCouponRepository) CountByStatus(ctx context.Context, status allocation.CouponStatus) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&allocation.Coupon{}).
		Where("status = ?", status).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindChequePending finds coupons whose cheque has a release date but has not
// been released yet
func (r *GormCouponRepository) FindChequePending(ctx context.Context) ([]allocation.Coupon, error) {
	var coupons []allocation.Coupon
	if err := r.db.WithContext(ctx).
		Where("cheque_release_date IS NOT NULL AND cheque_released = ?", false).
		Order("cheque_release_date ASC").
		Find(&coupons).Error; err != nil {
		return nil, err
	}
	return coupons, nil
}

// FindChequeReleased finds coupons whose cheque has already been released
func (r *GormCouponRepository) FindChequeReleased(ctx context.Context) ([]allocation.Coupon, error) {
	var coupons []allocation.Coupon
	if err := r.db.WithContext(ctx).
		Where("cheque_released = ?", true).
		Order("cheque_released_at DESC").
		Find(&coupons).Error; err != nil {
		return nil, err
	}
	return coupons, nil
}

// Save creates or updates a coupon together with its installment slots
func (r *GormCouponRepository) Save(ctx context.Context, coupon *allocation.Coupon) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Installments").Save(coupon).Error; err != nil {
			return err
		}
		return r.saveInstallments(tx, coupon)
	})
}

// SaveWithLock saves a coupon with optimistic locking (version check)
// Returns an error if the version has changed (concurrent modification)
func (r *GormCouponRepository) SaveWithLock(ctx context.Context, coupon *allocation.Coupon) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Get current version from database
		var currentVersion int
		if err := tx.Model(&allocation.Coupon{}).
			Where("id = ?", coupon.ID).
			Select("version").
			Scan(&currentVersion).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}

		if currentVersion != coupon.Version {
			return shared.NewDomainError("OPTIMISTIC_LOCK_ERROR", "The coupon has been modified by another transaction")
		}

		coupon.Version++
		coupon.UpdatedAt = time.Now()

		result := tx.Model(&allocation.Coupon{}).
			Where("id = ? AND version = ?", coupon.ID, currentVersion).
			Select("*").
			Omit("Installments", "id", "created_at").
			Updates(coupon)

		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewDomainError("OPTIMISTIC_LOCK_ERROR", "The coupon has been modified by another transaction")
		}
		return r.saveInstallments(tx, coupon)
	})
}

// saveInstallments upserts the coupon's installment rows and removes any slot
// no longer on the schedule
func (r *GormCouponRepository) saveInstallments(tx *gorm.DB, coupon *allocation.Coupon) error {
	if len(coupon.Installments) == 0 {
		return tx.Delete(&allocation.Installment{}, "coupon_id = ?", coupon.ID).Error
	}

	slots := make([]int, len(coupon.Installments))
	for i := range coupon.Installments {
		coupon.Installments[i].CouponID = coupon.ID
		slots[i] = coupon.Installments[i].Slot
	}

	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "coupon_id"}, {Name: "slot"}},
		UpdateAll: true,
	}).Create(&coupon.Installments).Error; err != nil {
		return err
	}

	return tx.Delete(&allocation.Installment{}, "coupon_id = ? AND slot NOT IN ?", coupon.ID, slots).Error
}

// Delete deletes a coupon and its installments
func (r *GormCouponRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&allocation.Installment{}, "coupon_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&allocation.Coupon{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// applyFilter applies filter options to the query
func (r *GormCouponRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		field := ValidateSortField(filter.OrderBy, CouponSortFields, "created_at")
		query = query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("purchase_date DESC, coupon_number DESC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormCouponRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where(
			"LOWER(coupon_number) LIKE ? OR LOWER(customer_name) LIKE ? OR LOWER(customer_phone) LIKE ? OR LOWER(vehicle_model_name) LIKE ? OR LOWER(vehicle_engine_number) LIKE ? OR LOWER(vehicle_chassis_number) LIKE ?",
			pattern, pattern, pattern, pattern, pattern, pattern,
		)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "payment_method":
			query = query.Where("payment_method = ?", value)
		case "model_name":
			query = query.Where("vehicle_model_name = ?", value)
		case "purchase_date_from":
			query = query.Where("purchase_date >= ?", value)
		case "purchase_date_to":
			query = query.Where("purchase_date <= ?", value)
		}
	}

	return query
}
