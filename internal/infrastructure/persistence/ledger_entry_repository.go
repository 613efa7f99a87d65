package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/akrmotors/backoffice/internal/domain/finance"
	"github.com/akrmotors/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormLedgerEntryRepository implements LedgerEntryRepository using GORM
type GormLedgerEntryRepository struct {
	db *gorm.DB
}

// NewGormLedgerEntryRepository creates a new GormLedgerEntryRepository
func NewGormLedgerEntryRepository(db *gorm.DB) *GormLedgerEntryRepository {
	return &GormLedgerEntryRepository{db: db}
}

// FindByID finds a ledger entry by its ID
func (r *GormLedgerEntryRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.LedgerEntry, error) {
	var entry finance.LedgerEntry
	if err := r.db.WithContext(ctx).First(&entry, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// FindByCouponID finds the entries explicitly posted against a coupon
func (r *GormLedgerEntryRepository) FindByCouponID(ctx context.Context, couponID uuid.UUID) ([]*finance.LedgerEntry, error) {
	var entries []*finance.LedgerEntry
	if err := r.db.WithContext(ctx).
		Where("coupon_id = ?", couponID).
		Order("entry_date ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// FindCollections returns every posting with a positive amount
func (r *GormLedgerEntryRepository) FindCollections(ctx context.Context) ([]*finance.LedgerEntry, error) {
	var entries []*finance.LedgerEntry
	if err := r.db.WithContext(ctx).
		Where("amount > 0").
		Order("entry_date ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// FindByDateRange finds entries posted within the inclusive date range
func (r *GormLedgerEntryRepository) FindByDateRange(ctx context.Context, from, to time.Time) ([]*finance.LedgerEntry, error) {
	var entries []*finance.LedgerEntry
	if err := r.db.WithContext(ctx).
		Where("entry_date >= ? AND entry_date <= ?", from, to).
		Order("entry_date ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// FindAll finds all entries matching the filter
func (r *GormLedgerEntryRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*finance.LedgerEntry, error) {
	var entries []*finance.LedgerEntry
	query := r.applyFilter(r.db.WithContext(ctx).Model(&finance.LedgerEntry{}), filter)

	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// Count counts entries matching the filter
func (r *GormLedgerEntryRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&finance.LedgerEntry{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a ledger entry
func (r *GormLedgerEntryRepository) Save(ctx context.Context, entry *finance.LedgerEntry) error {
	return r.db.WithContext(ctx).Save(entry).Error
}

// Delete deletes a ledger entry
func (r *GormLedgerEntryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&finance.LedgerEntry{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormLedgerEntryRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		field := ValidateSortField(filter.OrderBy, LedgerEntrySortFields, "entry_date")
		query = query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("entry_date DESC")
	}

	return query
}

func (r *GormLedgerEntryRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(description) LIKE ? OR LOWER(category) LIKE ?", pattern, pattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "category":
			query = query.Where("category = ?", value)
		case "coupon_id":
			query = query.Where("coupon_id = ?", value)
		case "collections_only":
			if collections, ok := value.(bool); ok && collections {
				query = query.Where("amount > 0")
			}
		}
	}

	return query
}
