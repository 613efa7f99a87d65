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

// GormBankDepositRepository implements BankDepositRepository using GORM
type GormBankDepositRepository struct {
	db *gorm.DB
}

// NewGormBankDepositRepository creates a new GormBankDepositRepository
func NewGormBankDepositRepository(db *gorm.DB) *GormBankDepositRepository {
	return &GormBankDepositRepository{db: db}
}

// FindByID finds a deposit by its ID
func (r *GormBankDepositRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.BankDeposit, error) {
	var deposit finance.BankDeposit
	if err := r.db.WithContext(ctx).First(&deposit, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &deposit, nil
}

// FindUnmatched finds deposits not yet tied to a ledger entry
func (r *GormBankDepositRepository) FindUnmatched(ctx context.Context) ([]*finance.BankDeposit, error) {
	var deposits []*finance.BankDeposit
	if err := r.db.WithContext(ctx).
		Where("matched = ?", false).
		Order("deposit_date ASC").
		Find(&deposits).Error; err != nil {
		return nil, err
	}
	return deposits, nil
}

// FindByDateRange finds deposits within the inclusive date range
func (r *GormBankDepositRepository) FindByDateRange(ctx context.Context, from, to time.Time) ([]*finance.BankDeposit, error) {
	var deposits []*finance.BankDeposit
	if err := r.db.WithContext(ctx).
		Where("deposit_date >= ? AND deposit_date <= ?", from, to).
		Order("deposit_date ASC").
		Find(&deposits).Error; err != nil {
		return nil, err
	}
	return deposits, nil
}

// FindAll finds all deposits matching the filter
func (r *GormBankDepositRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*finance.BankDeposit, error) {
	var deposits []*finance.BankDeposit
	query := r.applyFilter(r.db.WithContext(ctx).Model(&finance.BankDeposit{}), filter)

	if err := query.Find(&deposits).Error; err != nil {
		return nil, err
	}
	return deposits, nil
}

// Count counts deposits matching the filter
func (r *GormBankDepositRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&finance.BankDeposit{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a deposit
func (r *GormBankDepositRepository) Save(ctx context.Context, deposit *finance.BankDeposit) error {
	return r.db.WithContext(ctx).Save(deposit).Error
}

// Delete deletes a deposit
func (r *GormBankDepositRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&finance.BankDeposit{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormBankDepositRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		field := ValidateSortField(filter.OrderBy, BankDepositSortFields, "deposit_date")
		query = query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("deposit_date DESC")
	}

	return query
}

func (r *GormBankDepositRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where(
			"LOWER(depositor_name) LIKE ? OR LOWER(bank_name) LIKE ? OR LOWER(reference) LIKE ?",
			pattern, pattern, pattern,
		)
	}

	for key, value := range filter.Filters {
		switch key {
		case "matched":
			query = query.Where("matched = ?", value)
		case "bank_name":
			query = query.Where("bank_name = ?", value)
		}
	}

	return query
}
