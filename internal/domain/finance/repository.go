package finance

import (
	"context"
	"time"

	"github.com/akrmotors/backoffice/internal/domain/shared"
	"github.com/google/uuid"
)

// LedgerEntryRepository defines persistence for cash-book postings
type LedgerEntryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*LedgerEntry, error)
	FindByCouponID(ctx context.Context, couponID uuid.UUID) ([]*LedgerEntry, error)
	// FindCollections returns every posting with a positive amount
	FindCollections(ctx context.Context) ([]*LedgerEntry, error)
	FindByDateRange(ctx context.Context, from, to time.Time) ([]*LedgerEntry, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*LedgerEntry, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, entry *LedgerEntry) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// BankDepositRepository defines persistence for bank statement lines
type BankDepositRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*BankDeposit, error)
	FindUnmatched(ctx context.Context) ([]*BankDeposit, error)
	FindByDateRange(ctx context.Context, from, to time.Time) ([]*BankDeposit, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*BankDeposit, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, deposit *BankDeposit) error
	Delete(ctx context.Context, id uuid.UUID) error
}
