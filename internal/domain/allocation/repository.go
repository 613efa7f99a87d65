package allocation

import (
	"context"

	"github.com/akrmotors/backoffice/internal/domain/shared"
	"github.com/google/uuid"
)

// NumberAllocator hands out human-readable sequential identifiers. The
// implementation must be atomic: two concurrent allocations for the same
// prefix can never observe the same value.
type NumberAllocator interface {
	Next(ctx context.Context, prefix string, width int) (string, error)
}

// Well-known allocator prefixes
const (
	PrefixCoupon   = "AKR-C"
	PrefixCustomer = "AKR-CUS"
)

// CouponRepository provides persistence for coupon aggregates
type CouponRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Coupon, error)
	FindByNumber(ctx context.Context, couponNumber string) (*Coupon, error)
	FindByModelName(ctx context.Context, modelName string) ([]Coupon, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Coupon, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	CountByStatus(ctx context.Context, status CouponStatus) (int64, error)
	FindChequePending(ctx context.Context) ([]Coupon, error)
	FindChequeReleased(ctx context.Context) ([]Coupon, error)
	Save(ctx context.Context, coupon *Coupon) error
	SaveWithLock(ctx context.Context, coupon *Coupon) error
	Delete(ctx context.Context, id uuid.UUID) error
}
