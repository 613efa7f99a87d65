package allocation

import (
	"context"
	"sort"
	"time"

	"github.com/akrmotors/backoffice/internal/domain/allocation"
	"github.com/google/uuid"
)

// ChequeReminderService surfaces the cheques waiting to go out. A coupon
// enters the queue when its down payment is dated and leaves it when the
// office marks the cheque released.
type ChequeReminderService struct {
	couponRepo allocation.CouponRepository
}

// NewChequeReminderService creates a new ChequeReminderService
func NewChequeReminderService(couponRepo allocation.CouponRepository) *ChequeReminderService {
	return &ChequeReminderService{couponRepo: couponRepo}
}

// ListDue returns the unreleased cheques annotated with how far along the
// four day window each one is, most overdue first.
func (s *ChequeReminderService) ListDue(ctx context.Context) ([]ChequeReminderResponse, error) {
	return s.listDueAt(ctx, time.Now())
}

func (s *ChequeReminderService) listDueAt(ctx context.Context, now time.Time) ([]ChequeReminderResponse, error) {
	coupons, err := s.couponRepo.FindChequePending(ctx)
	if err != nil {
		return nil, err
	}

	reminders := make([]ChequeReminderResponse, 0, len(coupons))
	for i := range coupons {
		coupon := &coupons[i]
		reminder := ChequeReminderResponse{
			CouponID:          coupon.ID,
			CouponNumber:      coupon.CouponNumber,
			CustomerName:      coupon.Customer.Name,
			CustomerPhone:     coupon.Customer.Phone,
			DownPayment:       coupon.DownPayment,
			DownPaymentDate:   coupon.DownPaymentDate,
			ChequeReleaseDate: coupon.ChequeReleaseDate,
		}
		if coupon.DownPaymentDate != nil {
			reminder.DaysSinceDownPayment = daysBetween(*coupon.DownPaymentDate, now)
		}
		if coupon.ChequeReleaseDate != nil {
			// Negative once the release date has passed
			until := daysBetween(now, *coupon.ChequeReleaseDate)
			reminder.DaysUntilRelease = until
			if until < 0 {
				reminder.IsOverdue = true
				reminder.DaysOverdue = -until
			}
		}
		reminders = append(reminders, reminder)
	}

	// Most overdue first, then soonest due
	sort.SliceStable(reminders, func(i, j int) bool {
		return reminderLess(reminders[i], reminders[j])
	})
	return reminders, nil
}

// ListReleased returns the coupons whose cheques already went out
func (s *ChequeReminderService) ListReleased(ctx context.Context) ([]ReleasedChequeResponse, error) {
	coupons, err := s.couponRepo.FindChequeReleased(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	released := make([]ReleasedChequeResponse, 0, len(coupons))
	for i := range coupons {
		coupon := &coupons[i]
		item := ReleasedChequeResponse{
			CouponID:         coupon.ID,
			CouponNumber:     coupon.CouponNumber,
			CustomerName:     coupon.Customer.Name,
			DownPayment:      coupon.DownPayment,
			ChequeReleasedAt: coupon.ChequeReleasedAt,
		}
		if coupon.ChequeReleasedAt != nil {
			item.DaysSinceReleased = daysBetween(*coupon.ChequeReleasedAt, now)
		}
		released = append(released, item)
	}
	return released, nil
}

// MarkReleased flags one coupon's cheque as released. Safe to call again on
// an already released coupon.
func (s *ChequeReminderService) MarkReleased(ctx context.Context, couponID uuid.UUID) (*CouponResponse, error) {
	coupon, err := s.couponRepo.FindByID(ctx, couponID)
	if err != nil {
		return nil, err
	}

	if err := coupon.MarkChequeReleased(time.Now()); err != nil {
		return nil, err
	}

	if err := s.couponRepo.SaveWithLock(ctx, coupon); err != nil {
		return nil, err
	}
	coupon.ClearDomainEvents()

	response := ToCouponResponse(coupon)
	return &response, nil
}

// CountDue returns how many cheques are waiting, for the reminder sweep log
func (s *ChequeReminderService) CountDue(ctx context.Context) (int, error) {
	coupons, err := s.couponRepo.FindChequePending(ctx)
	if err != nil {
		return 0, err
	}
	return len(coupons), nil
}

func reminderLess(a, b ChequeReminderResponse) bool {
	if a.IsOverdue != b.IsOverdue {
		return a.IsOverdue
	}
	if a.IsOverdue {
		return a.DaysOverdue > b.DaysOverdue
	}
	return a.DaysUntilRelease < b.DaysUntilRelease
}

// daysBetween counts whole calendar days from a to b, negative when b is
// before a
func daysBetween(a, b time.Time) int {
	a = time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	b = time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}
