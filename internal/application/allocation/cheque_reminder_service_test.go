package allocation

import (
	"context"
	"testing"
	"time"

	"github.com/akrmotors/backoffice/internal/domain/allocation"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chequePendingCoupon(t *testing.T, number string, downPaymentDate time.Time) allocation.Coupon {
	coupon, err := allocation.NewCoupon(
		number,
		allocation.CustomerDetails{Name: "Nimal Perera", Phone: "0771234567"},
		allocation.VehicleDetails{ModelName: "Bajaj RE 4S", EngineNumber: "ENG-1"},
		allocation.PaymentMethodFull,
		allocation.Financials{
			TotalAmount: decimal.NewFromInt(450000),
			DownPayment: decimal.NewFromInt(50000),
		},
		downPaymentDate,
	)
	require.NoError(t, err)
	coupon.SetDownPaymentDate(downPaymentDate)
	coupon.ClearDomainEvents()
	return *coupon
}

func TestChequeReminderService_ListDue(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 5, 10, 12, 0, 0, 0, time.UTC)

	repo := new(MockCouponRepository)
	service := NewChequeReminderService(repo)

	// release dates: 5 May (overdue 5 days), 12 May (2 days out), 9 May
	// (overdue 1 day)
	coupons := []allocation.Coupon{
		chequePendingCoupon(t, "AKR-C-0001", time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)),
		chequePendingCoupon(t, "AKR-C-0002", time.Date(2025, 5, 8, 0, 0, 0, 0, time.UTC)),
		chequePendingCoupon(t, "AKR-C-0003", time.Date(2025, 5, 5, 0, 0, 0, 0, time.UTC)),
	}
	repo.On("FindChequePending", ctx).Return(coupons, nil)

	reminders, err := service.listDueAt(ctx, now)
	require.NoError(t, err)
	require.Len(t, reminders, 3)

	// Most overdue first
	assert.Equal(t, "AKR-C-0001", reminders[0].CouponNumber)
	assert.True(t, reminders[0].IsOverdue)
	assert.Equal(t, 5, reminders[0].DaysOverdue)
	assert.Equal(t, -5, reminders[0].DaysUntilRelease)
	assert.Equal(t, 9, reminders[0].DaysSinceDownPayment)

	assert.Equal(t, "AKR-C-0003", reminders[1].CouponNumber)
	assert.True(t, reminders[1].IsOverdue)
	assert.Equal(t, 1, reminders[1].DaysOverdue)
	assert.Equal(t, -1, reminders[1].DaysUntilRelease)

	assert.Equal(t, "AKR-C-0002", reminders[2].CouponNumber)
	assert.False(t, reminders[2].IsOverdue)
	assert.Equal(t, 2, reminders[2].DaysUntilRelease)
}

func TestChequeReminderService_MarkReleased(t *testing.T) {
	ctx := context.Background()

	repo := new(MockCouponRepository)
	service := NewChequeReminderService(repo)

	coupon := chequePendingCoupon(t, "AKR-C-0001", time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC))
	repo.On("FindByID", ctx, coupon.ID).Return(&coupon, nil)
	repo.On("SaveWithLock", ctx, &coupon).Return(nil)

	resp, err := service.MarkReleased(ctx, coupon.ID)
	require.NoError(t, err)
	assert.True(t, resp.ChequeReleased)
	require.NotNil(t, resp.ChequeReleasedAt)

	t.Run("marking again re-stamps without error", func(t *testing.T) {
		again, err := service.MarkReleased(ctx, coupon.ID)
		require.NoError(t, err)
		assert.True(t, again.ChequeReleased)
		assert.True(t, !again.ChequeReleasedAt.Before(*resp.ChequeReleasedAt))
	})
}

func TestChequeReminderService_MarkReleased_NoReleaseDate(t *testing.T) {
	ctx := context.Background()

	repo := new(MockCouponRepository)
	service := NewChequeReminderService(repo)

	// no down payment, so no release date was ever derived
	coupon, err := allocation.NewCoupon(
		"AKR-C-0009",
		allocation.CustomerDetails{Name: "Nimal Perera", Phone: "0771234567"},
		allocation.VehicleDetails{ModelName: "Bajaj RE 4S", EngineNumber: "ENG-1"},
		allocation.PaymentMethodFull,
		allocation.Financials{TotalAmount: decimal.NewFromInt(450000)},
		time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	repo.On("FindByID", ctx, coupon.ID).Return(coupon, nil)

	_, err = service.MarkReleased(ctx, coupon.ID)
	assert.Error(t, err)
}
