package allocation

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

func dp(v float64) *decimal.Decimal {
	dec := decimal.NewFromFloat(v)
	return &dec
}

// ============================================
// ScheduleInstallments Tests
// ============================================

func TestScheduleInstallments_EqualSplit(t *testing.T) {
	purchase := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	installments, err := ScheduleInstallments(d(300000), purchase, ScheduleOptions{})
	require.NoError(t, err)

	for slot := 0; slot < InstallmentCount; slot++ {
		assert.Equal(t, slot+1, installments[slot].Slot)
		assert.True(t, installments[slot].Amount.Equal(d(100000)),
			"slot %d amount = %s", slot+1, installments[slot].Amount)
	}
	assert.Equal(t, time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC), installments[0].DueDate)
	assert.Equal(t, time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC), installments[1].DueDate)
	assert.Equal(t, time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC), installments[2].DueDate)
}

func TestScheduleInstallments_SumCoversBalance(t *testing.T) {
	purchase := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	tolerance := d(0.02)

	balances := []float64{100000, 99999.99, 12345.67, 100, 0.01, 0}
	for _, b := range balances {
		balance := d(b)
		installments, err := ScheduleInstallments(balance, purchase, ScheduleOptions{})
		require.NoError(t, err)

		sum := decimal.Zero
		for i := range installments {
			sum = sum.Add(installments[i].Amount)
		}
		diff := sum.Sub(balance).Abs()
		assert.True(t, diff.LessThanOrEqual(tolerance),
			"balance %s: schedule sum %s off by %s", balance, sum, diff)
	}
}

func TestScheduleInstallments_ManualFirst(t *testing.T) {
	purchase := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	installments, err := ScheduleInstallments(d(100000), purchase, ScheduleOptions{
		ManualFirst: dp(40000),
	})
	require.NoError(t, err)

	assert.True(t, installments[0].Amount.Equal(d(40000)))
	assert.True(t, installments[1].Amount.Equal(d(30000)))
	assert.True(t, installments[2].Amount.Equal(d(30000)))
}

func TestScheduleInstallments_ManualFirstAndSecond(t *testing.T) {
	purchase := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	installments, err := ScheduleInstallments(d(90000), purchase, ScheduleOptions{
		ManualFirst:  dp(50000),
		ManualSecond: dp(25000),
	})
	require.NoError(t, err)

	assert.True(t, installments[0].Amount.Equal(d(50000)))
	assert.True(t, installments[1].Amount.Equal(d(25000)))
	assert.True(t, installments[2].Amount.Equal(d(15000)))
}

func TestScheduleInstallments_ManualExceedsBalance(t *testing.T) {
	purchase := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	_, err := ScheduleInstallments(d(50000), purchase, ScheduleOptions{
		ManualFirst:  dp(40000),
		ManualSecond: dp(20000),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceed")
}

func TestScheduleInstallments_NegativeManual(t *testing.T) {
	purchase := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	_, err := ScheduleInstallments(d(50000), purchase, ScheduleOptions{
		ManualFirst: dp(-1000),
	})
	require.Error(t, err)
}

func TestScheduleInstallments_NegativeBalance(t *testing.T) {
	purchase := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	_, err := ScheduleInstallments(d(-100), purchase, ScheduleOptions{})
	require.Error(t, err)
}

func TestScheduleInstallments_ExplicitDueDates(t *testing.T) {
	purchase := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	custom := time.Date(2025, 9, 30, 0, 0, 0, 0, time.UTC)

	installments, err := ScheduleInstallments(d(30000), purchase, ScheduleOptions{
		DueDates: [InstallmentCount]*time.Time{nil, &custom, nil},
	})
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), installments[0].DueDate)
	assert.Equal(t, custom, installments[1].DueDate)
	assert.Equal(t, time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC), installments[2].DueDate)
}

func TestScheduleInstallments_MonthEndRollover(t *testing.T) {
	// Jan 31 + 1 month rolls over into March per calendar arithmetic
	purchase := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)

	installments, err := ScheduleInstallments(d(30000), purchase, ScheduleOptions{})
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC), installments[0].DueDate)
}

// ============================================
// Installment Tests
// ============================================

func TestInstallment_RecordPayment(t *testing.T) {
	inst := NewInstallment(1, d(10000), time.Now())

	require.NoError(t, inst.RecordPayment(d(4000), time.Now()))
	assert.True(t, inst.PaidAmount.Equal(d(4000)))
	assert.False(t, inst.IsSatisfied())

	require.NoError(t, inst.RecordPayment(d(6000), time.Now()))
	assert.True(t, inst.PaidAmount.Equal(d(10000)))
	assert.True(t, inst.IsSatisfied())
}

func TestInstallment_RecordPayment_RejectsNonPositive(t *testing.T) {
	inst := NewInstallment(1, d(10000), time.Now())

	assert.Error(t, inst.RecordPayment(d(0), time.Now()))
	assert.Error(t, inst.RecordPayment(d(-500), time.Now()))
	assert.True(t, inst.PaidAmount.IsZero())
}

func TestInstallment_Outstanding(t *testing.T) {
	inst := NewInstallment(2, d(10000), time.Now())
	assert.True(t, inst.Outstanding().Equal(d(10000)))

	require.NoError(t, inst.RecordPayment(d(12000), time.Now()))
	assert.True(t, inst.Outstanding().IsZero(), "overpayment must floor at zero")
}

func TestInstallment_ZeroAmountIsSatisfied(t *testing.T) {
	inst := NewInstallment(3, decimal.Zero, time.Now())
	assert.True(t, inst.IsSatisfied())
}
