package finance

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akrmotors/backoffice/internal/domain/shared/valueobject"
)

func d(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

func entry(t *testing.T, date time.Time, description string, amount float64, couponID *uuid.UUID) *LedgerEntry {
	e, err := NewLedgerEntry(date, description, d(amount), couponID)
	require.NoError(t, err)
	return e
}

var testDate = time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC)

// ============================================
// LedgerEntry Tests
// ============================================

func TestLedgerEntry_ReferencesCoupon(t *testing.T) {
	couponID := uuid.New()

	t.Run("explicit reference wins", func(t *testing.T) {
		e := entry(t, testDate, "down payment", 50000, &couponID)
		assert.True(t, e.ReferencesCoupon(couponID, "AKR-C-0001"))
		assert.False(t, e.ReferencesCoupon(uuid.New(), "down"))
	})

	t.Run("falls back to description substring", func(t *testing.T) {
		e := entry(t, testDate, "Coupon akr-c-0001 down payment", 50000, nil)
		assert.True(t, e.ReferencesCoupon(couponID, "AKR-C-0001"))
		assert.False(t, e.ReferencesCoupon(couponID, "AKR-C-0002"))
	})

	t.Run("empty coupon number never matches by text", func(t *testing.T) {
		e := entry(t, testDate, "cash sale", 50000, nil)
		assert.False(t, e.ReferencesCoupon(couponID, ""))
	})
}

func TestLedgerEntry_MentionsCoupon(t *testing.T) {
	couponID := uuid.New()

	assert.True(t, entry(t, testDate, "misc", 100, &couponID).MentionsCoupon())
	assert.True(t, entry(t, testDate, "COUPON collection, number illegible", 100, nil).MentionsCoupon())
	assert.False(t, entry(t, testDate, "electricity bill", -100, nil).MentionsCoupon())
}

// ============================================
// Arrears Tests
// ============================================

func TestReconciliationService_ArrearsFor(t *testing.T) {
	service := NewReconciliationService()
	coupon := CouponRef{ID: uuid.New(), CouponNumber: "AKR-C-0001", DownPayment: d(50000)}

	t.Run("matching entry clears the arrears", func(t *testing.T) {
		entries := []*LedgerEntry{
			entry(t, testDate, "Coupon AKR-C-0001 down payment", 50000, nil),
		}
		verdict := service.ArrearsFor(coupon, entries)
		assert.True(t, verdict.Collected.Equal(d(50000)))
		assert.True(t, verdict.Arrears.IsZero())
	})

	t.Run("no entries means full arrears", func(t *testing.T) {
		verdict := service.ArrearsFor(coupon, nil)
		assert.True(t, verdict.Arrears.Equal(d(50000)))
	})

	t.Run("partial collection leaves the remainder", func(t *testing.T) {
		entries := []*LedgerEntry{
			entry(t, testDate, "AKR-C-0001 part payment", 20000, nil),
		}
		verdict := service.ArrearsFor(coupon, entries)
		assert.True(t, verdict.Arrears.Equal(d(30000)))
	})

	t.Run("overcollection floors at zero", func(t *testing.T) {
		entries := []*LedgerEntry{
			entry(t, testDate, "AKR-C-0001 payment", 60000, nil),
		}
		verdict := service.ArrearsFor(coupon, entries)
		assert.True(t, verdict.Arrears.IsZero())
	})

	t.Run("payouts never count as collections", func(t *testing.T) {
		entries := []*LedgerEntry{
			entry(t, testDate, "AKR-C-0001 refund", -50000, nil),
		}
		verdict := service.ArrearsFor(coupon, entries)
		assert.True(t, verdict.Arrears.Equal(d(50000)))
	})
}

func TestReconciliationService_PortfolioArrears(t *testing.T) {
	service := NewReconciliationService()
	paid := CouponRef{ID: uuid.New(), CouponNumber: "AKR-C-0001", DownPayment: d(50000)}
	short := CouponRef{ID: uuid.New(), CouponNumber: "AKR-C-0002", DownPayment: d(40000)}
	unpaid := CouponRef{ID: uuid.New(), CouponNumber: "AKR-C-0003", DownPayment: d(30000)}

	entries := []*LedgerEntry{
		entry(t, testDate, "AKR-C-0001 down payment", 50000, nil),
		entry(t, testDate, "AKR-C-0002 part payment", 10000, nil),
	}

	result := service.PortfolioArrears([]CouponRef{paid, short, unpaid}, entries)

	assert.Equal(t, 2, result.CouponsWithArrears)
	assert.True(t, result.TotalArrears.Equal(d(60000)), "total = %s", result.TotalArrears)
	assert.True(t, result.AverageArrears.Equal(d(30000)))
	assert.Len(t, result.PerCoupon, 3)
}

func TestReconciliationService_PortfolioArrears_Empty(t *testing.T) {
	service := NewReconciliationService()
	result := service.PortfolioArrears(nil, nil)

	assert.True(t, result.TotalArrears.IsZero())
	assert.True(t, result.AverageArrears.IsZero())
	assert.Equal(t, 0, result.CouponsWithArrears)
}

// ============================================
// Discrepancy Tests
// ============================================

func TestReconciliationService_MatchDiscrepancy(t *testing.T) {
	service := NewReconciliationService()
	coupon := CouponRef{ID: uuid.New(), CouponNumber: "AKR-C-0001", DownPayment: d(50000)}

	entries := []*LedgerEntry{
		entry(t, testDate, "Coupon AKR-C-0001 down payment", 50000, nil),
		// looks like a collection but no coupon number is legible
		entry(t, testDate, "coupon payment, number smudged", 15000, nil),
	}

	report := service.MatchDiscrepancy([]CouponRef{coupon}, entries)

	assert.True(t, report.TotalCollected.Equal(d(65000)))
	assert.True(t, report.TotalAttributed.Equal(d(50000)))
	assert.True(t, report.Discrepancy.Equal(d(15000)))
}

// ============================================
// Deposit Matching Tests
// ============================================

func TestBankDeposit_CarriesLKRAmount(t *testing.T) {
	deposit, err := NewBankDeposit(testDate, "Nimal Perera", d(50000), "BOC", "DEP-1")
	require.NoError(t, err)

	assert.Equal(t, valueobject.LKR, deposit.Amount.Currency())
	assert.True(t, deposit.Amount.Amount().Equal(d(50000)))
	assert.Equal(t, "50000.00 LKR", deposit.Amount.String())
}

func TestBankDeposit_MatchesEntry(t *testing.T) {
	deposit, err := NewBankDeposit(testDate, "Nimal Perera", d(50000), "BOC", "DEP-1")
	require.NoError(t, err)

	t.Run("matches on name, amount and nearby date", func(t *testing.T) {
		e := entry(t, testDate.AddDate(0, 0, 2), "Perera coupon down payment", 50000, nil)
		assert.True(t, deposit.MatchesEntry(e))
	})

	t.Run("rejects different amount", func(t *testing.T) {
		e := entry(t, testDate, "Perera coupon down payment", 45000, nil)
		assert.False(t, deposit.MatchesEntry(e))
	})

	t.Run("rejects date outside the window", func(t *testing.T) {
		e := entry(t, testDate.AddDate(0, 0, 5), "Perera coupon down payment", 50000, nil)
		assert.False(t, deposit.MatchesEntry(e))
	})

	t.Run("rejects unrelated name", func(t *testing.T) {
		e := entry(t, testDate, "Silva coupon down payment", 50000, nil)
		assert.False(t, deposit.MatchesEntry(e))
	})
}

func TestReconciliationService_MatchDeposits(t *testing.T) {
	service := NewReconciliationService()

	matched, err := NewBankDeposit(testDate, "Nimal Perera", d(50000), "BOC", "DEP-1")
	require.NoError(t, err)
	orphan, err := NewBankDeposit(testDate, "Kamala Silva", d(30000), "BOC", "DEP-2")
	require.NoError(t, err)

	entries := []*LedgerEntry{
		entry(t, testDate.AddDate(0, 0, 1), "Perera down payment", 50000, nil),
	}

	result := service.MatchDeposits([]*BankDeposit{matched, orphan}, entries)

	require.Len(t, result.Matches, 1)
	assert.Equal(t, matched.ID, result.Matches[0].Deposit.ID)
	assert.True(t, matched.Matched)

	require.Len(t, result.Unmatched, 1)
	assert.Equal(t, orphan.ID, result.Unmatched[0].ID)
	assert.False(t, orphan.Matched)
}

func TestReconciliationService_MatchDeposits_EntryAbsorbsOne(t *testing.T) {
	service := NewReconciliationService()

	first, err := NewBankDeposit(testDate, "Nimal Perera", d(50000), "BOC", "DEP-1")
	require.NoError(t, err)
	second, err := NewBankDeposit(testDate, "Nimal Perera", d(50000), "BOC", "DEP-2")
	require.NoError(t, err)

	entries := []*LedgerEntry{
		entry(t, testDate, "Perera down payment", 50000, nil),
	}

	result := service.MatchDeposits([]*BankDeposit{first, second}, entries)

	assert.Len(t, result.Matches, 1)
	assert.Len(t, result.Unmatched, 1)
}
