package finance

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CouponRef is the slice of a coupon the reconciliation needs: its identity
// and the down payment the books should show collected for it.
type CouponRef struct {
	ID           uuid.UUID
	CouponNumber string
	DownPayment  decimal.Decimal
}

// CouponArrears is the reconciliation verdict for one coupon
type CouponArrears struct {
	CouponID     uuid.UUID
	CouponNumber string
	DownPayment  decimal.Decimal
	Collected    decimal.Decimal
	Arrears      decimal.Decimal
}

// PortfolioArrears aggregates arrears across a set of coupons
type PortfolioArrears struct {
	TotalArrears       decimal.Decimal
	CouponsWithArrears int
	AverageArrears     decimal.Decimal
	PerCoupon          []CouponArrears
}

// DiscrepancyReport compares the broad collection total against what the
// per-coupon matching could attribute. The two figures legitimately diverge
// when a posting mentions a coupon without a resolvable number; the gap
// measures how sloppy the books are.
type DiscrepancyReport struct {
	TotalCollected  decimal.Decimal
	TotalAttributed decimal.Decimal
	Discrepancy     decimal.Decimal
}

// DepositMatch pairs a bank deposit with the ledger posting that records it
type DepositMatch struct {
	Deposit *BankDeposit
	Entry   *LedgerEntry
}

// DepositMatchResult is the outcome of matching a statement against the books
type DepositMatchResult struct {
	Matches   []DepositMatch
	Unmatched []*BankDeposit
}

// ReconciliationService checks the coupon records against the cash book.
// All methods are pure over the slices they receive; the application layer
// decides which entries to load.
type ReconciliationService struct{}

// NewReconciliationService creates a ReconciliationService
func NewReconciliationService() *ReconciliationService {
	return &ReconciliationService{}
}

// CollectedFor sums the collections the books attribute to one coupon,
// through the explicit reference or the description fallback.
func (s *ReconciliationService) CollectedFor(coupon CouponRef, entries []*LedgerEntry) decimal.Decimal {
	collected := decimal.Zero
	for _, entry := range entries {
		if entry.IsCollection() && entry.ReferencesCoupon(coupon.ID, coupon.CouponNumber) {
			collected = collected.Add(entry.Amount)
		}
	}
	return collected
}

// ArrearsFor computes how much of the coupon's down payment the books cannot
// account for. Overcollection is not arrears; the figure floors at zero.
func (s *ReconciliationService) ArrearsFor(coupon CouponRef, entries []*LedgerEntry) CouponArrears {
	collected := s.CollectedFor(coupon, entries)
	arrears := coupon.DownPayment.Sub(collected)
	if arrears.IsNegative() {
		arrears = decimal.Zero
	}
	return CouponArrears{
		CouponID:     coupon.ID,
		CouponNumber: coupon.CouponNumber,
		DownPayment:  coupon.DownPayment,
		Collected:    collected,
		Arrears:      arrears,
	}
}

// PortfolioArrears reconciles every coupon and aggregates the arrears
func (s *ReconciliationService) PortfolioArrears(coupons []CouponRef, entries []*LedgerEntry) PortfolioArrears {
	result := PortfolioArrears{
		TotalArrears:   decimal.Zero,
		AverageArrears: decimal.Zero,
		PerCoupon:      make([]CouponArrears, 0, len(coupons)),
	}

	for _, coupon := range coupons {
		verdict := s.ArrearsFor(coupon, entries)
		result.PerCoupon = append(result.PerCoupon, verdict)
		if verdict.Arrears.IsPositive() {
			result.TotalArrears = result.TotalArrears.Add(verdict.Arrears)
			result.CouponsWithArrears++
		}
	}

	if result.CouponsWithArrears > 0 {
		result.AverageArrears = result.TotalArrears.
			Div(decimal.NewFromInt(int64(result.CouponsWithArrears))).Round(2)
	}
	return result
}

// TotalCollected sums every posting that looks like a coupon collection,
// whether or not it can be attributed to a specific coupon
func (s *ReconciliationService) TotalCollected(entries []*LedgerEntry) decimal.Decimal {
	total := decimal.Zero
	for _, entry := range entries {
		if entry.IsCollection() && entry.MentionsCoupon() {
			total = total.Add(entry.Amount)
		}
	}
	return total
}

// MatchDiscrepancy reports the gap between the broad collection total and
// the sum the per-coupon matching could attribute
func (s *ReconciliationService) MatchDiscrepancy(coupons []CouponRef, entries []*LedgerEntry) DiscrepancyReport {
	attributed := decimal.Zero
	for _, coupon := range coupons {
		attributed = attributed.Add(s.CollectedFor(coupon, entries))
	}
	total := s.TotalCollected(entries)
	return DiscrepancyReport{
		TotalCollected:  total,
		TotalAttributed: attributed,
		Discrepancy:     total.Sub(attributed),
	}
}

// MatchDeposits pairs bank statement lines with cash-book postings. Each
// posting absorbs at most one deposit; deposits nothing matches are returned
// for manual review.
func (s *ReconciliationService) MatchDeposits(deposits []*BankDeposit, entries []*LedgerEntry) DepositMatchResult {
	result := DepositMatchResult{
		Matches:   make([]DepositMatch, 0, len(deposits)),
		Unmatched: make([]*BankDeposit, 0),
	}

	used := make(map[uuid.UUID]bool, len(entries))
	for _, deposit := range deposits {
		var found *LedgerEntry
		for _, entry := range entries {
			if !used[entry.ID] && deposit.MatchesEntry(entry) {
				found = entry
				break
			}
		}
		if found == nil {
			result.Unmatched = append(result.Unmatched, deposit)
			continue
		}
		used[found.ID] = true
		deposit.MarkMatched()
		result.Matches = append(result.Matches, DepositMatch{Deposit: deposit, Entry: found})
	}
	return result
}
