package finance

import (
	"context"

	"github.com/akrmotors/backoffice/internal/domain/allocation"
	"github.com/akrmotors/backoffice/internal/domain/finance"
	"github.com/akrmotors/backoffice/internal/domain/shared"
	"github.com/google/uuid"
)

// ReconciliationService runs the coupon book against the cash book. Loading
// is done here; the verdicts come from the domain service.
type ReconciliationService struct {
	couponRepo  allocation.CouponRepository
	entryRepo   finance.LedgerEntryRepository
	depositRepo finance.BankDepositRepository
	reconciler  *finance.ReconciliationService
}

// NewReconciliationService creates a new ReconciliationService
func NewReconciliationService(
	couponRepo allocation.CouponRepository,
	entryRepo finance.LedgerEntryRepository,
	depositRepo finance.BankDepositRepository,
) *ReconciliationService {
	return &ReconciliationService{
		couponRepo:  couponRepo,
		entryRepo:   entryRepo,
		depositRepo: depositRepo,
		reconciler:  finance.NewReconciliationService(),
	}
}

// CouponArrears reconciles one coupon's down payment against the books
func (s *ReconciliationService) CouponArrears(ctx context.Context, couponID uuid.UUID) (*CouponArrearsResponse, error) {
	coupon, err := s.couponRepo.FindByID(ctx, couponID)
	if err != nil {
		return nil, err
	}
	entries, err := s.entryRepo.FindCollections(ctx)
	if err != nil {
		return nil, err
	}

	verdict := s.reconciler.ArrearsFor(toCouponRef(coupon), entries)
	response := ToCouponArrearsResponse(verdict)
	return &response, nil
}

// PortfolioArrears reconciles every coupon with a down payment
func (s *ReconciliationService) PortfolioArrears(ctx context.Context) (*PortfolioArrearsResponse, error) {
	coupons, err := s.loadCouponRefs(ctx)
	if err != nil {
		return nil, err
	}
	entries, err := s.entryRepo.FindCollections(ctx)
	if err != nil {
		return nil, err
	}

	portfolio := s.reconciler.PortfolioArrears(coupons, entries)

	perCoupon := make([]CouponArrearsResponse, 0, len(portfolio.PerCoupon))
	for _, verdict := range portfolio.PerCoupon {
		perCoupon = append(perCoupon, ToCouponArrearsResponse(verdict))
	}
	return &PortfolioArrearsResponse{
		TotalArrears:       portfolio.TotalArrears,
		CouponsWithArrears: portfolio.CouponsWithArrears,
		AverageArrears:     portfolio.AverageArrears,
		PerCoupon:          perCoupon,
	}, nil
}

// Discrepancy reports the gap between the broad collection total and the
// per-coupon attribution
func (s *ReconciliationService) Discrepancy(ctx context.Context) (*DiscrepancyResponse, error) {
	coupons, err := s.loadCouponRefs(ctx)
	if err != nil {
		return nil, err
	}
	entries, err := s.entryRepo.FindCollections(ctx)
	if err != nil {
		return nil, err
	}

	report := s.reconciler.MatchDiscrepancy(coupons, entries)
	return &DiscrepancyResponse{
		TotalCollected:  report.TotalCollected,
		TotalAttributed: report.TotalAttributed,
		Discrepancy:     report.Discrepancy,
	}, nil
}

// MatchDeposits pairs the unmatched statement lines against the cash book
// and persists the pairings
func (s *ReconciliationService) MatchDeposits(ctx context.Context) (*MatchDepositsResponse, error) {
	deposits, err := s.depositRepo.FindUnmatched(ctx)
	if err != nil {
		return nil, err
	}
	entries, err := s.entryRepo.FindCollections(ctx)
	if err != nil {
		return nil, err
	}

	result := s.reconciler.MatchDeposits(deposits, entries)

	response := MatchDepositsResponse{
		Matches:   make([]DepositMatchResponse, 0, len(result.Matches)),
		Unmatched: make([]BankDepositResponse, 0, len(result.Unmatched)),
	}
	for _, match := range result.Matches {
		if err := s.depositRepo.Save(ctx, match.Deposit); err != nil {
			return nil, err
		}
		response.Matches = append(response.Matches, DepositMatchResponse{
			Deposit: ToBankDepositResponse(match.Deposit),
			Entry:   ToLedgerEntryResponse(match.Entry),
		})
	}
	for _, deposit := range result.Unmatched {
		response.Unmatched = append(response.Unmatched, ToBankDepositResponse(deposit))
	}
	return &response, nil
}

func (s *ReconciliationService) loadCouponRefs(ctx context.Context) ([]finance.CouponRef, error) {
	total, err := s.couponRepo.Count(ctx, shared.DefaultFilter())
	if err != nil {
		return nil, err
	}
	if total == 0 {
		return nil, nil
	}

	filter := shared.DefaultFilter()
	filter.PageSize = int(total)
	coupons, err := s.couponRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	refs := make([]finance.CouponRef, 0, len(coupons))
	for i := range coupons {
		refs = append(refs, toCouponRef(&coupons[i]))
	}
	return refs, nil
}

func toCouponRef(coupon *allocation.Coupon) finance.CouponRef {
	return finance.CouponRef{
		ID:           coupon.ID,
		CouponNumber: coupon.CouponNumber,
		DownPayment:  coupon.DownPayment,
	}
}
