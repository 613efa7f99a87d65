package finance

import (
	"time"

	"github.com/akrmotors/backoffice/internal/domain/finance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ==================== Ledger DTOs ====================

// CreateLedgerEntryRequest records one cash-book posting
type CreateLedgerEntryRequest struct {
	EntryDate   time.Time       `json:"entry_date" binding:"required"`
	Description string          `json:"description" binding:"required,min=1,max=500"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	CouponID    *uuid.UUID      `json:"coupon_id"`
	Category    string          `json:"category" binding:"max=100"`
}

// LedgerListFilter carries list query parameters
type LedgerListFilter struct {
	Page     int        `form:"page"`
	PageSize int        `form:"page_size"`
	Search   string     `form:"search"`
	From     *time.Time `form:"from"`
	To       *time.Time `form:"to"`
}

// LedgerEntryResponse represents a posting in API responses
type LedgerEntryResponse struct {
	ID          uuid.UUID       `json:"id"`
	EntryDate   time.Time       `json:"entry_date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	CouponID    *uuid.UUID      `json:"coupon_id"`
	Category    string          `json:"category"`
	Collection  bool            `json:"collection"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ==================== Deposit DTOs ====================

// CreateDepositRequest records one bank statement line
type CreateDepositRequest struct {
	DepositDate   time.Time       `json:"deposit_date" binding:"required"`
	DepositorName string          `json:"depositor_name" binding:"required,min=1,max=200"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	BankName      string          `json:"bank_name" binding:"max=100"`
	Reference     string          `json:"reference" binding:"max=100"`
}

// BankDepositResponse represents a deposit in API responses
type BankDepositResponse struct {
	ID            uuid.UUID       `json:"id"`
	DepositDate   time.Time       `json:"deposit_date"`
	DepositorName string          `json:"depositor_name"`
	Amount        decimal.Decimal `json:"amount"`
	BankName      string          `json:"bank_name"`
	Reference     string          `json:"reference"`
	Matched       bool            `json:"matched"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ==================== Reconciliation DTOs ====================

// CouponArrearsResponse is the reconciliation verdict for one coupon
type CouponArrearsResponse struct {
	CouponID     uuid.UUID       `json:"coupon_id"`
	CouponNumber string          `json:"coupon_number"`
	DownPayment  decimal.Decimal `json:"down_payment"`
	Collected    decimal.Decimal `json:"collected"`
	Arrears      decimal.Decimal `json:"arrears"`
}

// PortfolioArrearsResponse aggregates arrears across the coupon book
type PortfolioArrearsResponse struct {
	TotalArrears       decimal.Decimal         `json:"total_arrears"`
	CouponsWithArrears int                     `json:"coupons_with_arrears"`
	AverageArrears     decimal.Decimal         `json:"average_arrears"`
	PerCoupon          []CouponArrearsResponse `json:"per_coupon"`
}

// DiscrepancyResponse reports the collection attribution gap
type DiscrepancyResponse struct {
	TotalCollected  decimal.Decimal `json:"total_collected"`
	TotalAttributed decimal.Decimal `json:"total_attributed"`
	Discrepancy     decimal.Decimal `json:"discrepancy"`
}

// DepositMatchResponse pairs a deposit with the posting that records it
type DepositMatchResponse struct {
	Deposit BankDepositResponse `json:"deposit"`
	Entry   LedgerEntryResponse `json:"entry"`
}

// MatchDepositsResponse is the outcome of a statement matching run
type MatchDepositsResponse struct {
	Matches   []DepositMatchResponse `json:"matches"`
	Unmatched []BankDepositResponse  `json:"unmatched"`
}

// ToLedgerEntryResponse converts a domain entry to its API shape
func ToLedgerEntryResponse(entry *finance.LedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		ID:          entry.ID,
		EntryDate:   entry.EntryDate,
		Description: entry.Description,
		Amount:      entry.Amount,
		CouponID:    entry.CouponID,
		Category:    entry.Category,
		Collection:  entry.IsCollection(),
		CreatedAt:   entry.CreatedAt,
	}
}

// ToBankDepositResponse converts a domain deposit to its API shape
func ToBankDepositResponse(deposit *finance.BankDeposit) BankDepositResponse {
	return BankDepositResponse{
		ID:            deposit.ID,
		DepositDate:   deposit.DepositDate,
		DepositorName: deposit.DepositorName,
		Amount:        deposit.Amount.Amount(),
		BankName:      deposit.BankName,
		Reference:     deposit.Reference,
		Matched:       deposit.Matched,
		CreatedAt:     deposit.CreatedAt,
	}
}

// ToCouponArrearsResponse converts a domain verdict to its API shape
func ToCouponArrearsResponse(verdict finance.CouponArrears) CouponArrearsResponse {
	return CouponArrearsResponse{
		CouponID:     verdict.CouponID,
		CouponNumber: verdict.CouponNumber,
		DownPayment:  verdict.DownPayment,
		Collected:    verdict.Collected,
		Arrears:      verdict.Arrears,
	}
}
