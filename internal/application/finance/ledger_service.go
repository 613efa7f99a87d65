package finance

import (
	"context"

	"github.com/akrmotors/backoffice/internal/domain/finance"
	"github.com/akrmotors/backoffice/internal/domain/shared"
	"github.com/google/uuid"
)

// LedgerService maintains the cash book and the bank statement lines
type LedgerService struct {
	entryRepo   finance.LedgerEntryRepository
	depositRepo finance.BankDepositRepository
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(entryRepo finance.LedgerEntryRepository, depositRepo finance.BankDepositRepository) *LedgerService {
	return &LedgerService{
		entryRepo:   entryRepo,
		depositRepo: depositRepo,
	}
}

// CreateEntry records one cash-book posting
func (s *LedgerService) CreateEntry(ctx context.Context, req CreateLedgerEntryRequest) (*LedgerEntryResponse, error) {
	entry, err := finance.NewLedgerEntry(req.EntryDate, req.Description, req.Amount, req.CouponID)
	if err != nil {
		return nil, err
	}
	if req.Category != "" {
		entry.Category = req.Category
	}

	if err := s.entryRepo.Save(ctx, entry); err != nil {
		return nil, err
	}

	response := ToLedgerEntryResponse(entry)
	return &response, nil
}

// ListEntries retrieves postings with filtering and pagination
func (s *LedgerService) ListEntries(ctx context.Context, filter LedgerListFilter) (*shared.Paginated[LedgerEntryResponse], error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	var entries []*finance.LedgerEntry
	var err error
	if filter.From != nil && filter.To != nil {
		entries, err = s.entryRepo.FindByDateRange(ctx, *filter.From, *filter.To)
		if err != nil {
			return nil, err
		}
		items := make([]LedgerEntryResponse, 0, len(entries))
		for _, entry := range entries {
			items = append(items, ToLedgerEntryResponse(entry))
		}
		result := shared.NewPaginated(items, int64(len(items)), 1, filter.PageSize)
		return &result, nil
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		Search:   filter.Search,
		Filters:  map[string]interface{}{},
	}
	entries, err = s.entryRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.entryRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	items := make([]LedgerEntryResponse, 0, len(entries))
	for _, entry := range entries {
		items = append(items, ToLedgerEntryResponse(entry))
	}

	result := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &result, nil
}

// DeleteEntry removes one posting
func (s *LedgerService) DeleteEntry(ctx context.Context, id uuid.UUID) error {
	if _, err := s.entryRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.entryRepo.Delete(ctx, id)
}

// CreateDeposit records one bank statement line
func (s *LedgerService) CreateDeposit(ctx context.Context, req CreateDepositRequest) (*BankDepositResponse, error) {
	deposit, err := finance.NewBankDeposit(req.DepositDate, req.DepositorName, req.Amount, req.BankName, req.Reference)
	if err != nil {
		return nil, err
	}

	if err := s.depositRepo.Save(ctx, deposit); err != nil {
		return nil, err
	}

	response := ToBankDepositResponse(deposit)
	return &response, nil
}

// ListDeposits retrieves the statement lines, unmatched first
func (s *LedgerService) ListDeposits(ctx context.Context, page, pageSize int) (*shared.Paginated[BankDepositResponse], error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}

	domainFilter := shared.Filter{
		Page:     page,
		PageSize: pageSize,
		OrderBy:  "matched",
		OrderDir: "asc",
		Filters:  map[string]interface{}{},
	}
	deposits, err := s.depositRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.depositRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	items := make([]BankDepositResponse, 0, len(deposits))
	for _, deposit := range deposits {
		items = append(items, ToBankDepositResponse(deposit))
	}

	result := shared.NewPaginated(items, total, page, pageSize)
	return &result, nil
}
