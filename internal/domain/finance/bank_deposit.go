package finance

import (
	"strings"
	"time"

	"github.com/akrmotors/backoffice/internal/domain/shared"
	"github.com/akrmotors/backoffice/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// depositMatchWindowDays is how far a deposit's bank date may sit from the
// ledger posting date and still count as the same money
const depositMatchWindowDays = 3

// BankDeposit is one line from the bank statement: a customer's money
// arriving at the bank, to be matched against the cash-book postings.
type BankDeposit struct {
	shared.BaseAggregateRoot
	DepositDate   time.Time         `gorm:"not null;index"`
	DepositorName string            `gorm:"not null"`
	Amount        valueobject.Money `gorm:"type:decimal(18,2);not null"`
	BankName      string
	Reference     string

	Matched bool `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (BankDeposit) TableName() string {
	return "bank_deposits"
}

// NewBankDeposit records a bank statement line
func NewBankDeposit(depositDate time.Time, depositorName string, amount decimal.Decimal, bankName, reference string) (*BankDeposit, error) {
	if depositDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_DEPOSIT_DATE", "Deposit date is required")
	}
	if depositorName == "" {
		return nil, shared.NewDomainError("INVALID_DEPOSITOR", "Depositor name cannot be empty")
	}
	money := valueobject.NewMoneyLKR(amount)
	if !money.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Deposit amount must be positive")
	}

	return &BankDeposit{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		DepositDate:       depositDate,
		DepositorName:     depositorName,
		Amount:            money,
		BankName:          bankName,
		Reference:         reference,
	}, nil
}

// MatchesEntry reports whether a ledger posting plausibly records this
// deposit: same amount, posting within the match window of the bank date,
// and the depositor's name appearing in the description. Names are compared
// loosely because tellers abbreviate.
func (d *BankDeposit) MatchesEntry(entry *LedgerEntry) bool {
	if !entry.IsCollection() {
		return false
	}
	if !d.Amount.Amount().Equal(entry.Amount) {
		return false
	}

	gap := entry.EntryDate.Sub(d.DepositDate)
	if gap < 0 {
		gap = -gap
	}
	if gap > depositMatchWindowDays*24*time.Hour {
		return false
	}

	return nameMatches(d.DepositorName, entry.Description)
}

// MarkMatched flags the deposit as reconciled against the cash book
func (d *BankDeposit) MarkMatched() {
	if d.Matched {
		return
	}
	d.Matched = true
	d.UpdatedAt = time.Now()
}

// nameMatches checks whether any word of the depositor's name longer than
// two characters appears in the description
func nameMatches(depositorName, description string) bool {
	desc := strings.ToUpper(description)
	for _, word := range strings.Fields(strings.ToUpper(depositorName)) {
		if len(word) > 2 && strings.Contains(desc, word) {
			return true
		}
	}
	return false
}
