package allocation

import (
	"time"

	"github.com/akrmotors/backoffice/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ScheduleOptions carries the optional manual overrides for the installment
// schedule. Nil fields mean "use the default fill rule".
type ScheduleOptions struct {
	ManualFirst  *decimal.Decimal
	ManualSecond *decimal.Decimal
	DueDates     [InstallmentCount]*time.Time
}

var three = decimal.NewFromInt(3)

// ScheduleInstallments produces the 3-slot payment schedule for a financed
// balance. Without manual amounts each slot receives balance/3 rounded to
// cents; the three amounts may undershoot the balance by at most two cents,
// which is accepted. Manual first/second amounts are taken as fixed and the
// remainder is split equally over the unfilled slots. A remainder below zero
// means the manual amounts exceed the balance and is rejected.
//
// Due dates default to purchase date plus 1, 2 and 3 calendar months
// (rollover arithmetic, not 30-day increments) unless explicit per-slot
// dates are supplied.
func ScheduleInstallments(balance decimal.Decimal, purchaseDate time.Time, opts ScheduleOptions) ([InstallmentCount]Installment, error) {
	var out [InstallmentCount]Installment

	if balance.IsNegative() {
		return out, shared.NewDomainError("INVALID_BALANCE", "Financed balance cannot be negative")
	}

	amounts, err := splitAmounts(balance, opts)
	if err != nil {
		return out, err
	}

	for slot := 0; slot < InstallmentCount; slot++ {
		due := purchaseDate.AddDate(0, slot+1, 0)
		if opts.DueDates[slot] != nil {
			due = *opts.DueDates[slot]
		}
		out[slot] = NewInstallment(slot+1, amounts[slot], due)
	}
	return out, nil
}

func splitAmounts(balance decimal.Decimal, opts ScheduleOptions) ([InstallmentCount]decimal.Decimal, error) {
	var amounts [InstallmentCount]decimal.Decimal

	if opts.ManualFirst == nil && opts.ManualSecond == nil {
		each := balance.Div(three).Round(2)
		for i := range amounts {
			amounts[i] = each
		}
		return amounts, nil
	}

	fixed := decimal.Zero
	unfilled := 0
	for slot, manual := range []*decimal.Decimal{opts.ManualFirst, opts.ManualSecond} {
		if manual != nil {
			if manual.IsNegative() {
				return amounts, shared.NewDomainError("INVALID_INSTALLMENT", "Manual installment amount cannot be negative")
			}
			amounts[slot] = *manual
			fixed = fixed.Add(*manual)
		} else {
			unfilled++
		}
	}
	unfilled++ // slot 3 is never manual

	remaining := balance.Sub(fixed)
	if remaining.IsNegative() {
		return amounts, shared.NewDomainError("INVALID_INSTALLMENT", "Manual installment amounts exceed the financed balance")
	}

	each := remaining.Div(decimal.NewFromInt(int64(unfilled))).Round(2)
	for slot := 0; slot < InstallmentCount; slot++ {
		if slot == 0 && opts.ManualFirst != nil {
			continue
		}
		if slot == 1 && opts.ManualSecond != nil {
			continue
		}
		amounts[slot] = each
	}
	return amounts, nil
}
