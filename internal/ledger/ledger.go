// Package ledger totals trial-balance entries and checks that they balance.
package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tbingest/internal/model"
)

// DefaultTolerance is the largest discrepancy still reported as balanced.
var DefaultTolerance = decimal.RequireFromString("0.01")

// Validate sums debits and credits across entries. An unbalanced trial
// balance is a normal result, not an error. A negative tolerance is treated
// as zero.
func Validate(entries []model.Entry, tolerance decimal.Decimal) model.ValidationResult {
	if tolerance.IsNegative() {
		tolerance = decimal.Zero
	}

	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	for _, e := range entries {
		totalDebit = totalDebit.Add(e.Debit)
		totalCredit = totalCredit.Add(e.Credit)
	}

	discrepancy := totalDebit.Sub(totalCredit)
	return model.ValidationResult{
		TotalDebits:  totalDebit,
		TotalCredits: totalCredit,
		Discrepancy:  discrepancy,
		Tolerance:    tolerance,
		Balanced:     discrepancy.Abs().LessThanOrEqual(tolerance),
	}
}

// Issue describes a problem with a single entry that does not stop the
// trial balance from being accepted.
type Issue struct {
	Row         int
	Account     string
	Description string
}

func (i Issue) String() string {
	return fmt.Sprintf("row %d [%s]: %s", i.Row, i.Account, i.Description)
}

// Check inspects entries one by one and reports anything a reviewer should
// look at before the trial balance is used.
func Check(entries []model.Entry) []Issue {
	var issues []Issue
	seen := make(map[string]int)
	hundred := decimal.NewFromInt(100)

	for _, e := range entries {
		add := func(format string, args ...any) {
			issues = append(issues, Issue{Row: e.Row, Account: e.AccountNumber, Description: fmt.Sprintf(format, args...)})
		}

		if e.AccountName == "" {
			add("account has no name")
		}
		if e.Debit.IsNegative() || e.Credit.IsNegative() {
			add("negative amount (debit %s, credit %s)", e.Debit, e.Credit)
		}
		if !e.Debit.IsZero() && !e.Credit.IsZero() {
			add("both debit and credit are set")
		}
		if e.Debit.IsZero() && e.Credit.IsZero() {
			add("zero balance")
		}
		for _, amt := range []decimal.Decimal{e.Debit, e.Credit} {
			if !amt.Mul(hundred).Equal(amt.Mul(hundred).Floor()) {
				add("amount %s has more than 2 decimal places", amt)
				break
			}
		}
		if !e.Type.Valid() {
			add("unknown account type %q", e.Type)
		}

		if first, dup := seen[e.AccountNumber]; dup {
			add("account also appears on row %d", first)
		} else {
			seen[e.AccountNumber] = e.Row
		}
	}
	return issues
}
