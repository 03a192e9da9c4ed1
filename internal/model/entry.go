package model

import "github.com/shopspring/decimal"

// Entry is one classified trial-balance line.
//
// Debit and Credit are never negative. The balance is always derived from
// them; it is not stored.
type Entry struct {
	AccountNumber string // account code, or AccountName when the export has none
	AccountName   string
	Debit         decimal.Decimal
	Credit        decimal.Decimal
	Type          AccountType
	Bucket        Bucket

	Category string // raw category hint from the export
	Source   string
	Row      int // 1-based, counted from the header line
}

// Balance returns Debit - Credit.
func (e Entry) Balance() decimal.Decimal {
	return e.Debit.Sub(e.Credit)
}

// ValidationResult is the double-entry verdict for one upload.
type ValidationResult struct {
	TotalDebits  decimal.Decimal
	TotalCredits decimal.Decimal
	Discrepancy  decimal.Decimal // TotalDebits - TotalCredits
	Tolerance    decimal.Decimal
	Balanced     bool
}
