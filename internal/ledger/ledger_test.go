package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/tbingest/internal/model"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func entry(row int, number, debit, credit string) model.Entry {
	e := model.Entry{
		AccountNumber: number,
		AccountName:   "Account " + number,
		Type:          model.AccountTypeAsset,
		Row:           row,
	}
	if debit != "" {
		e.Debit = dec(debit)
	}
	if credit != "" {
		e.Credit = dec(credit)
	}
	return e
}

func TestValidateBalanced(t *testing.T) {
	entries := []model.Entry{
		entry(2, "1000", "100.00", ""),
		entry(3, "2000", "", "60.00"),
		entry(4, "3000", "", "40.00"),
	}
	res := Validate(entries, DefaultTolerance)
	assert.True(t, res.TotalDebits.Equal(dec("100")))
	assert.True(t, res.TotalCredits.Equal(dec("100")))
	assert.True(t, res.Discrepancy.IsZero())
	assert.True(t, res.Tolerance.Equal(dec("0.01")))
	assert.True(t, res.Balanced)
}

func TestValidateUnbalancedExactDiscrepancy(t *testing.T) {
	entries := []model.Entry{
		entry(2, "1000", "1074820.98", ""),
		entry(3, "2000", "", "1074820.90"),
	}
	res := Validate(entries, DefaultTolerance)
	assert.False(t, res.Balanced)
	assert.Equal(t, "0.08", res.Discrepancy.StringFixed(2))
	assert.True(t, res.Discrepancy.Equal(dec("0.08")))
}

func TestValidateNegativeDiscrepancy(t *testing.T) {
	res := Validate([]model.Entry{entry(2, "1", "10", ""), entry(3, "2", "", "25.5")}, DefaultTolerance)
	assert.False(t, res.Balanced)
	assert.True(t, res.Discrepancy.Equal(dec("-15.5")))
}

func TestValidateToleranceBoundary(t *testing.T) {
	entries := []model.Entry{entry(2, "1", "100.01", ""), entry(3, "2", "", "100.00")}
	assert.True(t, Validate(entries, DefaultTolerance).Balanced)
	assert.False(t, Validate(entries, decimal.Zero).Balanced)
	assert.False(t, Validate(entries, dec("-1")).Balanced)

	entries[0].Debit = dec("100.02")
	assert.False(t, Validate(entries, DefaultTolerance).Balanced)
}

func TestValidateEmpty(t *testing.T) {
	res := Validate(nil, DefaultTolerance)
	assert.True(t, res.TotalDebits.IsZero())
	assert.True(t, res.TotalCredits.IsZero())
	assert.True(t, res.Balanced)
}

func TestValidateNoFloatDrift(t *testing.T) {
	var entries []model.Entry
	for i := 0; i < 10; i++ {
		entries = append(entries, entry(i+2, "d", "0.10", ""))
	}
	entries = append(entries, entry(12, "c", "", "1.00"))
	res := Validate(entries, decimal.Zero)
	assert.True(t, res.Balanced)
	assert.True(t, res.Discrepancy.IsZero())
}

func TestCheckClean(t *testing.T) {
	issues := Check([]model.Entry{entry(2, "1000", "10.00", ""), entry(3, "2000", "", "10.00")})
	assert.Empty(t, issues)
}

func TestCheckReportsProblems(t *testing.T) {
	bad := entry(2, "1000", "10.005", "")
	both := entry(3, "2000", "5.00", "5.00")
	zero := entry(4, "3000", "", "")
	dup := entry(5, "1000", "1.00", "")
	untyped := entry(6, "4000", "1.00", "")
	untyped.Type = ""

	issues := Check([]model.Entry{bad, both, zero, dup, untyped})
	require.Len(t, issues, 5)
	assert.Equal(t, 2, issues[0].Row)
	assert.Contains(t, issues[0].Description, "more than 2 decimal places")
	assert.Contains(t, issues[1].Description, "both debit and credit")
	assert.Contains(t, issues[2].Description, "zero balance")
	assert.Equal(t, "row 5 [1000]: account also appears on row 2", issues[3].String())
	assert.Contains(t, issues[4].Description, "unknown account type")
}
