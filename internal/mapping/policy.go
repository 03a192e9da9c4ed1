package mapping

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// CoercionPolicy decides what happens to an amount cell that does not parse.
type CoercionPolicy int

const (
	// CoerceLenient reads unparsable amounts as zero.
	CoerceLenient CoercionPolicy = iota
	// CoerceStrict rejects the upload on the first unparsable amount.
	CoerceStrict
)

func (p CoercionPolicy) String() string {
	if p == CoerceStrict {
		return "strict"
	}
	return "lenient"
}

// ParseCoercionPolicy parses "lenient" or "strict". Empty means lenient.
func ParseCoercionPolicy(s string) (CoercionPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "lenient":
		return CoerceLenient, nil
	case "strict":
		return CoerceStrict, nil
	}
	return CoerceLenient, fmt.Errorf("unknown coercion policy %q", s)
}

// Coerce converts a cell to an amount. Empty cells are zero under both
// policies. coerced is true when the lenient policy replaced an unparsable
// cell with zero.
func (p CoercionPolicy) Coerce(v any) (amount decimal.Decimal, coerced bool, err error) {
	amount, err = ParseAmount(v)
	if err == nil {
		return amount, false, nil
	}
	if p == CoerceStrict {
		return decimal.Zero, false, err
	}
	return decimal.Zero, true, nil
}

var amountStripper = strings.NewReplacer(",", "", " ", "", "\u00a0", "", "\u202f", "", "'", "")

// ParseAmount reads a cell as a decimal. Thousands separators are removed;
// "(12.00)" and "12.00-" read as negative. Empty cells are zero.
func ParseAmount(v any) (decimal.Decimal, error) {
	switch x := v.(type) {
	case nil:
		return decimal.Zero, nil
	case decimal.Decimal:
		return x, nil
	case float64:
		return decimal.NewFromFloat(x), nil
	case float32:
		return decimal.NewFromFloat32(x), nil
	case int:
		return decimal.NewFromInt(int64(x)), nil
	case int64:
		return decimal.NewFromInt(x), nil
	case string:
		return parseAmountString(x)
	}
	return parseAmountString(fmt.Sprint(v))
}

func parseAmountString(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero, nil
	}

	neg := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		neg = true
		s = s[1 : len(s)-1]
	} else if len(s) > 1 && strings.HasSuffix(s, "-") {
		neg = true
		s = s[:len(s)-1]
	}

	s = amountStripper.Replace(s)
	if s == "" || s == "-" {
		return decimal.Zero, nil
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing amount %q: %w", raw, err)
	}
	if neg {
		d = d.Neg()
	}
	return d, nil
}

// SkipReason says why a row produced no entry.
type SkipReason string

const (
	SkipNone    SkipReason = ""
	SkipSummary SkipReason = "summary"
	SkipTotals  SkipReason = "totals"
	SkipBlank   SkipReason = "blank"
	SkipUnnamed SkipReason = "unnamed"
)

var totalsRe = regexp.MustCompile(`(?i)^(grand\s+)?totals?:?$`)

// RowSkipPolicy decides which rows are dropped before aggregation.
//
// Summary rows (name starting with SummaryPrefix) and totals rows are only
// dropped when category, source and code are all empty, since real accounts
// always carry at least one of them in exports that have those columns. A
// row without a name never becomes an entry.
type RowSkipPolicy struct {
	SummaryPrefix string
	SkipTotals    bool
}

// DefaultRowSkipPolicy drops "Net Profit..." summary lines and bare totals
// lines.
func DefaultRowSkipPolicy() RowSkipPolicy {
	return RowSkipPolicy{SummaryPrefix: "net profit", SkipTotals: true}
}

// Fields are the canonical values read from one row.
type Fields struct {
	Category string
	Source   string
	Code     string
	Name     string
	Debit    decimal.Decimal
	Credit   decimal.Decimal
}

// Check returns why f should be skipped, or SkipNone.
func (p RowSkipPolicy) Check(f Fields) SkipReason {
	if f.Name == "" {
		if f.Debit.IsZero() && f.Credit.IsZero() {
			return SkipBlank
		}
		return SkipUnnamed
	}

	bare := f.Category == "" && f.Source == "" && f.Code == ""
	if !bare {
		return SkipNone
	}
	if p.SummaryPrefix != "" && strings.HasPrefix(strings.ToLower(f.Name), strings.ToLower(p.SummaryPrefix)) {
		return SkipSummary
	}
	if p.SkipTotals && totalsRe.MatchString(f.Name) {
		return SkipTotals
	}
	return SkipNone
}
