package classify

import (
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tbingest/internal/model"
)

// Line is the subtotal of one line-item bucket.
type Line struct {
	Type     model.AccountType
	Bucket   model.Bucket
	Accounts int
	Debit    decimal.Decimal
	Credit   decimal.Decimal
}

// Balance returns Debit - Credit.
func (l Line) Balance() decimal.Decimal {
	return l.Debit.Sub(l.Credit)
}

// Summarize groups entries by type and bucket in statement order. Buckets
// with no entries are omitted.
func (tbl LineItemTable) Summarize(entries []model.Entry) []Line {
	type key struct {
		t model.AccountType
		b model.Bucket
	}
	totals := make(map[key]*Line)
	for _, e := range entries {
		k := key{e.Type, e.Bucket}
		l, ok := totals[k]
		if !ok {
			l = &Line{Type: e.Type, Bucket: e.Bucket}
			totals[k] = l
		}
		l.Accounts++
		l.Debit = l.Debit.Add(e.Debit)
		l.Credit = l.Credit.Add(e.Credit)
	}

	var lines []Line
	for _, t := range model.AccountTypes {
		for _, b := range tbl.Order() {
			if l, ok := totals[key{t, b}]; ok {
				lines = append(lines, *l)
				delete(totals, key{t, b})
			}
		}
	}
	// Anything the table does not know about goes last, in entry order.
	for _, e := range entries {
		if l, ok := totals[key{e.Type, e.Bucket}]; ok {
			lines = append(lines, *l)
			delete(totals, key{e.Type, e.Bucket})
		}
	}
	return lines
}
