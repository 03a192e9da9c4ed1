// Package mapping turns parsed trial-balance rows into canonical entries.
package mapping

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tbingest/internal/classify"
	"github.com/cleared-dev/tbingest/internal/model"
	"github.com/cleared-dev/tbingest/internal/table"
)

// Classifier assigns an account type from a category hint and account name.
type Classifier interface {
	Classify(hint, name string) model.AccountType
}

// Skipped records a row that produced no entry.
type Skipped struct {
	Row    int
	Name   string
	Reason SkipReason
	Debit  decimal.Decimal
	Credit decimal.Decimal
}

// Coercion records an amount cell the lenient policy read as zero.
type Coercion struct {
	Row    int
	Column string
	Raw    string
}

// Result is the output of Map. Entries carry no bucket yet.
type Result struct {
	Entries []model.Entry
	Skipped []Skipped
	Coerced []Coercion
}

// Mapper maps table rows to entries.
type Mapper struct {
	Aliases    Aliases
	Coercion   CoercionPolicy
	Skip       RowSkipPolicy
	Classifier Classifier
}

// New returns a Mapper with the default aliases, lenient coercion, the
// default skip rules and the default type classifier.
func New() *Mapper {
	return &Mapper{
		Aliases:    DefaultAliases,
		Coercion:   CoerceLenient,
		Skip:       DefaultRowSkipPolicy(),
		Classifier: classify.DefaultTypeClassifier,
	}
}

// Map reads every row of t. Under strict coercion the first unparsable
// amount aborts the whole table.
func (m *Mapper) Map(t *table.Table) (Result, error) {
	aliases := m.Aliases
	if aliases == nil {
		aliases = DefaultAliases
	}
	classifier := m.Classifier
	if classifier == nil {
		classifier = classify.DefaultTypeClassifier
	}

	cols := aliases.Resolve(t)
	var res Result

	for _, row := range t.Rows {
		f := Fields{
			Category: cellText(row, cols, FieldCategory),
			Source:   cellText(row, cols, FieldSource),
			Code:     cellText(row, cols, FieldCode),
			Name:     cellText(row, cols, FieldName),
		}

		var err error
		if f.Debit, err = m.amount(row, cols, FieldDebit, &res); err != nil {
			return Result{}, err
		}
		if f.Credit, err = m.amount(row, cols, FieldCredit, &res); err != nil {
			return Result{}, err
		}

		if reason := m.Skip.Check(f); reason != SkipNone {
			res.Skipped = append(res.Skipped, Skipped{
				Row: row.Line, Name: f.Name, Reason: reason,
				Debit: f.Debit, Credit: f.Credit,
			})
			continue
		}

		debit, credit := normalizeSides(f.Debit, f.Credit)
		number := f.Code
		if number == "" {
			number = f.Name
		}

		res.Entries = append(res.Entries, model.Entry{
			AccountNumber: number,
			AccountName:   f.Name,
			Debit:         debit,
			Credit:        credit,
			Type:          classifier.Classify(f.Category, f.Name),
			Category:      f.Category,
			Source:        f.Source,
			Row:           row.Line,
		})
	}
	return res, nil
}

func (m *Mapper) amount(row table.Row, cols Columns, field Field, res *Result) (decimal.Decimal, error) {
	label, ok := cols[field]
	if !ok {
		return decimal.Zero, nil
	}
	v, _ := row.Get(label)
	d, coerced, err := m.Coercion.Coerce(v)
	if err != nil {
		return decimal.Zero, fmt.Errorf("row %d, column %q: %w", row.Line, label, err)
	}
	if coerced {
		res.Coerced = append(res.Coerced, Coercion{Row: row.Line, Column: label, Raw: fmt.Sprint(v)})
	}
	return d, nil
}

// normalizeSides moves negative amounts to the opposite column.
func normalizeSides(debit, credit decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	d, c := decimal.Zero, decimal.Zero
	if debit.IsNegative() {
		c = c.Add(debit.Neg())
	} else {
		d = d.Add(debit)
	}
	if credit.IsNegative() {
		d = d.Add(credit.Neg())
	} else {
		c = c.Add(credit)
	}
	return d, c
}

func cellText(row table.Row, cols Columns, field Field) string {
	label, ok := cols[field]
	if !ok {
		return ""
	}
	v, _ := row.Get(label)
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	}
	return strings.TrimSpace(fmt.Sprint(v))
}
