package mapping

import "github.com/cleared-dev/tbingest/internal/table"

// Field is a canonical trial-balance column.
type Field int

const (
	FieldCategory Field = iota
	FieldSource
	FieldCode
	FieldName
	FieldDebit
	FieldCredit
)

var fieldNames = [...]string{"category", "source", "account code", "account name", "debit", "credit"}

func (f Field) String() string {
	if int(f) < len(fieldNames) {
		return fieldNames[f]
	}
	return "unknown"
}

// Aliases lists, per canonical field, the header labels exporters use for
// it. Matching is exact and case-sensitive; the first label present wins.
type Aliases map[Field][]string

// DefaultAliases covers the exporters seen in practice.
var DefaultAliases = Aliases{
	FieldCategory: {"Category", "Account Type", "Type"},
	FieldSource:   {"Source"},
	FieldCode:     {"Account Code", "Account", "Code", "Account Number", "Account No", "Number"},
	FieldName:     {"Account Name", "Account Description", "Description", "Name", "Account", "Ledger", "GL Account"},
	FieldDebit:    {"Debit", "Debit Amount", "DR", "Debits"},
	FieldCredit:   {"Credit", "Credit Amount", "CR", "Credits"},
}

// Columns maps each canonical field to the header label resolved for it.
// Unresolved fields are absent.
type Columns map[Field]string

// Resolve picks a header label for every field that t carries.
func (a Aliases) Resolve(t *table.Table) Columns {
	cols := make(Columns, len(a))
	for field, labels := range a {
		for _, l := range labels {
			if t.Has(l) {
				cols[field] = l
				break
			}
		}
	}
	// A lone "Account" column is the name, not a code.
	if code, ok := cols[FieldCode]; ok && code == cols[FieldName] {
		delete(cols, FieldCode)
	}
	return cols
}
