package classify

import (
	"regexp"
	"strings"

	"github.com/cleared-dev/tbingest/internal/model"
)

// BucketRule assigns Bucket to any account name matching Pattern.
type BucketRule struct {
	Pattern *regexp.Regexp
	Bucket  model.Bucket
}

// BucketRules are the ordered rules for one account type.
type BucketRules struct {
	Rules    []BucketRule
	Fallback model.Bucket
}

// LineItemTable maps each account type to its bucket rules.
type LineItemTable map[model.AccountType]BucketRules

// DefaultLineItems is the statement line-item table.
var DefaultLineItems = LineItemTable{
	model.AccountTypeAsset: {
		Rules: []BucketRule{
			{regexp.MustCompile(`current|bank|cash|receivable`), model.BucketCurrentAssets},
			{regexp.MustCompile(`fixed|property|equipment|vehicle`), model.BucketNonCurrentAssets},
		},
		Fallback: model.BucketOtherAssets,
	},
	model.AccountTypeLiability: {
		Rules: []BucketRule{
			{regexp.MustCompile(`current|payable|accrual`), model.BucketCurrentLiabilities},
		},
		Fallback: model.BucketNonCurrentLiabilities,
	},
	model.AccountTypeEquity: {
		Rules: []BucketRule{
			{regexp.MustCompile(`capital|share`), model.BucketShareCapital},
			{regexp.MustCompile(`retained|earning`), model.BucketRetainedEarnings},
		},
		Fallback: model.BucketOtherEquity,
	},
	model.AccountTypeRevenue: {
		Rules: []BucketRule{
			{regexp.MustCompile(`sales|income|revenue`), model.BucketRevenue},
		},
		Fallback: model.BucketOtherIncome,
	},
	model.AccountTypeExpense: {
		Rules: []BucketRule{
			{regexp.MustCompile(`cost|cogs`), model.BucketCostOfSales},
			{regexp.MustCompile(`admin|office`), model.BucketAdministrativeExpenses},
			{regexp.MustCompile(`sales|marketing`), model.BucketSellingExpenses},
		},
		Fallback: model.BucketOperatingExpenses,
	},
}

// Bucket returns the line item for an account of type t. An unknown type
// has no bucket.
func (tbl LineItemTable) Bucket(t model.AccountType, name string) model.Bucket {
	rules, ok := tbl[t]
	if !ok {
		return ""
	}
	lower := strings.ToLower(name)
	for _, r := range rules.Rules {
		if r.Pattern.MatchString(lower) {
			return r.Bucket
		}
	}
	return rules.Fallback
}

// Order lists every bucket of the table in statement order: account types
// in model.AccountTypes order, then each type's rules, then its fallback.
func (tbl LineItemTable) Order() []model.Bucket {
	var order []model.Bucket
	seen := make(map[model.Bucket]bool)
	add := func(b model.Bucket) {
		if !seen[b] {
			seen[b] = true
			order = append(order, b)
		}
	}
	for _, t := range model.AccountTypes {
		rules := tbl[t]
		for _, r := range rules.Rules {
			add(r.Bucket)
		}
		add(rules.Fallback)
	}
	return order
}

// LineItem buckets with DefaultLineItems.
func LineItem(t model.AccountType, name string) model.Bucket {
	return DefaultLineItems.Bucket(t, name)
}

// AssignBuckets returns copies of entries with Bucket set from tbl.
func (tbl LineItemTable) AssignBuckets(entries []model.Entry) []model.Entry {
	out := make([]model.Entry, len(entries))
	for i, e := range entries {
		e.Bucket = tbl.Bucket(e.Type, e.AccountName)
		out[i] = e
	}
	return out
}
