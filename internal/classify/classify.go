// Package classify assigns accounting types and statement line-item buckets
// to trial-balance accounts using ordered lexical rule tables.
package classify

import (
	"regexp"
	"strings"

	"github.com/cleared-dev/tbingest/internal/model"
)

// TypeRule assigns Type to any account whose lower-cased text matches
// Pattern.
type TypeRule struct {
	Pattern *regexp.Regexp
	Type    model.AccountType
}

// TypeClassifier evaluates Rules in order; the first match wins and Default
// applies when nothing matches.
type TypeClassifier struct {
	Rules   []TypeRule
	Default model.AccountType
}

// DefaultTypeRules recognise the usual South African small-business chart of
// accounts from English naming cues.
var DefaultTypeRules = []TypeRule{
	{regexp.MustCompile(`asset|receivable|inventory|bank|cash|prepay|debtor`), model.AccountTypeAsset},
	{regexp.MustCompile(`liabil|payable|creditor|vat|paye|uif|sdl|loan`), model.AccountTypeLiability},
	{regexp.MustCompile(`equity|capital|retained|share`), model.AccountTypeEquity},
	{regexp.MustCompile(`sales|revenue|income`), model.AccountTypeRevenue},
}

// DefaultTypeClassifier is the classifier used when none is configured.
var DefaultTypeClassifier = TypeClassifier{Rules: DefaultTypeRules, Default: model.AccountTypeExpense}

// Classify returns the account type for a category hint and account name.
func (c TypeClassifier) Classify(hint, name string) model.AccountType {
	text := strings.ToLower(hint + " " + name)
	for _, r := range c.Rules {
		if r.Pattern.MatchString(text) {
			return r.Type
		}
	}
	return c.Default
}

// AccountType classifies with DefaultTypeClassifier.
func AccountType(hint, name string) model.AccountType {
	return DefaultTypeClassifier.Classify(hint, name)
}
