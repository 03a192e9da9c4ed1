package model

// AccountType classifies a ledger account into one of the five accounting
// categories.
type AccountType string

const (
	AccountTypeAsset     AccountType = "asset"
	AccountTypeLiability AccountType = "liability"
	AccountTypeEquity    AccountType = "equity"
	AccountTypeRevenue   AccountType = "revenue"
	AccountTypeExpense   AccountType = "expense"
)

// AccountTypes lists the account types in statement order.
var AccountTypes = []AccountType{
	AccountTypeAsset,
	AccountTypeLiability,
	AccountTypeEquity,
	AccountTypeRevenue,
	AccountTypeExpense,
}

// Valid reports whether t is one of the five known account types.
func (t AccountType) Valid() bool {
	switch t {
	case AccountTypeAsset, AccountTypeLiability, AccountTypeEquity, AccountTypeRevenue, AccountTypeExpense:
		return true
	}
	return false
}

// Bucket is a statement line-item key such as "current_assets".
type Bucket string

const (
	BucketCurrentAssets          Bucket = "current_assets"
	BucketNonCurrentAssets       Bucket = "non_current_assets"
	BucketOtherAssets            Bucket = "other_assets"
	BucketCurrentLiabilities     Bucket = "current_liabilities"
	BucketNonCurrentLiabilities  Bucket = "non_current_liabilities"
	BucketShareCapital           Bucket = "share_capital"
	BucketRetainedEarnings       Bucket = "retained_earnings"
	BucketOtherEquity            Bucket = "other_equity"
	BucketRevenue                Bucket = "revenue"
	BucketOtherIncome            Bucket = "other_income"
	BucketCostOfSales            Bucket = "cost_of_sales"
	BucketAdministrativeExpenses Bucket = "administrative_expenses"
	BucketSellingExpenses        Bucket = "selling_expenses"
	BucketOperatingExpenses      Bucket = "operating_expenses"
)
