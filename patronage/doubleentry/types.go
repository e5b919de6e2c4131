package doubleentry

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountType classifies chart-of-accounts entries.
type AccountType string

const (
	AccountTypeAsset     AccountType = "ASSET"
	AccountTypeLiability AccountType = "LIABILITY"
	AccountTypeEquity    AccountType = "EQUITY"
	AccountTypeRevenue   AccountType = "REVENUE"
	AccountTypeExpense   AccountType = "EXPENSE"
)

// NormalBalance is the side on which an account's balance normally sits.
type NormalBalance string

const (
	NormalBalanceDebit  NormalBalance = "DEBIT"
	NormalBalanceCredit NormalBalance = "CREDIT"
)

// Account is one chart-of-accounts row.
type Account struct {
	ID            string        `json:"accountId"`
	Name          string        `json:"name"`
	Type          AccountType   `json:"accountType"`
	NormalBalance NormalBalance `json:"normalBalance"`
}

// ExpectedNormalBalance returns the conventional normal balance for the
// account type: debit for asset/expense, credit for liability/equity/revenue.
func (t AccountType) ExpectedNormalBalance() NormalBalance {
	switch t {
	case AccountTypeAsset, AccountTypeExpense:
		return NormalBalanceDebit
	default:
		return NormalBalanceCredit
	}
}

// Entry is one leg of a transaction. Exactly one of Debit or Credit is
// expected to be non-zero.
type Entry struct {
	ID            string          `json:"entryId"`
	TransactionID string          `json:"transactionId"`
	AccountID     string          `json:"accountId"`
	Debit         decimal.Decimal `json:"debit"`
	Credit        decimal.Decimal `json:"credit"`
}

// Transaction owns two or more entries and carries stored totals plus the
// isBalanced flag persisted by the upstream writer. The checker recomputes
// all three and reports drift; it never corrects stored rows.
type Transaction struct {
	ID           string          `json:"transactionId"`
	Date         time.Time       `json:"date"`
	Description  string          `json:"description"`
	TotalDebits  decimal.Decimal `json:"totalDebits"`
	TotalCredits decimal.Decimal `json:"totalCredits"`
	IsBalanced   bool            `json:"isBalanced"`
	Entries      []Entry         `json:"entries"`
}

// computedTotals sums the entry legs.
func (t Transaction) computedTotals() (debits, credits decimal.Decimal) {
	debits, credits = decimal.Zero, decimal.Zero

	for _, e := range t.Entries {
		debits = debits.Add(e.Debit)
		credits = credits.Add(e.Credit)
	}

	return debits, credits
}
