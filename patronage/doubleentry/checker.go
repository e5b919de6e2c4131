package doubleentry

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/commonshare/lib-patronage/patronage/report"
	"github.com/commonshare/lib-patronage/patronage/safe"
)

// Double-entry violation and warning codes.
const (
	// CodeUnbalancedTransaction fires when a transaction's debits ≠ credits.
	CodeUnbalancedTransaction = "DBL-001"
	// CodeStoredTotalMismatch fires when stored totals differ from computed sums.
	CodeStoredTotalMismatch = "DBL-002"
	// CodeBalancedFlagWrong fires when the persisted isBalanced flag contradicts the sums.
	CodeBalancedFlagWrong = "DBL-003"
	// CodeOrphanedEntry fires when an entry's transaction id differs from its parent's.
	CodeOrphanedEntry = "DBL-004"
	// CodeMissingAccount fires when an entry references an account not in the chart.
	CodeMissingAccount = "DBL-005"
	// CodePeriodImbalance fires when period debits ≠ period credits.
	CodePeriodImbalance = "DBL-006"

	// WarnDormantAccount flags accounts with no activity. Informational only.
	WarnDormantAccount = "WRN-DORMANT"
	// WarnNormalBalance flags accounts whose net balance sits on the wrong
	// side of their normal-balance convention. Contra-accounts are
	// legitimate, so this is a warning, not a violation.
	WarnNormalBalance = "WRN-NORMAL-BAL"
)

var balanceTolerance = decimal.NewFromFloat(0.01)

// Check runs five independent passes over the transactions and chart of
// accounts and accumulates every finding into one report. The checker never
// raises on a finding; the period-close workflow decides what blocks.
func Check(transactions []Transaction, accounts []Account) report.Report {
	var rpt report.Report

	checkTransactionBalance(transactions, &rpt)
	checkOrphanedEntries(transactions, &rpt)
	checkAccountReferences(transactions, accounts, &rpt)
	checkDormantAccounts(transactions, accounts, &rpt)
	checkNormalBalances(transactions, accounts, &rpt)

	return rpt
}

// checkTransactionBalance: per-transaction debits = credits (±0.01), stored
// totals match computed sums, and the isBalanced flag is truthful.
func checkTransactionBalance(transactions []Transaction, rpt *report.Report) {
	passed := true

	for _, txn := range transactions {
		debits, credits := txn.computedTotals()

		balanced := safe.WithinTolerance(debits, credits, balanceTolerance)
		if !balanced {
			passed = false

			rpt.AddViolation(report.Violation{
				Code:        CodeUnbalancedTransaction,
				Severity:    report.SeverityStructural,
				Field:       "transactionId=" + txn.ID,
				Message:     "transaction debits do not equal credits",
				Expected:    debits.String(),
				Actual:      credits.String(),
				Remediation: "post a correcting entry; never edit the recorded legs",
			})
		}

		if !safe.WithinTolerance(txn.TotalDebits, debits, balanceTolerance) ||
			!safe.WithinTolerance(txn.TotalCredits, credits, balanceTolerance) {
			passed = false

			rpt.AddViolation(report.Violation{
				Code:        CodeStoredTotalMismatch,
				Severity:    report.SeverityStructural,
				Field:       "transactionId=" + txn.ID,
				Message:     "stored transaction totals do not match the sum of entries",
				Expected:    fmt.Sprintf("debits=%s credits=%s", debits, credits),
				Actual:      fmt.Sprintf("debits=%s credits=%s", txn.TotalDebits, txn.TotalCredits),
				Remediation: "rebuild the stored totals from the entry legs",
			})
		}

		if txn.IsBalanced != balanced {
			passed = false

			rpt.AddViolation(report.Violation{
				Code:        CodeBalancedFlagWrong,
				Severity:    report.SeverityStructural,
				Field:       "transactionId=" + txn.ID,
				Message:     "persisted isBalanced flag contradicts the computed sums",
				Expected:    fmt.Sprintf("%t", balanced),
				Actual:      fmt.Sprintf("%t", txn.IsBalanced),
				Remediation: "recompute the flag from the entry legs when writing the transaction",
			})
		}
	}

	rpt.AddTestResult(report.TestResult{Name: "transaction-balance", Passed: passed})
}

// checkOrphanedEntries: every entry's transactionId must equal its parent's.
func checkOrphanedEntries(transactions []Transaction, rpt *report.Report) {
	passed := true

	for _, txn := range transactions {
		for _, e := range txn.Entries {
			if e.TransactionID != txn.ID {
				passed = false

				rpt.AddViolation(report.Violation{
					Code:        CodeOrphanedEntry,
					Severity:    report.SeverityStructural,
					Field:       "entryId=" + e.ID,
					Message:     "entry does not reference its parent transaction",
					Expected:    txn.ID,
					Actual:      e.TransactionID,
					Remediation: "repair the entry's transaction reference in the upstream writer",
				})
			}
		}
	}

	rpt.AddTestResult(report.TestResult{Name: "orphaned-entries", Passed: passed})
}

// checkAccountReferences: every entry's accountId must exist in the chart.
func checkAccountReferences(transactions []Transaction, accounts []Account, rpt *report.Report) {
	known := make(map[string]struct{}, len(accounts))
	for _, a := range accounts {
		known[a.ID] = struct{}{}
	}

	passed := true

	for _, txn := range transactions {
		for _, e := range txn.Entries {
			if _, ok := known[e.AccountID]; !ok {
				passed = false

				rpt.AddViolation(report.Violation{
					Code:        CodeMissingAccount,
					Severity:    report.SeverityStructural,
					Field:       "entryId=" + e.ID,
					Message:     "entry references an account missing from the chart of accounts",
					Actual:      e.AccountID,
					Remediation: "add the account to the chart or repoint the entry before closing the period",
				})
			}
		}
	}

	rpt.AddTestResult(report.TestResult{Name: "account-references", Passed: passed})
}

// checkDormantAccounts: accounts with no entries at all. Informational.
func checkDormantAccounts(transactions []Transaction, accounts []Account, rpt *report.Report) {
	active := make(map[string]struct{})

	for _, txn := range transactions {
		for _, e := range txn.Entries {
			active[e.AccountID] = struct{}{}
		}
	}

	for _, a := range accounts {
		if _, ok := active[a.ID]; !ok {
			rpt.AddWarning(report.Warning{
				Code:    WarnDormantAccount,
				Field:   "accountId=" + a.ID,
				Message: "account has no activity in the checked transaction set",
			})
		}
	}

	rpt.AddTestResult(report.TestResult{Name: "dormant-accounts", Passed: true})
}

// checkNormalBalances: asset/expense accounts expect a debit-positive net,
// liability/equity/revenue expect credit-positive. Contra-accounts make
// this a warning.
func checkNormalBalances(transactions []Transaction, accounts []Account, rpt *report.Report) {
	net := make(map[string]decimal.Decimal)

	for _, txn := range transactions {
		for _, e := range txn.Entries {
			net[e.AccountID] = net[e.AccountID].Add(e.Debit).Sub(e.Credit)
		}
	}

	for _, a := range accounts {
		balance, ok := net[a.ID]
		if !ok || balance.IsZero() {
			continue
		}

		expected := a.Type.ExpectedNormalBalance()

		wrongSide := (expected == NormalBalanceDebit && balance.IsNegative()) ||
			(expected == NormalBalanceCredit && balance.IsPositive())
		if wrongSide {
			rpt.AddWarning(report.Warning{
				Code:  WarnNormalBalance,
				Field: "accountId=" + a.ID,
				Message: fmt.Sprintf("net balance %s sits against the %s normal-balance convention for %s accounts",
					balance, expected, a.Type),
			})
		}
	}

	rpt.AddTestResult(report.TestResult{Name: "normal-balances", Passed: true})
}

// CheckPeriodBalance sums every transaction's totals inside [from, to] and
// requires period debits to equal period credits (±0.01).
func CheckPeriodBalance(transactions []Transaction, from, to time.Time) report.Report {
	var rpt report.Report

	debits, credits := decimal.Zero, decimal.Zero

	for _, txn := range transactions {
		if txn.Date.Before(from) || txn.Date.After(to) {
			continue
		}

		d, c := txn.computedTotals()
		debits = debits.Add(d)
		credits = credits.Add(c)
	}

	passed := safe.WithinTolerance(debits, credits, balanceTolerance)

	if !passed {
		rpt.AddViolation(report.Violation{
			Code:        CodePeriodImbalance,
			Severity:    report.SeverityStructural,
			Field:       fmt.Sprintf("period=%s..%s", from.Format("2006-01-02"), to.Format("2006-01-02")),
			Message:     "period debits do not equal period credits",
			Expected:    debits.String(),
			Actual:      credits.String(),
			Remediation: "locate the unbalanced transactions with Check and post correcting entries",
		})
	}

	rpt.AddTestResult(report.TestResult{Name: "period-balance", Passed: passed})

	return rpt
}
