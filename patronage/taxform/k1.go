package taxform

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/commonshare/lib-patronage/patronage"
	"github.com/commonshare/lib-patronage/patronage/allocation"
	"github.com/commonshare/lib-patronage/patronage/ledger"
	"github.com/commonshare/lib-patronage/patronage/report"
	"github.com/commonshare/lib-patronage/patronage/safe"
)

// CodeCapitalReconciliation fires when the assembled K-1's ending capital
// does not reconcile from its own components. It is the same additive-ledger
// invariant the double-entry checker enforces, applied to the assembler's
// output.
const CodeCapitalReconciliation = "K1-001"

var reconciliationTolerance = decimal.NewFromFloat(0.01)

// PartnershipInfo identifies the entity issuing the K-1.
type PartnershipInfo struct {
	EIN     string `json:"ein"`
	Name    string `json:"name"`
	Address string `json:"address"`
	TaxYear int    `json:"taxYear"`
}

// PartnerInfo identifies the member receiving the K-1.
type PartnerInfo struct {
	MemberID string `json:"memberId"`
	TaxID    string `json:"taxId"`
	Name     string `json:"name"`
	Address  string `json:"address"`
}

// Distribution is one cash payout to the member during the tax year.
type Distribution struct {
	MemberID string          `json:"memberId"`
	Date     time.Time       `json:"date"`
	Amount   decimal.Decimal `json:"amount"`
}

// CapitalReconciliation is the Section L capital account analysis.
type CapitalReconciliation struct {
	BeginningCapital    decimal.Decimal `json:"beginningCapital"`
	Contributed         decimal.Decimal `json:"contributed"`
	CurrentYearIncrease decimal.Decimal `json:"currentYearIncrease"`
	Withdrawals         decimal.Decimal `json:"withdrawals"`
	Distributions       decimal.Decimal `json:"distributions"`
	EndingCapital       decimal.Decimal `json:"endingCapital"`
}

// K1Record is the assembled Schedule K-1 data for one member and tax year.
// Box numbers follow Form 1065 Schedule K-1.
type K1Record struct {
	TaxYear        int                   `json:"taxYear"`
	Partnership    PartnershipInfo       `json:"partnership"`
	Partner        PartnerInfo           `json:"partner"`
	OrdinaryIncome decimal.Decimal       `json:"ordinaryIncome"` // box 1
	Distributions  decimal.Decimal       `json:"distributions"`  // box 19
	CapitalAccount CapitalReconciliation `json:"capitalAccount"` // section L
	Report         report.Report         `json:"report"`
}

// Assemble maps ledger, allocation, and distribution data into a K-1
// record. The mapping is deterministic: identical inputs always produce an
// identical record, including the self-check outcome in Report.
//
// The opening and closing balances are the member's capital account
// snapshots at the tax-year boundaries. A positive contributed-capital
// movement lands in Contributed; a negative one lands in Withdrawals.
func Assemble(partnership PartnershipInfo, partner PartnerInfo, opening, closing ledger.CapitalAccountBalance, allocations []allocation.AllocationResult, distributions []Distribution) (K1Record, error) {
	if strings.TrimSpace(partnership.EIN) == "" {
		return K1Record{}, patronage.NewDomainError(patronage.ErrorInvalidInput, "partnership.ein", "partnership EIN is required")
	}

	if partnership.TaxYear == 0 {
		return K1Record{}, patronage.NewDomainError(patronage.ErrorInvalidInput, "partnership.taxYear", "tax year is required")
	}

	if strings.TrimSpace(partner.MemberID) == "" {
		return K1Record{}, patronage.NewDomainError(patronage.ErrorInvalidInput, "partner.memberId", "partner member id is required")
	}

	if opening.MemberID != partner.MemberID || closing.MemberID != partner.MemberID {
		return K1Record{}, patronage.NewDomainError(patronage.ErrorInvalidInput, "balances", "opening and closing balances must belong to the partner")
	}

	income := decimal.Zero

	for _, a := range allocations {
		if a.MemberID != partner.MemberID {
			return K1Record{}, patronage.NewDomainError(patronage.ErrorInvalidInput, "allocations", "allocation for member "+a.MemberID+" does not belong to the partner")
		}

		income = income.Add(a.TotalAllocation)
	}

	distributed := decimal.Zero

	for _, d := range distributions {
		if d.MemberID != partner.MemberID {
			return K1Record{}, patronage.NewDomainError(patronage.ErrorInvalidInput, "distributions", "distribution for member "+d.MemberID+" does not belong to the partner")
		}

		if d.Amount.IsNegative() {
			return K1Record{}, patronage.NewDomainError(patronage.ErrorInvalidInput, "distributions", "distribution amounts must not be negative")
		}

		distributed = distributed.Add(d.Amount)
	}

	contributedDelta := closing.ContributedCapital.Sub(opening.ContributedCapital)

	contributed, withdrawals := contributedDelta, decimal.Zero
	if contributedDelta.IsNegative() {
		contributed, withdrawals = decimal.Zero, contributedDelta.Neg()
	}

	capital := CapitalReconciliation{
		BeginningCapital:    opening.BookBalance,
		Contributed:         contributed,
		CurrentYearIncrease: income,
		Withdrawals:         withdrawals,
		Distributions:       distributed,
		EndingCapital:       closing.BookBalance,
	}

	record := K1Record{
		TaxYear:        partnership.TaxYear,
		Partnership:    partnership,
		Partner:        partner,
		OrdinaryIncome: income,
		Distributions:  distributed,
		CapitalAccount: capital,
	}

	selfCheck(&record)

	return record, nil
}

// selfCheck validates the record's own Section L arithmetic:
// ending = beginning + contributed + currentYearIncrease − withdrawals − distributions (±0.01).
func selfCheck(record *K1Record) {
	capital := record.CapitalAccount

	expected := capital.BeginningCapital.
		Add(capital.Contributed).
		Add(capital.CurrentYearIncrease).
		Sub(capital.Withdrawals).
		Sub(capital.Distributions)

	passed := safe.WithinTolerance(capital.EndingCapital, expected, reconciliationTolerance)

	if !passed {
		record.Report.AddViolation(report.Violation{
			Code:        CodeCapitalReconciliation,
			Severity:    report.SeverityStructural,
			Field:       "capitalAccount.endingCapital",
			Message:     "ending capital does not reconcile from the Section L components",
			Expected:    expected.String(),
			Actual:      capital.EndingCapital.String(),
			Remediation: "the ledger snapshots and the allocation/distribution inputs disagree; recompute balances from the event log before assembling",
		})
	}

	record.Report.AddTestResult(report.TestResult{Name: "k1-capital-reconciliation", Passed: passed})
}
