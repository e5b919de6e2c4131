package allocation

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/commonshare/lib-patronage/patronage/policy"
	"github.com/commonshare/lib-patronage/patronage/report"
	"github.com/commonshare/lib-patronage/patronage/safe"
)

// Allocation verifier violation codes.
const (
	// CodeSurplusMismatch fires when Σ totalAllocation ≠ allocable surplus.
	CodeSurplusMismatch = "ALLOC-001"
	// CodeSplitMismatch fires when cash + retained ≠ total for a member.
	CodeSplitMismatch = "ALLOC-002"
	// CodeCashRateOutOfBounds fires when the aggregate cash rate leaves the policy bounds.
	CodeCashRateOutOfBounds = "ALLOC-003"
	// CodeNegativeAllocation fires on any negative total, cash, or retained value.
	CodeNegativeAllocation = "ALLOC-004"
	// CodeShareSumMismatch fires when Σ patronageShare ≠ 1.0.
	CodeShareSumMismatch = "ALLOC-005"
	// CodeWeightMismatch fires when the shares imply weights other than the configured policy.
	CodeWeightMismatch = "ALLOC-006"
	// CodeShareCeilingExceeded fires when a member's share exceeds the governance ceiling.
	CodeShareCeilingExceeded = "ALLOC-007"
)

var (
	surplusTolerance = decimal.NewFromFloat(0.01)
	shareTolerance   = decimal.NewFromFloat(0.0001)
	weightTolerance  = decimal.NewFromFloat(0.001)
)

// VerifyInput carries a computed allocation set and the context needed to
// independently re-derive it.
type VerifyInput struct {
	Results          []AllocationResult
	AllocableSurplus decimal.Decimal
	Policy           policy.Policy

	// RawContributions optionally maps member id → contribution type → raw
	// value. When present, the verifier recomputes each member's weighted
	// patronage from policy weights and cross-checks the reported shares.
	RawContributions map[string]map[string]decimal.Decimal
}

// VerifyAllocations independently re-derives and checks a computed
// allocation set. It is a decoupled second pass: it never trusts the
// calculator's arithmetic, only its inputs. Findings accumulate in a
// report; nothing raises.
func VerifyAllocations(in VerifyInput) report.Report {
	var rpt report.Report

	checkSurplusSum(in, &rpt)
	checkSplitPerMember(in, &rpt)
	checkAggregateCashRate(in, &rpt)
	checkNegatives(in, &rpt)
	checkShareSum(in, &rpt)
	checkWeights(in, &rpt)
	checkShareCeiling(in, &rpt)

	return rpt
}

// checkSurplusSum: Σ totalAllocation = allocableSurplus (±0.01).
func checkSurplusSum(in VerifyInput, rpt *report.Report) {
	totals := make([]decimal.Decimal, 0, len(in.Results))
	for _, r := range in.Results {
		totals = append(totals, r.TotalAllocation)
	}

	sum := safe.Sum(totals)
	passed := safe.WithinTolerance(sum, in.AllocableSurplus, surplusTolerance)

	if !passed {
		rpt.AddViolation(report.Violation{
			Code:        CodeSurplusMismatch,
			Severity:    report.SeverityPolicy,
			Field:       "totalAllocation",
			Message:     "allocations do not sum to the allocable surplus",
			Expected:    in.AllocableSurplus.String(),
			Actual:      sum.String(),
			Remediation: "recalculate the allocation set from the closed period's patronage; do not adjust individual rows",
		})
	}

	rpt.AddTestResult(report.TestResult{Name: "surplus-sum", Passed: passed})
}

// checkSplitPerMember: cash + retained = total per member (±0.01).
func checkSplitPerMember(in VerifyInput, rpt *report.Report) {
	passed := true

	for _, r := range in.Results {
		split := r.CashDistribution.Add(r.RetainedAllocation)
		if !safe.WithinTolerance(split, r.TotalAllocation, surplusTolerance) {
			passed = false

			rpt.AddViolation(report.Violation{
				Code:        CodeSplitMismatch,
				Severity:    report.SeverityPolicy,
				Field:       "memberId=" + r.MemberID,
				Message:     "cash distribution plus retained allocation does not equal total allocation",
				Expected:    r.TotalAllocation.String(),
				Actual:      split.String(),
				Remediation: "recompute the cash/retained split from the total allocation and the period cash rate",
			})
		}
	}

	rpt.AddTestResult(report.TestResult{Name: "cash-retained-split", Passed: passed})
}

// checkAggregateCashRate: Σcash / Σtotal within the policy bounds.
func checkAggregateCashRate(in VerifyInput, rpt *report.Report) {
	totalCash := decimal.Zero
	totalAll := decimal.Zero

	for _, r := range in.Results {
		totalCash = totalCash.Add(r.CashDistribution)
		totalAll = totalAll.Add(r.TotalAllocation)
	}

	if totalAll.IsZero() {
		rpt.AddTestResult(report.TestResult{Name: "aggregate-cash-rate", Passed: true, Detail: "empty allocation set"})
		return
	}

	rate := totalCash.Div(totalAll)
	passed := !rate.LessThan(in.Policy.MinCashRate) && !rate.GreaterThan(in.Policy.MaxCashRate)

	if !passed {
		rpt.AddViolation(report.Violation{
			Code:     CodeCashRateOutOfBounds,
			Severity: report.SeverityPolicy,
			Field:    "cashRate",
			Message:  "aggregate cash rate is outside the policy bounds",
			Expected: fmt.Sprintf("[%s, %s]", in.Policy.MinCashRate, in.Policy.MaxCashRate),
			Actual:   rate.String(),
			Remediation: "qualified written notices require at least 20% cash; adjust the period cash rate " +
				"and recalculate before seeking governance approval",
		})
	}

	rpt.AddTestResult(report.TestResult{Name: "aggregate-cash-rate", Passed: passed})
}

// checkNegatives: no negative total, cash, or retained values.
func checkNegatives(in VerifyInput, rpt *report.Report) {
	passed := true

	for _, r := range in.Results {
		for field, value := range map[string]decimal.Decimal{
			"totalAllocation":    r.TotalAllocation,
			"cashDistribution":   r.CashDistribution,
			"retainedAllocation": r.RetainedAllocation,
		} {
			if value.IsNegative() {
				passed = false

				rpt.AddViolation(report.Violation{
					Code:        CodeNegativeAllocation,
					Severity:    report.SeverityPolicy,
					Field:       "memberId=" + r.MemberID + "." + field,
					Message:     "allocation values must not be negative",
					Expected:    ">= 0",
					Actual:      value.String(),
					Remediation: "negative allocations indicate a loss period; losses follow the loss-allocation policy, not the surplus formula",
				})
			}
		}
	}

	rpt.AddTestResult(report.TestResult{Name: "non-negative-values", Passed: passed})
}

// checkShareSum: Σ patronageShare = 1.0 (±0.0001).
func checkShareSum(in VerifyInput, rpt *report.Report) {
	if len(in.Results) == 0 {
		rpt.AddTestResult(report.TestResult{Name: "share-sum", Passed: true, Detail: "empty allocation set"})
		return
	}

	shares := make([]decimal.Decimal, 0, len(in.Results))
	for _, r := range in.Results {
		shares = append(shares, r.PatronageShare)
	}

	sum := safe.Sum(shares)
	passed := safe.WithinTolerance(sum, decimal.NewFromInt(1), shareTolerance)

	if !passed {
		rpt.AddViolation(report.Violation{
			Code:        CodeShareSumMismatch,
			Severity:    report.SeverityPolicy,
			Field:       "patronageShare",
			Message:     "patronage shares do not sum to 1.0",
			Expected:    "1",
			Actual:      sum.String(),
			Remediation: "recompute shares as memberWeighted / totalWeighted over the full member set",
		})
	}

	rpt.AddTestResult(report.TestResult{Name: "share-sum", Passed: passed})
}

// checkWeights: when raw contributions are supplied, re-derive each
// member's share from the configured policy weights and compare (±0.001).
// A drift here means the calculation used weights other than the policy's.
func checkWeights(in VerifyInput, rpt *report.Report) {
	if in.RawContributions == nil {
		rpt.AddTestResult(report.TestResult{Name: "policy-weights", Passed: true, Detail: "raw contributions not supplied; weight cross-check skipped"})
		return
	}

	totalWeighted := decimal.Zero
	weightedByMember := make(map[string]decimal.Decimal, len(in.RawContributions))

	for memberID, contributions := range in.RawContributions {
		weighted := decimal.Zero
		for contributionType, raw := range contributions {
			weighted = weighted.Add(raw.Mul(in.Policy.Weight(contributionType)))
		}

		weightedByMember[memberID] = weighted
		totalWeighted = totalWeighted.Add(weighted)
	}

	passed := true

	for _, r := range in.Results {
		expected := safe.DivideOrZero(weightedByMember[r.MemberID], totalWeighted)
		if !safe.WithinTolerance(r.PatronageShare, expected, weightTolerance) {
			passed = false

			rpt.AddViolation(report.Violation{
				Code:        CodeWeightMismatch,
				Severity:    report.SeverityPolicy,
				Field:       "memberId=" + r.MemberID + ".patronageShare",
				Message:     "reported share does not match the share implied by the configured type weights",
				Expected:    expected.String(),
				Actual:      r.PatronageShare.String(),
				Remediation: "recalculate with the period's configured policy; weights must not be overridden per calculation",
			})
		}
	}

	rpt.AddTestResult(report.TestResult{Name: "policy-weights", Passed: passed})
}

// checkShareCeiling: no member's share exceeds the governance ceiling.
func checkShareCeiling(in VerifyInput, rpt *report.Report) {
	passed := true

	for _, r := range in.Results {
		if r.PatronageShare.GreaterThan(in.Policy.MemberShareCeiling) {
			passed = false

			rpt.AddViolation(report.Violation{
				Code:        CodeShareCeilingExceeded,
				Severity:    report.SeverityPolicy,
				Field:       "memberId=" + r.MemberID + ".patronageShare",
				Message:     "member share of surplus exceeds the governance ceiling",
				Expected:    "<= " + in.Policy.MemberShareCeiling.String(),
				Actual:      r.PatronageShare.String(),
				Remediation: "governance must either raise the ceiling for this period or approve a capped allocation with redistribution",
			})
		}
	}

	rpt.AddTestResult(report.TestResult{Name: "share-ceiling", Passed: passed})
}
