package allocation

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/commonshare/lib-patronage/patronage"
	"github.com/commonshare/lib-patronage/patronage/policy"
	"github.com/commonshare/lib-patronage/patronage/safe"
)

// AllocationResult is one member's slice of the allocable surplus.
//
// Invariants: cashDistribution + retainedAllocation = totalAllocation;
// across a result set, Σ patronageShare = 1.0 and Σ totalAllocation equals
// the allocable surplus. The verifier re-derives all three independently.
type AllocationResult struct {
	MemberID           string          `json:"memberId"`
	TotalAllocation    decimal.Decimal `json:"totalAllocation"`
	CashDistribution   decimal.Decimal `json:"cashDistribution"`
	RetainedAllocation decimal.Decimal `json:"retainedAllocation"`
	PatronageShare     decimal.Decimal `json:"patronageShare"`
}

// Calculator converts weighted patronage into surplus allocations under an
// immutable policy. The policy is cloned at construction; later mutation of
// the caller's weight map cannot affect calculations.
type Calculator struct {
	policy policy.Policy
}

// NewCalculator creates a calculator for the given policy. Policies with a
// cash floor below the regulatory minimum are rejected outright.
func NewCalculator(p policy.Policy) (*Calculator, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	return &Calculator{policy: p.Clone()}, nil
}

// Policy returns a copy of the calculator's policy.
func (c *Calculator) Policy() policy.Policy {
	return c.policy.Clone()
}

// WeightedPatronage computes a member's weighted patronage:
// Σ(rawContributionValue[type] × typeWeight[type]). Contribution types not
// present in the policy weigh zero.
func (c *Calculator) WeightedPatronage(contributions map[string]decimal.Decimal) decimal.Decimal {
	total := decimal.Zero

	for contributionType, raw := range contributions {
		total = total.Add(raw.Mul(c.policy.Weight(contributionType)))
	}

	return total
}

// CalculateAllocations distributes the allocable surplus across members in
// proportion to weighted patronage.
//
// memberShare = memberWeighted / totalWeighted
// totalAllocation = surplus × share
// cashDistribution = totalAllocation × cashRate
// retainedAllocation = totalAllocation − cashDistribution
//
// A zero total weighted patronage yields an empty result set. Results are
// ordered by member id so identical inputs produce identical output.
func (c *Calculator) CalculateAllocations(patronageByMember map[string]decimal.Decimal, allocableSurplus, cashRate decimal.Decimal) ([]AllocationResult, error) {
	if allocableSurplus.IsNegative() {
		return nil, patronage.NewDomainError(patronage.ErrorInvalidInput, "allocableSurplus", "allocable surplus must not be negative")
	}

	if cashRate.LessThan(c.policy.MinCashRate) {
		return nil, patronage.NewDomainError(patronage.ErrorCashRateBelowFloor, "cashRate",
			fmt.Sprintf("cash rate %s is below the policy minimum %s", cashRate, c.policy.MinCashRate))
	}

	if cashRate.GreaterThan(c.policy.MaxCashRate) {
		return nil, patronage.NewDomainError(patronage.ErrorInvalidInput, "cashRate",
			fmt.Sprintf("cash rate %s exceeds the policy maximum %s", cashRate, c.policy.MaxCashRate))
	}

	totalWeighted := decimal.Zero

	memberIDs := make([]string, 0, len(patronageByMember))
	for memberID, weighted := range patronageByMember {
		if weighted.IsNegative() {
			return nil, patronage.NewDomainError(patronage.ErrorInvalidInput, "patronageByMember."+memberID, "weighted patronage must not be negative")
		}

		memberIDs = append(memberIDs, memberID)
		totalWeighted = totalWeighted.Add(weighted)
	}

	if totalWeighted.IsZero() {
		return []AllocationResult{}, nil
	}

	sort.Strings(memberIDs)

	results := make([]AllocationResult, 0, len(memberIDs))

	for _, memberID := range memberIDs {
		share := safe.DivideOrZero(patronageByMember[memberID], totalWeighted)
		total := allocableSurplus.Mul(share)
		cash := total.Mul(cashRate)

		results = append(results, AllocationResult{
			MemberID:           memberID,
			TotalAllocation:    total,
			CashDistribution:   cash,
			RetainedAllocation: total.Sub(cash),
			PatronageShare:     share,
		})
	}

	return results, nil
}
