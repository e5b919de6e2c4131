package policy

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/commonshare/lib-patronage/patronage"
)

// Policy is the allocation policy for one accounting period: contribution
// type weights, cash-rate bounds, and the per-member share ceiling.
//
// A Policy is an immutable value passed into each calculation call and
// never mutated in place, so every calculation is reproducible from its
// inputs alone. Callers that need a different policy for the next period
// construct a new one.
type Policy struct {
	TypeWeights        map[string]decimal.Decimal
	MinCashRate        decimal.Decimal
	MaxCashRate        decimal.Decimal
	MemberShareCeiling decimal.Decimal
}

// Regulatory and governance defaults. The 20% cash floor is the qualified
// written notice minimum under IRC §1388; the share ceiling is a governance
// default, not a statutory bound.
var (
	DefaultMinCashRate        = decimal.NewFromFloat(0.20)
	DefaultMaxCashRate        = decimal.NewFromInt(1)
	DefaultMemberShareCeiling = decimal.NewFromFloat(0.50)
)

// Default returns a policy with the regulatory cash floor, full cash rate
// allowed, the default governance ceiling, and labor weighted at 1.0.
func Default() Policy {
	return Policy{
		TypeWeights: map[string]decimal.Decimal{
			"labor": decimal.NewFromInt(1),
		},
		MinCashRate:        DefaultMinCashRate,
		MaxCashRate:        DefaultMaxCashRate,
		MemberShareCeiling: DefaultMemberShareCeiling,
	}
}

// Validate reports whether the policy is usable for allocation.
func (p Policy) Validate() error {
	if len(p.TypeWeights) == 0 {
		return patronage.NewDomainError(patronage.ErrorInvalidPolicy, "typeWeights", "at least one contribution type weight is required")
	}

	for contributionType, weight := range p.TypeWeights {
		if weight.IsNegative() {
			return patronage.NewDomainError(patronage.ErrorInvalidPolicy, "typeWeights."+contributionType, "weight must not be negative")
		}
	}

	if p.MinCashRate.LessThan(DefaultMinCashRate) {
		return patronage.NewDomainError(patronage.ErrorInvalidPolicy, "minCashRate",
			fmt.Sprintf("minimum cash rate %s is below the regulatory floor %s", p.MinCashRate, DefaultMinCashRate))
	}

	if p.MaxCashRate.GreaterThan(DefaultMaxCashRate) {
		return patronage.NewDomainError(patronage.ErrorInvalidPolicy, "maxCashRate", "maximum cash rate cannot exceed 1.0")
	}

	if p.MaxCashRate.LessThan(p.MinCashRate) {
		return patronage.NewDomainError(patronage.ErrorInvalidPolicy, "maxCashRate", "maximum cash rate cannot be below the minimum")
	}

	if !p.MemberShareCeiling.IsPositive() || p.MemberShareCeiling.GreaterThan(decimal.NewFromInt(1)) {
		return patronage.NewDomainError(patronage.ErrorInvalidPolicy, "memberShareCeiling", "member share ceiling must be in (0, 1]")
	}

	return nil
}

// Weight returns the configured weight for a contribution type, or zero
// when the type is not weighted.
func (p Policy) Weight(contributionType string) decimal.Decimal {
	if weight, ok := p.TypeWeights[contributionType]; ok {
		return weight
	}

	return decimal.Zero
}

// Clone returns a deep copy. Engines clone the policy at construction so a
// caller mutating its own weight map cannot change an in-flight calculation.
func (p Policy) Clone() Policy {
	weights := make(map[string]decimal.Decimal, len(p.TypeWeights))
	for contributionType, weight := range p.TypeWeights {
		weights[contributionType] = weight
	}

	clone := p
	clone.TypeWeights = weights

	return clone
}
