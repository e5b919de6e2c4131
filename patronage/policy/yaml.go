package policy

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/commonshare/lib-patronage/patronage"
)

// policyFile is the YAML wire shape. Rates and weights are strings so the
// file round-trips through exact decimal parsing instead of float64.
type policyFile struct {
	TypeWeights        map[string]string `yaml:"typeWeights"`
	MinCashRate        string            `yaml:"minCashRate"`
	MaxCashRate        string            `yaml:"maxCashRate"`
	MemberShareCeiling string            `yaml:"memberShareCeiling"`
}

// Parse decodes a YAML policy document. Absent rate fields fall back to
// the defaults; the result is validated before being returned.
func Parse(data []byte) (Policy, error) {
	var file policyFile

	if err := yaml.Unmarshal(data, &file); err != nil {
		return Policy{}, fmt.Errorf("decode policy yaml: %w", err)
	}

	p := Policy{
		TypeWeights:        make(map[string]decimal.Decimal, len(file.TypeWeights)),
		MinCashRate:        DefaultMinCashRate,
		MaxCashRate:        DefaultMaxCashRate,
		MemberShareCeiling: DefaultMemberShareCeiling,
	}

	for contributionType, raw := range file.TypeWeights {
		weight, err := parseDecimal("typeWeights."+contributionType, raw)
		if err != nil {
			return Policy{}, err
		}

		p.TypeWeights[contributionType] = weight
	}

	if file.MinCashRate != "" {
		rate, err := parseDecimal("minCashRate", file.MinCashRate)
		if err != nil {
			return Policy{}, err
		}

		p.MinCashRate = rate
	}

	if file.MaxCashRate != "" {
		rate, err := parseDecimal("maxCashRate", file.MaxCashRate)
		if err != nil {
			return Policy{}, err
		}

		p.MaxCashRate = rate
	}

	if file.MemberShareCeiling != "" {
		ceiling, err := parseDecimal("memberShareCeiling", file.MemberShareCeiling)
		if err != nil {
			return Policy{}, err
		}

		p.MemberShareCeiling = ceiling
	}

	if err := p.Validate(); err != nil {
		return Policy{}, err
	}

	return p, nil
}

// Load reads and parses a YAML policy file.
func Load(path string) (Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Policy{}, fmt.Errorf("read policy file: %w", err)
	}

	return Parse(data)
}

func parseDecimal(field, raw string) (decimal.Decimal, error) {
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, patronage.NewDomainError(patronage.ErrorInvalidPolicy, field, fmt.Sprintf("not a decimal value: %q", raw))
	}

	return value, nil
}
