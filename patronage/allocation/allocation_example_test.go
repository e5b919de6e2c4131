package allocation_test

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/commonshare/lib-patronage/patronage/allocation"
	"github.com/commonshare/lib-patronage/patronage/policy"
)

func ExampleCalculator_CalculateAllocations() {
	calc, err := allocation.NewCalculator(policy.Default())
	if err != nil {
		panic(err)
	}

	results, err := calc.CalculateAllocations(map[string]decimal.Decimal{
		"alice": decimal.NewFromInt(200),
		"bob":   decimal.NewFromInt(300),
	}, decimal.NewFromInt(2000), decimal.NewFromFloat(0.20))
	if err != nil {
		panic(err)
	}

	for _, r := range results {
		fmt.Println(r.MemberID, r.TotalAllocation.String(), r.CashDistribution.String())
	}

	// Output:
	// alice 800 160
	// bob 1200 240
}
