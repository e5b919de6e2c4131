// Package allocation converts weighted patronage into surplus allocations
// and independently verifies computed allocation sets.
//
// Core flow:
//   - Calculator.WeightedPatronage weighs raw contributions by policy.
//   - Calculator.CalculateAllocations splits the allocable surplus.
//   - VerifyAllocations re-derives and checks the result as a second pass.
//
// The calculator and verifier are deliberately decoupled: the verifier is a
// proof-checker over the result set and never reuses the calculator's
// arithmetic.
package allocation
