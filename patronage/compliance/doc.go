// Package compliance evaluates IRC 704(b) substantial-economic-effect rules
// over capital account snapshots.
//
// Validate runs the primary test, falls back to the alternate test when the
// primary fails, and always runs the safe-harbor reconciliation. Findings
// carry their Treasury Regulation citation.
package compliance
