// Package safe provides zero-checked decimal arithmetic helpers shared by
// the ledger, allocation, and compliance engines.
package safe
