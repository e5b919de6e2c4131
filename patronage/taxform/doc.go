// Package taxform assembles Schedule K-1 records from ledger snapshots,
// allocations, and distributions, and self-checks the capital account
// reconciliation of its own output.
package taxform
