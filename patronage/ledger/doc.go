// Package ledger derives capital account balances by replaying the
// immutable event log.
//
// Core flow:
//   - ComputeBalance folds one member's events up to a cutoff.
//   - ComputeAllBalances folds every member's partition in parallel.
//   - IncrementalRefresh folds new events onto existing balances,
//     equivalent to a genesis replay over the union.
//
// The fold dispatches through a per-event-type applier registry so new
// event kinds extend the ledger without changing the fold itself.
package ledger
