// Package doubleentry validates raw transactions and entries against the
// double-entry invariant: every transaction's debits equal its credits.
//
// Check runs five independent passes (balance, stored totals, orphaned
// entries, account references, normal-balance convention) and accumulates
// findings into a report; CheckPeriodBalance validates a whole period.
package doubleentry
