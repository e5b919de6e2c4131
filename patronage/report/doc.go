// Package report defines the uniform violation-report contract returned by
// every checker in the patronage library.
//
// Checkers accumulate structured findings into a Report value and return it;
// they never raise on a finding. The caller (period-close workflow,
// governance approval) decides what blocks.
package report
