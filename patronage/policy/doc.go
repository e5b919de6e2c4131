// Package policy defines the immutable allocation policy value: type
// weights, cash-rate bounds, and the per-member share ceiling, with a YAML
// loader for per-period configuration.
package policy
