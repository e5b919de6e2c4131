// Package errgroup provides a panic-recovering goroutine group with
// first-error cancellation and an optional concurrency limit.
package errgroup
