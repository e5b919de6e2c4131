// Package event defines the immutable domain event envelope and the closed
// union of decoded payload variants.
//
// Events are append-only and are the sole source of truth for capital
// account state. Replay order is (timestamp, eventId); the Sort helper
// re-establishes it because the upstream feed does not guarantee order.
package event
