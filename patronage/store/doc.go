// Package store provides the append-only event log repository with two
// backends: in-memory and Postgres. The backend is chosen once at
// construction, never sniffed per call.
package store
