// Package patronage provides shared primitives for the patronage ledger,
// allocation, and compliance engines.
//
// The package holds the domain error type used for malformed-input
// validation across subpackages. Engines live in subpackages: ledger
// (balance computation), allocation (patronage formula and verifier),
// doubleentry (integrity checker), compliance (IRC 704(b) validator),
// and taxform (Schedule K-1 assembly).
package patronage
