// Package internal holds crypto and encoding primitives shared by the
// passgate engine: passcode generation from a CSPRNG and secret hashing.
//
// # What this package must NOT do
//
//   - Import the root passgate package (no import cycles).
//   - Hold state; every function is pure apart from reading entropy.
package internal
