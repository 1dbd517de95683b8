// Package proof mints and checks short-lived signed tokens attesting
// that a passcode verification succeeded. A proof binds the verified
// identity, the challenge purpose, and the issuance ID; the caller's
// session layer checks it before establishing a session, so the
// verification result can cross a process boundary without re-reading
// challenge state.
//
// Proofs are single-purpose and deliberately short-lived (minutes). They
// are not access tokens and carry no authorization.
package proof
