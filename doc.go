// Package passgate provides a one-time passcode challenge engine for
// email-delivered second-factor verification of logins and registrations.
//
// The engine issues a fixed-length numeric passcode bound to an identity
// (an email address), delivers it through a caller-supplied [Sender], and
// later consumes it atomically: at most one outstanding challenge exists
// per identity, a challenge is single-use, expires after a configurable
// TTL, and tolerates a bounded number of wrong guesses before it is
// invalidated early.
//
// The package is designed for concurrent server workloads: Engine methods
// are safe to call from multiple goroutines after initialization through
// [Builder.Build]. Challenge state lives in Redis, so every process
// instance behind a load balancer observes the same records, and
// replace/consume operations are atomic with respect to racing requests
// on the same identity.
//
// # Architecture boundaries
//
// passgate owns challenge lifecycle only. Message composition and SMTP
// transport belong to the [Sender] implementation; account storage and
// credential hashing belong to the [AccountProvider]; session
// establishment after a successful login verification belongs to the
// caller, optionally gated on a signed proof token from the proof
// subpackage.
//
// # What this package must NOT do
//
//   - Retry deliveries or queue outbound mail.
//   - Reveal whether a rejected code was absent, expired, or mismatched.
//   - Keep challenge state in process memory.
package passgate
