package passgate

import "errors"

var (
	// ErrEngineNotReady is returned when an Engine method is invoked on an
	// engine that was not fully assembled through [Builder.Build].
	ErrEngineNotReady = errors.New("engine not initialized")
	// ErrIdentityRequired is returned when the identity argument is empty.
	ErrIdentityRequired = errors.New("identity required")
	// ErrCodeRequired is returned when the submitted code is empty.
	ErrCodeRequired = errors.New("passcode required")
	// ErrPurposeInvalid is returned for an unknown challenge purpose.
	ErrPurposeInvalid = errors.New("invalid challenge purpose")
	// ErrRegistrationIncomplete is returned when a registration confirm is
	// missing the password or display name.
	ErrRegistrationIncomplete = errors.New("registration details incomplete")

	// ErrPasscodeInvalid is the single outward signal for a rejected code.
	// Absent, expired, and mismatched challenges are deliberately
	// indistinguishable through it.
	ErrPasscodeInvalid = errors.New("passcode invalid or expired")
	// ErrPasscodeAttempts is returned when wrong guesses reach the per
	// challenge cap; the challenge is invalidated early.
	ErrPasscodeAttempts = errors.New("passcode attempts exceeded")
	// ErrPasscodeRateLimited is returned when passcode issuance is
	// throttled for the identity or client IP.
	ErrPasscodeRateLimited = errors.New("passcode issuance rate limited")
	// ErrPasscodeUnavailable is returned when the backing store cannot be
	// reached. Retryable infrastructure failure, not a domain rejection.
	ErrPasscodeUnavailable = errors.New("passcode backend unavailable")

	// ErrDeliveryFailed is returned when the challenge was stored but the
	// Sender could not ship the code. The stored challenge remains
	// verifiable until expiry; callers typically offer a resend.
	ErrDeliveryFailed = errors.New("passcode delivery failed")

	// ErrAccountExists is returned when registration verifies but the
	// provider reports the identity is already registered.
	ErrAccountExists = errors.New("account already exists")
	// ErrAccountCreationFailed is returned for any other provider failure
	// after a successful registration verification. The consumed code is
	// not re-admitted; the flow must restart with a fresh issuance.
	ErrAccountCreationFailed = errors.New("account creation failed")

	// ErrProviderDuplicateIdentity is the sentinel AccountProvider
	// implementations must return (or wrap) for an already-registered
	// identity so the engine can map it to [ErrAccountExists].
	ErrProviderDuplicateIdentity = errors.New("provider duplicate identity")
)
