package passgate

import (
	"context"
	"errors"

	"github.com/nvoid-labs/passgate/internal"
)

// VerifyPasscode consumes a login-purpose challenge. On success the
// challenge is gone and, when proof tokens are enabled, a short-lived
// signed proof is returned for the caller's session layer; session
// establishment itself is out of scope here.
//
// Absent, expired, and mismatched challenges are all reported as
// [ErrPasscodeInvalid]; callers cannot tell which occurred. A wrong guess
// below the attempt cap leaves the challenge standing.
func (e *Engine) VerifyPasscode(ctx context.Context, identity, code string) (string, error) {
	record, err := e.consume(ctx, identity, code, PurposeLogin)
	if err != nil {
		return "", err
	}

	e.metricInc(MetricPasscodeVerifySuccess)
	e.emitAudit(ctx, auditEventPasscodeVerify, true, identity, record.IssuanceID, PurposeLogin, nil, nil)

	if e.proofManager == nil {
		return "", nil
	}

	token, err := e.proofManager.Issue(identity, PurposeLogin.String(), record.IssuanceID)
	if err != nil {
		// The challenge is already consumed; failing the whole call would
		// force a fresh issue for a local signing problem. Surface the
		// verification success without a proof.
		e.emitAudit(ctx, auditEventPasscodeVerify, true, identity, record.IssuanceID, PurposeLogin, nil, func() map[string]string {
			return map[string]string{
				"proof": "signing_failed",
			}
		})
		return "", nil
	}

	return token, nil
}

// CompleteRegistration consumes a registration-purpose challenge and, on
// success, drives account creation at the provider with the
// caller-supplied credentials and the configured default tier.
//
// The challenge is consumed before the provider call. If creation then
// fails, the code is not re-admitted: the user must request a fresh
// passcode and start over. A duplicate identity maps to
// [ErrAccountExists]; every other provider failure collapses to
// [ErrAccountCreationFailed].
func (e *Engine) CompleteRegistration(ctx context.Context, input RegistrationInput) (*Account, error) {
	if !e.ready() {
		return nil, ErrEngineNotReady
	}
	if e.accounts == nil {
		return nil, ErrEngineNotReady
	}
	if input.Password == "" || input.DisplayName == "" ||
		len(input.Password) < e.config.Account.MinPasswordLength {
		e.emitAudit(ctx, auditEventRegistrationComplete, false, input.Identity, "", PurposeRegistration, ErrRegistrationIncomplete, nil)
		return nil, ErrRegistrationIncomplete
	}

	record, err := e.consume(ctx, input.Identity, input.Code, PurposeRegistration)
	if err != nil {
		return nil, err
	}

	account, err := e.accounts.CreateAccount(ctx, CreateAccountInput{
		Identity:    input.Identity,
		Password:    input.Password,
		DisplayName: input.DisplayName,
		Tier:        e.config.Account.DefaultTier,
	})
	if err != nil {
		if errors.Is(err, ErrProviderDuplicateIdentity) {
			e.metricInc(MetricAccountDuplicate)
			e.emitAudit(ctx, auditEventRegistrationComplete, false, input.Identity, record.IssuanceID, PurposeRegistration, ErrAccountExists, nil)
			return nil, ErrAccountExists
		}
		e.emitAudit(ctx, auditEventRegistrationComplete, false, input.Identity, record.IssuanceID, PurposeRegistration, ErrAccountCreationFailed, func() map[string]string {
			return map[string]string{
				"provider_error": err.Error(),
			}
		})
		return nil, ErrAccountCreationFailed
	}

	e.metricInc(MetricPasscodeVerifySuccess)
	e.metricInc(MetricAccountCreated)
	e.emitAudit(ctx, auditEventRegistrationComplete, true, input.Identity, record.IssuanceID, PurposeRegistration, nil, func() map[string]string {
		return map[string]string{
			"account_id": account.AccountID,
			"tier":       account.Tier,
		}
	})

	return &account, nil
}

// consume runs the shared validate-and-delete step for both purposes.
func (e *Engine) consume(ctx context.Context, identity, code string, purpose Purpose) (*passcodeRecord, error) {
	if !e.ready() {
		return nil, ErrEngineNotReady
	}
	if identity == "" {
		e.metricInc(MetricPasscodeVerifyFailure)
		e.emitAudit(ctx, auditEventPasscodeVerify, false, "", "", purpose, ErrIdentityRequired, nil)
		return nil, ErrIdentityRequired
	}
	if code == "" {
		e.metricInc(MetricPasscodeVerifyFailure)
		e.emitAudit(ctx, auditEventPasscodeVerify, false, identity, "", purpose, ErrCodeRequired, nil)
		return nil, ErrCodeRequired
	}
	if len(code) != e.config.Passcode.Digits || !internal.IsNumeric(code) {
		// Malformed input can never match a generated code; reject it
		// without touching the store, but keep the outward signal
		// identical to a wrong guess.
		e.metricInc(MetricPasscodeVerifyFailure)
		e.emitAudit(ctx, auditEventPasscodeVerify, false, identity, "", purpose, ErrPasscodeInvalid, func() map[string]string {
			return map[string]string{
				"reason": "malformed_code",
			}
		})
		return nil, ErrPasscodeInvalid
	}

	record, err := e.store.Consume(
		ctx,
		identity,
		internal.HashPasscode(code),
		purpose,
		e.config.Passcode.MaxAttempts,
	)
	if err != nil {
		mapped := mapPasscodeStoreError(err)
		e.metricInc(MetricPasscodeVerifyFailure)
		if errors.Is(mapped, ErrPasscodeAttempts) {
			e.metricInc(MetricPasscodeAttemptsExceeded)
		}
		e.emitAudit(ctx, auditEventPasscodeVerify, false, identity, "", purpose, mapped, nil)
		return nil, mapped
	}

	return record, nil
}

func mapPasscodeStoreError(err error) error {
	switch {
	case errors.Is(err, errPasscodeNotFound), errors.Is(err, errPasscodeMismatch):
		return ErrPasscodeInvalid
	case errors.Is(err, errPasscodeAttemptsExceeded):
		return ErrPasscodeAttempts
	default:
		return ErrPasscodeUnavailable
	}
}
