package passgate

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/nvoid-labs/passgate/internal"
)

// RequestPasscode generates a fresh passcode for the identity, stores it
// as the identity's single outstanding challenge (superseding any prior
// one), and hands it to the Sender.
//
// Store-before-send is deliberate: a challenge that was stored but not
// delivered returns [ErrDeliveryFailed] and stays verifiable, so a user
// whose mail arrives late can still complete the flow, while the caller
// knows to offer a resend. Re-issuing always resets the code, the clock,
// and the attempt counter.
func (e *Engine) RequestPasscode(ctx context.Context, identity string, purpose Purpose) (*Issuance, error) {
	if !e.ready() {
		return nil, ErrEngineNotReady
	}
	if identity == "" {
		e.emitAudit(ctx, auditEventPasscodeIssue, false, "", "", purpose, ErrIdentityRequired, func() map[string]string {
			return map[string]string{
				"reason": "empty_identity",
			}
		})
		return nil, ErrIdentityRequired
	}
	if !purpose.valid() {
		e.emitAudit(ctx, auditEventPasscodeIssue, false, identity, "", purpose, ErrPurposeInvalid, nil)
		return nil, ErrPurposeInvalid
	}

	if err := e.limiter.CheckIssue(ctx, identity, clientIPFromContext(ctx)); err != nil {
		mapped := mapIssueLimiterError(err)
		if errors.Is(mapped, ErrPasscodeRateLimited) {
			e.emitRateLimit(ctx, "passcode_issue", identity, purpose, nil)
		} else {
			e.emitAudit(ctx, auditEventPasscodeIssue, false, identity, "", purpose, mapped, nil)
		}
		return nil, mapped
	}

	code, err := internal.NewPasscode(e.config.Passcode.Digits)
	if err != nil {
		e.emitAudit(ctx, auditEventPasscodeIssue, false, identity, "", purpose, ErrPasscodeUnavailable, func() map[string]string {
			return map[string]string{
				"reason": "generation_failed",
			}
		})
		return nil, ErrPasscodeUnavailable
	}

	now := time.Now()
	record := &passcodeRecord{
		IssuanceID: uuid.NewString(),
		CodeHash:   internal.HashPasscode(code),
		IssuedAt:   now.Unix(),
		ExpiresAt:  now.Add(e.config.Passcode.TTL).Unix(),
		Attempts:   0,
		Purpose:    purpose,
	}

	if err := e.store.Save(ctx, identity, record, e.config.Passcode.TTL); err != nil {
		e.emitAudit(ctx, auditEventPasscodeIssue, false, identity, record.IssuanceID, purpose, ErrPasscodeUnavailable, nil)
		return nil, ErrPasscodeUnavailable
	}
	e.metricInc(MetricPasscodeIssued)

	if err := e.sender.Send(ctx, identity, code, purpose); err != nil {
		e.metricInc(MetricPasscodeDeliveryFailed)
		e.emitAudit(ctx, auditEventPasscodeIssue, false, identity, record.IssuanceID, purpose, ErrDeliveryFailed, func() map[string]string {
			return map[string]string{
				"send_error": err.Error(),
			}
		})
		return nil, ErrDeliveryFailed
	}

	e.emitAudit(ctx, auditEventPasscodeIssue, true, identity, record.IssuanceID, purpose, nil, nil)

	return &Issuance{
		ID:       record.IssuanceID,
		Identity: identity,
		Purpose:  purpose,
	}, nil
}

func mapIssueLimiterError(err error) error {
	switch {
	case errors.Is(err, errIssueRateLimited):
		return ErrPasscodeRateLimited
	default:
		return ErrPasscodeUnavailable
	}
}
