package passgate

import (
	"context"
	"errors"
	"time"
)

const (
	auditEventPasscodeIssue        = "passcode_issue"
	auditEventPasscodeVerify       = "passcode_verify"
	auditEventRegistrationComplete = "registration_complete"
	auditEventRateLimitTriggered   = "rate_limit_triggered"
)

// AuditErrorCode is the stable machine-readable failure tag carried in
// audit events, decoupled from error message wording.
type AuditErrorCode string

const (
	auditErrInputInvalid     AuditErrorCode = "input_invalid"
	auditErrPasscodeInvalid  AuditErrorCode = "passcode_invalid"
	auditErrAttemptsExceeded AuditErrorCode = "attempts_exceeded"
	auditErrRateLimited      AuditErrorCode = "rate_limited"
	auditErrDeliveryFailed   AuditErrorCode = "delivery_failed"
	auditErrDuplicate        AuditErrorCode = "duplicate"
	auditErrUnavailable      AuditErrorCode = "backend_unavailable"
	auditErrInternal         AuditErrorCode = "internal_error"
)

func (e *Engine) emitAudit(
	ctx context.Context,
	eventType string,
	success bool,
	identity string,
	issuanceID string,
	purpose Purpose,
	err error,
	metadataBuilder func() map[string]string,
) {
	if e == nil || e.audit == nil {
		return
	}

	var metadata map[string]string
	if metadataBuilder != nil {
		metadata = metadataBuilder()
	}

	event := AuditEvent{
		Timestamp:  time.Now().UTC(),
		EventType:  eventType,
		Identity:   identity,
		IssuanceID: issuanceID,
		Purpose:    purpose.String(),
		IP:         clientIPFromContext(ctx),
		Success:    success,
		Metadata:   metadata,
	}
	if err != nil {
		event.Error = string(auditErrorCode(err))
	}

	e.audit.Emit(ctx, event)
}

func (e *Engine) emitRateLimit(
	ctx context.Context,
	scope string,
	identity string,
	purpose Purpose,
	metadataBuilder func() map[string]string,
) {
	e.metricInc(MetricRateLimitHit)
	e.emitAudit(ctx, auditEventRateLimitTriggered, false, identity, "", purpose, nil, func() map[string]string {
		base := map[string]string{
			"scope": scope,
		}
		if metadataBuilder == nil {
			return base
		}
		for k, v := range metadataBuilder() {
			base[k] = v
		}
		return base
	})
}

func auditErrorCode(err error) AuditErrorCode {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrIdentityRequired),
		errors.Is(err, ErrCodeRequired),
		errors.Is(err, ErrPurposeInvalid),
		errors.Is(err, ErrRegistrationIncomplete):
		return auditErrInputInvalid
	case errors.Is(err, ErrPasscodeInvalid):
		return auditErrPasscodeInvalid
	case errors.Is(err, ErrPasscodeAttempts):
		return auditErrAttemptsExceeded
	case errors.Is(err, ErrPasscodeRateLimited):
		return auditErrRateLimited
	case errors.Is(err, ErrDeliveryFailed):
		return auditErrDeliveryFailed
	case errors.Is(err, ErrAccountExists):
		return auditErrDuplicate
	case errors.Is(err, ErrPasscodeUnavailable),
		errors.Is(err, ErrAccountCreationFailed):
		return auditErrUnavailable
	default:
		return auditErrInternal
	}
}
