package internaldefs

import (
	passgate "github.com/nvoid-labs/passgate"
)

// CounterDef binds one engine counter to its exported metric name.
type CounterDef struct {
	ID   passgate.MetricID
	Name string
	Help string
}

// CounterDefs lists every exported engine counter in a stable order.
var CounterDefs = []CounterDef{
	{ID: passgate.MetricPasscodeIssued, Name: "passgate_passcode_issued_total", Help: "Stored passcode challenges, delivered or not."},
	{ID: passgate.MetricPasscodeDeliveryFailed, Name: "passgate_passcode_delivery_failed_total", Help: "Passcode challenges the sender could not deliver."},
	{ID: passgate.MetricPasscodeVerifySuccess, Name: "passgate_passcode_verify_success_total", Help: "Successfully consumed passcode challenges."},
	{ID: passgate.MetricPasscodeVerifyFailure, Name: "passgate_passcode_verify_failure_total", Help: "Rejected passcode submissions of any kind."},
	{ID: passgate.MetricPasscodeAttemptsExceeded, Name: "passgate_passcode_attempts_exceeded_total", Help: "Challenges invalidated early by the guess cap."},
	{ID: passgate.MetricRateLimitHit, Name: "passgate_rate_limit_hit_total", Help: "Throttled passcode issuance requests."},
	{ID: passgate.MetricAccountCreated, Name: "passgate_account_created_total", Help: "Successful registrations."},
	{ID: passgate.MetricAccountDuplicate, Name: "passgate_account_duplicate_total", Help: "Registrations rejected as duplicate identity."},
}

// AuditDroppedName is the metric name for dispatcher backpressure drops.
const AuditDroppedName = "passgate_audit_dropped_total"

// AuditDroppedHelp describes the audit drop counter.
const AuditDroppedHelp = "Dropped audit events due to dispatcher backpressure."
