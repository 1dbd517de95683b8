package passgate

import "context"

// Purpose states what a challenge gates: a login or a registration. The
// purpose is fixed at issuance and re-checked at consume time, so a code
// issued for one flow can never authorize the other.
type Purpose uint8

const (
	// PurposeLogin gates an existing account's login step.
	PurposeLogin Purpose = iota
	// PurposeRegistration gates creation of a new account.
	PurposeRegistration
	purposeCount
)

func (p Purpose) String() string {
	switch p {
	case PurposeLogin:
		return "login"
	case PurposeRegistration:
		return "registration"
	default:
		return "unknown"
	}
}

func (p Purpose) valid() bool {
	return p < purposeCount
}

// Sender ships a passcode to its identity through an out-of-band channel,
// typically email. The engine treats Send as an opaque effectful call: it
// does not retry, does not queue, and reports a failed send to the caller
// of RequestPasscode as [ErrDeliveryFailed]. Message composition is
// entirely the implementation's concern.
//
// Send must be safe for concurrent use and should honor ctx cancellation.
type Sender interface {
	Send(ctx context.Context, identity, code string, purpose Purpose) error
}

// AccountProvider is the identity-provider collaborator the engine drives
// after a successful registration verification. Implementations own
// credential hashing and account persistence.
//
// CreateAccount must return an error wrapping
// [ErrProviderDuplicateIdentity] when the identity is already registered.
type AccountProvider interface {
	CreateAccount(ctx context.Context, input CreateAccountInput) (Account, error)
}

// CreateAccountInput is the input forwarded to
// [AccountProvider.CreateAccount].
type CreateAccountInput struct {
	Identity    string
	Password    string
	DisplayName string
	Tier        string
}

// Account is the record returned by [AccountProvider.CreateAccount].
type Account struct {
	AccountID   string
	Identity    string
	DisplayName string
	Tier        string
}

// RegistrationInput carries everything [Engine.CompleteRegistration]
// needs: the challenge to consume plus the credentials forwarded to the
// provider on success.
type RegistrationInput struct {
	Identity    string
	Code        string
	Password    string
	DisplayName string
}

// Issuance describes one stored challenge. The ID correlates the issue
// with its eventual verify in audit output; it carries no secret.
type Issuance struct {
	ID       string
	Identity string
	Purpose  Purpose
}
