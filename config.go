package passgate

import (
	"errors"
	"time"
)

// Config holds every tunable of the engine. Zero value is not usable;
// start from [DefaultConfig] and override.
type Config struct {
	Passcode PasscodeConfig
	Account  AccountConfig
	Proof    ProofConfig
	Audit    AuditConfig
	Metrics  MetricsConfig
}

/*
====================================
PASSCODE CONFIG
====================================
*/

// PasscodeConfig governs challenge generation, expiry, guess tolerance,
// and issuance throttling.
type PasscodeConfig struct {
	// Digits is the passcode length. 6..10.
	Digits int
	// TTL is the validity window measured from issuance.
	TTL time.Duration
	// MaxAttempts caps wrong guesses per challenge. Reaching the cap
	// deletes the challenge early.
	MaxAttempts int
	// IssueLimit and IssueWindow bound RequestPasscode calls per identity
	// (and per client IP when EnableIPThrottle is set) in a fixed window.
	IssueLimit  int
	IssueWindow time.Duration

	EnableIdentityThrottle bool
	EnableIPThrottle       bool

	// RedisPrefix namespaces all passgate keys. Defaults to "pg".
	RedisPrefix string
}

/*
====================================
ACCOUNT CONFIG
====================================
*/

// AccountConfig governs the registration hand-off to the AccountProvider.
type AccountConfig struct {
	// DefaultTier is assigned to every newly created account.
	DefaultTier string
	// MinPasswordLength is checked before the provider is called.
	MinPasswordLength int
}

/*
====================================
PROOF CONFIG
====================================
*/

// ProofConfig governs the optional signed proof token minted after a
// successful login verification. When disabled, VerifyPasscode returns an
// empty proof string.
type ProofConfig struct {
	Enabled       bool
	TTL           time.Duration
	SigningMethod string // "hs256" (default) or "ed25519"
	PrivateKey    []byte
	PublicKey     []byte
	Issuer        string
}

/*
====================================
AUDIT / METRICS CONFIG
====================================
*/

// AuditConfig governs the async audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	// BlockOnFull makes emitters wait instead of dropping events when the
	// buffer is full. Leave false on hot paths.
	BlockOnFull bool
}

// MetricsConfig governs the in-process counters.
type MetricsConfig struct {
	Enabled bool
}

// DefaultConfig returns the preset the Builder starts from: 6 digits,
// 10 minute TTL, 5 guesses per challenge, 3 issues per identity per
// 10 minutes, proof tokens disabled.
func DefaultConfig() Config {
	return Config{
		Passcode: PasscodeConfig{
			Digits:                 6,
			TTL:                    10 * time.Minute,
			MaxAttempts:            5,
			IssueLimit:             3,
			IssueWindow:            10 * time.Minute,
			EnableIdentityThrottle: true,
			EnableIPThrottle:       true,
			RedisPrefix:            "pg",
		},
		Account: AccountConfig{
			DefaultTier:       "FREE",
			MinPasswordLength: 8,
		},
		Proof: ProofConfig{
			Enabled:       false,
			TTL:           2 * time.Minute,
			SigningMethod: "hs256",
		},
		Audit: AuditConfig{
			Enabled:    true,
			BufferSize: 256,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// Validate rejects configurations the engine cannot run safely with.
func (c *Config) Validate() error {
	if c.Passcode.Digits < 6 || c.Passcode.Digits > 10 {
		return errors.New("passcode digits must be between 6 and 10")
	}
	if c.Passcode.TTL <= 0 {
		return errors.New("passcode TTL must be positive")
	}
	if c.Passcode.MaxAttempts <= 0 {
		return errors.New("passcode max attempts must be positive")
	}
	if c.Passcode.EnableIdentityThrottle || c.Passcode.EnableIPThrottle {
		if c.Passcode.IssueLimit <= 0 {
			return errors.New("issue limit must be positive when throttling is enabled")
		}
		if c.Passcode.IssueWindow <= 0 {
			return errors.New("issue window must be positive when throttling is enabled")
		}
	}
	if c.Account.DefaultTier == "" {
		return errors.New("account default tier must be set")
	}
	if c.Account.MinPasswordLength < 0 {
		return errors.New("minimum password length cannot be negative")
	}
	if c.Proof.Enabled {
		if c.Proof.TTL <= 0 {
			return errors.New("proof TTL must be positive")
		}
		if len(c.Proof.PrivateKey) == 0 {
			return errors.New("proof requires a private key")
		}
	}
	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("audit buffer size must be positive")
	}
	return nil
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.Proof.PrivateKey = cloneBytes(cfg.Proof.PrivateKey)
	out.Proof.PublicKey = cloneBytes(cfg.Proof.PublicKey)
	return out
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
