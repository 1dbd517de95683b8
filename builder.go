package passgate

import (
	"errors"

	"github.com/nvoid-labs/passgate/proof"
	"github.com/redis/go-redis/v9"
)

// Builder assembles an [Engine]. Construction is allocation-only; no I/O
// happens until the first Engine method call.
type Builder struct {
	config Config
	redis  *redis.Client

	sender    Sender
	accounts  AccountProvider
	auditSink AuditSink

	built bool
}

// New returns a Builder preloaded with [DefaultConfig].
func New() *Builder {
	return &Builder{
		config: DefaultConfig(),
	}
}

// WithConfig replaces the entire configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRedis sets the Redis client backing the passcode store and the
// issuance limiter. Required.
func (b *Builder) WithRedis(client *redis.Client) *Builder {
	b.redis = client
	return b
}

// WithSender sets the out-of-band delivery collaborator. Required.
func (b *Builder) WithSender(sender Sender) *Builder {
	b.sender = sender
	return b
}

// WithAccountProvider sets the identity-provider collaborator driven by
// CompleteRegistration. Optional for login-only deployments.
func (b *Builder) WithAccountProvider(provider AccountProvider) *Builder {
	b.accounts = provider
	return b
}

// WithAuditSink sets the audit event consumer. Defaults to [NoOpSink].
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithMetricsEnabled toggles the in-process counters.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// Build validates the configuration and assembles the engine. A Builder
// is single-use.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)

	if b.redis == nil {
		return nil, errors.New("redis client required")
	}
	if b.sender == nil {
		return nil, errors.New("sender required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	engine := &Engine{
		config:   cfg,
		store:    newPasscodeStore(b.redis, cfg.Passcode.RedisPrefix),
		limiter:  newIssueLimiter(b.redis, cfg.Passcode),
		sender:   b.sender,
		accounts: b.accounts,
		audit:    newAuditDispatcher(cfg.Audit, b.auditSink),
		metrics:  NewMetrics(cfg.Metrics),
	}

	if cfg.Proof.Enabled {
		pm, err := proof.NewManager(proof.Config{
			TTL:           cfg.Proof.TTL,
			SigningMethod: proof.SigningMethod(cfg.Proof.SigningMethod),
			PrivateKey:    cloneBytes(cfg.Proof.PrivateKey),
			PublicKey:     cloneBytes(cfg.Proof.PublicKey),
			Issuer:        cfg.Proof.Issuer,
		})
		if err != nil {
			return nil, err
		}
		engine.proofManager = pm
	}

	b.built = true

	return engine, nil
}
