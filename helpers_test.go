package passgate

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func newTestRedis(t testing.TB) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return mr, client
}

// recordingSender captures every delivered code; fail makes Send error.
type recordingSender struct {
	mu    sync.Mutex
	sent  []sentCode
	fail  bool
	block chan struct{}
}

type sentCode struct {
	identity string
	code     string
	purpose  Purpose
}

func (s *recordingSender) Send(ctx context.Context, identity, code string, purpose Purpose) error {
	if s.block != nil {
		<-s.block
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.fail {
		return errors.New("smtp unreachable")
	}
	s.sent = append(s.sent, sentCode{identity: identity, code: code, purpose: purpose})
	return nil
}

func (s *recordingSender) last(t *testing.T) sentCode {
	t.Helper()

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.sent) == 0 {
		t.Fatal("no code was sent")
	}
	return s.sent[len(s.sent)-1]
}

func (s *recordingSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

func (s *recordingSender) codes() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, 0, len(s.sent))
	for _, sc := range s.sent {
		out = append(out, sc.code)
	}
	return out
}

// memoryAccountProvider is a minimal AccountProvider double with a
// toggleable outage.
type memoryAccountProvider struct {
	mu       sync.Mutex
	accounts map[string]Account
	fail     bool
}

func newMemoryAccountProvider() *memoryAccountProvider {
	return &memoryAccountProvider{
		accounts: make(map[string]Account),
	}
}

func (p *memoryAccountProvider) CreateAccount(ctx context.Context, input CreateAccountInput) (Account, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.fail {
		return Account{}, errors.New("provider unreachable")
	}
	if _, ok := p.accounts[input.Identity]; ok {
		return Account{}, ErrProviderDuplicateIdentity
	}

	account := Account{
		AccountID:   uuid.NewString(),
		Identity:    input.Identity,
		DisplayName: input.DisplayName,
		Tier:        input.Tier,
	}
	p.accounts[input.Identity] = account
	return account, nil
}

// wrongCode returns a well-formed code guaranteed to differ from code.
func wrongCode(code string) string {
	b := []byte(code)
	if b[0] == '0' {
		b[0] = '1'
	} else {
		b[0] = '0'
	}
	return string(b)
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Passcode.EnableIdentityThrottle = false
	cfg.Passcode.EnableIPThrottle = false
	cfg.Audit.Enabled = false
	return cfg
}

func newTestEngine(t *testing.T, rdb *redis.Client, cfg Config, sender Sender, provider AccountProvider) *Engine {
	t.Helper()

	builder := New().
		WithConfig(cfg).
		WithRedis(rdb).
		WithSender(sender)
	if provider != nil {
		builder = builder.WithAccountProvider(provider)
	}

	engine, err := builder.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)

	return engine
}
