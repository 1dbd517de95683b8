package proof

import (
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"testing"
	"time"
)

func TestManagerHS256RoundTrip(t *testing.T) {
	m, err := NewManager(Config{
		TTL:           2 * time.Minute,
		SigningMethod: MethodHS256,
		PrivateKey:    []byte("0123456789abcdef0123456789abcdef"),
		Issuer:        "passgate-test",
	})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	token, err := m.Issue("a@x.com", "login", "iss-1")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	claims, err := m.Parse(token)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if claims.Identity != "a@x.com" || claims.Purpose != "login" || claims.IssuanceID != "iss-1" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.Issuer != "passgate-test" {
		t.Fatalf("issuer = %q, want passgate-test", claims.Issuer)
	}
}

func TestManagerRejectsWrongKey(t *testing.T) {
	issue, err := NewManager(Config{
		TTL:        time.Minute,
		PrivateKey: []byte("0123456789abcdef0123456789abcdef"),
	})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	verify, err := NewManager(Config{
		TTL:        time.Minute,
		PrivateKey: []byte("ffffffffffffffffffffffffffffffff"),
	})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	token, err := issue.Issue("a@x.com", "login", "")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if _, err := verify.Parse(token); !errors.Is(err, ErrProofInvalid) {
		t.Fatalf("expected ErrProofInvalid, got %v", err)
	}
}

func TestManagerRejectsExpiredToken(t *testing.T) {
	m, err := NewManager(Config{
		TTL:        time.Nanosecond,
		PrivateKey: []byte("0123456789abcdef0123456789abcdef"),
	})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	token, err := m.Issue("a@x.com", "login", "")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	time.Sleep(10 * time.Millisecond)

	if _, err := m.Parse(token); !errors.Is(err, ErrProofInvalid) {
		t.Fatalf("expected ErrProofInvalid, got %v", err)
	}
}

func TestManagerRejectsGarbage(t *testing.T) {
	m, err := NewManager(Config{
		TTL:        time.Minute,
		PrivateKey: []byte("0123456789abcdef0123456789abcdef"),
	})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := m.Parse(token); !errors.Is(err, ErrProofInvalid) {
			t.Fatalf("token %q: expected ErrProofInvalid, got %v", token, err)
		}
	}
}

func TestManagerEd25519RoundTrip(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("key generation failed: %v", err)
	}

	m, err := NewManager(Config{
		TTL:           time.Minute,
		SigningMethod: MethodEd25519,
		PrivateKey:    priv,
	})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	token, err := m.Issue("a@x.com", "registration", "iss-2")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	claims, err := m.Parse(token)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if claims.Purpose != "registration" {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	// Parse-only deployment holding just the public key.
	verifier, err := NewManager(Config{
		TTL:           time.Minute,
		SigningMethod: MethodEd25519,
		PublicKey:     pub,
	})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	if _, err := verifier.Parse(token); err != nil {
		t.Fatalf("public key parse failed: %v", err)
	}
	if _, err := verifier.Issue("a@x.com", "login", ""); err == nil {
		t.Fatal("parse-only manager must not issue")
	}
}

func TestManagerRejectsCrossAlgorithmTokens(t *testing.T) {
	hs, err := NewManager(Config{
		TTL:        time.Minute,
		PrivateKey: []byte("0123456789abcdef0123456789abcdef"),
	})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("key generation failed: %v", err)
	}
	ed, err := NewManager(Config{
		TTL:           time.Minute,
		SigningMethod: MethodEd25519,
		PrivateKey:    priv,
	})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	token, err := hs.Issue("a@x.com", "login", "")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if _, err := ed.Parse(token); !errors.Is(err, ErrProofInvalid) {
		t.Fatalf("expected ErrProofInvalid, got %v", err)
	}
}

func TestNewManagerConfigValidation(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
	}{
		{"zero ttl", Config{PrivateKey: []byte("k")}},
		{"negative leeway", Config{TTL: time.Minute, Leeway: -time.Second, PrivateKey: []byte("k")}},
		{"excessive leeway", Config{TTL: time.Minute, Leeway: time.Hour, PrivateKey: []byte("k")}},
		{"hs256 no key", Config{TTL: time.Minute}},
		{"ed25519 no key", Config{TTL: time.Minute, SigningMethod: MethodEd25519}},
		{"ed25519 bad key size", Config{TTL: time.Minute, SigningMethod: MethodEd25519, PrivateKey: []byte("short")}},
		{"unknown method", Config{TTL: time.Minute, SigningMethod: "rs512", PrivateKey: []byte("k")}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewManager(tc.cfg); err == nil {
				t.Fatal("expected configuration error")
			}
		})
	}
}
