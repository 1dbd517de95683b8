package passgate

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/nvoid-labs/passgate/internal"
)

func TestConcurrentIssueSingleSurvivor(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	ctx := context.Background()
	sender := &recordingSender{}
	engine := newTestEngine(t, rdb, testConfig(), sender, nil)

	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = engine.RequestPasscode(ctx, "a@x.com", PurposeLogin)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("issue %d failed: %v", i, err)
		}
	}

	// Exactly one record survives and it belongs to one of the issues,
	// never a merged or corrupted write.
	record, err := engine.store.Peek(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("peek failed: %v", err)
	}

	winner := ""
	for _, code := range sender.codes() {
		if internal.HashPasscode(code) == record.CodeHash {
			winner = code
			break
		}
	}
	if winner == "" {
		t.Fatal("surviving record matches none of the issued codes")
	}

	if _, err := engine.VerifyPasscode(ctx, "a@x.com", winner); err != nil {
		t.Fatalf("winning code rejected: %v", err)
	}
}

func TestConcurrentVerifySingleUse(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	ctx := context.Background()
	sender := &recordingSender{}
	engine := newTestEngine(t, rdb, testConfig(), sender, nil)

	if _, err := engine.RequestPasscode(ctx, "a@x.com", PurposeLogin); err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	code := sender.last(t).code

	const workers = 8
	var wg sync.WaitGroup
	start := make(chan struct{})
	errs := make([]error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, errs[i] = engine.VerifyPasscode(ctx, "a@x.com", code)
		}(i)
	}
	close(start)
	wg.Wait()

	successes := 0
	for i, err := range errs {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, ErrPasscodeInvalid):
		default:
			t.Fatalf("verify %d: unexpected error %v", i, err)
		}
	}
	if successes != 1 {
		t.Fatalf("code was spent %d times, want exactly 1", successes)
	}
}

func TestConcurrentDistinctIdentitiesIndependent(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	ctx := context.Background()
	sender := &recordingSender{}
	engine := newTestEngine(t, rdb, testConfig(), sender, nil)

	identities := []string{"a@x.com", "b@x.com", "c@x.com", "d@x.com"}
	var wg sync.WaitGroup
	errs := make([]error, len(identities))

	for i, identity := range identities {
		wg.Add(1)
		go func(i int, identity string) {
			defer wg.Done()
			_, errs[i] = engine.RequestPasscode(ctx, identity, PurposeLogin)
		}(i, identity)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("identity %s: %v", identities[i], err)
		}
	}

	// Every identity's own code verifies.
	for _, sc := range func() []sentCode {
		sender.mu.Lock()
		defer sender.mu.Unlock()
		out := make([]sentCode, len(sender.sent))
		copy(out, sender.sent)
		return out
	}() {
		if _, err := engine.VerifyPasscode(ctx, sc.identity, sc.code); err != nil {
			t.Fatalf("identity %s: own code rejected: %v", sc.identity, err)
		}
	}
}
