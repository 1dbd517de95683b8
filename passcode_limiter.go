package passgate

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

var (
	errIssueRateLimited        = errors.New("issue rate limited")
	errIssueLimiterUnavailable = errors.New("issue limiter unavailable")
)

// issueLimiter throttles RequestPasscode with fixed-window counters per
// identity and per client IP. Verify-side brute force is bounded by the
// in-record attempt cap instead, so no counter exists for it here.
type issueLimiter struct {
	redis  *redis.Client
	config PasscodeConfig
}

func newIssueLimiter(redisClient *redis.Client, cfg PasscodeConfig) *issueLimiter {
	return &issueLimiter{
		redis:  redisClient,
		config: cfg,
	}
}

func (l *issueLimiter) CheckIssue(ctx context.Context, identity, ip string) error {
	if l == nil {
		return nil
	}
	if l.config.EnableIdentityThrottle {
		if err := l.enforceFixedWindow(ctx, l.identityKey(identity)); err != nil {
			return err
		}
	}
	if l.config.EnableIPThrottle && ip != "" {
		if err := l.enforceFixedWindow(ctx, l.ipKey(ip)); err != nil {
			return err
		}
	}
	return nil
}

func (l *issueLimiter) enforceFixedWindow(ctx context.Context, key string) error {
	count, err := l.redis.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", errIssueLimiterUnavailable, err)
	}

	if count == 1 {
		if err := l.redis.Expire(ctx, key, l.config.IssueWindow).Err(); err != nil {
			return fmt.Errorf("%w: %v", errIssueLimiterUnavailable, err)
		}
	}

	if count > int64(l.config.IssueLimit) {
		return errIssueRateLimited
	}

	return nil
}

func (l *issueLimiter) identityKey(identity string) string {
	return l.config.RedisPrefix + ":issue:" + identity
}

func (l *issueLimiter) ipKey(ip string) string {
	return l.config.RedisPrefix + ":issueip:" + ip
}
