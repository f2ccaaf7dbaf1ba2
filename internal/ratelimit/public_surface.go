// Package ratelimit throttles the unauthenticated surface: login attempts and
// public contact-form submissions, bucketed per client IP in redis.
package ratelimit

import (
	"context"
	"errors"
	"strings"

	"github.com/pharmindex/pharmindex/internal/config"
	redis "github.com/redis/go-redis/v9"
)

const (
	keyLogin   = "ratelimit:login:"
	keyContact = "ratelimit:contact:"
)

type PublicSurfaceLimiter struct {
	enabled bool

	bucket *TokenBucket

	loginRate    float64
	loginBurst   int
	contactRate  float64
	contactBurst int
}

// NewPublicSurfaceLimiter returns nil when rate limiting is disabled; callers
// treat a nil limiter as allow-all.
func NewPublicSurfaceLimiter(cfg config.Config) (*PublicSurfaceLimiter, error) {
	if !cfg.RateLimitEnabled {
		return nil, nil
	}

	addr := strings.TrimSpace(cfg.RedisAddr)
	if addr == "" {
		return nil, errors.New("rate limit redis addr is required")
	}
	if cfg.LoginRatePerSec <= 0 || cfg.LoginBurst <= 0 {
		return nil, errors.New("login rate limit must be positive")
	}
	if cfg.ContactRatePerSec <= 0 || cfg.ContactBurst <= 0 {
		return nil, errors.New("contact rate limit must be positive")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: strings.TrimSpace(cfg.RedisPassword),
		DB:       cfg.RedisDB,
	})

	return &PublicSurfaceLimiter{
		enabled:      true,
		bucket:       NewTokenBucket(client),
		loginRate:    cfg.LoginRatePerSec,
		loginBurst:   cfg.LoginBurst,
		contactRate:  cfg.ContactRatePerSec,
		contactBurst: cfg.ContactBurst,
	}, nil
}

func (l *PublicSurfaceLimiter) Enabled() bool {
	return l != nil && l.enabled
}

func (l *PublicSurfaceLimiter) AllowLogin(ctx context.Context, clientIP string) (*Result, error) {
	if !l.Enabled() {
		return &Result{Allowed: true}, nil
	}
	return l.bucket.Allow(ctx, keyLogin+strings.TrimSpace(clientIP), l.loginRate, l.loginBurst)
}

func (l *PublicSurfaceLimiter) AllowContact(ctx context.Context, clientIP string) (*Result, error) {
	if !l.Enabled() {
		return &Result{Allowed: true}, nil
	}
	return l.bucket.Allow(ctx, keyContact+strings.TrimSpace(clientIP), l.contactRate, l.contactBurst)
}
