// AngelaMos | 2026
// ratelimit.go

package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	redis_rate "github.com/go-redis/redis_rate/v10"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/mentorcamp/backend/internal/authz"
	"github.com/mentorcamp/backend/internal/core"
)

type RateLimitConfig struct {
	Limit redis_rate.Limit
	// LimitFor picks the limit per request and names it for the
	// X-RateLimit-Tier header. It overrides Limit when set.
	LimitFor func(*http.Request) (string, redis_rate.Limit)
	KeyFunc  func(*http.Request) string
	// FailOpen keeps limiting in process while Redis is unreachable instead
	// of answering 503.
	FailOpen   bool
	BypassFunc func(*http.Request) bool
	OnLimited  func(http.ResponseWriter, *http.Request, *redis_rate.Result)
}

type RateLimiter struct {
	limiter  *redis_rate.Limiter
	fallback *localLimiter
	config   RateLimitConfig
}

func NewRateLimiter(rdb *redis.Client, cfg RateLimitConfig) *RateLimiter {
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = KeyByIP
	}

	return &RateLimiter{
		limiter:  redis_rate.NewLimiter(rdb),
		fallback: newLocalLimiter(),
		config:   cfg,
	}
}

func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rl.config.BypassFunc != nil && rl.config.BypassFunc(r) {
			next.ServeHTTP(w, r)
			return
		}

		limit := rl.config.Limit
		if rl.config.LimitFor != nil {
			var tier string
			tier, limit = rl.config.LimitFor(r)
			w.Header().Set("X-RateLimit-Tier", tier)
		}

		key := rl.config.KeyFunc(r)
		res, err := rl.allow(r.Context(), key, limit)
		if err != nil {
			slog.ErrorContext(r.Context(), "rate limiter unavailable",
				"error", err,
				"key", key,
			)
			core.JSONError(w, core.NewAppError(
				err,
				"Service temporarily unavailable.",
				http.StatusServiceUnavailable,
				"RATE_LIMITER_UNAVAILABLE",
			))
			return
		}

		setRateLimitHeaders(w, res, limit)

		if res.Allowed == 0 {
			if rl.config.OnLimited != nil {
				rl.config.OnLimited(w, r, res)
				return
			}
			writeRateLimitExceeded(w, res)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) allow(
	ctx context.Context,
	key string,
	limit redis_rate.Limit,
) (*redis_rate.Result, error) {
	res, err := rl.limiter.Allow(ctx, key, limit)
	if err == nil {
		return res, nil
	}
	if !rl.config.FailOpen {
		return nil, fmt.Errorf("redis limiter: %w", err)
	}

	slog.WarnContext(ctx, "rate limiter falling back to local buckets",
		"error", err,
	)
	return rl.fallback.allow(key, limit), nil
}

// KeyByIP keys on the client address. chi's RealIP runs first, so
// RemoteAddr already reflects the proxy headers.
func KeyByIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}
	return "ratelimit:ip:" + ip
}

// KeyByUser keys on the effective user, or the address when anonymous.
func KeyByUser(r *http.Request) string {
	if userID := GetUserID(r.Context()); userID != "" {
		return "ratelimit:user:" + userID
	}
	return KeyByIP(r)
}

func KeyByUserAndEndpoint(r *http.Request) string {
	return KeyByUser(r) + ":endpoint:" + normalizeEndpoint(r.URL.Path)
}

// normalizeEndpoint collapses ids so /messages/<uuid>/read shares one bucket
// across messages.
func normalizeEndpoint(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	for i, part := range parts {
		if _, err := uuid.Parse(part); err == nil {
			parts[i] = "{id}"
			continue
		}
		if _, err := strconv.ParseUint(part, 10, 64); err == nil {
			parts[i] = "{id}"
		}
	}
	return "/" + strings.Join(parts, "/")
}

func setRateLimitHeaders(
	w http.ResponseWriter,
	res *redis_rate.Result,
	limit redis_rate.Limit,
) {
	h := w.Header()

	h.Set("X-RateLimit-Limit", strconv.Itoa(limit.Rate))
	h.Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
	h.Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(res.ResetAfter).Unix(), 10))
	h.Set("RateLimit-Policy", fmt.Sprintf("%d;w=%d", limit.Rate, int(limit.Period.Seconds())))
	h.Set("RateLimit", fmt.Sprintf("%d;t=%d", res.Remaining, int(res.ResetAfter.Seconds())))
}

func writeRateLimitExceeded(w http.ResponseWriter, res *redis_rate.Result) {
	retryAfter := max(int(res.RetryAfter.Seconds()), 1)

	w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
	core.JSONError(w, core.NewAppError(
		nil,
		fmt.Sprintf("Rate limit exceeded. Retry after %d seconds.", retryAfter),
		http.StatusTooManyRequests,
		"RATE_LIMITED",
	))
}

const (
	bucketSweepInterval = 5 * time.Minute
	bucketIdleTTL       = 10 * time.Minute
)

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// localLimiter holds in-process token buckets used while Redis is down.
type localLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	now     func() time.Time
}

func newLocalLimiter() *localLimiter {
	l := &localLimiter{
		buckets: make(map[string]*bucket),
		now:     time.Now,
	}
	go l.sweep()
	return l
}

func (l *localLimiter) sweep() {
	ticker := time.NewTicker(bucketSweepInterval)
	defer ticker.Stop()

	for range ticker.C {
		l.evictIdle()
	}
}

func (l *localLimiter) evictIdle() {
	cutoff := l.now().Add(-bucketIdleTTL)

	l.mu.Lock()
	defer l.mu.Unlock()
	for key, b := range l.buckets {
		if b.lastSeen.Before(cutoff) {
			delete(l.buckets, key)
		}
	}
}

func (l *localLimiter) allow(key string, limit redis_rate.Limit) *redis_rate.Result {
	perSecond := float64(limit.Rate) / limit.Period.Seconds()
	interval := time.Duration(float64(time.Second) / perSecond)
	now := l.now()

	l.mu.Lock()
	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(rate.Limit(perSecond), limit.Burst)}
		l.buckets[key] = b
	}
	b.lastSeen = now
	allowed := b.limiter.AllowN(now, 1)
	remaining := max(int(b.limiter.TokensAt(now)), 0)
	l.mu.Unlock()

	res := &redis_rate.Result{
		Limit:      limit,
		Remaining:  remaining,
		RetryAfter: -1,
		ResetAfter: interval,
	}
	if allowed {
		res.Allowed = 1
	} else {
		res.RetryAfter = interval
	}
	return res
}

type TierConfig struct {
	RequestsPerMinute int
	BurstSize         int
}

const (
	TierAnonymous = "anonymous"
	TierMember    = "member"
	TierStaff     = "staff"
)

var DefaultTiers = map[string]TierConfig{
	TierAnonymous: {RequestsPerMinute: 30, BurstSize: 10},
	TierMember:    {RequestsPerMinute: 300, BurstSize: 50},
	TierStaff:     {RequestsPerMinute: 1200, BurstSize: 200},
}

// TierFor buckets the effective caller of a request.
func TierFor(r *http.Request) string {
	p := GetPrincipal(r.Context())
	switch {
	case p == nil:
		return TierAnonymous
	case authz.IsSuperuser(p):
		return TierStaff
	default:
		return TierMember
	}
}

// TieredRateLimiter applies a per-tier limit keyed by user, or by address for
// anonymous callers. It must run after the authenticator.
func TieredRateLimiter(
	rdb *redis.Client,
	tiers map[string]TierConfig,
) func(http.Handler) http.Handler {
	return NewRateLimiter(rdb, RateLimitConfig{
		KeyFunc:  KeyByUser,
		FailOpen: true,
		LimitFor: func(r *http.Request) (string, redis_rate.Limit) {
			tier := TierFor(r)
			cfg, ok := tiers[tier]
			if !ok {
				cfg = tiers[TierAnonymous]
			}
			return tier, PerMinute(cfg.RequestsPerMinute, cfg.BurstSize)
		},
	}).Handler
}

func PerMinute(rate, burst int) redis_rate.Limit {
	return redis_rate.Limit{
		Rate:   rate,
		Burst:  burst,
		Period: time.Minute,
	}
}

func PerHour(rate, burst int) redis_rate.Limit {
	return redis_rate.Limit{
		Rate:   rate,
		Burst:  burst,
		Period: time.Hour,
	}
}
