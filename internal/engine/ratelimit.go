package engine

import "golang.org/x/time/rate"

// NewWalkerRateLimiter builds the optional token-bucket limiter applied to
// the default filesystem walker's per-file stat calls (the --scan-rate
// flag). ratePerSecond <= 0 disables limiting.
//
// This re-homes the teacher's rate-limiting dependency (previously an HTTP
// middleware concern in internal/server/ratelimit.go) onto the walker,
// since the spec has no HTTP surface for it to protect.
func NewWalkerRateLimiter(ratePerSecond int) *rate.Limiter {
	if ratePerSecond <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(ratePerSecond), ratePerSecond)
}
