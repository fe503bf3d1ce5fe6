package wsutil

import (
	"time"

	"golang.org/x/time/rate"
)

// NewSendLimiter allows 120 commands per minute, the gateway's documented
// send budget.
func NewSendLimiter() *rate.Limiter {
	return rate.NewLimiter(rate.Every(time.Minute), 120)
}

// NewDialLimiter keeps reconnect storms under one dial per 5 seconds.
func NewDialLimiter() *rate.Limiter {
	return rate.NewLimiter(rate.Every(5*time.Second), 1)
}
