package remote

import (
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/Alijeyrad/simorq_mobile/config"
)

// newBreaker builds the circuit breaker guarding backend calls. Only
// connectivity and server-side failures count against the breaker; a 4xx is
// a valid answer from a healthy service and must not trip it.
func newBreaker(cfg config.BreakerConfig) *gobreaker.CircuitBreaker[[]byte] {
	maxRequests := cfg.MaxRequests
	if maxRequests == 0 {
		maxRequests = 1
	}
	threshold := cfg.ConsecutiveFailures
	if threshold == 0 {
		threshold = 5
	}
	openTimeout := time.Duration(cfg.OpenTimeoutSeconds) * time.Second
	if openTimeout <= 0 {
		openTimeout = 30 * time.Second
	}

	st := gobreaker.Settings{
		Name:        "backend",
		MaxRequests: maxRequests,
		Interval:    time.Duration(cfg.IntervalSeconds) * time.Second,
		Timeout:     openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			e, ok := AsError(err)
			if !ok {
				return false
			}
			switch e.Category {
			case CategoryNetworkUnreachable, CategoryServerError:
				return false
			default:
				return true
			}
		},
	}
	return gobreaker.NewCircuitBreaker[[]byte](st)
}
