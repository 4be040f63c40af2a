package retry

import (
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
)

// BreakerConfig configures a consecutive-failure circuit breaker.
type BreakerConfig struct {
	Name             string
	FailureThreshold uint32
	Timeout          time.Duration // how long the breaker stays open before a trial call
	OnStateChange    func(name string, from, to gobreaker.State)
}

// NewBreaker creates a circuit breaker that opens after FailureThreshold consecutive failures.
func NewBreaker[T any](cfg BreakerConfig) *gobreaker.CircuitBreaker[T] {
	threshold := cfg.FailureThreshold
	if threshold == 0 {
		threshold = 1
	}
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: 1,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: cfg.OnStateChange,
	}
	return gobreaker.NewCircuitBreaker[T](settings)
}
