package httpclient

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"
)

// BreakerTransport wraps an http.RoundTripper with a circuit breaker. When
// the upstream fails repeatedly the breaker opens and requests fail fast
// until the cooldown elapses.
type BreakerTransport struct {
	breaker *gobreaker.CircuitBreaker[*http.Response]
	next    http.RoundTripper
}

// BreakerConfig tunes the circuit breaker thresholds.
type BreakerConfig struct {
	Name        string
	MaxRequests uint32
	Interval    time.Duration
	Timeout     time.Duration
	MinRequests uint32
	FailureRate float64
}

// DefaultBreakerConfig returns conservative defaults for a payment upstream.
func DefaultBreakerConfig(name string) BreakerConfig {
	return BreakerConfig{
		Name:        name,
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		MinRequests: 5,
		FailureRate: 0.5,
	}
}

// NewBreakerTransport wraps next with a circuit breaker. A nil next uses
// http.DefaultTransport.
func NewBreakerTransport(cfg BreakerConfig, next http.RoundTripper, l *slog.Logger) *BreakerTransport {
	if next == nil {
		next = http.DefaultTransport
	}

	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			failureRate := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRate >= cfg.FailureRate
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			l.Warn("circuit breaker state change",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
	}

	return &BreakerTransport{
		breaker: gobreaker.NewCircuitBreaker[*http.Response](settings),
		next:    next,
	}
}

// RoundTrip executes the request through the breaker. 5xx responses count as
// failures; 4xx responses are the caller's problem and do not trip the breaker.
func (t *BreakerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.breaker.Execute(func() (*http.Response, error) {
		resp, err := t.next.RoundTrip(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			return resp, fmt.Errorf("upstream returned %d", resp.StatusCode)
		}
		return resp, nil
	})
	if err != nil && resp != nil {
		// Server error counted against the breaker, but the response body
		// still belongs to the caller.
		return resp, nil
	}
	return resp, err
}
