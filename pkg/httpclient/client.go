package httpclient

import (
	"log/slog"
	"net/http"
	"time"
)

// New returns an http.Client with sane timeouts and a circuit breaker
// transport, suitable for calling external payment APIs.
func New(breakerName string, timeout time.Duration, l *slog.Logger) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: NewBreakerTransport(DefaultBreakerConfig(breakerName), nil, l),
	}
}
