package resilience

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// Transport is a shared pooled HTTP client guarded by a circuit breaker. All
// outbound provider requests go through one of these.
type Transport struct {
	client         *http.Client
	circuitBreaker *CircuitBreaker
	transport      *http.Transport
}

// NewTransport builds a pooled transport. maxIdle and maxPerHost bound the
// connection pool, timeout bounds every individual request.
func NewTransport(maxIdle, maxPerHost int, timeout time.Duration, cb *CircuitBreaker) *Transport {
	transport := &http.Transport{
		MaxIdleConns:          maxIdle,
		MaxConnsPerHost:       maxPerHost,
		MaxIdleConnsPerHost:   maxIdle,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: timeout,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &Transport{
		client: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
		circuitBreaker: cb,
		transport:      transport,
	}
}

// Do executes an HTTP request under circuit breaker protection.
func (t *Transport) Do(ctx context.Context, method, url string, headers map[string]string) (*http.Response, error) {
	var resp *http.Response

	err := t.circuitBreaker.Call(func() error {
		req, err := http.NewRequestWithContext(ctx, method, url, nil)
		if err != nil {
			return err
		}
		for key, value := range headers {
			req.Header.Set(key, value)
		}

		start := time.Now()
		resp, err = t.client.Do(req)
		if err != nil {
			slog.Warn("request failed", "url", url, "error", err, "duration_ms", time.Since(start).Milliseconds())
			return err
		}

		slog.Debug("request completed", "url", url, "status", resp.StatusCode, "duration_ms", time.Since(start).Milliseconds())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Stats returns transport statistics for the pools endpoint.
func (t *Transport) Stats() map[string]interface{} {
	return map[string]interface{}{
		"max_idle_conns":        t.transport.MaxIdleConns,
		"max_conns_per_host":    t.transport.MaxConnsPerHost,
		"request_timeout_ms":    t.client.Timeout.Milliseconds(),
		"circuit_breaker_state": t.circuitBreaker.State().String(),
		"circuit_failures":      t.circuitBreaker.Failures(),
	}
}

// Close drops all idle connections.
func (t *Transport) Close() error {
	t.transport.CloseIdleConnections()
	return nil
}
