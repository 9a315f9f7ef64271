package resilience

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DegradationLevel is the coarse health state of an upstream service.
type DegradationLevel int

const (
	LevelNormal DegradationLevel = iota
	LevelDegraded
	LevelCritical
	LevelEmergency
)

// Error-rate thresholds for each level.
const (
	degradedThreshold  = 0.1
	criticalThreshold  = 0.25
	emergencyThreshold = 0.5
)

// ServiceHealth is the tracked health status of one upstream service.
type ServiceHealth struct {
	ServiceName   string           `json:"service_name"`
	Level         DegradationLevel `json:"level"`
	ErrorRate     float64          `json:"error_rate"`
	TotalRequests int64            `json:"total_requests"`
	ErrorCount    int64            `json:"error_count"`
	LastErrorTime time.Time        `json:"last_error_time"`
	StatusMessage string           `json:"status_message"`
}

// HealthCheckFunc probes a service; nil error means healthy.
type HealthCheckFunc func(ctx context.Context) error

// HealthRegistry tracks error rates per upstream service and derives a
// degradation level from them.
type HealthRegistry struct {
	mu           sync.RWMutex
	services     map[string]*ServiceHealth
	healthChecks map[string]HealthCheckFunc
	interval     time.Duration
}

// NewHealthRegistry creates an empty registry checking at the given interval.
func NewHealthRegistry(interval time.Duration) *HealthRegistry {
	return &HealthRegistry{
		services:     make(map[string]*ServiceHealth),
		healthChecks: make(map[string]HealthCheckFunc),
		interval:     interval,
	}
}

// Register adds a service, optionally with a periodic health check.
func (hr *HealthRegistry) Register(name string, check HealthCheckFunc) {
	hr.mu.Lock()
	defer hr.mu.Unlock()

	hr.services[name] = &ServiceHealth{
		ServiceName:   name,
		Level:         LevelNormal,
		StatusMessage: "service is healthy",
	}
	if check != nil {
		hr.healthChecks[name] = check
	}
	slog.Info("registered service health tracking", "service", name)
}

// RecordRequest records one request outcome for a service.
func (hr *HealthRegistry) RecordRequest(name string, success bool) {
	hr.mu.Lock()
	defer hr.mu.Unlock()

	s, ok := hr.services[name]
	if !ok {
		return
	}
	s.TotalRequests++
	if !success {
		s.ErrorCount++
		s.LastErrorTime = time.Now()
	}
	s.ErrorRate = float64(s.ErrorCount) / float64(s.TotalRequests)
	hr.relevel(s)
}

func (hr *HealthRegistry) relevel(s *ServiceHealth) {
	old := s.Level
	switch {
	case s.ErrorRate >= emergencyThreshold:
		s.Level = LevelEmergency
		s.StatusMessage = "service is unusable, error rate too high"
	case s.ErrorRate >= criticalThreshold:
		s.Level = LevelCritical
		s.StatusMessage = "service error rate is critical"
	case s.ErrorRate >= degradedThreshold:
		s.Level = LevelDegraded
		s.StatusMessage = "service is degraded"
	default:
		s.Level = LevelNormal
		s.StatusMessage = "service is healthy"
	}
	if old != s.Level {
		slog.Warn("service degradation level changed",
			"service", s.ServiceName,
			"old_level", old,
			"new_level", s.Level,
			"error_rate", s.ErrorRate)
	}
}

// IsAvailable reports whether a service may still be called. Only emergency
// state takes a service out of rotation.
func (hr *HealthRegistry) IsAvailable(name string) bool {
	hr.mu.RLock()
	defer hr.mu.RUnlock()

	s, ok := hr.services[name]
	if !ok {
		return false
	}
	return s.Level != LevelEmergency
}

// Snapshot returns a copy of all tracked service health records.
func (hr *HealthRegistry) Snapshot() map[string]ServiceHealth {
	hr.mu.RLock()
	defer hr.mu.RUnlock()

	out := make(map[string]ServiceHealth, len(hr.services))
	for name, s := range hr.services {
		out[name] = *s
	}
	return out
}

// Start runs periodic health checks until the context ends.
func (hr *HealthRegistry) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(hr.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				hr.runChecks(ctx)
			}
		}
	}()
}

func (hr *HealthRegistry) runChecks(ctx context.Context) {
	hr.mu.RLock()
	checks := make(map[string]HealthCheckFunc, len(hr.healthChecks))
	for name, check := range hr.healthChecks {
		checks[name] = check
	}
	hr.mu.RUnlock()

	for name, check := range checks {
		checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := check(checkCtx)
		cancel()
		hr.RecordRequest(name, err == nil)
	}
}

// Default registry used by the server and the quote client.
var defaultRegistry = NewHealthRegistry(30 * time.Second)

// RegisterService registers a service on the default registry.
func RegisterService(name string, check HealthCheckFunc) {
	defaultRegistry.Register(name, check)
}

// RecordRequest records a request outcome on the default registry.
func RecordRequest(name string, success bool) {
	defaultRegistry.RecordRequest(name, success)
}

// IsServiceAvailable checks availability on the default registry.
func IsServiceAvailable(name string) bool {
	return defaultRegistry.IsAvailable(name)
}

// ServiceHealthSnapshot returns all tracked health records from the default
// registry.
func ServiceHealthSnapshot() map[string]ServiceHealth {
	return defaultRegistry.Snapshot()
}

// StartHealthChecks starts periodic checks on the default registry.
func StartHealthChecks(ctx context.Context) {
	defaultRegistry.Start(ctx)
}
