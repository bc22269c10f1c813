// Package health provides liveness and readiness probes for the storefront.
//
// Each registered check runs in its own background goroutine at a fixed
// interval. A check must fail failureThreshold times in a row before it is
// marked unhealthy, and succeed successThreshold times before it recovers.
//
// Checks are critical by default: an unhealthy critical check turns the
// probe into 503. Non-critical checks (the upstream catalog, which the page
// survives without) are reported as "degraded" while the probe stays 200.
package health

import (
	"cmp"
	"context"
	"net/http"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-faster/jx"
)

// Probe statuses reported in the response body.
const (
	StatusOK        = "ok"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

// CheckFunc is a health check function. It returns nil if the checked
// component is healthy.
type CheckFunc func(ctx context.Context) error

// CheckOption configures a registered check.
type CheckOption func(c *checkConfig)

// NonCritical marks a check whose failure degrades the service without
// taking it out of rotation.
func NonCritical() CheckOption {
	return func(c *checkConfig) {
		c.critical = false
	}
}

// WithThresholds overrides the consecutive failure and success counts
// needed to flip the check state. Values below 1 are ignored.
func WithThresholds(failure, success int) CheckOption {
	return func(c *checkConfig) {
		if failure > 0 {
			c.failureThreshold = failure
		}
		if success > 0 {
			c.successThreshold = success
		}
	}
}

// checkConfig holds the configuration and runtime state for a single check.
//
// run is called from exactly one goroutine, so the counters need no
// synchronization. healthy and lastErr are read by HTTP handlers.
type checkConfig struct {
	name             string
	timeout          time.Duration
	check            CheckFunc
	critical         bool
	failureThreshold int
	successThreshold int

	healthy atomic.Bool
	lastErr atomic.Pointer[error]

	consecutiveFails int
	consecutiveOK    int
}

func newCheck(name string, timeout time.Duration, check CheckFunc, opts []CheckOption) *checkConfig {
	c := &checkConfig{
		name:             name,
		timeout:          timeout,
		check:            check,
		critical:         true,
		failureThreshold: 3,
		successThreshold: 1,
	}
	for _, o := range opts {
		o(c)
	}
	c.healthy.Store(true) // healthy until proven otherwise
	return c
}

func (c *checkConfig) isHealthy() bool {
	return c.healthy.Load()
}

func (c *checkConfig) getLastError() error {
	if p := c.lastErr.Load(); p != nil {
		return *p
	}
	return nil
}

// run executes the check once and updates the thresholds.
func (c *checkConfig) run(ctx context.Context) {
	checkCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	err := c.check(checkCtx)
	c.lastErr.Store(&err)

	if err != nil {
		c.consecutiveOK = 0
		c.consecutiveFails++
		if c.consecutiveFails >= c.failureThreshold {
			c.healthy.Store(false)
		}
		return
	}
	c.consecutiveFails = 0
	c.consecutiveOK++
	if c.consecutiveOK >= c.successThreshold {
		c.healthy.Store(true)
	}
}

// Health manages liveness and readiness checks for a service.
type Health struct {
	ready atomic.Bool

	// mu protects the check slices and cancel. Handlers snapshot the
	// slices under RLock and release it before touching check state.
	mu              sync.RWMutex
	livenessChecks  []*checkConfig
	readinessChecks []*checkConfig
	cancel          context.CancelFunc
}

// New creates a Health in the not-ready state. Call SetReady(true) once
// initialization is done.
func New() *Health {
	return &Health{}
}

// AddLivenessCheck registers a liveness check, such as goroutine count or
// GC pause duration.
func (h *Health) AddLivenessCheck(name string, timeout time.Duration, check CheckFunc, opts ...CheckOption) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.livenessChecks = append(h.livenessChecks, newCheck(name, timeout, check, opts))
}

// AddReadinessCheck registers a readiness check, such as reachability of
// the upstream catalog.
func (h *Health) AddReadinessCheck(name string, timeout time.Duration, check CheckFunc, opts ...CheckOption) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.readinessChecks = append(h.readinessChecks, newCheck(name, timeout, check, opts))
}

// Start runs every registered check in its own goroutine at the given
// interval until Stop is called or ctx is done.
func (h *Health) Start(ctx context.Context, interval time.Duration) {
	ctx, cancel := context.WithCancel(ctx)

	h.mu.Lock()
	h.cancel = cancel
	checks := slices.Concat(h.livenessChecks, h.readinessChecks)
	h.mu.Unlock()

	for _, c := range checks {
		go runCheck(ctx, c, interval)
	}
}

func runCheck(ctx context.Context, c *checkConfig, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	c.run(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.run(ctx)
		}
	}
}

// SetReady sets the manual readiness flag: true after initialization,
// false at the start of graceful shutdown.
func (h *Health) SetReady(ready bool) {
	h.ready.Store(ready)
}

// IsReady reports whether the service is marked ready and no critical
// readiness check is failing.
func (h *Health) IsReady() bool {
	if !h.ready.Load() {
		return false
	}
	h.mu.RLock()
	checks := h.readinessChecks
	h.mu.RUnlock()

	for _, c := range checks {
		if c.critical && !c.isHealthy() {
			return false
		}
	}
	return true
}

// Stop cancels the background checks. It is safe to call more than once.
func (h *Health) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.cancel != nil {
		h.cancel()
		h.cancel = nil
	}
}

// failure is an unhealthy check as reported in the response.
type failure struct {
	name     string
	message  string
	critical bool
}

// LiveEndpoint serves /livez.
func (h *Health) LiveEndpoint(w http.ResponseWriter, _ *http.Request) {
	h.mu.RLock()
	checks := slices.Clone(h.livenessChecks)
	h.mu.RUnlock()

	writeResponse(w, collectFailures(checks))
}

// ReadyEndpoint serves /readyz. It answers 503 when the service is not
// marked ready or a critical readiness check fails.
func (h *Health) ReadyEndpoint(w http.ResponseWriter, _ *http.Request) {
	ready := h.ready.Load()

	h.mu.RLock()
	checks := slices.Clone(h.readinessChecks)
	h.mu.RUnlock()

	failures := collectFailures(checks)
	if !ready {
		failures = append(failures, failure{name: "_readiness", message: "service is not ready", critical: true})
	}
	writeResponse(w, failures)
}

// collectFailures reports the currently unhealthy checks using the error
// stored by the last run.
func collectFailures(checks []*checkConfig) []failure {
	var failures []failure
	for _, c := range checks {
		if c.isHealthy() {
			continue
		}
		msg := "check is unhealthy"
		if err := c.getLastError(); err != nil {
			msg = err.Error()
		}
		failures = append(failures, failure{name: c.name, message: msg, critical: c.critical})
	}
	return failures
}

// writeResponse writes {"status":...,"checks":{...}} with 503 if any
// critical check failed.
func writeResponse(w http.ResponseWriter, failures []failure) {
	status, code := StatusOK, http.StatusOK
	for _, f := range failures {
		if f.critical {
			status, code = StatusUnhealthy, http.StatusServiceUnavailable
			break
		}
		status = StatusDegraded
	}
	slices.SortFunc(failures, func(a, b failure) int {
		return cmp.Compare(a.name, b.name)
	})

	e := jx.GetEncoder()
	defer jx.PutEncoder(e)

	e.Obj(func(e *jx.Encoder) {
		e.Field("status", func(e *jx.Encoder) { e.Str(status) })
		if len(failures) == 0 {
			return
		}
		e.Field("checks", func(e *jx.Encoder) {
			e.Obj(func(e *jx.Encoder) {
				for _, f := range failures {
					e.Field(f.name, func(e *jx.Encoder) { e.Str(f.message) })
				}
			})
		})
	})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	// The status is already written; a failed write means the client left.
	_, _ = w.Write(e.Bytes())
}
