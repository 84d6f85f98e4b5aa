// AngelaMos | 2026
// handler.go

package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
)

const probeTimeout = 5 * time.Second

const (
	statusOK           = "ok"
	statusDegraded     = "degraded"
	statusUnavailable  = "unavailable"
	statusNotReady     = "not_ready"
	statusShuttingDown = "shutting_down"
)

type Checker interface {
	Ping(ctx context.Context) error
}

// CheckerFunc adapts a plain function to Checker.
type CheckerFunc func(ctx context.Context) error

func (f CheckerFunc) Ping(ctx context.Context) error {
	return f(ctx)
}

// Dependency is one readiness probe. Optional dependencies are reported but
// never fail readiness.
type Dependency struct {
	Name     string
	Checker  Checker
	Optional bool
}

// Handler serves the probes used by the orchestrator. Liveness only fails
// while draining; readiness also pings every dependency.
type Handler struct {
	deps     []Dependency
	starting atomic.Bool
	draining atomic.Bool
}

func NewHandler(deps ...Dependency) *Handler {
	return &Handler{deps: deps}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/healthz", h.Liveness)
	r.Get("/livez", h.Liveness)
	r.Get("/readyz", h.Readiness)
}

// SetReady toggles readiness without affecting liveness.
func (h *Handler) SetReady(ready bool) {
	h.starting.Store(!ready)
}

// SetShutdown marks the process as draining so load balancers stop routing
// to it before the listener closes.
func (h *Handler) SetShutdown(shutdown bool) {
	h.draining.Store(shutdown)
}

func (h *Handler) Liveness(w http.ResponseWriter, _ *http.Request) {
	if h.draining.Load() {
		writeJSON(w, http.StatusServiceUnavailable, StatusResponse{Status: statusShuttingDown})
		return
	}
	writeJSON(w, http.StatusOK, StatusResponse{Status: statusOK})
}

func (h *Handler) Readiness(w http.ResponseWriter, r *http.Request) {
	switch {
	case h.draining.Load():
		writeJSON(w, http.StatusServiceUnavailable, StatusResponse{Status: statusShuttingDown})
		return
	case h.starting.Load():
		writeJSON(w, http.StatusServiceUnavailable, StatusResponse{Status: statusNotReady})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), probeTimeout)
	defer cancel()

	report := h.probeAll(ctx)
	code := http.StatusOK
	if report.Status == statusUnavailable {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, report)
}

// probeAll pings every dependency concurrently and folds the results into
// one status: any required failure is unavailable, any optional failure is
// degraded.
func (h *Handler) probeAll(ctx context.Context) ReadinessResponse {
	report := ReadinessResponse{
		Status: statusOK,
		Checks: make([]HealthCheck, len(h.deps)),
	}

	var wg sync.WaitGroup
	for i, dep := range h.deps {
		wg.Go(func() {
			report.Checks[i] = probe(ctx, dep)
		})
	}
	wg.Wait()

	for i, c := range report.Checks {
		switch {
		case c.Healthy:
		case !h.deps[i].Optional:
			report.Status = statusUnavailable
			return report
		default:
			report.Status = statusDegraded
		}
	}
	return report
}

func probe(ctx context.Context, dep Dependency) HealthCheck {
	if dep.Checker == nil {
		return HealthCheck{Name: dep.Name, Message: "checker not configured"}
	}

	start := time.Now()
	err := dep.Checker.Ping(ctx)

	c := HealthCheck{
		Name:    dep.Name,
		Healthy: err == nil,
		Latency: time.Since(start).Round(time.Microsecond).String(),
	}
	if err != nil {
		c.Message = "ping failed"
	}
	return c
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	h := w.Header()
	h.Set("Content-Type", "application/json")
	h.Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	//nolint:errcheck // the status line is already out
	_ = json.NewEncoder(w).Encode(body)
}

type StatusResponse struct {
	Status string `json:"status"`
}

type ReadinessResponse struct {
	Status string        `json:"status"`
	Checks []HealthCheck `json:"checks"`
}

type HealthCheck struct {
	Name    string `json:"name"`
	Healthy bool   `json:"healthy"`
	Latency string `json:"latency,omitempty"`
	Message string `json:"message,omitempty"`
}
