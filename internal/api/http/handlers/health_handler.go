package handlers

import (
	"context"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
)

const readinessTimeout = 2 * time.Second

// Pinger is a dependency the readiness probe checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler answers liveness and readiness probes.
type HealthHandler struct {
	serviceName string
	version     string
	deps        map[string]Pinger
}

// NewHealthHandler returns a handler checking deps, keyed by the name they
// are reported under.
func NewHealthHandler(serviceName, version string, deps map[string]Pinger) *HealthHandler {
	return &HealthHandler{serviceName: serviceName, version: version, deps: deps}
}

type dependencyStatus struct {
	Status    string `json:"status"`
	LatencyMS int64  `json:"latency_ms"`
	Error     string `json:"error,omitempty"`
}

// Live GET /health/live.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "alive",
		"service": h.serviceName,
		"version": h.version,
	})
}

// Ready GET /health/ready. Dependencies are pinged in parallel under one
// shared deadline.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), readinessTimeout)
	defer cancel()

	statuses := h.check(ctx)
	for _, st := range statuses {
		if st.Error != "" {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error": fiber.Map{
					"code":    "DEPENDENCY_UNAVAILABLE",
					"message": "one or more dependencies unavailable",
					"details": statuses,
				},
			})
		}
	}
	return c.JSON(fiber.Map{"status": "ready", "dependencies": statuses})
}

func (h *HealthHandler) check(ctx context.Context) map[string]dependencyStatus {
	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		out = make(map[string]dependencyStatus, len(h.deps))
	)
	for name, dep := range h.deps {
		wg.Add(1)
		go func(name string, dep Pinger) {
			defer wg.Done()
			start := time.Now()
			st := dependencyStatus{Status: "ok"}
			if err := dep.Ping(ctx); err != nil {
				st.Status = "down"
				st.Error = err.Error()
			}
			st.LatencyMS = time.Since(start).Milliseconds()

			mu.Lock()
			out[name] = st
			mu.Unlock()
		}(name, dep)
	}
	wg.Wait()
	return out
}
