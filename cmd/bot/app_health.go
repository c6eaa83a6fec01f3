package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/alexliesenfeld/health"
	"github.com/azorva/warden/pkg/dataaccess/monitoring"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	// PathAlive is the liveness probe path.
	PathAlive = "/"

	// PathHealth is the health check path.
	PathHealth = "/health"

	// PathMetrics is the metrics path.
	PathMetrics = "/metrics"
)

// aliveCheck is the plain-text liveness probe consumed by external uptime
// monitors. It only says the process is up; /health carries the detail.
func (a *App) aliveCheck() Controller {
	return func(w http.ResponseWriter, r *http.Request) {
		tag := "Not ready yet"
		if a.s != nil && a.s.State != nil && a.s.State.User != nil {
			tag = fmt.Sprintf("%s#%s", a.s.State.User.Username, a.s.State.User.Discriminator)
		}
		w.WriteHeader(http.StatusOK)
		_, _ = fmt.Fprintf(w, "Bot is online! Logged in as: %s", tag)
	}
}

func (a *App) healthCheck() Controller {
	checker := health.NewChecker(
		// Set a TTL of 1 second for the results of the checks.
		health.WithCacheDuration(1*time.Second),

		// Set a timeout of 2 seconds for the checks.
		health.WithTimeout(2*time.Second),

		// Monitor the health of the KV store.
		health.WithCheck(health.Check{
			Name: "KV_Store",
			Check: func(ctx context.Context) error {
				// Create a new timer to measure the latency of the check.
				t := prometheus.NewTimer(monitoring.KVLatency.WithLabelValues("health_check", "health"))
				defer t.ObserveDuration()
				monitoring.KVTotalRequests.WithLabelValues("health_check", "health").Inc()

				if err := a.store.Health(ctx); err != nil {
					return fmt.Errorf("failed to ping KV store: %w", err)
				}
				return nil
			},
			Timeout: 2 * time.Second,
			StatusListener: func(ctx context.Context, name string, state health.CheckState) {
				a.l.Info("KV store health check status changed",
					slog.String("name", name),
					slog.String("state", string(state.Status)),
				)
			},
		}),

		// Monitor the health of the Discord API.
		health.WithPeriodicCheck(15*time.Second, 5*time.Second, health.Check{
			Name: "Discord_API",
			Check: func(ctx context.Context) error {
				if _, err := a.Session().GatewayBot(); err != nil {
					return fmt.Errorf("failed to ping Discord API: %w", err)
				}
				return nil
			},
			Timeout: 3 * time.Second,
			StatusListener: func(ctx context.Context, name string, state health.CheckState) {
				a.l.Info("Discord API health check status changed",
					slog.String("name", name),
					slog.String("state", string(state.Status)),
				)
			},
		}),
	)

	return Controller(health.NewHandler(checker))
}
