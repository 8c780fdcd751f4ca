// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/push"

	"github.com/staranto/tabfeat/internal/transform"
)

const namespace = "tabfeat"

// Collector holds the run metrics on a private registry.
type Collector struct {
	registry    *prometheus.Registry
	rowsRead    prometheus.Counter
	rowsWritten prometheus.Counter
	rowsDropped *prometheus.CounterVec
	stageTime   *prometheus.GaugeVec
	lastSuccess prometheus.Gauge
}

// NewCollector returns a collector with every metric registered.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		rowsRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_read_total",
			Help:      "Rows read from the input dataset.",
		}),
		rowsWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_written_total",
			Help:      "Rows written to the output dataset.",
		}),
		rowsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_dropped_total",
			Help:      "Rows removed, by stage.",
		}, []string{"stage"}),
		stageTime: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Wall time of the last run of each stage.",
		}, []string{"stage"}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful run.",
		}),
	}
	c.registry.MustRegister(c.rowsRead, c.rowsWritten, c.rowsDropped, c.stageTime, c.lastSuccess)
	return c
}

// Registry exposes the underlying registry.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// Read records rows loaded from the input.
func (c *Collector) Read(rows int) { c.rowsRead.Add(float64(rows)) }

// Stages records the per-stage results of a run.
func (c *Collector) Stages(results []transform.StageResult) {
	for _, r := range results {
		if d := r.Dropped(); d > 0 {
			c.rowsDropped.WithLabelValues(r.Name).Add(float64(d))
		}
		c.stageTime.WithLabelValues(r.Name).Set(r.Duration.Seconds())
	}
}

// Written records rows written and marks the run successful at t.
func (c *Collector) Written(rows int, t time.Time) {
	c.rowsWritten.Add(float64(rows))
	c.lastSuccess.Set(float64(t.Unix()))
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Push sends every metric to the Pushgateway at url, grouped under job.
func (c *Collector) Push(ctx context.Context, url, job string) error {
	if err := push.New(url, job).Gatherer(c.registry).PushContext(ctx); err != nil {
		return fmt.Errorf("push metrics to %s: %w", url, err)
	}
	return nil
}
