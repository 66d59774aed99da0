// internal/export/export.go

// Package export publishes probe results over HTTP: Prometheus
// metrics for alerting and a small JSON API for tooling.
package export

import (
	"context"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/tamzrod/faulttrace/internal/probe"
)

// Exporter aggregates the latest probe result per device.
type Exporter struct {
	mu     sync.Mutex
	latest map[string]probe.Result

	registry *prometheus.Registry

	faulted     *prometheus.GaugeVec
	failCount   *prometheus.GaugeVec
	probeErrors *prometheus.CounterVec
	lastProbe   *prometheus.GaugeVec
}

// New creates an exporter with its own metric registry.
func New() *Exporter {
	e := &Exporter{
		latest:   make(map[string]probe.Result),
		registry: prometheus.NewRegistry(),

		faulted: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "faulttrace_device_faulted",
			Help: "1 while the device's record region holds a fault record.",
		}, []string{"device", "cause"}),

		failCount: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "faulttrace_fail_count",
			Help: "Failures recorded since the last firmware upload.",
		}, []string{"device"}),

		probeErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "faulttrace_probe_errors_total",
			Help: "Probe cycles that failed at the transport.",
		}, []string{"device"}),

		lastProbe: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "faulttrace_last_probe_timestamp_seconds",
			Help: "Unix time of the last completed probe cycle.",
		}, []string{"device"}),
	}

	e.registry.MustRegister(e.faulted, e.failCount, e.probeErrors, e.lastProbe)
	return e
}

// Observe folds one probe result into the exported state.
func (e *Exporter) Observe(res probe.Result) {
	e.mu.Lock()
	e.latest[res.DeviceID] = res
	e.mu.Unlock()

	e.lastProbe.WithLabelValues(res.DeviceID).Set(float64(res.At.Unix()))

	if res.Err != nil {
		e.probeErrors.WithLabelValues(res.DeviceID).Inc()
		return
	}

	// One cause label active at a time.
	e.faulted.DeletePartialMatch(prometheus.Labels{"device": res.DeviceID})
	if res.Found {
		e.faulted.WithLabelValues(res.DeviceID, res.Rec.Cause.String()).Set(1)
		e.failCount.WithLabelValues(res.DeviceID).Set(float64(res.Rec.FailCount))
	} else {
		e.failCount.WithLabelValues(res.DeviceID).Set(0)
	}
}

// Consume observes results until ctx is done or in closes.
func (e *Exporter) Consume(ctx context.Context, in <-chan probe.Result) {
	for {
		select {
		case <-ctx.Done():
			return
		case res, ok := <-in:
			if !ok {
				return
			}
			e.Observe(res)
		}
	}
}

func (e *Exporter) snapshot() []probe.Result {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]probe.Result, 0, len(e.latest))
	for _, res := range e.latest {
		out = append(out, res)
	}
	return out
}

func (e *Exporter) result(deviceID string) (probe.Result, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	res, ok := e.latest[deviceID]
	return res, ok
}
