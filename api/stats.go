package api

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// engineStats exports engine events as prometheus metrics.
type engineStats struct {
	rowsLoaded       prometheus.Counter
	dataUnavailable  prometheus.Counter
	scheduleMismatch prometheus.Counter
	invalidOrder     prometheus.Counter
	advanceLatency   prometheus.Histogram
	windowRows       prometheus.Gauge
	sessions         prometheus.Gauge
}

func newEngineStats(reg prometheus.Registerer) *engineStats {
	s := &engineStats{
		rowsLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "roarscore",
			Name:      "detection_rows_loaded_total",
			Help:      "Detection rows fetched and scored.",
		}),
		dataUnavailable: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "roarscore",
			Name:      "detection_data_unavailable_total",
			Help:      "Schedule segments whose detection file could not be loaded.",
		}),
		scheduleMismatch: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "roarscore",
			Name:      "schedule_mismatch_total",
			Help:      "Loaded segments whose rows disagree with the schedule.",
		}),
		invalidOrder: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "roarscore",
			Name:      "invalid_order_total",
			Help:      "Rejected batches and clock ticks that went backwards.",
		}),
		advanceLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "roarscore",
			Name:      "advance_duration_seconds",
			Help:      "Time spent recomputing a session on a clock tick.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		windowRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "roarscore",
			Name:      "window_rows",
			Help:      "Rows inside the window on the latest tick of any session.",
		}),
		sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "roarscore",
			Name:      "sessions",
			Help:      "Open scoring sessions.",
		}),
	}

	reg.MustRegister(
		s.rowsLoaded,
		s.dataUnavailable,
		s.scheduleMismatch,
		s.invalidOrder,
		s.advanceLatency,
		s.windowRows,
		s.sessions,
	)
	return s
}

func (s *engineStats) RowsLoaded(n int) {
	s.rowsLoaded.Add(float64(n))
}

func (s *engineStats) DataUnavailable() {
	s.dataUnavailable.Inc()
}

func (s *engineStats) ScheduleMismatch() {
	s.scheduleMismatch.Inc()
}

func (s *engineStats) InvalidOrder() {
	s.invalidOrder.Inc()
}

func (s *engineStats) Advanced(d time.Duration, rows int) {
	s.advanceLatency.Observe(d.Seconds())
	s.windowRows.Set(float64(rows))
}
