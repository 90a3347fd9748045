package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/classgrid/core/metrics"
)

// PromSink records upstream calls and session activity in Prometheus metrics.
type PromSink struct {
	upstream    *prometheus.CounterVec
	latency     *prometheus.HistogramVec
	generations *prometheus.CounterVec
	schedules   prometheus.Histogram
	locks       *prometheus.CounterVec
	layouts     *prometheus.CounterVec
	dropped     prometheus.Counter
}

// NewPromSink registers metrics on the default Prometheus registerer.
// The Prometheus server should be started separately using cfg.PrometheusPort.
func NewPromSink(cfg coremetrics.Config) (*PromSink, error) {
	return NewPromSinkWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(_ coremetrics.Config, reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{
		upstream: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "classgrid_upstream_requests_total",
			Help: "Calls to the generation and catalog services",
		}, []string{"service", "outcome"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "classgrid_upstream_latency_seconds",
			Help:    "Latency of calls to the generation and catalog services",
			Buckets: prometheus.DefBuckets,
		}, []string{"service"}),
		generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "classgrid_generations_total",
			Help: "Generation requests by outcome",
		}, []string{"outcome"}),
		schedules: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "classgrid_generated_schedules",
			Help:    "Number of schedules returned per successful generation",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		}),
		locks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "classgrid_lock_toggles_total",
			Help: "Section lock toggles",
		}, []string{"locked"}),
		layouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "classgrid_layouts_total",
			Help: "Grid layouts by outcome",
		}, []string{"outcome"}),
		dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "classgrid_layout_dropped_blocks_total",
			Help: "Meeting blocks left off the grid because of bad weekday data",
		}),
	}
	var err error
	if s.upstream, err = register(reg, s.upstream); err != nil {
		return nil, err
	}
	if s.latency, err = register(reg, s.latency); err != nil {
		return nil, err
	}
	if s.generations, err = register(reg, s.generations); err != nil {
		return nil, err
	}
	if s.schedules, err = register(reg, s.schedules); err != nil {
		return nil, err
	}
	if s.locks, err = register(reg, s.locks); err != nil {
		return nil, err
	}
	if s.layouts, err = register(reg, s.layouts); err != nil {
		return nil, err
	}
	if s.dropped, err = register(reg, s.dropped); err != nil {
		return nil, err
	}
	return s, nil
}

// register returns the already registered collector when c was registered
// before, so several sinks can share one registry.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordUpstream counts the call and observes its latency.
func (s *PromSink) RecordUpstream(ev coremetrics.UpstreamEvent) error {
	s.upstream.WithLabelValues(ev.Service, ev.Outcome).Inc()
	if ev.Outcome != coremetrics.UpstreamCached {
		s.latency.WithLabelValues(ev.Service).Observe(ev.Duration.Seconds())
	}
	return nil
}

// RecordGeneration counts the outcome and the number of schedules returned.
func (s *PromSink) RecordGeneration(ev coremetrics.GenerationEvent) error {
	s.generations.WithLabelValues(ev.Outcome).Inc()
	if ev.Schedules > 0 {
		s.schedules.Observe(float64(ev.Schedules))
	}
	return nil
}

// RecordLock counts lock toggles.
func (s *PromSink) RecordLock(ev coremetrics.LockEvent) error {
	s.locks.WithLabelValues(strconv.FormatBool(ev.Locked)).Inc()
	return nil
}

// RecordLayout counts layouts and dropped blocks.
func (s *PromSink) RecordLayout(ev coremetrics.LayoutEvent) error {
	s.layouts.WithLabelValues(ev.Outcome).Inc()
	if ev.Dropped > 0 {
		s.dropped.Add(float64(ev.Dropped))
	}
	return nil
}
