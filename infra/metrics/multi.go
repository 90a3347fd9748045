package metrics

import coremetrics "github.com/kilianp07/classgrid/core/metrics"

// MultiSink fans events out to multiple sinks.
type MultiSink struct {
	Sinks []coremetrics.MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...coremetrics.MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordUpstream forwards the event to all sinks, returning the first error encountered.
func (m *MultiSink) RecordUpstream(ev coremetrics.UpstreamEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordUpstream(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordGeneration forwards generation outcomes.
func (m *MultiSink) RecordGeneration(ev coremetrics.GenerationEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(coremetrics.GenerationRecorder); ok {
			if err := rec.RecordGeneration(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordLock forwards lock toggles.
func (m *MultiSink) RecordLock(ev coremetrics.LockEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(coremetrics.LockRecorder); ok {
			if err := rec.RecordLock(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordLayout forwards layout outcomes.
func (m *MultiSink) RecordLayout(ev coremetrics.LayoutEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(coremetrics.LayoutRecorder); ok {
			if err := rec.RecordLayout(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// Build assembles the sinks enabled in cfg. It returns a NopSink when none
// are enabled and the single sink when only one is.
func Build(cfg coremetrics.Config, log LogFunc) (coremetrics.MetricsSink, error) {
	var sinks []coremetrics.MetricsSink
	if cfg.PrometheusEnabled {
		sink, err := NewPromSink(cfg)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, sink)
	}
	if cfg.LogEvents && log != nil {
		sinks = append(sinks, NewLogSink(log))
	}
	switch len(sinks) {
	case 0:
		return coremetrics.NopSink{}, nil
	case 1:
		return sinks[0], nil
	default:
		return NewMultiSink(sinks...), nil
	}
}
