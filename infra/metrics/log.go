package metrics

import coremetrics "github.com/kilianp07/classgrid/core/metrics"

// LogFunc receives a message and its structured fields.
type LogFunc func(msg string, fields map[string]any)

// LogSink writes every event through a structured log function.
type LogSink struct {
	log LogFunc
}

// NewLogSink returns a LogSink; typically fed with a logger's Debugw.
func NewLogSink(log LogFunc) *LogSink { return &LogSink{log: log} }

func (s *LogSink) RecordUpstream(ev coremetrics.UpstreamEvent) error {
	s.log("upstream call", map[string]any{
		"service":     ev.Service,
		"outcome":     ev.Outcome,
		"duration_ms": ev.Duration.Milliseconds(),
	})
	return nil
}

func (s *LogSink) RecordGeneration(ev coremetrics.GenerationEvent) error {
	s.log("generation", map[string]any{"outcome": ev.Outcome, "schedules": ev.Schedules})
	return nil
}

func (s *LogSink) RecordLock(ev coremetrics.LockEvent) error {
	s.log("lock toggled", map[string]any{"locked": ev.Locked, "filtered": ev.Filtered})
	return nil
}

func (s *LogSink) RecordLayout(ev coremetrics.LayoutEvent) error {
	s.log("layout", map[string]any{"outcome": ev.Outcome, "dropped": ev.Dropped})
	return nil
}
