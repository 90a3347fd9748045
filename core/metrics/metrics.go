package metrics

import "time"

// Upstream services.
const (
	ServiceGenerator = "generator"
	ServiceCatalog   = "catalog"
)

// Upstream outcomes.
const (
	UpstreamOK     = "ok"
	UpstreamCached = "cached"
	UpstreamError  = "error"
)

// UpstreamEvent records one call to an external service.
type UpstreamEvent struct {
	Service  string
	Outcome  string
	Duration time.Duration
	Time     time.Time
}

// MetricsSink records upstream calls for observability purposes.
type MetricsSink interface {
	RecordUpstream(ev UpstreamEvent) error
}

// GenerationEvent captures the outcome of a session generation request.
type GenerationEvent struct {
	Outcome   string
	Schedules int
	Time      time.Time
}

// GenerationRecorder records generation outcomes.
type GenerationRecorder interface {
	RecordGeneration(ev GenerationEvent) error
}

// LockEvent captures a lock toggle and the size of the resulting filtered list.
type LockEvent struct {
	Locked   bool
	Filtered int
	Time     time.Time
}

// LockRecorder records lock toggles.
type LockRecorder interface {
	RecordLock(ev LockEvent) error
}

// LayoutEvent captures one grid layout.
type LayoutEvent struct {
	Outcome string
	Dropped int
	Time    time.Time
}

// LayoutRecorder records grid layouts.
type LayoutRecorder interface {
	RecordLayout(ev LayoutEvent) error
}

// NopSink implements every recorder with no-op methods.
type NopSink struct{}

func (NopSink) RecordUpstream(UpstreamEvent) error     { return nil }
func (NopSink) RecordGeneration(GenerationEvent) error { return nil }
func (NopSink) RecordLock(LockEvent) error             { return nil }
func (NopSink) RecordLayout(LayoutEvent) error         { return nil }
