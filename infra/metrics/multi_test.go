package metrics

import (
	"testing"

	coremetrics "github.com/kilianp07/classgrid/core/metrics"
)

type recordSink struct {
	count int
}

func (r *recordSink) RecordUpstream(coremetrics.UpstreamEvent) error {
	r.count++
	return nil
}

func (r *recordSink) RecordLayout(coremetrics.LayoutEvent) error {
	r.count++
	return nil
}

func TestMultiSink(t *testing.T) {
	s1 := &recordSink{}
	s2 := &recordSink{}
	m := NewMultiSink(s1, s2)
	if err := m.RecordUpstream(coremetrics.UpstreamEvent{}); err != nil {
		t.Fatalf("record upstream: %v", err)
	}
	if err := m.RecordLayout(coremetrics.LayoutEvent{}); err != nil {
		t.Fatalf("record layout: %v", err)
	}
	if err := m.RecordLock(coremetrics.LockEvent{}); err != nil {
		t.Fatalf("record lock: %v", err)
	}
	if s1.count != 2 || s2.count != 2 {
		t.Fatalf("events not forwarded: %d %d", s1.count, s2.count)
	}
}

func TestBuild(t *testing.T) {
	sink, err := Build(coremetrics.Config{}, nil)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if _, ok := sink.(coremetrics.NopSink); !ok {
		t.Fatalf("expected nop sink, got %T", sink)
	}
	var logged int
	sink, err = Build(coremetrics.Config{LogEvents: true}, func(string, map[string]any) { logged++ })
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	_ = sink.RecordUpstream(coremetrics.UpstreamEvent{Service: coremetrics.ServiceCatalog})
	if logged != 1 {
		t.Fatalf("log sink not used")
	}
}
