package metrics

import (
	"context"
	"time"

	"github.com/kilianp07/classgrid/core/events"
	coremetrics "github.com/kilianp07/classgrid/core/metrics"
	"github.com/kilianp07/classgrid/internal/eventbus"
)

// StartEventCollector subscribes to the event bus and records metrics for events.
// It stops when the context is canceled or the bus is closed.
func StartEventCollector(ctx context.Context, bus eventbus.EventBus, sink coremetrics.MetricsSink) {
	if bus == nil || sink == nil {
		return
	}
	sub := bus.Subscribe()
	go func() {
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				record(sink, ev, time.Now())
			}
		}
	}()
}

func record(sink coremetrics.MetricsSink, ev eventbus.Event, now time.Time) {
	switch e := ev.(type) {
	case events.GeneratedEvent:
		if r, ok := sink.(coremetrics.GenerationRecorder); ok {
			_ = r.RecordGeneration(coremetrics.GenerationEvent{Outcome: e.Outcome, Schedules: e.Schedules, Time: now})
		}
	case events.LockEvent:
		if r, ok := sink.(coremetrics.LockRecorder); ok {
			_ = r.RecordLock(coremetrics.LockEvent{Locked: e.Locked, Filtered: e.Filtered, Time: now})
		}
	case events.LayoutEvent:
		if r, ok := sink.(coremetrics.LayoutRecorder); ok {
			_ = r.RecordLayout(coremetrics.LayoutEvent{Outcome: e.Outcome, Dropped: e.Dropped, Time: now})
		}
	}
}
