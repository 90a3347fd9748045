// Package metrics defines the observability contract for the schedule
// browser. Sinks such as the Prometheus sink record upstream calls and
// session activity; optional recorder interfaces are detected with type
// assertions so a sink only implements what it cares about.
package metrics
