// Package events defines the browsing session events emitted on the event bus.
//
// Available event types:
//   - GeneratedEvent: a generation request finished
//   - LockEvent: a section was locked or unlocked
//   - LayoutEvent: the current schedule was laid out
package events
