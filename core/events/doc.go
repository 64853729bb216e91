// Package events defines the events emitted on the plan event bus.
//
// Available event types:
//   - PlanComputed: a production plan was computed for a request
package events
