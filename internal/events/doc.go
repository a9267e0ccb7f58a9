// Package events provides types and interfaces for an event-driven architecture.
//
// Services emit events after they change a user's tasks without knowing which
// handlers process them. The task view refresh signal and the calendar
// publisher are both driven this way.
//
// The primary components are:
// - Event: a typed notification scoped to one user, with a JSON payload
// - EventHandler: Interface for components that can handle events
// - EventEmitter: Interface for components that can emit events
package events
