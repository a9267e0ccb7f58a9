// Package domain contains the core entities of the planner: users, tasks and
// the calendar blocks assigned to them, together with the value types used to
// describe a proposed schedule. It has no knowledge of storage, transport or
// the external services that feed it.
package domain
