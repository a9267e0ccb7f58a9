// Package service contains the planner's use cases. It coordinates the
// domain types, the stores in internal/store and the external boundaries
// (course service, generation service) to import tasks, schedule them and
// manage users.
//
// Every operation takes the acting user's ID as an explicit parameter; the
// package keeps no per-user state between calls. Record-local failures inside
// a batch (one bad assignment, one unparseable block) are counted and logged
// without aborting the batch, while precondition failures such as a rejected
// access token abort immediately.
package service
