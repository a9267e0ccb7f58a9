// Package gcal publishes assigned task blocks to a Google Calendar. Each task
// maps to at most one calendar event, found again through a private extended
// property holding the task ID, so re-scheduling a task moves its event
// instead of adding a second one.
package gcal
