package domain

import "time"

// ScheduleProposal is one block placement extracted from generation output.
// It is never persisted; it is turned into an Assignment on the referenced task.
type ScheduleProposal struct {
	TaskID    int64
	Date      time.Time
	StartTime ClockTime
	Duration  time.Duration
}

// Assignment converts the proposal into the block that will be stored.
func (p ScheduleProposal) Assignment() Assignment {
	return Assignment{
		Date:      p.Date,
		StartTime: p.StartTime,
		Duration:  p.Duration,
	}
}
