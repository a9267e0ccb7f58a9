package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTask(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	due := time.Date(2025, time.June, 1, 23, 59, 0, 0, time.UTC)

	task, err := NewTask(userID, "  Essay draft ", "chapter 3", due, PriorityHighest)
	require.NoError(t, err)

	assert.Zero(t, task.ID, "ID is allocated by the store")
	assert.Equal(t, "Essay draft", task.Name)
	assert.Equal(t, time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC), task.DueDate)
	assert.False(t, task.IsDeleted)
	assert.Zero(t, task.RecurFrequency)
	assert.Nil(t, task.Assignment)
	assert.Equal(t, TaskSourceManual, task.Source)
	assert.False(t, task.IsScheduled())
}

func TestTaskValidate(t *testing.T) {
	t.Parallel()

	base := Task{
		UserID:   uuid.New(),
		Name:     "Lab report",
		DueDate:  time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC),
		Priority: PriorityMedium,
		Source:   TaskSourceManual,
	}

	tests := []struct {
		name    string
		mutate  func(t *Task)
		wantErr error
	}{
		{"valid", func(t *Task) {}, nil},
		{"nil user", func(t *Task) { t.UserID = uuid.Nil }, ErrEmptyTaskUserID},
		{"empty name", func(t *Task) { t.Name = "" }, ErrEmptyTaskName},
		{"no due date", func(t *Task) { t.DueDate = time.Time{} }, ErrEmptyDueDate},
		{"priority too low", func(t *Task) { t.Priority = 0 }, ErrInvalidPriority},
		{"priority too high", func(t *Task) { t.Priority = 4 }, ErrInvalidPriority},
		{"unknown source", func(t *Task) { t.Source = "email" }, ErrInvalidTaskSource},
		{"negative recurrence", func(t *Task) { t.RecurFrequency = -1 }, ErrNegativeRecurrence},
		{"partial assignment", func(t *Task) { t.Assignment = &Assignment{Duration: time.Hour} }, ErrInvalidAssignment},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			task := base
			tc.mutate(&task)
			err := task.Validate()
			if tc.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestTaskAssign(t *testing.T) {
	t.Parallel()

	task := Task{UserID: uuid.New(), Name: "Reading", DueDate: time.Now(), Priority: 1}

	err := task.Assign(Assignment{Date: time.Date(2025, 5, 30, 0, 0, 0, 0, time.UTC)})
	require.ErrorIs(t, err, ErrInvalidAssignment)
	assert.Nil(t, task.Assignment, "a rejected block must leave the task unscheduled")

	block := Assignment{
		Date:      time.Date(2025, 5, 30, 15, 0, 0, 0, time.UTC),
		StartTime: ClockTime{Hour: 9},
		Duration:  2 * time.Hour,
	}
	require.NoError(t, task.Assign(block))
	require.NotNil(t, task.Assignment)
	assert.Equal(t, time.Date(2025, 5, 30, 0, 0, 0, 0, time.UTC), task.Assignment.Date)
	assert.Equal(t, time.Date(2025, 5, 30, 11, 0, 0, 0, time.UTC), task.Assignment.End())
}

func TestIsSchedulable(t *testing.T) {
	t.Parallel()

	assert.True(t, IsSchedulable(Task{}))
	assert.False(t, IsSchedulable(Task{IsDeleted: true}))
	assert.False(t, IsSchedulable(Task{RecurFrequency: 7}))
}

func TestParseClockTime(t *testing.T) {
	t.Parallel()

	c, err := ParseClockTime("09:30:00")
	require.NoError(t, err)
	assert.Equal(t, ClockTime{Hour: 9, Minute: 30}, c)
	assert.Equal(t, "09:30:00", c.String())
	assert.Equal(t, "09:30", c.HHMM())
	assert.Equal(t, 9*time.Hour+30*time.Minute, c.Offset())

	for _, bad := range []string{"24:00:00", "9:30", "09:60:00", "noon"} {
		_, err := ParseClockTime(bad)
		assert.ErrorIs(t, err, ErrInvalidFormat, bad)
	}
}
