package generation

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/phrazzld/aiplanner/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestParser() *ResponseParser {
	return NewResponseParser(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func block(id int, date, start, hours string) string {
	return fmt.Sprintf("task_id = %d\ntask_name = 'Task %d'\nassigned_block_date = %s\nassigned_block_start_time = %s\nassigned_block_duration = %s\n",
		id, id, date, start, hours)
}

func TestParse_ExtractsEveryWellFormedBlock(t *testing.T) {
	t.Parallel()

	for _, n := range []int{0, 1, 3, 12} {
		t.Run(fmt.Sprintf("%d blocks", n), func(t *testing.T) {
			var raw strings.Builder
			for i := 1; i <= n; i++ {
				raw.WriteString(block(i, "2026-11-02", "10:00", "2"))
				raw.WriteString("\n")
			}

			result := newTestParser().Parse(raw.String())

			require.Len(t, result.Proposals, n)
			assert.Empty(t, result.Dropped)
			for i, p := range result.Proposals {
				assert.Equal(t, int64(i+1), p.TaskID)
			}
		})
	}
}

func TestParse_BlockValues(t *testing.T) {
	t.Parallel()

	result := newTestParser().Parse(block(17, "2026-11-02", "13:30:45", "3"))

	require.Len(t, result.Proposals, 1)
	p := result.Proposals[0]
	assert.Equal(t, int64(17), p.TaskID)
	assert.Equal(t, time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC), p.Date)
	assert.Equal(t, domain.ClockTime{Hour: 13, Minute: 30}, p.StartTime, "seconds are discarded")
	assert.Equal(t, 3*time.Hour, p.Duration)
}

func TestParse_InvalidBlockIsIsolated(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		bad   string
		field string
	}{
		{"impossible date", block(2, "2026-02-30", "10:00", "2"), FieldDate},
		{"date layout", block(2, "02/11/2026", "10:00", "2"), FieldDate},
		{"hour out of range", block(2, "2026-11-02", "25:00", "2"), FieldStartTime},
		{"single digit hour", block(2, "2026-11-02", "9:00", "2"), FieldStartTime},
		{"duration with unit", block(2, "2026-11-02", "10:00", "2h"), FieldDuration},
		{"zero duration", block(2, "2026-11-02", "10:00", "0"), FieldDuration},
		{"over a day", block(2, "2026-11-02", "10:00", "30"), FieldDuration},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			raw := block(1, "2026-11-02", "09:00", "1") + tc.bad + block(3, "2026-11-03", "11:00", "2")

			result := newTestParser().Parse(raw)

			require.Len(t, result.Proposals, 2)
			assert.Equal(t, int64(1), result.Proposals[0].TaskID)
			assert.Equal(t, int64(3), result.Proposals[1].TaskID)
			require.Len(t, result.Dropped, 1)
			assert.Equal(t, "2", result.Dropped[0].TaskID)
			assert.Equal(t, tc.field, result.Dropped[0].Field)
		})
	}
}

func TestParse_IncompleteBlockDoesNotBorrowFields(t *testing.T) {
	t.Parallel()

	raw := "task_id = 4\nassigned_block_date = 2026-11-02\n\n" +
		block(5, "2026-11-04", "15:00", "1")

	result := newTestParser().Parse(raw)

	require.Len(t, result.Proposals, 1)
	assert.Equal(t, int64(5), result.Proposals[0].TaskID)
	assert.Equal(t, time.Date(2026, 11, 4, 0, 0, 0, 0, time.UTC), result.Proposals[0].Date)
	require.Len(t, result.Dropped, 1)
	assert.Equal(t, "4", result.Dropped[0].TaskID)
	assert.Empty(t, result.Dropped[0].Field)
}

func TestParse_TrailingIncompleteBlock(t *testing.T) {
	t.Parallel()

	result := newTestParser().Parse(block(1, "2026-11-02", "09:00", "1") + "task_id = 2\nassigned_block_date = 2026-11-03")

	assert.Len(t, result.Proposals, 1)
	assert.Len(t, result.Dropped, 1)
}

func TestParse_ToleratesNoise(t *testing.T) {
	t.Parallel()

	raw := "Here's the schedule you asked for!\n\n" +
		"**Task 1**\ntask_id = 8,\nassigned_block_date = '2026-11-05'\nsome commentary\n" +
		"assigned_block_start_time = \"14:00\".\nassigned_block_duration = 2 hours\n\n" +
		"Let me know if you'd like any adjustments."

	result := newTestParser().Parse(raw)

	require.Len(t, result.Proposals, 1)
	assert.Equal(t, int64(8), result.Proposals[0].TaskID)
	assert.Equal(t, domain.ClockTime{Hour: 14}, result.Proposals[0].StartTime)
	assert.Equal(t, 2*time.Hour, result.Proposals[0].Duration)
}

func TestParse_OutOfOrderFieldsAreIgnored(t *testing.T) {
	t.Parallel()

	raw := "task_id = 6\nassigned_block_start_time = 10:00\nassigned_block_date = 2026-11-02\n" +
		"assigned_block_duration = 2\n"

	result := newTestParser().Parse(raw)

	assert.Empty(t, result.Proposals)
	require.Len(t, result.Dropped, 1)
	assert.Equal(t, "6", result.Dropped[0].TaskID)
}

func TestParse_EmptyInput(t *testing.T) {
	t.Parallel()

	result := newTestParser().Parse("")

	assert.NotNil(t, result.Proposals)
	assert.Empty(t, result.Proposals)
	assert.Empty(t, result.Dropped)
}

func TestRender(t *testing.T) {
	t.Parallel()

	result := newTestParser().Parse(block(1, "2026-11-02", "09:00:00", "2") + block(2, "2026-11-03", "16:00", "1"))

	want := "task_id: 1\n" +
		"assigned_block_date: 2026-11-02\n" +
		"assigned_block_start_time: 09:00\n" +
		"assigned_block_duration: 2\n" +
		"task_id: 2\n" +
		"assigned_block_date: 2026-11-03\n" +
		"assigned_block_start_time: 16:00\n" +
		"assigned_block_duration: 1\n"
	assert.Equal(t, want, Render(result.Proposals))
	assert.Empty(t, Render(nil))
}
