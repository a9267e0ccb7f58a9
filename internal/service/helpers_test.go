package service_test

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/aiplanner/internal/domain"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func strPtr(s string) *string { return &s }

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newOwner(t *testing.T, canvasHashID int64) *domain.User {
	t.Helper()
	u, err := domain.NewUser("student"+uuid.NewString()[:8], "correct-horse-battery", canvasHashID)
	require.NoError(t, err)
	return u
}

func pendingTask(owner uuid.UUID, name string, due time.Time, priority int) domain.Task {
	return domain.Task{
		UserID:   owner,
		Name:     name,
		DueDate:  due,
		Priority: priority,
		Source:   domain.TaskSourceManual,
	}
}
