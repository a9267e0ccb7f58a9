//go:build integration

package postgres

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/phrazzld/aiplanner/internal/domain"
	"github.com/phrazzld/aiplanner/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// Requires PLANNER_TEST_DATABASE_URL pointing at a disposable database.
func TestStores_Integration(t *testing.T) {
	dbURL := os.Getenv("PLANNER_TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("PLANNER_TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := Open(ctx, dbURL)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, Migrate(db, "up", discardLogger()))

	users := NewPostgresUserStore(db, bcrypt.MinCost, discardLogger())
	tasks := NewPostgresTaskStore(db, discardLogger())

	user, err := domain.NewUser("it-"+time.Now().Format("150405.000000"), "integration-password", time.Now().UnixNano())
	require.NoError(t, err)
	require.NoError(t, users.Create(ctx, user))

	due := domain.TruncateToDay(time.Now().Add(72 * time.Hour))

	t.Run("concurrent imports of the same assignment create one task", func(t *testing.T) {
		var wg sync.WaitGroup
		errs := make([]error, 4)
		for i := range errs {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				task, err := domain.NewTask(user.ID, "Problem set", "", due, domain.PriorityLowest)
				if err != nil {
					errs[i] = err
					return
				}
				task.Source = domain.TaskSourceCanvas
				errs[i] = tasks.CreateTask(ctx, task)
			}(i)
		}
		wg.Wait()

		created := 0
		for _, err := range errs {
			if err == nil {
				created++
				continue
			}
			assert.ErrorIs(t, err, store.ErrImportedTaskExists)
		}
		assert.Equal(t, 1, created)
	})

	t.Run("assignment round trip", func(t *testing.T) {
		task, err := domain.NewTask(user.ID, "Lab", "", due, domain.PriorityHighest)
		require.NoError(t, err)
		require.NoError(t, tasks.CreateTask(ctx, task))
		require.NotZero(t, task.ID)

		block := domain.Assignment{Date: due, StartTime: domain.ClockTime{Hour: 14}, Duration: 3 * time.Hour}
		require.NoError(t, tasks.UpdateTaskAssignment(ctx, user.ID, task.ID, block))

		got, err := tasks.GetTaskByID(ctx, task.ID)
		require.NoError(t, err)
		require.NotNil(t, got.Assignment)
		assert.Equal(t, block.StartTime, got.Assignment.StartTime)
		assert.Equal(t, block.Duration, got.Assignment.Duration)
		assert.True(t, block.Date.Equal(got.Assignment.Date))

		found, err := tasks.FindByDedupKey(ctx, user.ID, "Lab", due.Add(5*time.Hour))
		require.NoError(t, err)
		assert.Equal(t, task.ID, found.ID)
	})
}
