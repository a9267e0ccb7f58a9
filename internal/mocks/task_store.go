package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/aiplanner/internal/domain"
	"github.com/phrazzld/aiplanner/internal/store"
)

// MockTaskStore is an in-memory store.TaskStore. A mutex serialises every
// operation, and IDs are allocated from a counter starting at 1.
type MockTaskStore struct {
	// Function fields for customizable behavior
	CreateTaskFn           func(ctx context.Context, task *domain.Task) error
	GetTaskByIDFn          func(ctx context.Context, id int64) (*domain.Task, error)
	UpdateTaskAssignmentFn func(ctx context.Context, userID uuid.UUID, id int64, a domain.Assignment) error
	ListTasksForUserFn     func(ctx context.Context, userID uuid.UUID, includeDeleted bool) ([]*domain.Task, error)

	mu     sync.Mutex
	tasks  map[int64]*domain.Task
	nextID int64

	// UpdateCalls counts UpdateTaskAssignment invocations.
	UpdateCalls int
}

var _ store.TaskStore = (*MockTaskStore)(nil)

// NewMockTaskStore creates an empty store.
func NewMockTaskStore() *MockTaskStore {
	return &MockTaskStore{tasks: make(map[int64]*domain.Task)}
}

// Seed stores copies of the given tasks as-is, allocating IDs for tasks that
// have none. It returns the stored IDs in order.
func (m *MockTaskStore) Seed(tasks ...domain.Task) []int64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]int64, 0, len(tasks))
	for i := range tasks {
		t := tasks[i]
		if t.ID == 0 {
			m.nextID++
			t.ID = m.nextID
		} else if t.ID > m.nextID {
			m.nextID = t.ID
		}
		m.tasks[t.ID] = cloneTask(&t)
		ids = append(ids, t.ID)
	}
	return ids
}

// Len returns the number of stored tasks, deleted ones included.
func (m *MockTaskStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tasks)
}

// CreateTask implements store.TaskStore.
func (m *MockTaskStore) CreateTask(ctx context.Context, task *domain.Task) error {
	if m.CreateTaskFn != nil {
		return m.CreateTaskFn(ctx, task)
	}

	if err := task.Validate(); err != nil {
		return store.NewStoreError("task", "create", "validation failed", store.ErrInvalidEntity)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if task.Source == domain.TaskSourceCanvas {
		for _, existing := range m.tasks {
			if existing.Source == domain.TaskSourceCanvas && sameDedupKey(existing, task.UserID, task.Name, task.DueDate) {
				return store.ErrImportedTaskExists
			}
		}
	}

	m.nextID++
	task.ID = m.nextID
	m.tasks[task.ID] = cloneTask(task)
	return nil
}

// GetTaskByID implements store.TaskStore.
func (m *MockTaskStore) GetTaskByID(ctx context.Context, id int64) (*domain.Task, error) {
	if m.GetTaskByIDFn != nil {
		return m.GetTaskByIDFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	task, ok := m.tasks[id]
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	return cloneTask(task), nil
}

// UpdateTaskAssignment implements store.TaskStore.
func (m *MockTaskStore) UpdateTaskAssignment(
	ctx context.Context,
	userID uuid.UUID,
	id int64,
	a domain.Assignment,
) error {
	m.mu.Lock()
	m.UpdateCalls++
	m.mu.Unlock()

	if m.UpdateTaskAssignmentFn != nil {
		return m.UpdateTaskAssignmentFn(ctx, userID, id, a)
	}

	if err := a.Validate(); err != nil {
		return store.NewStoreError("task", "update_assignment", "invalid block", store.ErrInvalidEntity)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	task, ok := m.tasks[id]
	if !ok || task.UserID != userID {
		return store.ErrTaskNotFound
	}
	a.Date = domain.TruncateToDay(a.Date)
	task.Assignment = &a
	task.UpdatedAt = time.Now().UTC()
	return nil
}

// ListTasksForUser implements store.TaskStore.
func (m *MockTaskStore) ListTasksForUser(
	ctx context.Context,
	userID uuid.UUID,
	includeDeleted bool,
) ([]*domain.Task, error) {
	if m.ListTasksForUserFn != nil {
		return m.ListTasksForUserFn(ctx, userID, includeDeleted)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*domain.Task
	for _, task := range m.tasks {
		if task.UserID != userID || (task.IsDeleted && !includeDeleted) {
			continue
		}
		out = append(out, cloneTask(task))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].DueDate.Equal(out[j].DueDate) {
			return out[i].DueDate.Before(out[j].DueDate)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// FindByDedupKey implements store.TaskStore.
func (m *MockTaskStore) FindByDedupKey(
	ctx context.Context,
	userID uuid.UUID,
	name string,
	dueDate time.Time,
) (*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, task := range m.tasks {
		if sameDedupKey(task, userID, name, dueDate) {
			return cloneTask(task), nil
		}
	}
	return nil, store.ErrTaskNotFound
}

// SoftDelete implements store.TaskStore.
func (m *MockTaskStore) SoftDelete(ctx context.Context, userID uuid.UUID, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	task, ok := m.tasks[id]
	if !ok || task.UserID != userID {
		return store.ErrTaskNotFound
	}
	task.IsDeleted = true
	return nil
}

func sameDedupKey(task *domain.Task, userID uuid.UUID, name string, dueDate time.Time) bool {
	return task.UserID == userID &&
		task.Name == name &&
		task.DueDate.Equal(domain.TruncateToDay(dueDate))
}

func cloneTask(t *domain.Task) *domain.Task {
	c := *t
	if t.Assignment != nil {
		a := *t.Assignment
		c.Assignment = &a
	}
	return &c
}
