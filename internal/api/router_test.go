package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/phrazzld/aiplanner/internal/api"
	"github.com/phrazzld/aiplanner/internal/api/shared"
	"github.com/phrazzld/aiplanner/internal/config"
	"github.com/phrazzld/aiplanner/internal/generation"
	"github.com/phrazzld/aiplanner/internal/mocks"
	"github.com/phrazzld/aiplanner/internal/platform/canvas"
	"github.com/phrazzld/aiplanner/internal/service"
	"github.com/phrazzld/aiplanner/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	*httptest.Server
	tasks   *mocks.MockTaskStore
	courses *mocks.MockCourseClient
	gen     *mocks.MockGenerator
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	users := mocks.NewMockUserStore()
	tasks := mocks.NewMockTaskStore()
	courses := &mocks.MockCourseClient{
		Courses: []canvas.Course{{ID: 1, Name: "Chemistry"}},
		Assignments: map[int64][]canvas.ExternalAssignment{
			1: {{ID: 100, Name: "Problem set", DueAt: strPtr("2099-04-01T23:59:00Z")}},
		},
	}
	gen := &mocks.MockGenerator{}

	tokens, err := auth.NewJWTService(config.AuthConfig{
		JWTSecret:            "router-test-secret-of-at-least-32-chars",
		TokenLifetimeMinutes: 5,
	})
	require.NoError(t, err)

	builder, err := generation.NewRequestBuilder("")
	require.NoError(t, err)
	assigner := service.NewBlockAssigner(tasks, nil, log)

	handler := api.NewRouter(api.RouterDeps{
		Users:   service.NewUserService(users, auth.NewBcryptVerifier(), tokens, log),
		Tasks:   service.NewTaskService(tasks, log),
		Imports: service.NewImportService(users, courses, service.NewImportReconciler(tasks, log), nil, 2, log),
		Schedules: service.NewScheduleService(tasks, builder, gen,
			generation.NewResponseParser(log), assigner, time.Minute, log),
		Tokens: tokens,
		Logger: log,
	})

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return &testServer{Server: srv, tasks: tasks, courses: courses, gen: gen}
}

func strPtr(s string) *string { return &s }

func (s *testServer) do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, s.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func (s *testServer) login(t *testing.T) string {
	t.Helper()
	resp := s.do(t, http.MethodPost, "/api/auth/register", "", api.RegisterRequest{
		Username: "ada", Password: "correct-horse-battery", CanvasHashID: 99,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = s.do(t, http.MethodPost, "/api/auth/login", "", api.LoginRequest{
		Username: "ada", Password: "correct-horse-battery",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	auth := decode[api.AuthResponse](t, resp)
	require.NotEmpty(t, auth.Token)
	return auth.Token
}

func TestHealth(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	resp := s.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAuthFlow(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	s.login(t)

	resp := s.do(t, http.MethodPost, "/api/auth/login", "", api.LoginRequest{Username: "ada", Password: "wrong-password!"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = s.do(t, http.MethodPost, "/api/auth/register", "", api.RegisterRequest{
		Username: "ada", Password: "correct-horse-battery", CanvasHashID: 100,
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = s.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{"username": "bob", "password": "short"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = s.do(t, http.MethodGet, "/api/tasks", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestTaskEndpoints(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	token := s.login(t)

	resp := s.do(t, http.MethodPost, "/api/tasks", token, api.CreateTaskRequest{Name: "Read", DueDate: "2099-05-01"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[api.TaskResponse](t, resp)
	assert.Equal(t, 2, created.Priority)
	assert.Equal(t, "2099-05-01", created.DueDate)

	resp = s.do(t, http.MethodPost, "/api/tasks", token, api.CreateTaskRequest{Name: "Read", DueDate: "May 1"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = s.do(t, http.MethodGet, "/api/tasks", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]api.TaskResponse](t, resp), 1)

	resp = s.do(t, http.MethodDelete, "/api/tasks/"+strconv.FormatInt(created.ID, 10), token, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = s.do(t, http.MethodDelete, "/api/tasks/"+strconv.FormatInt(created.ID+100, 10), token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = s.do(t, http.MethodDelete, "/api/tasks/abc", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestImportEndpoint(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	token := s.login(t)

	resp := s.do(t, http.MethodPost, "/api/imports/canvas", token, api.ImportCanvasRequest{Token: "x'; DROP TABLE tasks"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	errBody := decode[shared.ErrorResponse](t, resp)
	assert.Equal(t, service.MsgInvalidToken, errBody.Error)
	assert.Zero(t, s.courses.Calls())

	resp = s.do(t, http.MethodPost, "/api/imports/canvas", token, api.ImportCanvasRequest{Token: "validtoken"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	summary := decode[service.ImportSummary](t, resp)
	assert.Equal(t, 1, summary.Created)

	s.courses.CoursesErr = &canvas.RequestError{StatusCode: http.StatusUnauthorized, URL: "https://canvas.example/api"}
	resp = s.do(t, http.MethodPost, "/api/imports/canvas", token, api.ImportCanvasRequest{Token: "validtoken"})
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestScheduleEndpoint(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	token := s.login(t)

	resp := s.do(t, http.MethodPost, "/api/schedules", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	empty := decode[api.ScheduleResponse](t, resp)
	assert.True(t, empty.Empty)
	assert.Equal(t, []string{service.MsgNoTasks}, empty.Messages)

	resp = s.do(t, http.MethodPost, "/api/tasks", token, api.CreateTaskRequest{Name: "Essay", DueDate: "2099-05-01", Priority: 1})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	task := decode[api.TaskResponse](t, resp)

	s.gen.Response = "task_id = " + strconv.FormatInt(task.ID, 10) +
		"\nassigned_block_date = 2099-04-30\nassigned_block_start_time = 10:00\nassigned_block_duration = 2\n"
	resp = s.do(t, http.MethodPost, "/api/schedules", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	result := decode[api.ScheduleResponse](t, resp)
	assert.Equal(t, 1, result.Assigned)
	require.Len(t, result.Tasks, 1)
	require.NotNil(t, result.Tasks[0].Assignment)
	assert.Equal(t, "10:00", result.Tasks[0].Assignment.StartTime)
	assert.Equal(t, 2, result.Tasks[0].Assignment.DurationHours)

	s.gen.Err = errors.Join(generation.ErrGenerationFailed, context.DeadlineExceeded)
	resp = s.do(t, http.MethodPost, "/api/schedules", token, nil)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}
