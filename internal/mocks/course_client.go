package mocks

import (
	"context"
	"sync/atomic"

	"github.com/phrazzld/aiplanner/internal/platform/canvas"
)

// MockCourseClient serves fixed courses and assignments. It counts every call
// so tests can assert that nothing reached the network.
type MockCourseClient struct {
	Courses     []canvas.Course
	CoursesErr  error
	Assignments map[int64][]canvas.ExternalAssignment
	// CourseErrs fails ListAssignments for the given course IDs.
	CourseErrs map[int64]error

	calls atomic.Int64
}

// ListFavoriteCourses returns Courses or CoursesErr.
func (m *MockCourseClient) ListFavoriteCourses(ctx context.Context, token string) ([]canvas.Course, error) {
	m.calls.Add(1)
	if m.CoursesErr != nil {
		return nil, m.CoursesErr
	}
	return m.Courses, nil
}

// ListAssignments returns the course's assignments with CourseID filled in.
func (m *MockCourseClient) ListAssignments(
	ctx context.Context,
	token string,
	courseID int64,
) ([]canvas.ExternalAssignment, error) {
	m.calls.Add(1)
	if err := m.CourseErrs[courseID]; err != nil {
		return nil, err
	}
	out := make([]canvas.ExternalAssignment, 0, len(m.Assignments[courseID]))
	for _, a := range m.Assignments[courseID] {
		a.CourseID = courseID
		out = append(out, a)
	}
	return out, nil
}

// Calls returns the number of requests made.
func (m *MockCourseClient) Calls() int {
	return int(m.calls.Load())
}
