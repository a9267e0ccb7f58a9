package canvas

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/phrazzld/aiplanner/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(baseURL string, maxPages int) config.CanvasConfig {
	return config.CanvasConfig{
		BaseURL:           baseURL,
		RequestTimeout:    5 * time.Second,
		MaxPages:          maxPages,
		PerPage:           2,
		CourseConcurrency: 2,
	}
}

func newTestClient(t *testing.T, srv *httptest.Server, maxPages int) *Client {
	t.Helper()
	c, err := NewClient(testConfig(srv.URL, maxPages), slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return c
}

// pagedServer serves totalPages pages of assignments, each linking to the next.
func pagedServer(t *testing.T, totalPages int, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "Bearer tok123", r.Header.Get("Authorization"))

		page := 1
		if p := r.URL.Query().Get("page"); p != "" {
			page, _ = strconv.Atoi(p)
		}
		if page < totalPages {
			w.Header().Set("Link", fmt.Sprintf(
				`<%s%s?page=%d&per_page=2>; rel="next", <%s%s?page=1&per_page=2>; rel="first"`,
				srv.URL, r.URL.Path, page+1, srv.URL, r.URL.Path))
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]ExternalAssignment{
			{ID: int64(page*10 + 1), Name: fmt.Sprintf("A%d-1", page)},
			{ID: int64(page*10 + 2), Name: fmt.Sprintf("A%d-2", page)},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestListAssignments_FollowsPageChain(t *testing.T) {
	var hits atomic.Int32
	srv := pagedServer(t, 3, &hits)
	c := newTestClient(t, srv, 10)

	got, err := c.ListAssignments(context.Background(), "tok123", 42)

	require.NoError(t, err)
	assert.Len(t, got, 6)
	assert.Equal(t, int32(3), hits.Load())
	for _, a := range got {
		assert.Equal(t, int64(42), a.CourseID)
	}
}

func TestListAssignments_StopsAtPageCap(t *testing.T) {
	var hits atomic.Int32
	srv := pagedServer(t, 1000, &hits)
	c := newTestClient(t, srv, 4)

	got, err := c.ListAssignments(context.Background(), "tok123", 1)

	require.NoError(t, err, "reaching the cap returns the partial result")
	assert.Len(t, got, 8)
	assert.Equal(t, int32(4), hits.Load())
}

func TestListFavoriteCourses_FirstRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/users/self/favorites/courses", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("per_page"))
		_, _ = io.WriteString(w, `[{"id": 5, "name": "Physics"}, {"id": 9, "name": "History"}]`)
	}))
	defer srv.Close()

	courses, err := newTestClient(t, srv, 3).ListFavoriteCourses(context.Background(), "tok123")

	require.NoError(t, err)
	assert.Equal(t, []Course{{ID: 5, Name: "Physics"}, {ID: 9, Name: "History"}}, courses)
}

func TestListAssignments_NullDueDate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[{"id": 1, "name": "Open", "due_at": null, "course_id": 3},
			{"id": 2, "name": "Due", "due_at": "2026-11-02T23:59:00Z", "course_id": 3}]`)
	}))
	defer srv.Close()

	got, err := newTestClient(t, srv, 3).ListAssignments(context.Background(), "tok123", 3)

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Nil(t, got[0].DueAt)
	require.NotNil(t, got[1].DueAt)
	assert.Equal(t, "2026-11-02T23:59:00Z", *got[1].DueAt)
}

func TestNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"errors":[{"message":"Invalid access token."}]}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv, 3).ListFavoriteCourses(context.Background(), "expired")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRequestFailed)
	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, http.StatusUnauthorized, reqErr.StatusCode)
	assert.NotContains(t, reqErr.URL, "per_page")
}

func TestTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c, err := NewClient(testConfig(url, 3), nil)
	require.NoError(t, err)

	_, err = c.ListAssignments(context.Background(), "tok123", 1)
	assert.ErrorIs(t, err, ErrRequestFailed)
}

func TestNextLinkToForeignHostIsRejected(t *testing.T) {
	var foreignAuth atomic.Value
	foreignAuth.Store("")
	foreign := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		foreignAuth.Store(r.Header.Get("Authorization"))
		_, _ = w.Write([]byte("[]"))
	}))
	defer foreign.Close()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Link", fmt.Sprintf(`<%s/steal>; rel="next"`, foreign.URL))
		_ = json.NewEncoder(w).Encode([]Course{{ID: 1, Name: "Biology"}})
	}))
	defer srv.Close()

	courses, err := newTestClient(t, srv, 5).ListFavoriteCourses(context.Background(), "tok123")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRequestFailed)
	assert.Nil(t, courses)
	assert.Empty(t, foreignAuth.Load())
}

func TestRedirectToForeignHostIsRefused(t *testing.T) {
	var foreignHits atomic.Int32
	foreign := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		foreignHits.Add(1)
		_, _ = w.Write([]byte("[]"))
	}))
	defer foreign.Close()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, foreign.URL+"/steal", http.StatusFound)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv, 5).ListAssignments(context.Background(), "tok123", 7)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRequestFailed)
	assert.Zero(t, foreignHits.Load())
}

func TestRelativeNextLinkIsFollowed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "" {
			w.Header().Set("Link", `</api/v1/users/self/favorites/courses?page=2>; rel="next"`)
		}
		_ = json.NewEncoder(w).Encode([]Course{{ID: 1, Name: "Biology"}})
	}))
	defer srv.Close()

	courses, err := newTestClient(t, srv, 5).ListFavoriteCourses(context.Background(), "tok123")

	require.NoError(t, err)
	assert.Len(t, courses, 2)
}

func TestNewClient_InvalidConfig(t *testing.T) {
	_, err := NewClient(testConfig("not a url", 3), nil)
	assert.Error(t, err)

	_, err = NewClient(testConfig("https://canvas.example.edu", 0), nil)
	assert.Error(t, err)
}
