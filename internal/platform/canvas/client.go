package canvas

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/phrazzld/aiplanner/internal/config"
	"github.com/phrazzld/aiplanner/internal/platform/logger"
	"github.com/tomnomnom/linkheader"
	"golang.org/x/oauth2"
)

// Client talks to the course service. It holds no credentials: the caller's
// bearer token is supplied on every call.
type Client struct {
	baseURL   *url.URL
	transport http.RoundTripper
	timeout   time.Duration
	perPage   int
	maxPages  int
	logger    *slog.Logger
}

// Option customises a Client.
type Option func(*Client)

// WithTransport sets the underlying round tripper. Tests use it to count requests.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.transport = rt
	}
}

// NewClient creates a client from configuration.
func NewClient(cfg config.CanvasConfig, logger *slog.Logger, opts ...Option) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid course service base URL %q", cfg.BaseURL)
	}
	if cfg.MaxPages <= 0 {
		return nil, fmt.Errorf("max pages must be positive, got %d", cfg.MaxPages)
	}
	if logger == nil {
		logger = slog.Default()
	}

	c := &Client{
		baseURL:   base,
		transport: http.DefaultTransport,
		timeout:   cfg.RequestTimeout,
		perPage:   cfg.PerPage,
		maxPages:  cfg.MaxPages,
		logger:    logger.With(slog.String("component", "canvas_client")),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ListFavoriteCourses returns every favourite course of the token's owner.
func (c *Client) ListFavoriteCourses(ctx context.Context, token string) ([]Course, error) {
	return getPaged[Course](ctx, c, token, "/api/v1/users/self/favorites/courses")
}

// ListAssignments returns every assignment of a course. No recency filtering is applied.
func (c *Client) ListAssignments(ctx context.Context, token string, courseID int64) ([]ExternalAssignment, error) {
	path := "/api/v1/courses/" + strconv.FormatInt(courseID, 10) + "/assignments"
	assignments, err := getPaged[ExternalAssignment](ctx, c, token, path)
	if err != nil {
		return nil, err
	}
	for i := range assignments {
		if assignments[i].CourseID == 0 {
			assignments[i].CourseID = courseID
		}
	}
	return assignments, nil
}

func (c *Client) httpClient(token string) *http.Client {
	return &http.Client{
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}),
			Base:   c.transport,
		},
		Timeout: c.timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if !c.sameOrigin(req.URL) {
				return fmt.Errorf("%w: refusing redirect to foreign host %s", ErrRequestFailed, req.URL.Host)
			}
			if len(via) >= 10 {
				return fmt.Errorf("%w: stopped after %d redirects", ErrRequestFailed, len(via))
			}
			return nil
		},
	}
}

// sameOrigin reports whether u points at the configured course service. The
// bearer token is only ever sent there.
func (c *Client) sameOrigin(u *url.URL) bool {
	return strings.EqualFold(u.Scheme, c.baseURL.Scheme) && strings.EqualFold(u.Host, c.baseURL.Host)
}

// getPaged follows the rel="next" chain starting at path, accumulating every page.
// When the page cap is reached the pages read so far are returned without error.
func getPaged[T any](ctx context.Context, c *Client, token, path string) ([]T, error) {
	log := logger.FromContextOrDefault(ctx, c.logger)
	client := c.httpClient(token)

	first := c.baseURL.JoinPath(path)
	if c.perPage > 0 {
		q := first.Query()
		q.Set("per_page", strconv.Itoa(c.perPage))
		first.RawQuery = q.Encode()
	}

	items := []T{}
	next := first.String()
	for page := 1; ; page++ {
		batch, link, err := fetchPage[T](ctx, client, next)
		if err != nil {
			return nil, err
		}
		items = append(items, batch...)

		if link == "" {
			return items, nil
		}
		if page >= c.maxPages {
			log.Warn("page cap reached, returning partial result",
				slog.String("path", path),
				slog.Int("pages", page),
				slog.Int("items", len(items)))
			return items, nil
		}

		nextURL, err := c.baseURL.Parse(link)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid next link %q: %v", ErrRequestFailed, link, err)
		}
		if !c.sameOrigin(nextURL) {
			log.Warn("next link points at a foreign host, aborting",
				slog.String("path", path),
				slog.String("host", nextURL.Host))
			return nil, fmt.Errorf("%w: next link host %q does not match %q", ErrRequestFailed, nextURL.Host, c.baseURL.Host)
		}
		next = nextURL.String()
	}
}

// fetchPage fetches one page and returns its items and the rel="next" target, if any.
func fetchPage[T any](ctx context.Context, client *http.Client, pageURL string) ([]T, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("%w: building request: %v", ErrRequestFailed, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", &RequestError{StatusCode: resp.StatusCode, URL: stripQuery(pageURL)}
	}

	var batch []T
	if err := json.NewDecoder(resp.Body).Decode(&batch); err != nil {
		return nil, "", fmt.Errorf("%w: decoding %s: %v", ErrRequestFailed, stripQuery(pageURL), err)
	}

	var next string
	if links := linkheader.ParseMultiple(resp.Header.Values("Link")).FilterByRel("next"); len(links) > 0 {
		next = links[0].URL
	}
	return batch, next, nil
}

func stripQuery(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	u.RawQuery = ""
	return u.String()
}
