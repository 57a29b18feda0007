package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"funlabs/internal/store"
	"funlabs/internal/utils"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	origin     string
	logger     *utils.Logger

	Topics  *TopicsService
	Lessons *LessonsService
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithOrigin sends an Origin header with every request, the way a browser
// does for cross-origin fetches.
func WithOrigin(origin string) Option {
	return func(c *Client) { c.origin = origin }
}

func WithLogger(logger *utils.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// New resolves the base URL once for hostname. Build a new client to pick up
// a different configuration. The default HTTP client has no timeout; requests
// are bounded by their context or by a client passed with WithHTTPClient.
func New(cfg EndpointConfig, hostname string, opts ...Option) *Client {
	c := &Client{
		baseURL:    ResolveBaseURL(cfg, hostname),
		httpClient: &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
		logger:     utils.NewLogger(io.Discard, false),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.Topics = &TopicsService{client: c}
	c.Lessons = &LessonsService{client: c}

	c.logger.Debug("client", "Base URL "+c.baseURL+" for host "+hostname)
	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// URL joins endpoint onto the base URL, adding the leading slash if missing.
func (c *Client) URL(endpoint string) string {
	if !strings.HasPrefix(endpoint, "/") {
		endpoint = "/" + endpoint
	}
	return strings.TrimRight(c.baseURL, "/") + endpoint
}

// getList fetches a JSON array from endpoint into out.
func (c *Client) getList(ctx context.Context, op, endpoint string, out any) error {
	target := c.URL(endpoint)
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return &Error{Op: op, Kind: KindTransport, URL: target, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	if c.origin != "" {
		req.Header.Set("Origin", c.origin)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("client", op+": request failed", err)
		return &Error{Op: op, Kind: KindTransport, URL: target, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Op: op, Kind: KindTransport, URL: target, Status: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := fmt.Errorf("HTTP error! status: %d - %s", resp.StatusCode, http.StatusText(resp.StatusCode))
		c.logger.Warning("client", op+": "+statusErr.Error())
		return &Error{Op: op, Kind: KindStatus, URL: target, Status: resp.StatusCode, Err: statusErr}
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return &Error{Op: op, Kind: KindParse, URL: target, Status: resp.StatusCode,
			Err: fmt.Errorf("expected a JSON array")}
	}
	if err := json.Unmarshal(trimmed, out); err != nil {
		return &Error{Op: op, Kind: KindParse, URL: target, Status: resp.StatusCode, Err: err}
	}

	c.logger.Debug("client", fmt.Sprintf("%s: %s %d in %s", op, target, resp.StatusCode, time.Since(start).Round(time.Millisecond)))
	return nil
}

type TopicsService struct {
	client *Client
}

// GetAll lists every topic with its lessons.
func (s *TopicsService) GetAll(ctx context.Context) ([]*store.Topic, error) {
	var topics []*store.Topic
	if err := s.client.getList(ctx, "topics.getAll", "/topics", &topics); err != nil {
		return nil, err
	}
	return topics, nil
}

type LessonsService struct {
	client *Client
}

// Questions lists the questions of a lesson. An unknown lesson yields an
// empty slice.
func (s *LessonsService) Questions(ctx context.Context, lessonID uuid.UUID) ([]*store.Question, error) {
	var questions []*store.Question
	endpoint := "/lessons/" + url.PathEscape(lessonID.String()) + "/questions"
	if err := s.client.getList(ctx, "lessons.questions", endpoint, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}
