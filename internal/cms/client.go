// Package cms talks to the headless CMS that stores question content.
package cms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultLimit = 50
	// MaxLimit is the largest page the CMS serves.
	MaxLimit = 100

	apiKeyHeader = "X-MICROCMS-API-KEY"
)

// Client is a REST client for one CMS service.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	retry   RetryConfig
	observe func(method string, status int)
	logger  *log.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithBaseURL overrides the https://<domain>.microcms.io/api/v1 base.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimSuffix(u, "/") }
}

func WithRetry(r RetryConfig) Option {
	return func(c *Client) { c.retry = r }
}

// WithObserver registers a callback run after every HTTP attempt.
// status is 0 when no response arrived.
func WithObserver(fn func(method string, status int)) Option {
	return func(c *Client) { c.observe = fn }
}

// New returns a client for the given service domain (the subdomain only).
func New(domain, apiKey string, opts ...Option) (*Client, error) {
	domain = strings.TrimSpace(domain)
	apiKey = strings.TrimSpace(apiKey)
	if domain == "" || apiKey == "" {
		return nil, ErrMissingCredentials
	}
	c := &Client{
		baseURL: fmt.Sprintf("https://%s.microcms.io/api/v1", domain),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 15 * time.Second},
		retry:   DefaultRetryConfig(),
		logger:  log.New(os.Stderr, "[cms] ", log.LstdFlags),
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// List queries one page of contents from endpoint.
func (c *Client) List(ctx context.Context, endpoint string, q ListQuery) (*ListResponse, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	limit = min(limit, MaxLimit)

	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))
	params.Set("offset", strconv.Itoa(max(0, q.Offset)))
	if q.Q != "" {
		params.Set("q", q.Q)
	}
	if q.Filters != "" {
		params.Set("filters", q.Filters)
	}

	var out ListResponse
	if err := c.getJSON(ctx, "/"+endpoint+"?"+params.Encode(), &out); err != nil {
		c.logger.Printf("GET list failed: endpoint=%s err=%v", endpoint, err)
		return nil, err
	}
	return &out, nil
}

// Get fetches a single content.
func (c *Client) Get(ctx context.Context, endpoint, contentID string) (*RawQuestion, error) {
	var out RawQuestion
	if err := c.getJSON(ctx, "/"+endpoint+"/"+url.PathEscape(contentID), &out); err != nil {
		if !IsNotFound(err) {
			c.logger.Printf("GET detail failed: endpoint=%s id=%s err=%v", endpoint, contentID, err)
		}
		return nil, err
	}
	return &out, nil
}

// Exists reports whether a content with the id is present.
func (c *Client) Exists(ctx context.Context, endpoint, contentID string) (bool, error) {
	_, err := c.Get(ctx, endpoint, contentID)
	switch {
	case err == nil:
		return true, nil
	case IsNotFound(err):
		return false, nil
	default:
		return false, err
	}
}

// Put creates a content under an explicit id.
func (c *Client) Put(ctx context.Context, endpoint, contentID string, content Content) error {
	_, err := c.send(ctx, http.MethodPut, "/"+endpoint+"/"+url.PathEscape(contentID), content)
	return err
}

// Patch updates an existing content.
func (c *Client) Patch(ctx context.Context, endpoint, contentID string, content Content) error {
	_, err := c.send(ctx, http.MethodPatch, "/"+endpoint+"/"+url.PathEscape(contentID), content)
	return err
}

// Publish makes a draft content public.
func (c *Client) Publish(ctx context.Context, endpoint, contentID string) error {
	_, err := c.send(ctx, http.MethodPost, "/"+endpoint+"/"+url.PathEscape(contentID)+"/publish", nil)
	return err
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	body, err := c.send(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("cms: decode %s: %w", path, err)
	}
	return nil
}

func (c *Client) send(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var raw []byte
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("cms: encode: %w", err)
		}
		raw = b
	}

	var body []byte
	err := c.retry.retry(ctx, func() error {
		var err error
		body, err = c.do(ctx, method, path, raw)
		return err
	})
	return body, err
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	var rd io.Reader
	if payload != nil {
		rd = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return nil, err
	}
	req.Header.Set(apiKeyHeader, c.apiKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.observed(method, 0)
		return nil, err
	}
	defer resp.Body.Close()
	c.observed(method, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{
			Method:     method,
			Path:       strings.SplitN(path, "?", 2)[0],
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}
	return body, nil
}

func (c *Client) observed(method string, status int) {
	if c.observe != nil {
		c.observe(method, status)
	}
}
