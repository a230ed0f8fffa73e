// Package api is the typed client for the storefront REST backend. All
// business state lives server-side; this package only moves JSON and maps
// failures onto the shared error taxonomy.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kmoo25z/ameriduka/internal/session"
	pkgerrors "github.com/kmoo25z/ameriduka/pkg/errors"
	"github.com/kmoo25z/ameriduka/pkg/logger"
)

const errorBodyReadLimit int64 = 1024

var (
	errBaseURLRequired = errors.New("api base URL is required")
	errSessionRequired = errors.New("session is required")
)

// Client talks to the backend on behalf of one session.
type Client struct {
	httpClient *http.Client
	baseURL    string
	sess       *session.Session
	logg       *logger.Logger
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithLogger attaches a logger for request diagnostics.
func WithLogger(logg *logger.Logger) Option {
	return func(c *Client) {
		c.logg = logg
	}
}

// NewClient builds a backend client rooted at baseURL (".../api").
func NewClient(baseURL string, sess *session.Session, opts ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, errBaseURLRequired
	}
	if sess == nil {
		return nil, errSessionRequired
	}

	client := &Client{
		baseURL:    trimmed,
		sess:       sess,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: 15 * time.Second}
	}

	return client, nil
}

// Session exposes the session this client authenticates with.
func (c *Client) Session() *session.Session {
	return c.sess
}

type requestSpec struct {
	method  string
	path    string
	query   url.Values
	body    any
	headers map[string]string
	out     any
}

func (c *Client) do(ctx context.Context, spec requestSpec) error {
	if c == nil {
		return pkgerrors.New(pkgerrors.CodeInternal, "api client not configured")
	}

	endpoint := c.baseURL + "/" + strings.TrimLeft(spec.path, "/")
	if len(spec.query) > 0 {
		endpoint += "?" + spec.query.Encode()
	}

	var bodyReader io.Reader
	if spec.body != nil {
		payload, err := json.Marshal(spec.body)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marshal request body")
		}
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, spec.method, endpoint, bodyReader)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build request")
	}

	req.Header.Set("Accept", "application/json")
	if spec.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)
	if token := c.sess.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for key, value := range spec.headers {
		req.Header.Set(key, value)
	}

	if c.logg != nil {
		reqCtx := c.logg.WithRequestID(ctx, requestID)
		c.logg.Debug(reqCtx, fmt.Sprintf("%s %s", spec.method, spec.path))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("%s %s", spec.method, spec.path))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return decodeAPIError(resp)
	}

	if spec.out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(spec.out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode response")
	}
	return nil
}

// decodeAPIError turns a non-2xx response into a coded error, preserving the
// backend's {"detail": ...} message verbatim when present.
func decodeAPIError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
	return pkgerrors.FromStatus(resp.StatusCode, extractDetail(raw))
}

func extractDetail(raw []byte) string {
	var payload struct {
		Detail any `json:"detail"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil || payload.Detail == nil {
		return ""
	}
	switch detail := payload.Detail.(type) {
	case string:
		return detail
	default:
		// FastAPI-style validation errors arrive as structured payloads.
		encoded, err := json.Marshal(detail)
		if err != nil {
			return ""
		}
		return string(encoded)
	}
}
