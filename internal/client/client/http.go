package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/artfolio/internal/client/credentials"
	"github.com/dmitrijs2005/artfolio/internal/logging"
)

// Config tunes the request pipeline.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
}

const DefaultBaseURL = "http://localhost:8000/api"

func DefaultConfig() Config {
	return Config{
		BaseURL:    DefaultBaseURL,
		Timeout:    30 * time.Second,
		MaxRetries: 3,
		RetryDelay: time.Second,
	}
}

// CredentialReader is the read side of a credential store. It is consulted
// before every request; an empty token means the request goes out
// unauthenticated.
type CredentialReader interface {
	Get(ctx context.Context) (credentials.Credential, error)
}

// Result is a normalized successful response.
type Result struct {
	Status  int
	Data    json.RawMessage
	Message string
}

// Decode unmarshals the response data into v. An empty body is a no-op.
func (r *Result) Decode(v any) error {
	if len(r.Data) == 0 || v == nil {
		return nil
	}
	if err := json.Unmarshal(r.Data, v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return nil
}

// HTTPClient executes requests against the gallery REST API. It is safe for
// concurrent use.
type HTTPClient struct {
	config Config
	creds  CredentialReader
	logger logging.Logger
	http   *http.Client
	sleep  func(ctx context.Context, d time.Duration) error
}

// NewHTTPClient builds a pipeline. creds may be nil for anonymous use.
// Zero or negative settings fall back to DefaultConfig values.
func NewHTTPClient(cfg Config, creds CredentialReader, logger logging.Logger) *HTTPClient {
	def := DefaultConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.RetryDelay < 0 {
		cfg.RetryDelay = 0
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &HTTPClient{
		config: cfg,
		creds:  creds,
		logger: logger.With("component", "api"),
		http:   &http.Client{},
		sleep:  sleepCtx,
	}
}

// Execute runs r through the pipeline: build, authenticate, attempt under a
// per-attempt timeout, retry transient failures with linear backoff and
// normalize the outcome.
func (c *HTTPClient) Execute(ctx context.Context, r *Request) (*Result, error) {
	target, err := buildURL(c.config.BaseURL, r.Endpoint, r.Query)
	if err != nil {
		return nil, err
	}

	body, err := encodeBody(r.Body)
	if err != nil {
		return nil, err
	}

	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	header := buildHeaders(r, token, uuid.NewString())

	timeout := c.config.Timeout
	if r.Timeout > 0 {
		timeout = r.Timeout
	}
	maxRetries := c.config.MaxRetries
	if r.MaxRetries != nil {
		maxRetries = *r.MaxRetries
	}

	policy := RetryPolicy{
		MaxRetries: maxRetries,
		BaseDelay:  c.config.RetryDelay,
		Retryable:  IsRetryable,
		Sleep:      c.sleep,
		OnRetry: func(attempt int, delay time.Duration, err error) {
			c.logger.Warn(ctx, "request failed, retrying",
				"method", r.Method, "endpoint", r.Endpoint,
				"attempt", attempt, "delay", delay, "error", err)
		},
	}

	return Retry(ctx, policy, func(ctx context.Context, attempt int) (*Result, error) {
		return c.attempt(ctx, r.Method, target, header, body, timeout)
	})
}

func (c *HTTPClient) accessToken(ctx context.Context) (string, error) {
	if c.creds == nil {
		return "", nil
	}
	cred, err := c.creds.Get(ctx)
	if err != nil {
		return "", fmt.Errorf("read credential: %w", err)
	}
	return cred.Token, nil
}

func (c *HTTPClient) attempt(ctx context.Context, method, target string, header http.Header, body *encodedBody, timeout time.Duration) (*Result, error) {
	actx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var rdr io.Reader
	if body != nil {
		rdr = bytes.NewReader(body.data)
	}

	req, err := http.NewRequestWithContext(actx, method, target, rdr)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header = header.Clone()
	if body != nil && body.contentType != "" && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", body.contentType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, c.transportError(ctx, actx, timeout, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.transportError(ctx, actx, timeout, err)
	}

	return parseResponse(resp.StatusCode, raw)
}

// transportError classifies a failure that produced no usable response.
func (c *HTTPClient) transportError(ctx, actx context.Context, timeout time.Duration, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if errors.Is(actx.Err(), context.DeadlineExceeded) {
		return &TimeoutError{Timeout: timeout, Err: context.DeadlineExceeded}
	}
	return &NetworkError{Err: err}
}

func parseResponse(status int, raw []byte) (*Result, error) {
	raw = bytes.TrimSpace(raw)

	var parsed any
	var parseErr error
	if len(raw) > 0 {
		parseErr = json.Unmarshal(raw, &parsed)
	}

	if status < 200 || status >= 300 {
		if obj, ok := parsed.(map[string]any); ok && len(obj) > 0 {
			fields := make(map[string]json.RawMessage, len(obj))
			if err := json.Unmarshal(raw, &fields); err == nil {
				return nil, &ValidationError{Status: status, Fields: fields}
			}
		}
		return nil, &APIError{Status: status, Message: genericMessage}
	}

	if parseErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, parseErr)
	}

	res := &Result{Status: status}
	if len(raw) > 0 {
		res.Data = json.RawMessage(raw)
	}
	if obj, ok := parsed.(map[string]any); ok {
		if msg, ok := obj["message"].(string); ok {
			res.Message = msg
		}
	}
	return res, nil
}

func (c *HTTPClient) newRequest(method, endpoint string, body any, opts []RequestOption) *Request {
	r := &Request{Method: method, Endpoint: endpoint, Body: body}
	for _, o := range opts {
		o(r)
	}
	return r
}

func (c *HTTPClient) Get(ctx context.Context, endpoint string, opts ...RequestOption) (*Result, error) {
	return c.Execute(ctx, c.newRequest(http.MethodGet, endpoint, nil, opts))
}

func (c *HTTPClient) Post(ctx context.Context, endpoint string, body any, opts ...RequestOption) (*Result, error) {
	return c.Execute(ctx, c.newRequest(http.MethodPost, endpoint, body, opts))
}

func (c *HTTPClient) Put(ctx context.Context, endpoint string, body any, opts ...RequestOption) (*Result, error) {
	return c.Execute(ctx, c.newRequest(http.MethodPut, endpoint, body, opts))
}

func (c *HTTPClient) Patch(ctx context.Context, endpoint string, body any, opts ...RequestOption) (*Result, error) {
	return c.Execute(ctx, c.newRequest(http.MethodPatch, endpoint, body, opts))
}

func (c *HTTPClient) Delete(ctx context.Context, endpoint string, opts ...RequestOption) (*Result, error) {
	return c.Execute(ctx, c.newRequest(http.MethodDelete, endpoint, nil, opts))
}

// decodeInto executes r and decodes the response into a new T.
func decodeInto[T any](ctx context.Context, c *HTTPClient, r *Request) (*T, error) {
	res, err := c.Execute(ctx, r)
	if err != nil {
		return nil, err
	}
	out := new(T)
	if err := res.Decode(out); err != nil {
		return nil, err
	}
	return out, nil
}
