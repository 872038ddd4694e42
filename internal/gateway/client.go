// Package gateway is the HTTP client of the record API.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-portal/internal/models"
	appErrors "github.com/noah-isme/sma-portal/pkg/errors"
	"github.com/noah-isme/sma-portal/pkg/middleware/requestid"
)

const (
	// DefaultTimeout bounds every request unless configured otherwise.
	DefaultTimeout = 10 * time.Second
	apiPrefix      = "/api"
	maxBodyBytes   = 4 << 20
)

// TokenSource supplies the bearer token attached to requests.
type TokenSource interface {
	Token() string
}

// Client talks to /api/<kind>, /api/login and /api/users.
type Client struct {
	http    *http.Client
	baseURL string
	logger  *zap.Logger

	mu     sync.RWMutex
	tokens TokenSource
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithTokenSource attaches bearer tokens from ts.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// New builds a client for baseURL, e.g. http://localhost:5000.
func New(baseURL string, timeout time.Duration, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid gateway base url: %w", err)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &Client{
		http:    &http.Client{Timeout: timeout},
		baseURL: baseURL,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// SetTokenSource swaps the bearer token provider.
func (c *Client) SetTokenSource(ts TokenSource) {
	c.mu.Lock()
	c.tokens = ts
	c.mu.Unlock()
}

// List performs GET /api/<kind> and decodes {"data": [...]}.
func (c *Client) List(ctx context.Context, kind models.Kind, params url.Values) ([]models.Record, error) {
	path := "/" + string(kind)
	if len(params) > 0 {
		path += "?" + params.Encode()
	}
	raw, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	items, err := unwrapList(raw)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrDecode.Code, appErrors.ErrDecode.Status, appErrors.ErrDecode.Message)
	}
	records := make([]models.Record, 0, len(items))
	for _, item := range items {
		rec, err := models.DecodeRecord(kind, item)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrDecode.Code, appErrors.ErrDecode.Status, appErrors.ErrDecode.Message)
		}
		records = append(records, rec)
	}
	return records, nil
}

// Update performs PUT /api/<kind>/<id> and returns the record the server
// answered with, bare or enveloped.
func (c *Client) Update(ctx context.Context, kind models.Kind, id string, body map[string]any) (models.Record, error) {
	raw, err := c.do(ctx, http.MethodPut, "/"+string(kind)+"/"+url.PathEscape(id), body)
	if err != nil {
		return models.Record{}, err
	}
	obj, err := unwrapObject(raw, kind.IDKey())
	if err != nil {
		return models.Record{}, appErrors.Wrap(err, appErrors.ErrDecode.Code, appErrors.ErrDecode.Status, appErrors.ErrDecode.Message)
	}
	rec, err := models.DecodeRecord(kind, obj)
	if err != nil {
		return models.Record{}, appErrors.Wrap(err, appErrors.ErrDecode.Code, appErrors.ErrDecode.Status, appErrors.ErrDecode.Message)
	}
	return rec, nil
}

// Delete performs DELETE /api/<kind>/<id>.
func (c *Client) Delete(ctx context.Context, kind models.Kind, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/"+string(kind)+"/"+url.PathEscape(id), nil)
	return err
}

// Login performs POST /api/login.
func (c *Client) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	raw, err := c.do(ctx, http.MethodPost, "/login", req)
	if err != nil {
		return nil, err
	}
	var resp models.LoginResponse
	if err := decodeData(raw, &resp); err != nil {
		return nil, err
	}
	if resp.AccessToken == "" {
		return nil, appErrors.Clone(appErrors.ErrDecode, "login response carried no access token")
	}
	return &resp, nil
}

// Register performs POST /api/users.
func (c *Client) Register(ctx context.Context, req models.RegistrationRequest) (*models.Actor, error) {
	raw, err := c.do(ctx, http.MethodPost, "/users", req)
	if err != nil {
		return nil, err
	}
	var actor models.Actor
	if err := decodeData(raw, &actor); err != nil {
		return nil, err
	}
	return &actor, nil
}

func (c *Client) token() string {
	c.mu.RLock()
	ts := c.tokens
	c.mu.RUnlock()
	if ts == nil {
		return ""
	}
	return ts.Token()
}

func (c *Client) do(ctx context.Context, method, path string, in any) ([]byte, error) {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode request")
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+apiPrefix+path, body)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build request")
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	reqID := requestid.New()
	req.Header.Set(requestid.Header, reqID)
	if token := c.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("gateway request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.String("request_id", reqID),
			zap.Error(err),
		)
		return nil, classifyTransportError(ctx, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, classifyTransportError(ctx, err)
	}

	c.logger.Debug("gateway request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
		zap.String("request_id", reqID),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, statusError(resp.StatusCode, raw)
	}
	return raw, nil
}

func classifyTransportError(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return appErrors.Wrap(err, appErrors.ErrGatewayTimeout.Code, appErrors.ErrGatewayTimeout.Status, appErrors.ErrGatewayTimeout.Message)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return appErrors.Wrap(err, appErrors.ErrGatewayTimeout.Code, appErrors.ErrGatewayTimeout.Status, appErrors.ErrGatewayTimeout.Message)
	}
	return appErrors.Wrap(err, appErrors.ErrGatewayUnavailable.Code, appErrors.ErrGatewayUnavailable.Status, appErrors.ErrGatewayUnavailable.Message)
}

type errorEnvelope struct {
	Error   *appErrors.Error `json:"error"`
	Message string           `json:"message"`
}

func statusError(status int, raw []byte) error {
	var env errorEnvelope
	if err := json.Unmarshal(raw, &env); err == nil {
		if env.Error != nil && env.Error.Code != "" {
			e := *env.Error
			e.Status = status
			return &e
		}
		if env.Message != "" {
			return appErrors.New(codeForStatus(status), status, env.Message)
		}
	}
	msg := strings.TrimSpace(string(raw))
	if msg == "" || len(msg) > 200 {
		msg = http.StatusText(status)
	}
	return appErrors.New(codeForStatus(status), status, msg)
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return appErrors.ErrValidation.Code
	case http.StatusUnauthorized:
		return appErrors.ErrUnauthorized.Code
	case http.StatusForbidden:
		return appErrors.ErrForbidden.Code
	case http.StatusNotFound:
		return appErrors.ErrNotFound.Code
	case http.StatusConflict:
		return appErrors.ErrConflict.Code
	default:
		return fmt.Sprintf("HTTP_%d", status)
	}
}

func unwrapList(raw []byte) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []json.RawMessage
		err := json.Unmarshal(trimmed, &items)
		return items, err
	}
	var env struct {
		Data []json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

func unwrapObject(raw []byte, idKey string) ([]byte, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, errors.New("empty response body")
	}
	if _, bare := obj[idKey]; bare {
		return raw, nil
	}
	if data, ok := obj["data"]; ok {
		return data, nil
	}
	return raw, nil
}

func decodeData(raw []byte, out any) error {
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return appErrors.Wrap(err, appErrors.ErrDecode.Code, appErrors.ErrDecode.Status, appErrors.ErrDecode.Message)
	}
	payload := env.Data
	if len(payload) == 0 {
		payload = raw
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return appErrors.Wrap(err, appErrors.ErrDecode.Code, appErrors.ErrDecode.Status, appErrors.ErrDecode.Message)
	}
	return nil
}
