package apiclient

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

	"github.com/tidecart/internal/config"
	"github.com/tidecart/internal/constants"
	"github.com/tidecart/internal/logger"

	"go.uber.org/zap"
)

const (
	HeaderIdempotencyKey = constants.HeaderIdempotencyKey
	maxErrorBodyBytes    = 4 << 10
)

// TokenSource 提供 Bearer Token，返回空串表示匿名请求
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken 固定 Token
type StaticToken string

// Token 实现 TokenSource
func (t StaticToken) Token(context.Context) (string, error) {
	return strings.TrimSpace(string(t)), nil
}

// RequestOptions 单次请求参数
type RequestOptions struct {
	Method         string
	Query          url.Values
	Body           interface{}
	Header         http.Header
	IdempotencyKey string
}

// Response 成功响应
type Response struct {
	Status   int
	Header   http.Header
	Body     []byte
	Attempts int
}

// Client 带鉴权与重试的 HTTP 客户端
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	policy  RetryPolicy
	sleep   func(ctx context.Context, d time.Duration) error
	log     *zap.SugaredLogger
}

// Option 客户端选项
type Option func(*Client)

// WithHTTPClient 替换底层 http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTokenSource 设置 Token 来源
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithRetryPolicy 设置重试策略
func WithRetryPolicy(p RetryPolicy) Option {
	return func(c *Client) { c.policy = p }
}

// WithSleep 替换退避等待函数
func WithSleep(fn func(ctx context.Context, d time.Duration) error) Option {
	return func(c *Client) {
		if fn != nil {
			c.sleep = fn
		}
	}
}

// New 根据配置创建客户端
func New(cfg config.ClientConfig, opts ...Option) *Client {
	timeout := 10 * time.Second
	if cfg.TimeoutMS > 0 {
		timeout = time.Duration(cfg.TimeoutMS) * time.Millisecond
	}
	c := &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		http:    &http.Client{Timeout: timeout},
		policy:  RetryPolicyFromConfig(cfg),
		sleep:   sleepContext,
		log:     logger.SW("component", "apiclient"),
	}
	if token := strings.TrimSpace(cfg.Token); token != "" {
		c.tokens = StaticToken(token)
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetTokenSource 登录后替换 Token
func (c *Client) SetTokenSource(ts TokenSource) {
	c.tokens = ts
}

// FetchWithRetry 发送请求；网络错误与 5xx 按策略重试，4xx 立即返回
func (c *Client) FetchWithRetry(ctx context.Context, endpoint string, opts RequestOptions) (*Response, error) {
	method := strings.ToUpper(strings.TrimSpace(opts.Method))
	if method == "" {
		method = http.MethodGet
	}
	target, err := c.resolve(endpoint, opts.Query)
	if err != nil {
		return nil, &APIError{Endpoint: endpoint, Message: "invalid endpoint", Err: err}
	}
	var payload []byte
	if opts.Body != nil {
		if payload, err = json.Marshal(opts.Body); err != nil {
			return nil, &APIError{Endpoint: endpoint, Message: "encode body failed", Err: err}
		}
	}
	header := opts.Header.Clone()
	if header == nil {
		header = http.Header{}
	}
	if key := strings.TrimSpace(opts.IdempotencyKey); key != "" {
		header.Set(HeaderIdempotencyKey, key)
	}
	canRetry := idempotentRequest(method, header)

	maxAttempts := c.policy.attempts()
	var lastErr *APIError
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, &APIError{Endpoint: endpoint, Attempts: attempt, Message: "canceled", Err: err}
		}
		resp, apiErr := c.do(ctx, method, target, endpoint, header, payload)
		if apiErr == nil {
			resp.Attempts = attempt + 1
			return resp, nil
		}
		apiErr.Attempts = attempt + 1
		lastErr = apiErr
		if !apiErr.Retryable || !canRetry || ctx.Err() != nil {
			return nil, apiErr
		}
		if attempt == maxAttempts-1 {
			break
		}
		delay := c.policy.Delay(attempt)
		c.log.Warnw("api_request_retry",
			"endpoint", endpoint,
			"method", method,
			"attempt", attempt+1,
			"status", apiErr.Status,
			"delay", delay,
			"error", apiErr.Err,
		)
		if err := c.sleep(ctx, delay); err != nil {
			return nil, &APIError{Endpoint: endpoint, Attempts: attempt + 1, Message: "canceled", Err: err}
		}
	}
	c.log.Warnw("api_request_exhausted", "endpoint", endpoint, "method", method, "attempts", maxAttempts, "status", lastErr.Status)
	return nil, lastErr
}

func (c *Client) do(ctx context.Context, method, target, endpoint string, header http.Header, payload []byte) (*Response, *APIError) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, &APIError{Endpoint: endpoint, Message: "build request failed", Err: err}
	}
	for k, values := range header {
		for _, v := range values {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return nil, &APIError{Endpoint: endpoint, Message: "token unavailable", Err: err}
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &APIError{Endpoint: endpoint, Message: "network error", Retryable: true, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return nil, &APIError{
			Status:    resp.StatusCode,
			Endpoint:  endpoint,
			Message:   errorMessage(resp.StatusCode, snippet),
			Retryable: retryableStatus(resp.StatusCode),
		}
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{Status: resp.StatusCode, Endpoint: endpoint, Message: "read body failed", Retryable: true, Err: err}
	}
	return &Response{Status: resp.StatusCode, Header: resp.Header, Body: data}, nil
}

func (c *Client) resolve(endpoint string, query url.Values) (string, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return "", errors.New("endpoint is empty")
	}
	raw := endpoint
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		if c.baseURL == "" {
			return "", errors.New("base url is empty")
		}
		raw = c.baseURL + "/" + strings.TrimLeft(endpoint, "/")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if len(query) > 0 {
		merged := u.Query()
		for k, values := range query {
			for _, v := range values {
				merged.Add(k, v)
			}
		}
		u.RawQuery = merged.Encode()
	}
	return u.String(), nil
}

func errorMessage(status int, body []byte) string {
	var env envelope
	if err := json.Unmarshal(body, &env); err == nil && strings.TrimSpace(env.Msg) != "" {
		return env.Msg
	}
	if text := strings.TrimSpace(string(body)); text != "" && len(text) <= 200 {
		return text
	}
	return fmt.Sprintf("%d %s", status, http.StatusText(status))
}
