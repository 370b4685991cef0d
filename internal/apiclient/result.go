package apiclient

import (
	"context"
	"encoding/json"
)

// envelope 服务端统一响应结构
type envelope struct {
	StatusCode int             `json:"status_code"`
	Msg        string          `json:"msg"`
	Data       json.RawMessage `json:"data"`
}

// Page 分页信息
type Page struct {
	Page      int   `json:"page"`
	PageSize  int   `json:"page_size"`
	Total     int64 `json:"total"`
	TotalPage int64 `json:"total_page"`
}

type pagedEnvelope struct {
	envelope
	Pagination *Page `json:"pagination"`
}

// FetchJSON 请求并解码 data 字段；业务码非 0 时返回 APIError（不重试）
func FetchJSON[T any](ctx context.Context, c *Client, endpoint string, opts RequestOptions) (T, error) {
	value, _, err := FetchPage[T](ctx, c, endpoint, opts)
	return value, err
}

// FetchPage 同 FetchJSON，并返回分页信息（无分页时为 nil）
func FetchPage[T any](ctx context.Context, c *Client, endpoint string, opts RequestOptions) (T, *Page, error) {
	var zero T
	resp, err := c.FetchWithRetry(ctx, endpoint, opts)
	if err != nil {
		return zero, nil, err
	}
	var env pagedEnvelope
	if err := json.Unmarshal(resp.Body, &env); err != nil {
		return zero, nil, &APIError{Status: resp.Status, Endpoint: endpoint, Attempts: resp.Attempts, Message: "decode envelope failed", Err: err}
	}
	if env.StatusCode != 0 {
		return zero, nil, &APIError{
			Status:   resp.Status,
			Code:     env.StatusCode,
			Message:  env.Msg,
			Endpoint: endpoint,
			Attempts: resp.Attempts,
		}
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return zero, env.Pagination, nil
	}
	var value T
	if err := json.Unmarshal(env.Data, &value); err != nil {
		return zero, nil, &APIError{Status: resp.Status, Endpoint: endpoint, Attempts: resp.Attempts, Message: "decode data failed", Err: err}
	}
	return value, env.Pagination, nil
}

// FetchEnvelope 业务码非 0 时仍解码 data（如结算向导失败时的当前状态）
func FetchEnvelope[T any](ctx context.Context, c *Client, endpoint string, opts RequestOptions) (T, *APIError, error) {
	var zero T
	resp, err := c.FetchWithRetry(ctx, endpoint, opts)
	if err != nil {
		return zero, nil, err
	}
	var env envelope
	if err := json.Unmarshal(resp.Body, &env); err != nil {
		return zero, nil, &APIError{Status: resp.Status, Endpoint: endpoint, Attempts: resp.Attempts, Message: "decode envelope failed", Err: err}
	}
	var value T
	if len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, &value); err != nil {
			return zero, nil, &APIError{Status: resp.Status, Endpoint: endpoint, Attempts: resp.Attempts, Message: "decode data failed", Err: err}
		}
	}
	if env.StatusCode != 0 {
		return value, &APIError{Status: resp.Status, Code: env.StatusCode, Message: env.Msg, Endpoint: endpoint, Attempts: resp.Attempts}, nil
	}
	return value, nil, nil
}
