package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError 请求失败的统一错误
//
// Status 为 HTTP 状态码（网络错误时为 0），Code 为响应体中的业务码。
type APIError struct {
	Status    int
	Code      int
	Message   string
	Endpoint  string
	Attempts  int
	Retryable bool
	Err       error
}

func (e *APIError) Error() string {
	if e == nil {
		return "<nil>"
	}
	switch {
	case e.Err != nil && e.Status == 0:
		return fmt.Sprintf("%s: request failed after %d attempt(s): %v", e.Endpoint, e.Attempts, e.Err)
	case e.Code != 0:
		return fmt.Sprintf("%s: business code %d: %s", e.Endpoint, e.Code, e.Message)
	default:
		return fmt.Sprintf("%s: http %d: %s", e.Endpoint, e.Status, e.Message)
	}
}

func (e *APIError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// AsAPIError 提取 APIError
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsUnauthorized 是否需要重新登录（HTTP 或业务码 401/403）
func IsUnauthorized(err error) bool {
	apiErr, ok := AsAPIError(err)
	if !ok {
		return false
	}
	switch {
	case apiErr.Status == http.StatusUnauthorized, apiErr.Status == http.StatusForbidden:
		return true
	case apiErr.Code == http.StatusUnauthorized, apiErr.Code == http.StatusForbidden:
		return true
	}
	return false
}

// IsUnavailable 服务不可达或重试耗尽，调用方可据此选择兜底数据
func IsUnavailable(err error) bool {
	apiErr, ok := AsAPIError(err)
	if !ok {
		return false
	}
	return apiErr.Retryable
}
