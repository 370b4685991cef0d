package shared

import (
	"github.com/tidecart/internal/http/response"
	"github.com/tidecart/internal/i18n"
	"github.com/tidecart/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLog 提供携带 request_id 的日志实例。
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	if requestID, ok := c.Get("request_id"); ok {
		if id, ok := requestID.(string); ok && id != "" {
			return logger.SW("request_id", id)
		}
	}
	return logger.S()
}

// RespondError 返回国际化错误响应，并在有原始错误时记录日志。
func RespondError(c *gin.Context, code int, key string, err error) {
	RespondErrorWithData(c, code, key, nil, err)
}

// RespondErrorWithData 返回国际化错误响应并附带数据，args 用于格式化消息占位符。
func RespondErrorWithData(c *gin.Context, code int, key string, data gin.H, err error, args ...interface{}) {
	msg := Message(c, key, args...)
	appErr := response.WrapError(code, msg, err)
	if err != nil {
		RequestLog(c).Errorw("handler_error",
			"code", appErr.Code,
			"message", appErr.Message,
			"error", err,
		)
	}
	if data == nil {
		response.Error(c, appErr.Code, appErr.Message)
		return
	}
	response.ErrorWithData(c, appErr.Code, appErr.Message, data)
}

// Message 按请求语言翻译消息。
func Message(c *gin.Context, key string, args ...interface{}) string {
	locale := i18n.ResolveLocale(c)
	if len(args) > 0 {
		return i18n.Sprintf(locale, key, args...)
	}
	return i18n.T(locale, key)
}
