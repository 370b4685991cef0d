package public

import (
	"strings"

	"github.com/tidecart/internal/constants"
	handlershared "github.com/tidecart/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
)

func getUserID(c *gin.Context) (uint, bool) {
	return handlershared.GetContextUintWithKeys(c, "user_id", "error.unauthorized", "error.internal")
}

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}

func idempotencyKey(c *gin.Context) string {
	return strings.TrimSpace(c.GetHeader(constants.HeaderIdempotencyKey))
}
