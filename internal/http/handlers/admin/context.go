package admin

import (
	handlershared "github.com/tidecart/internal/http/handlers/shared"
	"github.com/tidecart/internal/http/response"

	"github.com/gin-gonic/gin"
)

func getAdminID(c *gin.Context) (uint, bool) {
	return handlershared.GetContextUintWithKeys(c, "admin_id", "error.unauthorized", "error.internal")
}

func parseID(c *gin.Context) (uint, bool) {
	id, ok := handlershared.ParseIDParam(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
	}
	return id, ok
}

func listPage(c *gin.Context, rows interface{}, page, pageSize int, total int64) {
	response.SuccessWithPage(c, rows, response.BuildPagination(page, pageSize, total))
}
