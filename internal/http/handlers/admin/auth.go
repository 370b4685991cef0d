package admin

import (
	"time"

	"github.com/tidecart/internal/http/response"
	"github.com/tidecart/internal/models"

	"github.com/gin-gonic/gin"
)

// LoginRequest 管理员登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse 管理员登录响应
type LoginResponse struct {
	Admin     *models.Admin `json:"admin"`
	Roles     []string      `json:"roles"`
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expires_at"`
}

// Login 管理员登录
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	admin, token, expiresAt, err := h.AuthService.Login(req.Username, req.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	roles := h.adminRoles(c, admin.ID)
	requestLog(c).Infow("admin_login_succeeded", "admin_id", admin.ID, "roles", roles)
	response.Success(c, LoginResponse{Admin: admin, Roles: roles, Token: token, ExpiresAt: expiresAt})
}

// GetMe 当前管理员信息
func (h *Handler) GetMe(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	admin, err := h.AuthService.GetAdmin(adminID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"admin": admin, "roles": h.adminRoles(c, admin.ID)})
}

func (h *Handler) adminRoles(c *gin.Context, adminID uint) []string {
	if h.AuthzService == nil {
		return []string{}
	}
	roles, err := h.AuthzService.GetAdminRoles(adminID)
	if err != nil {
		requestLog(c).Warnw("admin_roles_fetch_failed", "admin_id", adminID, "error", err)
		return []string{}
	}
	return roles
}
