package public

import (
	"errors"
	"time"

	handlershared "github.com/tidecart/internal/http/handlers/shared"
	"github.com/tidecart/internal/http/response"
	"github.com/tidecart/internal/i18n"
	"github.com/tidecart/internal/models"
	"github.com/tidecart/internal/service"

	"github.com/gin-gonic/gin"
)

// UserLoginRequest 登录请求
type UserLoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UserRegisterRequest 注册请求
type UserRegisterRequest struct {
	Email       string `json:"email" binding:"required"`
	Password    string `json:"password" binding:"required"`
	DisplayName string `json:"display_name"`
}

// UserTokenResponse 登录/注册响应
type UserTokenResponse struct {
	User      *models.User `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// UserLogin 用户登录
func (h *Handler) UserLogin(c *gin.Context) {
	var req UserLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	user, token, expiresAt, err := h.UserAuthService.Login(req.Email, req.Password)
	if err != nil {
		handlershared.RespondServiceError(c, err, "error.internal")
		return
	}
	handlershared.RequestLog(c).Infow("user_login_succeeded", "user_id", user.ID)
	response.Success(c, UserTokenResponse{User: user, Token: token, ExpiresAt: expiresAt})
}

// UserRegister 用户注册
func (h *Handler) UserRegister(c *gin.Context) {
	var req UserRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	user, token, expiresAt, err := h.UserAuthService.Register(service.RegisterInput{
		Email:       req.Email,
		Password:    req.Password,
		DisplayName: req.DisplayName,
		Locale:      i18n.ResolveLocale(c),
	})
	if err != nil {
		if errors.Is(err, service.ErrPasswordTooShort) {
			handlershared.RespondErrorWithData(c, response.CodeBadRequest, "error.password_too_short", nil, nil, h.passwordMinLen())
			return
		}
		handlershared.RespondServiceError(c, err, "error.internal")
		return
	}
	handlershared.RequestLog(c).Infow("user_registered", "user_id", user.ID)
	response.Success(c, UserTokenResponse{User: user, Token: token, ExpiresAt: expiresAt})
}

// ProfileUpdateRequest 资料更新请求，缺省字段保持不变
type ProfileUpdateRequest struct {
	DisplayName    *string              `json:"display_name"`
	Locale         *string              `json:"locale"`
	ContactNumber  *string              `json:"contact_number"`
	SavedAddresses []cartAddressRequest `json:"saved_addresses"`
	ActiveLocation *cartAddressRequest  `json:"active_location"`
}

// GetProfile 获取当前用户资料与偏好
func (h *Handler) GetProfile(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	view, err := h.PreferenceService.Get(uid)
	if err != nil {
		handlershared.RespondServiceError(c, err, "error.internal")
		return
	}
	response.Success(c, view)
}

// UpdateProfile 更新资料：偏好浅合并
func (h *Handler) UpdateProfile(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req ProfileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	input := service.ProfileUpdateInput{
		DisplayName: req.DisplayName,
		Locale:      req.Locale,
	}
	input.Preferences.ContactNumber = req.ContactNumber
	for _, addr := range req.SavedAddresses {
		input.Preferences.SavedAddresses = append(input.Preferences.SavedAddresses, addr.toCart())
	}
	if req.ActiveLocation != nil {
		active := req.ActiveLocation.toCart()
		input.ActiveLocation = &active
	}
	view, err := h.PreferenceService.Update(uid, input)
	if err != nil {
		handlershared.RespondServiceError(c, err, "error.internal")
		return
	}
	response.Success(c, view)
}

func (h *Handler) passwordMinLen() int {
	if h.Config != nil && h.Config.Security.PasswordMinLen > 0 {
		return h.Config.Security.PasswordMinLen
	}
	return 8
}
