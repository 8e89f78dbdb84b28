package public

import (
	"errors"
	"strings"

	handlershared "github.com/mowen-next/internal/http/handlers/shared"
	"github.com/mowen-next/internal/http/response"
	"github.com/mowen-next/internal/service"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login 凭据登录
// 任何校验失败统一返回同一错误消息，不暴露失败环节。
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "email and password are required", nil)
		return
	}

	result, err := h.AuthService.LoginWithPassword(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			respondError(c, response.CodeUnauthorized, "invalid email or password", nil)
			return
		}
		respondError(c, response.CodeInternal, "login failed", err)
		return
	}

	response.Success(c, result)
}

// FederatedCallback 联邦登录回调
// 身份提供方完成验证后以共享密钥头部送达身份信息。
func (h *Handler) FederatedCallback(c *gin.Context) {
	secret := strings.TrimSpace(c.GetHeader("X-Callback-Secret"))
	if !h.AuthService.VerifyCallbackSecret(secret) {
		requestLog(c).Warnw("federated_callback_secret_rejected", "ip", c.ClientIP())
		respondError(c, response.CodeUnauthorized, "invalid callback secret", nil)
		return
	}

	var identity service.FederatedIdentity
	if err := c.ShouldBindJSON(&identity); err != nil {
		respondError(c, response.CodeBadRequest, "email is required", nil)
		return
	}

	result, err := h.AuthService.FederatedSignIn(c.Request.Context(), identity)
	if err != nil {
		if errors.Is(err, service.ErrFederatedEmailRejected) {
			respondError(c, response.CodeForbidden, "account not allowed", nil)
			return
		}
		respondError(c, response.CodeInternal, "federated sign-in failed", err)
		return
	}

	response.Success(c, result)
}

// Me 当前会话用户信息
func (h *Handler) Me(c *gin.Context) {
	sess, ok := handlershared.RequireSession(c)
	if !ok {
		return
	}

	profile, err := h.AuthService.GetProfile(sess.UserID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeUnauthorized, "session user no longer exists", nil)
			return
		}
		respondError(c, response.CodeInternal, "failed to fetch profile", err)
		return
	}

	response.Success(c, profile)
}
