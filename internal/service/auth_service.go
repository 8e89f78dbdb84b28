package service

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/mowen-next/internal/cache"
	"github.com/mowen-next/internal/config"
	"github.com/mowen-next/internal/constants"
	"github.com/mowen-next/internal/logger"
	"github.com/mowen-next/internal/models"
	"github.com/mowen-next/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// SessionClaims 会话令牌声明
type SessionClaims struct {
	UserID uint   `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// LoginResult 登录结果
type LoginResult struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      UserProfile `json:"user"`
}

// UserProfile 用户信息响应结构
type UserProfile struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Image string `json:"image"`
	Role  string `json:"role"`
}

// FederatedIdentity 联邦身份信息
// 字段来自身份提供方回调，送达前已由提供方完成验证。
type FederatedIdentity struct {
	Email string `json:"email" binding:"required"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

// AuthService 认证业务逻辑
type AuthService struct {
	cfg       *config.Config
	userRepo  repository.UserRepository
	adminHash string
}

// NewAuthService 创建认证服务
// password_hash 缺失且配置了明文口令时，启动期哈希一次作为开发环境兜底。
func NewAuthService(cfg *config.Config, userRepo repository.UserRepository) *AuthService {
	s := &AuthService{cfg: cfg, userRepo: userRepo}
	s.adminHash = strings.TrimSpace(cfg.Admin.PasswordHash)
	if s.adminHash == "" && cfg.Admin.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(cfg.Admin.Password), bcrypt.DefaultCost)
		if err != nil {
			logger.Errorw("admin_password_hash_failed", "error", err)
		} else {
			s.adminHash = string(hashed)
			logger.Warnw("admin_plaintext_password_in_use",
				"hint", "set admin.password_hash for production",
			)
		}
	}
	return s
}

// LoginWithPassword 凭据登录
// 邮箱不匹配与口令不匹配统一返回 ErrInvalidCredentials，
// 且失败路径不创建、不改写任何用户记录。
func (s *AuthService) LoginWithPassword(ctx context.Context, email, password string) (*LoginResult, error) {
	normalized, ok := normalizeEmail(email)
	if !ok {
		return nil, ErrInvalidCredentials
	}
	adminEmail, _ := normalizeEmail(s.cfg.Admin.Email)
	if normalized != adminEmail || s.adminHash == "" {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.adminHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	// 凭据通过后才触达用户表
	user, err := s.userRepo.GetByEmail(normalized)
	if err != nil {
		return nil, err
	}
	if user == nil {
		user = &models.User{
			Email: normalized,
			Name:  s.cfg.Admin.Name,
			Role:  constants.RoleAdmin,
		}
		if err := s.userRepo.Create(user); err != nil {
			return nil, err
		}
	} else if user.Role != constants.RoleAdmin {
		user.Role = constants.RoleAdmin
		if err := s.userRepo.Update(user); err != nil {
			return nil, err
		}
	}

	return s.issueSession(ctx, user)
}

// FederatedSignIn 联邦登录回调
// 仅放行配置的管理员邮箱，其余身份一律拒绝且不落库。
func (s *AuthService) FederatedSignIn(ctx context.Context, identity FederatedIdentity) (*LoginResult, error) {
	if !s.cfg.Auth.Federated.Enabled {
		return nil, ErrFederatedEmailRejected
	}
	normalized, ok := normalizeEmail(identity.Email)
	if !ok {
		return nil, ErrFederatedEmailRejected
	}
	adminEmail, _ := normalizeEmail(s.cfg.Admin.Email)
	if normalized != adminEmail {
		logger.Warnw("federated_email_rejected", "email", normalized)
		return nil, ErrFederatedEmailRejected
	}

	user := &models.User{
		Email: normalized,
		Name:  identity.Name,
		Image: identity.Image,
		Role:  constants.RoleAdmin,
	}
	if user.Name == "" {
		user.Name = s.cfg.Admin.Name
	}
	if err := s.userRepo.UpsertByEmail(user); err != nil {
		return nil, err
	}

	return s.issueSession(ctx, user)
}

// VerifyCallbackSecret 校验联邦回调共享密钥
func (s *AuthService) VerifyCallbackSecret(secret string) bool {
	expected := s.cfg.Auth.Federated.CallbackSecret
	return expected != "" && secret == expected
}

// GetProfile 获取当前会话用户信息
func (s *AuthService) GetProfile(userID uint) (*UserProfile, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	profile := newUserProfile(user)
	return &profile, nil
}

// GenerateSessionToken 签发会话令牌
func (s *AuthService) GenerateSessionToken(user *models.User) (string, time.Time, error) {
	expireHours := s.cfg.JWT.ExpireHours
	if expireHours <= 0 {
		expireHours = 24
	}
	expiresAt := time.Now().Add(time.Duration(expireHours) * time.Hour)

	claims := SessionClaims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Email,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWT.SecretKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ParseSessionToken 解析会话令牌
func (s *AuthService) ParseSessionToken(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.cfg.JWT.SecretKey), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

func (s *AuthService) issueSession(ctx context.Context, user *models.User) (*LoginResult, error) {
	token, expiresAt, err := s.GenerateSessionToken(user)
	if err != nil {
		return nil, err
	}
	if err := cache.SetSessionState(ctx, cache.BuildSessionState(user)); err != nil {
		logger.Warnw("session_state_cache_failed", "user_id", user.ID, "error", err)
	}
	logger.Infow("user_logged_in", "user_id", user.ID, "role", user.Role)
	return &LoginResult{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      newUserProfile(user),
	}, nil
}

func newUserProfile(user *models.User) UserProfile {
	return UserProfile{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
		Image: user.Image,
		Role:  user.Role,
	}
}

// normalizeEmail 邮箱归一化
// 去空白、转小写，并要求可解析的地址格式。
func normalizeEmail(email string) (string, bool) {
	trimmed := strings.ToLower(strings.TrimSpace(email))
	if trimmed == "" {
		return "", false
	}
	if _, err := mail.ParseAddress(trimmed); err != nil {
		return "", false
	}
	return trimmed, true
}
