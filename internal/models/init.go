package models

import (
	"errors"
	"strings"

	"github.com/mowen-next/internal/constants"
	"github.com/mowen-next/internal/logger"

	"gorm.io/gorm"
)

// EnsureAdminUser 确保配置的管理员邮箱存在对应的 ADMIN 用户
// 只有该邮箱的账号可以通过本系统的任一登录流程获得 ADMIN 角色
func EnsureAdminUser(email, name string) error {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		logger.Warnw("ensure_admin_user_skip_empty_email")
		return nil
	}

	var existing User
	err := DB.Where("email = ?", normalized).First(&existing).Error
	if err == nil {
		if existing.Role != constants.RoleAdmin {
			if err := DB.Model(&existing).Update("role", constants.RoleAdmin).Error; err != nil {
				return err
			}
			logger.Warnw("admin_user_role_restored", "email", normalized)
		}
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if strings.TrimSpace(name) == "" {
		name = "Admin"
	}
	admin := User{
		Email: normalized,
		Name:  name,
		Role:  constants.RoleAdmin,
	}
	if err := DB.Create(&admin).Error; err != nil {
		return err
	}
	logger.Infow("admin_user_created", "email", normalized)
	return nil
}
