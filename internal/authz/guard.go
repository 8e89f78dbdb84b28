// Package authz 提供管理端操作的角色门禁。
package authz

import (
	"errors"

	"github.com/mowen-next/internal/constants"
)

// ErrForbidden 调用者不具备 ADMIN 角色
var ErrForbidden = errors.New("admin access required")

// Session 请求会话
// 在令牌解码时构建一次，按值贯穿调用链传递。
type Session struct {
	UserID uint
	Role   string
}

// Valid 判断会话是否携带有效主体
func (s Session) Valid() bool {
	return s.UserID != 0
}

// EnsureAdmin 校验会话角色是否为 ADMIN
// 所有管理端变更与查询在访问任何数据之前必须先通过该门禁，
// 以免非管理员通过错误差异探测数据存在性。
func EnsureAdmin(s Session) error {
	if !s.Valid() || s.Role != constants.RoleAdmin {
		return ErrForbidden
	}
	return nil
}
