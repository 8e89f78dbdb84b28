package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/mowen-next/internal/models"
)

const sessionStateCacheTTL = 10 * time.Minute

// SessionState 会话主体快照
// 令牌校验时优先读取该快照，避免每个请求都回源数据库；
// 角色以快照/数据库为准，令牌内的角色声明仅作初始值。
type SessionState struct {
	UserID    uint   `json:"user_id"`
	Role      string `json:"role"`
	UpdatedAt int64  `json:"updated_at"`
}

func sessionStateKey(userID uint) string {
	return fmt.Sprintf("auth:session:%d", userID)
}

// BuildSessionState 从用户模型构建会话快照
func BuildSessionState(user *models.User) *SessionState {
	if user == nil {
		return nil
	}
	return &SessionState{
		UserID:    user.ID,
		Role:      user.Role,
		UpdatedAt: time.Now().Unix(),
	}
}

// GetSessionState 获取会话快照
func GetSessionState(ctx context.Context, userID uint) (*SessionState, bool, error) {
	if userID == 0 {
		return nil, false, nil
	}
	var state SessionState
	hit, err := GetJSON(ctx, sessionStateKey(userID), &state)
	if err != nil || !hit {
		return nil, hit, err
	}
	return &state, true, nil
}

// SetSessionState 写入会话快照
func SetSessionState(ctx context.Context, state *SessionState) error {
	if state == nil || state.UserID == 0 {
		return nil
	}
	return SetJSON(ctx, sessionStateKey(state.UserID), state, sessionStateCacheTTL)
}

// DelSessionState 删除会话快照
func DelSessionState(ctx context.Context, userID uint) error {
	if userID == 0 {
		return nil
	}
	return Del(ctx, sessionStateKey(userID))
}
