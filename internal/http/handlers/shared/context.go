package shared

import (
	"github.com/mowen-next/internal/authz"
	"github.com/mowen-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// SessionContextKey 会话在 gin 上下文中的键
const SessionContextKey = "auth_session"

// SetSession 写入请求会话
func SetSession(c *gin.Context, sess authz.Session) {
	c.Set(SessionContextKey, sess)
}

// GetSession 读取请求会话
// 未登录请求返回零值会话，门禁层会据此拒绝管理端操作。
func GetSession(c *gin.Context) authz.Session {
	value, exists := c.Get(SessionContextKey)
	if !exists {
		return authz.Session{}
	}
	sess, ok := value.(authz.Session)
	if !ok {
		return authz.Session{}
	}
	return sess
}

// RequireSession 读取请求会话，缺失时返回 401
func RequireSession(c *gin.Context) (authz.Session, bool) {
	sess := GetSession(c)
	if !sess.Valid() {
		RespondError(c, response.CodeUnauthorized, "authentication required", nil)
		return authz.Session{}, false
	}
	return sess, true
}
