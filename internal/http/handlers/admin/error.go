package admin

import (
	"errors"

	"github.com/mowen-next/internal/authz"
	handlershared "github.com/mowen-next/internal/http/handlers/shared"
	"github.com/mowen-next/internal/http/response"
	"github.com/mowen-next/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func requestLog(c *gin.Context) *zap.SugaredLogger {
	return handlershared.RequestLog(c)
}

func respondError(c *gin.Context, code int, msg string, err error) {
	handlershared.RespondError(c, code, msg, err)
}

// respondPostWriteError 文章写路径的统一错误映射
func respondPostWriteError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, authz.ErrForbidden):
		respondError(c, response.CodeForbidden, "admin access required", nil)
	case errors.Is(err, service.ErrNotFound):
		respondError(c, response.CodeNotFound, "post not found", nil)
	case errors.Is(err, service.ErrSlugExists):
		respondError(c, response.CodeConflict, "a post with this slug already exists", nil)
	case errors.Is(err, service.ErrEmptyTitle):
		respondError(c, response.CodeBadRequest, "title is required", nil)
	case errors.Is(err, service.ErrEmptyContent):
		respondError(c, response.CodeBadRequest, "content is required", nil)
	default:
		respondError(c, response.CodeInternal, "operation failed", err)
	}
}
