package public

import (
	"strconv"
	"strings"

	"github.com/mowen-next/internal/constants"
	handlershared "github.com/mowen-next/internal/http/handlers/shared"
	"github.com/mowen-next/internal/http/response"
	"github.com/mowen-next/internal/service"

	"github.com/gin-gonic/gin"
)

// Hello 探活接口，回显 text 参数
func (h *Handler) Hello(c *gin.Context) {
	text := strings.TrimSpace(c.Query("text"))
	if text == "" {
		text = "world"
	}
	response.SuccessWithMsg(c, "hello", gin.H{"greeting": "Hello " + text})
}

// ListPosts 公开文章列表
func (h *Handler) ListPosts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize, constants.PublicPostsDefaultPageSize)

	result, err := h.PostService.ListPublished(page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to fetch posts", err)
		return
	}

	response.SuccessWithPage(c, result, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     result.TotalCount,
		TotalPage: (result.TotalCount + int64(pageSize) - 1) / int64(pageSize),
	})
}

// GetPostBySlug 公开文章详情
// 草稿与不存在统一返回 404。
func (h *Handler) GetPostBySlug(c *gin.Context) {
	slug := strings.TrimSpace(c.Param("slug"))
	if slug == "" {
		respondError(c, response.CodeBadRequest, "slug is required", nil)
		return
	}

	post, err := h.PostService.GetPublishedBySlug(c.Request.Context(), slug)
	if err != nil {
		respondPostReadError(c, err)
		return
	}

	response.Success(c, post)
}

func respondPostReadError(c *gin.Context, err error) {
	respondWithMappedError(c, err, postReadErrorRules, response.CodeInternal, "failed to fetch post")
}

var postReadErrorRules = []mappedHandlerError{
	{target: service.ErrNotFound, code: response.CodeNotFound, msg: "post not found"},
}
