package admin

import (
	"strconv"

	"github.com/mowen-next/internal/constants"
	handlershared "github.com/mowen-next/internal/http/handlers/shared"
	"github.com/mowen-next/internal/http/response"
	"github.com/mowen-next/internal/service"

	"github.com/gin-gonic/gin"
)

// ListPosts 后台文章列表（含草稿）
func (h *Handler) ListPosts(c *gin.Context) {
	sess := handlershared.GetSession(c)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize, constants.AdminPostsDefaultPageSize)

	var published *bool
	if raw := c.Query("published"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			respondError(c, response.CodeBadRequest, "invalid published filter", nil)
			return
		}
		published = &parsed
	}

	result, err := h.PostService.ListForAdmin(sess, page, pageSize, published)
	if err != nil {
		respondPostWriteError(c, err)
		return
	}

	response.SuccessWithPage(c, result, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     result.TotalCount,
		TotalPage: (result.TotalCount + int64(pageSize) - 1) / int64(pageSize),
	})
}

// GetPost 后台文章详情
func (h *Handler) GetPost(c *gin.Context) {
	sess := handlershared.GetSession(c)
	id, ok := parsePostID(c)
	if !ok {
		return
	}

	post, err := h.PostService.GetByIDForAdmin(sess, id)
	if err != nil {
		respondPostWriteError(c, err)
		return
	}

	response.Success(c, post)
}

// CreatePost 创建文章
func (h *Handler) CreatePost(c *gin.Context) {
	sess := handlershared.GetSession(c)

	var input service.CreatePostInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, response.CodeBadRequest, "title and content are required", nil)
		return
	}

	post, err := h.PostService.Create(c.Request.Context(), sess, input)
	if err != nil {
		respondPostWriteError(c, err)
		return
	}

	requestLog(c).Infow("admin_post_created", "post_id", post.ID, "slug", post.Slug)
	response.Success(c, post)
}

// UpdatePost 更新文章
func (h *Handler) UpdatePost(c *gin.Context) {
	sess := handlershared.GetSession(c)
	id, ok := parsePostID(c)
	if !ok {
		return
	}

	var input service.UpdatePostInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", nil)
		return
	}

	post, err := h.PostService.Update(c.Request.Context(), sess, id, input)
	if err != nil {
		respondPostWriteError(c, err)
		return
	}

	response.Success(c, post)
}

// DeletePost 删除文章
func (h *Handler) DeletePost(c *gin.Context) {
	sess := handlershared.GetSession(c)
	id, ok := parsePostID(c)
	if !ok {
		return
	}

	if err := h.PostService.Delete(c.Request.Context(), sess, id); err != nil {
		respondPostWriteError(c, err)
		return
	}

	response.SuccessWithMsg(c, "post deleted", gin.H{"id": id})
}

// TogglePostPublish 翻转文章发布状态
func (h *Handler) TogglePostPublish(c *gin.Context) {
	sess := handlershared.GetSession(c)
	id, ok := parsePostID(c)
	if !ok {
		return
	}

	post, err := h.PostService.TogglePublish(c.Request.Context(), sess, id)
	if err != nil {
		respondPostWriteError(c, err)
		return
	}

	response.Success(c, post)
}

func parsePostID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "invalid post id", nil)
		return 0, false
	}
	return uint(id), true
}
