package admin

import (
	handlershared "github.com/mowen-next/internal/http/handlers/shared"
	"github.com/mowen-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetStats 后台统计
func (h *Handler) GetStats(c *gin.Context) {
	sess := handlershared.GetSession(c)

	stats, err := h.DashboardService.GetStats(sess)
	if err != nil {
		respondPostWriteError(c, err)
		return
	}

	response.Success(c, stats)
}
