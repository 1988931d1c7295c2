package profile

import (
	"context"
	"net/http"

	"github.com/cptrack/cptrack-backend/internal/user"
	"github.com/gin-gonic/gin"
)

// HandlesLoader 由user模块注入，按用户ID取回其配置的平台用户名。
// found为false表示用户不存在。
type HandlesLoader func(ctx context.Context, userID string) (Handles, bool, error)

// Handler 持有profile模块的HTTP处理函数
type Handler struct {
	svc         *Service
	loadHandles HandlesLoader
}

func NewHandler(svc *Service, loadHandles HandlesLoader) *Handler {
	return &Handler{svc: svc, loadHandles: loadHandles}
}

// GetProfile 处理 GET /api/profile
// 读取当前用户配置的平台用户名并聚合抓取，
// 平台失败只体现在对应槽位的error对象里，不影响响应整体。
func (h *Handler) GetProfile(c *gin.Context) {
	userID := c.GetString(user.UserIDKey)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	handles, found, err := h.loadHandles(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load profile data"})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, h.svc.AggregateProfiles(c.Request.Context(), handles))
}
