package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handler 持有user模块的HTTP处理函数
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Me 处理 GET /api/user/me，返回当前用户配置的平台用户名
func (h *Handler) Me(c *gin.Context) {
	userID := c.GetString(UserIDKey)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	u, found, err := h.svc.GetByUUID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load user"})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		return
	}

	c.JSON(http.StatusOK, u)
}

type updateHandlesRequest struct {
	CodeforcesHandle string `json:"codeforcesHandle"`
	LeetcodeHandle   string `json:"leetcodeHandle"`
	CodechefHandle   string `json:"codechefHandle"`
}

// UpdateHandles 处理 POST /api/user/update-handles
func (h *Handler) UpdateHandles(c *gin.Context) {
	userID := c.GetString(UserIDKey)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req updateHandlesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	err := h.svc.UpdateHandles(c.Request.Context(), userID,
		req.CodeforcesHandle, req.LeetcodeHandle, req.CodechefHandle)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update handles"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Handles updated"})
}
