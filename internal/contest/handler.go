package contest

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handler 持有contest模块的HTTP处理函数
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// GetUpcoming 处理 GET /api/contests/upcoming
// 返回按开始日期(YYYY-MM-DD)分组的未开始比赛列表
func (h *Handler) GetUpcoming(c *gin.Context) {
	contests, err := h.svc.Upcoming(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch contests"})
		return
	}

	grouped := make(map[string][]Contest)
	for _, contest := range contests {
		dateKey := contest.StartTime.UTC().Format("2006-01-02")
		grouped[dateKey] = append(grouped[dateKey], contest)
	}

	c.JSON(http.StatusOK, grouped)
}

// Refresh 处理 POST /api/contests/refresh
// 手动触发一轮摄取；摄取是幂等的，重复触发不会产生重复数据
func (h *Handler) Refresh(c *gin.Context) {
	if err := h.svc.IngestUpcoming(c.Request.Context()); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Contests refreshed"})
}
