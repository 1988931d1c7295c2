package api

import (
	"github.com/cptrack/cptrack-backend/internal/contest"
	"github.com/cptrack/cptrack-backend/internal/profile"
	"github.com/cptrack/cptrack-backend/internal/user"
	"github.com/gin-gonic/gin"
)

// Handlers 汇集了各模块注册路由所需的处理器
type Handlers struct {
	Profile *profile.Handler
	Contest *contest.Handler
	User    *user.Handler
}

// SetupRoutes 注册项目的所有API路由
func SetupRoutes(router *gin.Engine, h *Handlers) {
	api := router.Group("/api")
	{
		// 用户配置相关的路由组 /api/user
		userRoutes := api.Group("/user")
		{
			userRoutes.GET("/me", user.LoadUserMiddleware(), h.User.Me)
			userRoutes.POST("/update-handles", user.EnsureUserCookieMiddleware(), h.User.UpdateHandles)
		}

		// 聚合资料路由 /api/profile
		api.GET("/profile", user.LoadUserMiddleware(), h.Profile.GetProfile)

		// 比赛相关的路由组 /api/contests
		contestRoutes := api.Group("/contests")
		{
			contestRoutes.GET("/upcoming", h.Contest.GetUpcoming)
			contestRoutes.POST("/refresh", h.Contest.Refresh)
		}
	}
}
