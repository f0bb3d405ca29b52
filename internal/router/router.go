package router

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/vitalog/internal/config"
	"github.com/vitalog/internal/handler"
	"github.com/vitalog/internal/logger"
	"gorm.io/gorm"
)

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(cfg config.AppConfig, gdb *gorm.DB, log *logger.Logger) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	r := gin.Default()

	// 配置会话中间件
	store := cookie.NewStore([]byte(cfg.SessionSecret))
	r.Use(sessions.Sessions("vitalog_session", store))

	api := handler.NewAPI(gdb, log)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	v1 := r.Group("/api/v1")
	{
		v1.POST("/metrics", api.IngestMetrics)
		v1.GET("/metrics/:userID", api.GetMetricsHistory)

		v1.GET("/profiles/:userID", api.GetProfile)
		v1.PUT("/profiles/:userID/preferences", api.UpdatePreferences)

		v1.GET("/scores/:userID", api.GetScores)
		v1.GET("/scores/:userID/today", api.GetTodayScore)

		v1.GET("/suggestions/:userID", api.GetSuggestions)
		v1.POST("/suggestions/:id/complete", api.CompleteSuggestion)

		v1.GET("/notifications/:userID", api.ListNotifications)
		v1.POST("/notifications/:userID", api.UpsertNotification)
		v1.PUT("/notifications/:userID", api.UpsertNotification)
		v1.DELETE("/notifications/:userID/:kind", api.DeleteNotification)

		v1.GET("/reports/:userID/weekly", api.GetWeeklyReport)
	}

	// 运维路由：手动补算等敏感操作需要会话认证
	admin := r.Group("/admin")
	{
		admin.POST("/login", handler.Login)
		admin.POST("/logout", handler.Logout)

		auth := admin.Group("/api")
		auth.Use(handler.AuthRequired())
		{
			auth.POST("/rollup/run", api.RunRollup)
		}
	}

	return r
}
