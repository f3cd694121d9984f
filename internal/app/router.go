package app

import (
	"simts_backend/docs"
	"simts_backend/internal/config"
	"simts_backend/internal/middleware"
	"simts_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	api := router.Group("/api")
	{
		api.GET("/health", c.health.Check)

		// 认证与名单
		api.POST("/auth/login", c.auth.Login)
		api.GET("/students", c.auth.ListStudents)

		// 案例生成
		api.POST("/simulate", c.simulation.Simulate)

		// 案例库
		api.POST("/cases", c.caseCtrl.SaveCase)
		api.GET("/cases", c.caseCtrl.ListCases)
		api.GET("/cases/:id", c.caseCtrl.GetCase)
		api.PUT("/cases/:id", c.caseCtrl.UpdateCase)
		api.DELETE("/cases/:id", c.caseCtrl.DeleteCase)
		api.GET("/admin/statistics", c.caseCtrl.GetStatistics)

		// 集合
		api.POST("/collections", c.collection.CreateCollection)
		api.GET("/collections", c.collection.ListCollections)
		api.GET("/collections/:id", c.collection.GetCollection)
		api.PUT("/collections/:id", c.collection.UpdateCollection)
		api.DELETE("/collections/:id", c.collection.DeleteCollection)
		api.POST("/collections/:id/cases/:caseId", c.collection.AddCase)
		api.DELETE("/collections/:id/cases/:caseId", c.collection.RemoveCase)

		// 教师端报表与批注
		api.GET("/answers", c.answer.ListSessions)
		api.GET("/answers/sessions/:id", c.answer.GetSessionDetail)
		api.PUT("/answers/:id/feedback", c.answer.UpdateFeedback)

		// 学生提交作答需要登录
		authorized := api.Group("/")
		authorized.Use(middleware.AuthMiddleware(cfg.JWT.Secret))
		{
			authorized.POST("/answers", c.answer.SubmitAnswers)
		}
	}
}
