package controller

import (
	"simts_backend/internal/service"
	"simts_backend/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type HealthController struct {
	DB *gorm.DB
	AI *service.AIService
}

func NewHealthController(db *gorm.DB, ai *service.AIService) *HealthController {
	return &HealthController{DB: db, AI: ai}
}

// Check godoc
// @Summary 健康检查
// @Description 数据库连通性与生成器配置状态
// @Tags 系统
// @Produce  json
// @Success 200 {object} util.Response
// @Failure 500 {object} util.Response "数据库不可用"
// @Router /api/health [get]
func (c *HealthController) Check(ctx *gin.Context) {
	sqlDB, err := c.DB.DB()
	if err == nil {
		err = sqlDB.Ping()
	}
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"status":        "ok",
		"ai_configured": c.AI.Configured(),
	})
}
