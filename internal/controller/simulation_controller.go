package controller

import (
	"simts_backend/internal/service"
	"simts_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type SimulationController struct {
	CaseService *service.CaseService
}

func NewSimulationController(caseService *service.CaseService) *SimulationController {
	return &SimulationController{CaseService: caseService}
}

// Simulate godoc
// @Summary 生成或分析案例
// @Description generate 为真时调用生成器产出结构化案例并入库；
// @Description 否则把 case_text 转发给生成器做自由文本分析。
// @Description 生成器输出解析失败不算错误，原文在 text 字段返回，case 为 null。
// @Tags 生成
// @Accept  json
// @Produce  json
// @Param   body body service.SimulateRequest true "生成参数"
// @Success 200 {object} util.Response{data=service.GenerationResult}
// @Failure 400 {object} util.Response "既未要求生成也没有提供文本"
// @Failure 500 {object} util.Response "生成器调用失败"
// @Router /api/simulate [post]
func (c *SimulationController) Simulate(ctx *gin.Context) {
	var req service.SimulateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if req.Generate {
		result, err := c.CaseService.GenerateCase(ctx.Request.Context(), req)
		if err != nil {
			util.LogInternalError(ctx, err)
			return
		}
		util.Success(ctx, result)
		return
	}

	if req.CaseText != "" {
		text, err := c.CaseService.AnalyzeText(ctx.Request.Context(), req.CaseText)
		if err != nil {
			util.LogInternalError(ctx, err)
			return
		}
		util.Success(ctx, service.GenerationResult{OK: true, Text: text})
		return
	}

	util.BadRequest(ctx, "generate 为假时必须提供 case_text")
}
