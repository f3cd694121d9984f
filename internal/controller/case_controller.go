package controller

import (
	"encoding/json"
	"errors"
	"io"
	"simts_backend/internal/service"
	"simts_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CaseController struct {
	CaseService *service.CaseService
}

func NewCaseController(caseService *service.CaseService) *CaseController {
	return &CaseController{CaseService: caseService}
}

// SaveCase godoc
// @Summary 保存案例
// @Description 请求体就是案例文档本身，原样入库，投影字段从文档派生
// @Tags 案例
// @Accept  json
// @Produce  json
// @Param   body body object true "案例文档"
// @Success 201 {object} util.Response{data=model.Case} "创建成功"
// @Failure 400 {object} util.Response "请求体不是合法 JSON"
// @Failure 500 {object} util.Response "服务器内部错误"
// @Router /api/cases [post]
func (c *CaseController) SaveCase(ctx *gin.Context) {
	body, err := io.ReadAll(ctx.Request.Body)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if !json.Valid(body) {
		util.BadRequest(ctx, "请求体必须是合法的 JSON 文档")
		return
	}

	saved, err := c.CaseService.SaveCase(json.RawMessage(body))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, saved)
}

// ListCases godoc
// @Summary 案例列表
// @Description 按主题、难度、状态过滤，默认排除已删除，按 id 倒序
// @Tags 案例
// @Produce  json
// @Param   theme query string false "主题"
// @Param   difficulty query string false "难度"
// @Param   status query string false "状态"
// @Param   limit query int false "返回条数上限，默认 50"
// @Success 200 {object} util.Response{data=[]model.Case}
// @Failure 500 {object} util.Response "服务器内部错误"
// @Router /api/cases [get]
func (c *CaseController) ListCases(ctx *gin.Context) {
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "50"))
	cases, err := c.CaseService.ListCases(
		ctx.Query("theme"), ctx.Query("difficulty"), ctx.Query("status"), limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, cases)
}

// GetCase godoc
// @Summary 案例详情
// @Tags 案例
// @Produce  json
// @Param   id path int true "案例 ID"
// @Success 200 {object} util.Response{data=model.Case}
// @Failure 404 {object} util.Response "案例不存在"
// @Failure 500 {object} util.Response "服务器内部错误"
// @Router /api/cases/{id} [get]
func (c *CaseController) GetCase(ctx *gin.Context) {
	id, err := parseID(ctx)
	if err != nil {
		return
	}
	caseItem, err := c.CaseService.GetCase(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.NotFound(ctx, "案例不存在")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, caseItem)
}

// UpdateCase godoc
// @Summary 更新案例
// @Description 局部更新，未提交的字段不动；payload 更新时投影字段同步派生
// @Tags 案例
// @Accept  json
// @Produce  json
// @Param   id path int true "案例 ID"
// @Param   body body service.CaseUpdateRequest true "更新字段"
// @Success 200 {object} util.Response{data=model.Case}
// @Failure 400 {object} util.Response "没有可更新的字段"
// @Failure 404 {object} util.Response "案例不存在"
// @Failure 500 {object} util.Response "服务器内部错误"
// @Router /api/cases/{id} [put]
func (c *CaseController) UpdateCase(ctx *gin.Context) {
	id, err := parseID(ctx)
	if err != nil {
		return
	}

	var req service.CaseUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	updated, err := c.CaseService.UpdateCase(id, req)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrNoUpdatableFields):
			util.BadRequest(ctx, "没有可更新的字段")
		case errors.Is(err, gorm.ErrRecordNotFound):
			util.NotFound(ctx, "案例不存在")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, updated)
}

// DeleteCase godoc
// @Summary 删除案例
// @Description 软删除，重复删除返回 deleted=false
// @Tags 案例
// @Produce  json
// @Param   id path int true "案例 ID"
// @Success 200 {object} util.Response
// @Failure 500 {object} util.Response "服务器内部错误"
// @Router /api/cases/{id} [delete]
func (c *CaseController) DeleteCase(ctx *gin.Context) {
	id, err := parseID(ctx)
	if err != nil {
		return
	}
	deleted, err := c.CaseService.DeleteCase(id)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"deleted": deleted})
}

// GetStatistics godoc
// @Summary 案例库统计
// @Description 总量、主题分布、难度分布、平均评分、近七天新增
// @Tags 案例
// @Produce  json
// @Success 200 {object} util.Response{data=repository.Statistics}
// @Failure 500 {object} util.Response "服务器内部错误"
// @Router /api/admin/statistics [get]
func (c *CaseController) GetStatistics(ctx *gin.Context) {
	stats, err := c.CaseService.GetStatistics()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}

// parseID 解析路径里的数字 ID，非法时直接响应 400。
func parseID(ctx *gin.Context) (uint, error) {
	return parseParamID(ctx, "id")
}

func parseParamID(ctx *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "无效的 ID")
		return 0, err
	}
	return uint(id), nil
}
