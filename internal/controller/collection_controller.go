package controller

import (
	"errors"
	"simts_backend/internal/service"
	"simts_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CollectionController struct {
	CollectionService *service.CollectionService
}

func NewCollectionController(collectionService *service.CollectionService) *CollectionController {
	return &CollectionController{CollectionService: collectionService}
}

// CreateCollectionRequest 新建集合请求
type CreateCollectionRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// CreateCollection godoc
// @Summary 新建案例集合
// @Tags 集合
// @Accept  json
// @Produce  json
// @Param   body body CreateCollectionRequest true "集合信息"
// @Success 201 {object} util.Response{data=model.Collection} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 500 {object} util.Response "服务器内部错误"
// @Router /api/collections [post]
func (c *CollectionController) CreateCollection(ctx *gin.Context) {
	var req CreateCollectionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	col, err := c.CollectionService.Create(req.Name, req.Description)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, col)
}

// ListCollections godoc
// @Summary 集合列表
// @Description 每个集合带成员案例数
// @Tags 集合
// @Produce  json
// @Success 200 {object} util.Response{data=[]repository.CollectionSummary}
// @Failure 500 {object} util.Response "服务器内部错误"
// @Router /api/collections [get]
func (c *CollectionController) ListCollections(ctx *gin.Context) {
	collections, err := c.CollectionService.List()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, collections)
}

// GetCollection godoc
// @Summary 集合详情
// @Description 集合及其成员案例，按加入时间倒序，已删除的案例不出现
// @Tags 集合
// @Produce  json
// @Param   id path int true "集合 ID"
// @Success 200 {object} util.Response{data=service.CollectionDetail}
// @Failure 404 {object} util.Response "集合不存在"
// @Failure 500 {object} util.Response "服务器内部错误"
// @Router /api/collections/{id} [get]
func (c *CollectionController) GetCollection(ctx *gin.Context) {
	id, err := parseID(ctx)
	if err != nil {
		return
	}
	detail, err := c.CollectionService.Get(id)
	if err != nil {
		if errors.Is(err, util.ErrCollectionNotFound) {
			util.NotFound(ctx, "集合不存在")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, detail)
}

// UpdateCollection godoc
// @Summary 更新集合
// @Tags 集合
// @Accept  json
// @Produce  json
// @Param   id path int true "集合 ID"
// @Param   body body service.CollectionUpdateRequest true "更新字段"
// @Success 200 {object} util.Response{data=model.Collection}
// @Failure 400 {object} util.Response "没有可更新的字段"
// @Failure 404 {object} util.Response "集合不存在"
// @Failure 500 {object} util.Response "服务器内部错误"
// @Router /api/collections/{id} [put]
func (c *CollectionController) UpdateCollection(ctx *gin.Context) {
	id, err := parseID(ctx)
	if err != nil {
		return
	}

	var req service.CollectionUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	col, err := c.CollectionService.Update(id, req)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrNoUpdatableFields):
			util.BadRequest(ctx, "没有可更新的字段")
		case errors.Is(err, util.ErrCollectionNotFound):
			util.NotFound(ctx, "集合不存在")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, col)
}

// DeleteCollection godoc
// @Summary 删除集合
// @Description 软删除，成员关系保留
// @Tags 集合
// @Produce  json
// @Param   id path int true "集合 ID"
// @Success 200 {object} util.Response
// @Failure 500 {object} util.Response "服务器内部错误"
// @Router /api/collections/{id} [delete]
func (c *CollectionController) DeleteCollection(ctx *gin.Context) {
	id, err := parseID(ctx)
	if err != nil {
		return
	}
	deleted, err := c.CollectionService.Delete(id)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"deleted": deleted})
}

// AddCase godoc
// @Summary 添加案例到集合
// @Tags 集合
// @Produce  json
// @Param   id path int true "集合 ID"
// @Param   caseId path int true "案例 ID"
// @Success 201 {object} util.Response "添加成功"
// @Failure 400 {object} util.Response "无效的 ID"
// @Failure 404 {object} util.Response "集合或案例不存在"
// @Failure 409 {object} util.Response "案例已在集合中"
// @Failure 500 {object} util.Response "服务器内部错误"
// @Router /api/collections/{id}/cases/{caseId} [post]
func (c *CollectionController) AddCase(ctx *gin.Context) {
	id, err := parseID(ctx)
	if err != nil {
		return
	}
	caseID, err := parseParamID(ctx, "caseId")
	if err != nil {
		return
	}

	if err := c.CollectionService.AddCase(id, caseID); err != nil {
		switch {
		case errors.Is(err, util.ErrCollectionNotFound):
			util.NotFound(ctx, "集合不存在")
		case errors.Is(err, util.ErrCaseNotFound):
			util.NotFound(ctx, "案例不存在")
		case errors.Is(err, util.ErrCaseAlreadyInCollection):
			util.Conflict(ctx, "案例已在集合中")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, gin.H{"collection_id": id, "case_id": caseID})
}

// RemoveCase godoc
// @Summary 从集合移除案例
// @Description 重复移除返回 removed=false
// @Tags 集合
// @Produce  json
// @Param   id path int true "集合 ID"
// @Param   caseId path int true "案例 ID"
// @Success 200 {object} util.Response
// @Failure 500 {object} util.Response "服务器内部错误"
// @Router /api/collections/{id}/cases/{caseId} [delete]
func (c *CollectionController) RemoveCase(ctx *gin.Context) {
	id, err := parseID(ctx)
	if err != nil {
		return
	}
	caseID, err := parseParamID(ctx, "caseId")
	if err != nil {
		return
	}
	removed, err := c.CollectionService.RemoveCase(id, caseID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"removed": removed})
}
