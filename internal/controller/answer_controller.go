package controller

import (
	"errors"
	"simts_backend/internal/service"
	"simts_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type AnswerController struct {
	AnswerService *service.AnswerService
}

func NewAnswerController(answerService *service.AnswerService) *AnswerController {
	return &AnswerController{AnswerService: answerService}
}

// SubmitAnswers godoc
// @Summary 提交作答
// @Description 学生一次性提交整份作答，建立会话、逐题判分并返回成绩。
// @Description 学生身份取自访问令牌。
// @Tags 作答
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.SubmitAnswersRequest true "作答内容"
// @Success 201 {object} util.Response{data=service.SubmitResult} "提交成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 401 {object} util.Response "未登录"
// @Failure 404 {object} util.Response "案例不存在"
// @Failure 500 {object} util.Response "服务器内部错误"
// @Router /api/answers [post]
func (c *AnswerController) SubmitAnswers(ctx *gin.Context) {
	claims := util.GetStudentFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.SubmitAnswersRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.AnswerService.SubmitAnswers(claims.StudentID, req)
	if err != nil {
		if errors.Is(err, util.ErrCaseNotFound) {
			util.NotFound(ctx, "案例不存在")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, result)
}

// ListSessions godoc
// @Summary 作答会话列表
// @Description 教师端报表，可按学生或案例过滤，带学生和案例摘要
// @Tags 作答
// @Produce  json
// @Param   student_id query int false "学生 ID"
// @Param   case_id query int false "案例 ID"
// @Param   limit query int false "返回条数上限，默认 100"
// @Success 200 {object} util.Response{data=[]repository.SessionReport}
// @Failure 500 {object} util.Response "服务器内部错误"
// @Router /api/answers [get]
func (c *AnswerController) ListSessions(ctx *gin.Context) {
	studentID, _ := strconv.ParseUint(ctx.Query("student_id"), 10, 64)
	caseID, _ := strconv.ParseUint(ctx.Query("case_id"), 10, 64)
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "100"))

	sessions, err := c.AnswerService.ListSessions(uint(studentID), uint(caseID), limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, sessions)
}

// GetSessionDetail godoc
// @Summary 会话详情
// @Description 会话记录加逐题答案，按题号排序
// @Tags 作答
// @Produce  json
// @Param   id path int true "会话 ID"
// @Success 200 {object} util.Response{data=service.SessionDetail}
// @Failure 404 {object} util.Response "会话不存在"
// @Failure 500 {object} util.Response "服务器内部错误"
// @Router /api/answers/sessions/{id} [get]
func (c *AnswerController) GetSessionDetail(ctx *gin.Context) {
	id, err := parseID(ctx)
	if err != nil {
		return
	}
	detail, err := c.AnswerService.GetSessionDetail(id)
	if err != nil {
		if errors.Is(err, util.ErrSessionNotFound) {
			util.NotFound(ctx, "会话不存在")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, detail)
}

// FeedbackRequest 教师批注请求
type FeedbackRequest struct {
	Feedback string   `json:"feedback" binding:"required"`
	Score    *float64 `json:"score,omitempty"`
}

// UpdateFeedback godoc
// @Summary 批注答案
// @Description 教师给单条答案写评语，可附人工评分
// @Tags 作答
// @Accept  json
// @Produce  json
// @Param   id path int true "答案 ID"
// @Param   body body FeedbackRequest true "评语与评分"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 404 {object} util.Response "答案不存在"
// @Failure 500 {object} util.Response "服务器内部错误"
// @Router /api/answers/{id}/feedback [put]
func (c *AnswerController) UpdateFeedback(ctx *gin.Context) {
	id, err := parseID(ctx)
	if err != nil {
		return
	}

	var req FeedbackRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.AnswerService.UpdateFeedback(id, req.Feedback, req.Score); err != nil {
		if errors.Is(err, util.ErrAnswerNotFound) {
			util.NotFound(ctx, "答案不存在")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"answer_id": id})
}
