package controller

import (
	"errors"
	"simts_backend/internal/service"
	"simts_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService *service.AuthService
}

func NewAuthController(authService *service.AuthService) *AuthController {
	return &AuthController{AuthService: authService}
}

// LoginRequest 学生登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login godoc
// @Summary 学生登录
// @Description 用户名加口令换取访问令牌
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body LoginRequest true "登录信息"
// @Success 200 {object} util.Response{data=service.LoginResult} "登录成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 401 {object} util.Response "用户名或口令错误"
// @Failure 500 {object} util.Response "服务器内部错误"
// @Router /api/auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.AuthService.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, util.ErrInvalidCredentials) {
			util.Unauthorized(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, result)
}

// ListStudents godoc
// @Summary 学生名单
// @Description 教师端查看启用状态的学生账号
// @Tags 认证
// @Produce  json
// @Param   status query string false "账号状态，默认 active"
// @Success 200 {object} util.Response{data=[]model.Student}
// @Failure 500 {object} util.Response "服务器内部错误"
// @Router /api/students [get]
func (c *AuthController) ListStudents(ctx *gin.Context) {
	students, err := c.AuthService.ListStudents(ctx.Query("status"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, students)
}
