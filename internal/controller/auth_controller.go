package controller

import (
	"learnpath_backend/internal/service"
	"learnpath_backend/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthController struct {
	userService *service.UserService
	log         *zap.Logger
}

func NewAuthController(userService *service.UserService, log *zap.Logger) *AuthController {
	return &AuthController{userService: userService, log: log}
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Username string `json:"username" binding:"required"`
}

// Register 注册新学员
// @Summary 注册
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "注册信息"
// @Success 201 {object} util.Response
// @Router /api/v1/auth/register [post]
func (ctrl *AuthController) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, "name and username are required")
		return
	}

	user, err := ctrl.userService.Register(req.Name, req.Username)
	if err != nil {
		respondServiceError(c, ctrl.log, err)
		return
	}
	util.Created(c, user)
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
}

// Login 按用户名登录
// @Summary 登录
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "登录信息"
// @Success 200 {object} util.Response
// @Router /api/v1/auth/login [post]
func (ctrl *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, "username is required")
		return
	}

	user, err := ctrl.userService.Login(req.Username)
	if err != nil {
		respondServiceError(c, ctrl.log, err)
		return
	}
	util.Success(c, user)
}

// Logout 登出（仅记录行为）
// @Summary 登出
// @Tags auth
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/v1/auth/logout [post]
func (ctrl *AuthController) Logout(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, "username is required")
		return
	}
	ctrl.userService.Logout(req.Username)
	util.Success(c, gin.H{"message": "logged out"})
}
