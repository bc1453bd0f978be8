package controller

import (
	"learnpath_backend/internal/service"
	"learnpath_backend/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ProgressController struct {
	progressService *service.ProgressService
	log             *zap.Logger
}

func NewProgressController(progressService *service.ProgressService, log *zap.Logger) *ProgressController {
	return &ProgressController{progressService: progressService, log: log}
}

// CourseProgress 课程整体进度汇总
// @Summary 课程进度
// @Tags progress
// @Produce json
// @Param username path string true "用户名"
// @Param courseName path string true "课程名"
// @Success 200 {object} util.Response
// @Router /api/v1/users/{username}/courses/{courseName}/progress [get]
func (ctrl *ProgressController) CourseProgress(c *gin.Context) {
	summary, err := ctrl.progressService.GetCourseProgress(c.Request.Context(), c.Param("username"), c.Param("courseName"))
	if err != nil {
		respondServiceError(c, ctrl.log, err)
		return
	}
	util.Success(c, summary)
}

// Dashboard 学员所有课程的概览
// @Summary 学习仪表盘
// @Tags progress
// @Produce json
// @Param username path string true "用户名"
// @Success 200 {object} util.Response
// @Router /api/v1/users/{username}/dashboard [get]
func (ctrl *ProgressController) Dashboard(c *gin.Context) {
	overviews, err := ctrl.progressService.GetDashboard(c.Param("username"))
	if err != nil {
		respondServiceError(c, ctrl.log, err)
		return
	}
	util.Success(c, overviews)
}
