package controller

import (
	"learnpath_backend/internal/service"
	"learnpath_backend/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CourseController struct {
	planService *service.PlanService
	log         *zap.Logger
}

func NewCourseController(planService *service.PlanService, log *zap.Logger) *CourseController {
	return &CourseController{planService: planService, log: log}
}

// AvailableCourses 平台预置课程模板
// @Summary 课程模板列表
// @Tags courses
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/v1/courses/templates [get]
func (ctrl *CourseController) AvailableCourses(c *gin.Context) {
	templates, err := ctrl.planService.AvailableCourses()
	if err != nil {
		respondServiceError(c, ctrl.log, err)
		return
	}
	util.Success(c, templates)
}

// UserCourses 学员名下课程
// @Summary 我的课程
// @Tags courses
// @Produce json
// @Param username path string true "用户名"
// @Success 200 {object} util.Response
// @Router /api/v1/users/{username}/courses [get]
func (ctrl *CourseController) UserCourses(c *gin.Context) {
	courses, err := ctrl.planService.UserCourses(c.Param("username"))
	if err != nil {
		respondServiceError(c, ctrl.log, err)
		return
	}
	util.Success(c, courses)
}

// CreateCustomCourse 创建自定义课程并生成全期学习计划
// @Summary 创建自定义课程
// @Tags courses
// @Accept json
// @Produce json
// @Param username path string true "用户名"
// @Param request body service.CreateCustomCourseRequest true "课程信息"
// @Success 201 {object} util.Response
// @Router /api/v1/users/{username}/courses [post]
func (ctrl *CourseController) CreateCustomCourse(c *gin.Context) {
	var req service.CreateCustomCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, "courseName and durationDays are required")
		return
	}

	course, err := ctrl.planService.CreateCustomCourse(c.Request.Context(), c.Param("username"), req)
	if err != nil {
		respondServiceError(c, ctrl.log, err)
		return
	}
	util.Created(c, course)
}

type GeneratePlanRequest struct {
	DurationDays int `json:"durationDays" binding:"required"`
}

// GeneratePlan 开课并生成日级学习计划
// @Summary 生成学习计划
// @Tags courses
// @Accept json
// @Produce json
// @Param username path string true "用户名"
// @Param courseName path string true "课程名"
// @Param request body GeneratePlanRequest true "计划参数"
// @Success 201 {object} util.Response
// @Router /api/v1/users/{username}/courses/{courseName}/plan [post]
func (ctrl *CourseController) GeneratePlan(c *gin.Context) {
	var req GeneratePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, "durationDays is required")
		return
	}

	course, err := ctrl.planService.GeneratePlan(c.Request.Context(), c.Param("username"), c.Param("courseName"), req.DurationDays)
	if err != nil {
		respondServiceError(c, ctrl.log, err)
		return
	}
	util.Created(c, course)
}

// GetPlan 查看课程的全部日计划
// @Summary 查看学习计划
// @Tags courses
// @Produce json
// @Param username path string true "用户名"
// @Param courseName path string true "课程名"
// @Success 200 {object} util.Response
// @Router /api/v1/users/{username}/courses/{courseName}/plan [get]
func (ctrl *CourseController) GetPlan(c *gin.Context) {
	course, plans, err := ctrl.planService.GetPlan(c.Param("username"), c.Param("courseName"))
	if err != nil {
		respondServiceError(c, ctrl.log, err)
		return
	}
	util.Success(c, gin.H{
		"course": course,
		"plans":  plans,
	})
}
