package controller

import (
	"learnpath_backend/internal/model"
	"learnpath_backend/internal/service"
	"learnpath_backend/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type LearningController struct {
	learningService *service.LearningService
	log             *zap.Logger
}

func NewLearningController(learningService *service.LearningService, log *zap.Logger) *LearningController {
	return &LearningController{learningService: learningService, log: log}
}

// QuestionView 答题视图，不携带正确答案与解析。答案只在判分结果和复盘里出现
type QuestionView struct {
	ID           uint     `json:"id"`
	DayNumber    int      `json:"dayNumber"`
	Question     string   `json:"question"`
	Difficulty   string   `json:"difficulty"`
	Points       int      `json:"points"`
	Options      []string `json:"options"`
	QuestionType string   `json:"questionType"`
	CodeSnippet  string   `json:"codeSnippet,omitempty"`
}

func toQuestionViews(questions []model.Question) []QuestionView {
	views := make([]QuestionView, 0, len(questions))
	for _, q := range questions {
		views = append(views, QuestionView{
			ID:           q.ID,
			DayNumber:    q.DayNumber,
			Question:     q.Question,
			Difficulty:   q.Difficulty,
			Points:       q.Points,
			Options:      q.OptionList(),
			QuestionType: q.QuestionType,
			CodeSnippet:  q.CodeSnippet,
		})
	}
	return views
}

// DayStatuses 课程每一天的解锁/完成状态
// @Summary 课程天状态列表
// @Tags learning
// @Produce json
// @Param username path string true "用户名"
// @Param courseName path string true "课程名"
// @Success 200 {object} util.Response
// @Router /api/v1/users/{username}/courses/{courseName}/days [get]
func (ctrl *LearningController) DayStatuses(c *gin.Context) {
	statuses, err := ctrl.learningService.DayStatuses(c.Param("username"), c.Param("courseName"))
	if err != nil {
		respondServiceError(c, ctrl.log, err)
		return
	}
	util.Success(c, statuses)
}

// DayStatus 单天状态
// @Summary 单天状态
// @Tags learning
// @Produce json
// @Param username path string true "用户名"
// @Param courseName path string true "课程名"
// @Param day path int true "天数"
// @Success 200 {object} util.Response
// @Router /api/v1/users/{username}/courses/{courseName}/days/{day}/status [get]
func (ctrl *LearningController) DayStatus(c *gin.Context) {
	status, err := ctrl.learningService.DayStatus(c.Param("username"), c.Param("courseName"), util.MustParseInt(c.Param("day")))
	if err != nil {
		respondServiceError(c, ctrl.log, err)
		return
	}
	util.Success(c, status)
}

// GetQuestions 取当天题目，不存在时按学员表现自适应生成
// @Summary 当天题目
// @Tags learning
// @Produce json
// @Param username path string true "用户名"
// @Param courseName path string true "课程名"
// @Param day path int true "天数"
// @Success 200 {object} util.Response
// @Router /api/v1/users/{username}/courses/{courseName}/days/{day}/questions [get]
func (ctrl *LearningController) GetQuestions(c *gin.Context) {
	questions, err := ctrl.learningService.GetQuestionsForDay(
		c.Request.Context(), c.Param("username"), c.Param("courseName"), util.MustParseInt(c.Param("day")))
	if err != nil {
		respondServiceError(c, ctrl.log, err)
		return
	}
	util.Success(c, toQuestionViews(questions))
}

type GenerateQuestionsRequest struct {
	NumQuestions int `json:"numQuestions"`
}

// GenerateQuestions 为当天生成题目（幂等，已有题目时原样返回）
// @Summary 生成当天题目
// @Tags learning
// @Accept json
// @Produce json
// @Param username path string true "用户名"
// @Param courseName path string true "课程名"
// @Param day path int true "天数"
// @Param request body GenerateQuestionsRequest false "生成参数"
// @Success 200 {object} util.Response
// @Router /api/v1/users/{username}/courses/{courseName}/days/{day}/questions/generate [post]
func (ctrl *LearningController) GenerateQuestions(c *gin.Context) {
	var req GenerateQuestionsRequest
	_ = c.ShouldBindJSON(&req)

	questions, err := ctrl.learningService.GenerateQuestionsForDay(
		c.Request.Context(), c.Param("username"), c.Param("courseName"), util.MustParseInt(c.Param("day")), req.NumQuestions)
	if err != nil {
		respondServiceError(c, ctrl.log, err)
		return
	}
	util.Success(c, toQuestionViews(questions))
}

// RegenerateQuestions 按偏好整批重出当天题目，旧题与旧作答废弃
// @Summary 重出当天题目
// @Tags learning
// @Accept json
// @Produce json
// @Param username path string true "用户名"
// @Param courseName path string true "课程名"
// @Param day path int true "天数"
// @Param request body service.RegenerateRequest false "重出偏好"
// @Success 200 {object} util.Response
// @Router /api/v1/users/{username}/courses/{courseName}/days/{day}/questions/regenerate [post]
func (ctrl *LearningController) RegenerateQuestions(c *gin.Context) {
	var req service.RegenerateRequest
	_ = c.ShouldBindJSON(&req)

	questions, err := ctrl.learningService.RegenerateQuestionsForDay(
		c.Request.Context(), c.Param("username"), c.Param("courseName"), util.MustParseInt(c.Param("day")), req)
	if err != nil {
		respondServiceError(c, ctrl.log, err)
		return
	}
	util.Success(c, toQuestionViews(questions))
}

type SubmitAnswerRequest struct {
	QuestionID uint   `json:"questionId" binding:"required"`
	Answer     string `json:"answer" binding:"required"`
}

// SubmitAnswer 提交作答并即时判分
// @Summary 提交作答
// @Tags learning
// @Accept json
// @Produce json
// @Param username path string true "用户名"
// @Param request body SubmitAnswerRequest true "作答"
// @Success 200 {object} util.Response
// @Router /api/v1/users/{username}/answers [post]
func (ctrl *LearningController) SubmitAnswer(c *gin.Context) {
	var req SubmitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, "questionId and answer are required")
		return
	}

	outcome, err := ctrl.learningService.SubmitAnswer(c.Request.Context(), c.Param("username"), req.QuestionID, req.Answer)
	if err != nil {
		respondServiceError(c, ctrl.log, err)
		return
	}
	util.Success(c, outcome)
}

// QuestionsReview 已完成天的带答案复盘
// @Summary 当天复盘
// @Tags learning
// @Produce json
// @Param username path string true "用户名"
// @Param courseName path string true "课程名"
// @Param day path int true "天数"
// @Success 200 {object} util.Response
// @Router /api/v1/users/{username}/courses/{courseName}/days/{day}/review [get]
func (ctrl *LearningController) QuestionsReview(c *gin.Context) {
	reviews, err := ctrl.learningService.QuestionsReview(c.Param("username"), c.Param("courseName"), util.MustParseInt(c.Param("day")))
	if err != nil {
		respondServiceError(c, ctrl.log, err)
		return
	}
	util.Success(c, reviews)
}
