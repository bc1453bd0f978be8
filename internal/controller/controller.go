package controller

import (
	"errors"
	"learnpath_backend/internal/util"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondServiceError 业务错误到 HTTP 状态码的统一映射，
// 未识别的错误记录日志并返回 500
func respondServiceError(c *gin.Context, log *zap.Logger, err error) {
	switch {
	case errors.Is(err, util.ErrUserNotFound),
		errors.Is(err, util.ErrCourseNotFound),
		errors.Is(err, util.ErrPlanNotFound),
		errors.Is(err, util.ErrQuestionNotFound):
		util.NotFound(c, err.Error())
	case errors.Is(err, util.ErrUsernameTaken),
		errors.Is(err, util.ErrCourseExists):
		util.Error(c, http.StatusConflict, err.Error())
	case errors.Is(err, util.ErrDayLocked),
		errors.Is(err, util.ErrDayCompleted),
		errors.Is(err, util.ErrDayNotCompleted),
		errors.Is(err, util.ErrMaxAttemptsReached):
		util.Forbidden(c, err.Error())
	case errors.Is(err, util.ErrInvalidDuration),
		errors.Is(err, util.ErrInvalidDayNumber),
		errors.Is(err, util.ErrInvalidNumQuestion):
		util.BadRequest(c, err.Error())
	default:
		util.LogInternalError(c, log, err)
	}
}
