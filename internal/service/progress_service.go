package service

import (
	"context"
	"errors"
	"learnpath_backend/internal/model"
	"learnpath_backend/internal/repository"
	"learnpath_backend/internal/util"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ProgressService 课程进度汇总与仪表盘。汇总结果走 Redis 缓存，
// 写路径（提交作答、重出题目）负责失效
type ProgressService struct {
	users     *repository.UserRepository
	courses   *repository.CourseRepository
	questions *repository.QuestionRepository
	progress  *repository.ProgressRepository
	learning  *LearningService
	cache     *ProgressCache
	log       *zap.Logger
}

func NewProgressService(
	users *repository.UserRepository,
	courses *repository.CourseRepository,
	questions *repository.QuestionRepository,
	progress *repository.ProgressRepository,
	learning *LearningService,
	cache *ProgressCache,
	log *zap.Logger,
) *ProgressService {
	return &ProgressService{
		users:     users,
		courses:   courses,
		questions: questions,
		progress:  progress,
		learning:  learning,
		cache:     cache,
		log:       log,
	}
}

func (s *ProgressService) resolveUser(username string) (*model.User, error) {
	user, err := s.users.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// currentDayOf 第一个解锁且未完成的天；全部完成时停在最后一天
func currentDayOf(statuses []model.DayStatus) int {
	for _, st := range statuses {
		if st.IsCurrent {
			return st.DayNumber
		}
	}
	if len(statuses) > 0 {
		return statuses[len(statuses)-1].DayNumber
	}
	return 1
}

func (s *ProgressService) buildSummary(userID uint, course *model.Course) (*model.ProgressSummary, error) {
	totalQuestions, err := s.questions.CountByCourse(course.ID)
	if err != nil {
		return nil, err
	}
	totalPoints, err := s.questions.SumPointsByCourse(course.ID)
	if err != nil {
		return nil, err
	}
	answered, err := s.progress.CountByUserAndCourse(userID, course.ID)
	if err != nil {
		return nil, err
	}
	earned, err := s.progress.SumEarnedByUserAndCourse(userID, course.ID)
	if err != nil {
		return nil, err
	}

	snap, err := s.learning.loadSnapshot(userID, course.ID)
	if err != nil {
		return nil, err
	}
	statuses := computeDayStatuses(snap, course.DurationDays)

	summary := &model.ProgressSummary{
		UserID:            userID,
		CourseID:          course.ID,
		TotalQuestions:    int(totalQuestions),
		AnsweredQuestions: int(answered),
		EarnedPoints:      int(earned),
		TotalPoints:       int(totalPoints),
		CurrentDay:        currentDayOf(statuses),
	}
	if totalQuestions > 0 {
		summary.CompletionPercentage = float64(answered) / float64(totalQuestions) * 100
	}
	return summary, nil
}

// GetCourseProgress 课程整体进度。命中缓存直接返回，未命中回源并回填
func (s *ProgressService) GetCourseProgress(ctx context.Context, username, courseName string) (*model.ProgressSummary, error) {
	user, err := s.resolveUser(username)
	if err != nil {
		return nil, err
	}
	course, err := s.courses.FindByUserAndName(user.ID, courseName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	if cached, ok := s.cache.Get(ctx, user.ID, course.ID); ok {
		return cached, nil
	}

	summary, err := s.buildSummary(user.ID, course)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, summary)
	return summary, nil
}

// GetDashboard 学员所有课程的概览行，仪表盘首页用
func (s *ProgressService) GetDashboard(username string) ([]model.CourseOverview, error) {
	user, err := s.resolveUser(username)
	if err != nil {
		return nil, err
	}
	courses, err := s.courses.ListByUser(user.ID)
	if err != nil {
		return nil, err
	}

	overviews := make([]model.CourseOverview, 0, len(courses))
	for i := range courses {
		course := &courses[i]
		summary, err := s.buildSummary(user.ID, course)
		if err != nil {
			return nil, err
		}

		lastActivity := "Never"
		last, err := s.progress.LastByUserAndCourse(user.ID, course.ID)
		if err != nil {
			return nil, err
		}
		if last != nil {
			lastActivity = last.UpdatedAt.Format(util.TimeFormat)
			if time.Since(last.UpdatedAt) < 24*time.Hour {
				lastActivity = "Recent"
			}
		}

		overviews = append(overviews, model.CourseOverview{
			ID:                   course.ID,
			CourseName:           course.CourseName,
			DurationDays:         course.DurationDays,
			CurrentDay:           summary.CurrentDay,
			CompletionPercentage: summary.CompletionPercentage,
			TotalQuestions:       summary.TotalQuestions,
			AnsweredQuestions:    summary.AnsweredQuestions,
			EarnedPoints:         summary.EarnedPoints,
			TotalPoints:          summary.TotalPoints,
			LastActivity:         lastActivity,
		})
	}
	return overviews, nil
}
