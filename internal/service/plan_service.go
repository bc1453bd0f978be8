package service

import (
	"context"
	"errors"
	"learnpath_backend/internal/model"
	"learnpath_backend/internal/repository"
	"learnpath_backend/internal/util"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PlanService 课程与学习计划管理。创建课程即生成全期计划，
// 每个课程的每一天都保证有一条计划记录
type PlanService struct {
	users    *repository.UserRepository
	courses  *repository.CourseRepository
	plans    *repository.StudyPlanRepository
	gen      *GenerationService
	activity ActivityRecorder
	log      *zap.Logger
}

func NewPlanService(
	users *repository.UserRepository,
	courses *repository.CourseRepository,
	plans *repository.StudyPlanRepository,
	gen *GenerationService,
	activity ActivityRecorder,
	log *zap.Logger,
) *PlanService {
	return &PlanService{
		users:    users,
		courses:  courses,
		plans:    plans,
		gen:      gen,
		activity: activity,
		log:      log,
	}
}

// AvailableCourses 平台预置的课程模板列表
func (s *PlanService) AvailableCourses() ([]model.CourseTemplate, error) {
	return s.courses.ListTemplates()
}

func (s *PlanService) resolveUser(username string) (*model.User, error) {
	user, err := s.users.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// createCourseWithPlan 建课 + 生成全期计划。计划生成自带兜底，大纲先在
// 事务外拿到，课程和全部日计划再在同一事务里落库，失败不留半成品课程
func (s *PlanService) createCourseWithPlan(ctx context.Context, user *model.User, courseName, description string, durationDays int, isCustom bool) (*model.Course, error) {
	if durationDays < 1 {
		return nil, util.ErrInvalidDuration
	}

	if existing, err := s.courses.FindByUserAndName(user.ID, courseName); err == nil && existing != nil {
		return nil, util.ErrCourseExists
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	outline := s.gen.GenerateStudyPlanOutline(ctx, courseName, durationDays)

	course := &model.Course{
		CourseName:        courseName,
		CourseDescription: description,
		DurationDays:      durationDays,
		UserID:            user.ID,
		IsCustom:          isCustom,
	}
	err := s.courses.CreateWithPlans(course, func(courseID uint) []model.StudyPlan {
		plans := make([]model.StudyPlan, 0, len(outline))
		for _, o := range outline {
			plans = append(plans, model.StudyPlan{
				CourseID:  courseID,
				DayNumber: o.Day,
				Content:   PlanContentText(o),
			})
		}
		return plans
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("课程创建完成",
		zap.String("course", courseName),
		zap.Uint("user_id", user.ID),
		zap.Int("duration_days", durationDays),
		zap.Bool("custom", isCustom))
	return course, nil
}

// GeneratePlan 从模板或任意课程名开课并生成日计划
func (s *PlanService) GeneratePlan(ctx context.Context, username, courseName string, durationDays int) (*model.Course, error) {
	user, err := s.resolveUser(username)
	if err != nil {
		return nil, err
	}
	course, err := s.createCourseWithPlan(ctx, user, courseName, "", durationDays, false)
	if err != nil {
		return nil, err
	}
	s.activity.Record(username, "plan_generated", map[string]interface{}{
		"course":        courseName,
		"duration_days": durationDays,
	})
	return course, nil
}

type CreateCustomCourseRequest struct {
	CourseName   string `json:"courseName" binding:"required"`
	Description  string `json:"description"`
	DurationDays int    `json:"durationDays" binding:"required"`
}

// CreateCustomCourse 学员自定义课程，同样立刻生成全期计划
func (s *PlanService) CreateCustomCourse(ctx context.Context, username string, req CreateCustomCourseRequest) (*model.Course, error) {
	user, err := s.resolveUser(username)
	if err != nil {
		return nil, err
	}
	course, err := s.createCourseWithPlan(ctx, user, req.CourseName, req.Description, req.DurationDays, true)
	if err != nil {
		return nil, err
	}
	s.activity.Record(username, "custom_course_created", map[string]interface{}{
		"course":        req.CourseName,
		"duration_days": req.DurationDays,
	})
	return course, nil
}

// GetPlan 按天升序返回课程全部日计划
func (s *PlanService) GetPlan(username, courseName string) (*model.Course, []model.StudyPlan, error) {
	user, err := s.resolveUser(username)
	if err != nil {
		return nil, nil, err
	}
	course, err := s.courses.FindByUserAndName(user.ID, courseName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, util.ErrCourseNotFound
		}
		return nil, nil, err
	}
	plans, err := s.plans.ListByCourse(course.ID)
	if err != nil {
		return nil, nil, err
	}
	if len(plans) == 0 {
		return nil, nil, util.ErrPlanNotFound
	}
	return course, plans, nil
}

// UserCourses 学员名下全部课程
func (s *PlanService) UserCourses(username string) ([]model.Course, error) {
	user, err := s.resolveUser(username)
	if err != nil {
		return nil, err
	}
	return s.courses.ListByUser(user.ID)
}
