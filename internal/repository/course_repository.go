package repository

import (
	"learnpath_backend/internal/model"

	"gorm.io/gorm"
)

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

func (r *CourseRepository) Create(course *model.Course) error {
	return r.DB.Create(course).Error
}

// CreateWithPlans 建课与整套日计划写在同一事务里，任何一步失败整体回滚，
// 不会留下没有日计划的课程。buildPlans 在课程拿到主键后构造计划记录
func (r *CourseRepository) CreateWithPlans(course *model.Course, buildPlans func(courseID uint) []model.StudyPlan) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(course).Error; err != nil {
			return err
		}
		plans := buildPlans(course.ID)
		for i := range plans {
			if err := tx.Create(&plans[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *CourseRepository) FindByID(id uint) (*model.Course, error) {
	var c model.Course
	err := r.DB.First(&c, id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CourseRepository) FindByUserAndName(userID uint, courseName string) (*model.Course, error) {
	var c model.Course
	err := r.DB.Where("user_id = ? AND course_name = ?", userID, courseName).First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CourseRepository) ListByUser(userID uint) ([]model.Course, error) {
	var cs []model.Course
	err := r.DB.Where("user_id = ?", userID).Order("created_at asc").Find(&cs).Error
	return cs, err
}

func (r *CourseRepository) ListTemplates() ([]model.CourseTemplate, error) {
	var ts []model.CourseTemplate
	err := r.DB.Order("id asc").Find(&ts).Error
	return ts, err
}
