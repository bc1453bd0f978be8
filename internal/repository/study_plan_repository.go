package repository

import (
	"learnpath_backend/internal/model"

	"gorm.io/gorm"
)

type StudyPlanRepository struct {
	DB *gorm.DB
}

func NewStudyPlanRepository(db *gorm.DB) *StudyPlanRepository {
	return &StudyPlanRepository{DB: db}
}

func (r *StudyPlanRepository) ListByCourse(courseID uint) ([]model.StudyPlan, error) {
	var ps []model.StudyPlan
	err := r.DB.Where("course_id = ?", courseID).Order("day_number asc").Find(&ps).Error
	return ps, err
}

func (r *StudyPlanRepository) FindByCourseAndDay(courseID uint, dayNumber int) (*model.StudyPlan, error) {
	var p model.StudyPlan
	err := r.DB.Where("course_id = ? AND day_number = ?", courseID, dayNumber).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}
