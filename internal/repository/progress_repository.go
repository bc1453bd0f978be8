package repository

import (
	"errors"
	"learnpath_backend/internal/model"

	"gorm.io/gorm"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

// FindByUserAndQuestion 无记录时返回 (nil, nil)
func (r *ProgressRepository) FindByUserAndQuestion(userID, questionID uint) (*model.Progress, error) {
	var p model.Progress
	err := r.DB.Where("user_id = ? AND question_id = ?", userID, questionID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProgressRepository) Create(p *model.Progress) error {
	return r.DB.Create(p).Error
}

func (r *ProgressRepository) Update(p *model.Progress) error {
	return r.DB.Save(p).Error
}

// ListByUserAndCourse 按提交先后返回（id 升序）
func (r *ProgressRepository) ListByUserAndCourse(userID, courseID uint) ([]model.Progress, error) {
	var ps []model.Progress
	err := r.DB.Where("user_id = ? AND course_id = ?", userID, courseID).
		Order("id asc").Find(&ps).Error
	return ps, err
}

func (r *ProgressRepository) CountByUserAndCourse(userID, courseID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Progress{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).Count(&count).Error
	return count, err
}

func (r *ProgressRepository) SumEarnedByUserAndCourse(userID, courseID uint) (int64, error) {
	var total int64
	err := r.DB.Model(&model.Progress{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Select("COALESCE(SUM(earned_points), 0)").Scan(&total).Error
	return total, err
}

// LastByUserAndCourse 最近一次作答，无记录时返回 (nil, nil)
func (r *ProgressRepository) LastByUserAndCourse(userID, courseID uint) (*model.Progress, error) {
	var p model.Progress
	err := r.DB.Where("user_id = ? AND course_id = ?", userID, courseID).
		Order("id desc").First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
