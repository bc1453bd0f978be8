package repository

import (
	"learnpath_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

func (r *QuestionRepository) FindByID(id uint) (*model.Question, error) {
	var q model.Question
	err := r.DB.First(&q, id).Error
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *QuestionRepository) ListByCourseAndDay(courseID uint, dayNumber int) ([]model.Question, error) {
	var qs []model.Question
	err := r.DB.Where("course_id = ? AND day_number = ?", courseID, dayNumber).
		Order("id asc").Find(&qs).Error
	return qs, err
}

func (r *QuestionRepository) ListByCourse(courseID uint) ([]model.Question, error) {
	var qs []model.Question
	err := r.DB.Where("course_id = ?", courseID).Order("day_number asc, id asc").Find(&qs).Error
	return qs, err
}

// InsertDayQuestionsIfAbsent 为某天写入题目集。并发的生成请求以课程行锁
// 串行化，事务内复查已有题目，存在则放弃写入并返回已有集合，保证
// 同一天不会出现重复题目集
func (r *QuestionRepository) InsertDayQuestionsIfAbsent(courseID uint, dayNumber int, questions []model.Question) ([]model.Question, bool, error) {
	var result []model.Question
	inserted := false

	err := r.DB.Transaction(func(tx *gorm.DB) error {
		courseQuery := tx
		// SQLite 不支持 SELECT ... FOR UPDATE，事务本身已足够串行化
		if tx.Dialector.Name() == "mysql" {
			courseQuery = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		var course model.Course
		if err := courseQuery.First(&course, courseID).Error; err != nil {
			return err
		}

		var existing []model.Question
		if err := tx.Where("course_id = ? AND day_number = ?", courseID, dayNumber).
			Order("id asc").Find(&existing).Error; err != nil {
			return err
		}
		if len(existing) > 0 {
			result = existing
			return nil
		}

		for i := range questions {
			questions[i].CourseID = courseID
			questions[i].DayNumber = dayNumber
			if err := tx.Create(&questions[i]).Error; err != nil {
				return err
			}
		}
		result = questions
		inserted = true
		return nil
	})

	if err != nil {
		return nil, false, err
	}
	return result, inserted, nil
}

// ReplaceDayQuestions 重新生成：旧题目及其作答记录删除、新题目写入在
// 同一事务内完成，任何一步失败都整体回滚，不会留下孤儿进度或半套题
func (r *QuestionRepository) ReplaceDayQuestions(courseID uint, dayNumber int, questions []model.Question) ([]model.Question, error) {
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		var oldIDs []uint
		if err := tx.Model(&model.Question{}).
			Where("course_id = ? AND day_number = ?", courseID, dayNumber).
			Pluck("id", &oldIDs).Error; err != nil {
			return err
		}

		if len(oldIDs) > 0 {
			if err := tx.Where("question_id IN ?", oldIDs).
				Delete(&model.Progress{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", oldIDs).
				Delete(&model.Question{}).Error; err != nil {
				return err
			}
		}

		for i := range questions {
			questions[i].CourseID = courseID
			questions[i].DayNumber = dayNumber
			if err := tx.Create(&questions[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *QuestionRepository) CountByCourse(courseID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Question{}).Where("course_id = ?", courseID).Count(&count).Error
	return count, err
}

func (r *QuestionRepository) SumPointsByCourse(courseID uint) (int64, error) {
	var total int64
	err := r.DB.Model(&model.Question{}).Where("course_id = ?", courseID).
		Select("COALESCE(SUM(points), 0)").Scan(&total).Error
	return total, err
}
