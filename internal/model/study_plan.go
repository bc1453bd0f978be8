package model

// StudyPlan 某课程某一天的学习内容概要，每个 (course, day) 恰好一条
// swagger:model StudyPlan
type StudyPlan struct {
	BaseModel
	CourseID  uint   `gorm:"not null;uniqueIndex:idx_course_day" json:"courseId"`
	DayNumber int    `gorm:"not null;uniqueIndex:idx_course_day" json:"dayNumber"`
	Content   string `gorm:"type:text;not null" json:"content"`
}

func (StudyPlan) TableName() string {
	return "lp_study_plans"
}
