package model

// Course 一个学习者拥有的课程，按天推进
// swagger:model Course
type Course struct {
	BaseModel
	CourseName        string `gorm:"size:200;not null;uniqueIndex:idx_user_course" json:"courseName"`
	CourseDescription string `gorm:"type:text" json:"courseDescription,omitempty"`
	DurationDays      int    `gorm:"not null" json:"durationDays"` // 15, 20, 30 或自定义正整数
	UserID            uint   `gorm:"not null;uniqueIndex:idx_user_course;index" json:"userId"`
	IsCustom          bool   `gorm:"default:false" json:"isCustom"`
}

func (Course) TableName() string {
	return "lp_courses"
}

// CourseTemplate 预置课程模板，迁移时写入默认数据
// swagger:model CourseTemplate
type CourseTemplate struct {
	BaseModel
	Name              string `gorm:"size:200;uniqueIndex;not null" json:"name"`
	Description       string `gorm:"type:text" json:"description"`
	SuggestedDuration int    `gorm:"default:20" json:"suggestedDuration"`
	DifficultyLevel   string `gorm:"size:50" json:"difficultyLevel"`
}

func (CourseTemplate) TableName() string {
	return "lp_course_templates"
}
