package model

// Progress 学习者对单道题目的作答记录。
// 每个 (user, question) 至多一条，重答覆盖旧结果，不保留历史
// swagger:model Progress
type Progress struct {
	BaseModel
	UserID       uint   `gorm:"not null;uniqueIndex:idx_user_question" json:"userId"`
	CourseID     uint   `gorm:"not null;index" json:"courseId"`
	QuestionID   uint   `gorm:"not null;uniqueIndex:idx_user_question;index" json:"questionId"`
	IsCorrect    bool   `gorm:"not null" json:"isCorrect"`
	EarnedPoints int    `gorm:"not null" json:"earnedPoints"` // 0 或题目满分，不给部分分
	UserAnswer   string `gorm:"type:text" json:"userAnswer"`
	Attempts     int    `gorm:"default:1" json:"attempts"`
}

func (Progress) TableName() string {
	return "lp_progress"
}
