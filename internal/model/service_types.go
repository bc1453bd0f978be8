package model

// DayStatus 单日的解锁/完成状态快照
type DayStatus struct {
	DayNumber            int     `json:"dayNumber"`
	IsUnlocked           bool    `json:"isUnlocked"`
	IsCompleted          bool    `json:"isCompleted"`
	IsCurrent            bool    `json:"isCurrent"`
	TotalQuestions       int     `json:"totalQuestions"`
	AnsweredQuestions    int     `json:"answeredQuestions"`
	CompletionPercentage float64 `json:"completionPercentage"`
	CanRegenerate        bool    `json:"canRegenerate"`
	HasQuestions         bool    `json:"hasQuestions"`
	HasProgress          bool    `json:"hasProgress"`
	NeedsQuestions       bool    `json:"needsQuestions"`
	CanContinue          bool    `json:"canContinue"`
}

// ProgressSummary 某课程的整体进度汇总
type ProgressSummary struct {
	UserID               uint    `json:"userId"`
	CourseID             uint    `json:"courseId"`
	TotalQuestions       int     `json:"totalQuestions"`
	AnsweredQuestions    int     `json:"answeredQuestions"`
	EarnedPoints         int     `json:"earnedPoints"`
	TotalPoints          int     `json:"totalPoints"`
	CompletionPercentage float64 `json:"completionPercentage"`
	CurrentDay           int     `json:"currentDay"`
}

// CourseOverview 仪表盘上的单课程概览行
type CourseOverview struct {
	ID                   uint    `json:"id"`
	CourseName           string  `json:"courseName"`
	DurationDays         int     `json:"durationDays"`
	CurrentDay           int     `json:"currentDay"`
	CompletionPercentage float64 `json:"completionPercentage"`
	TotalQuestions       int     `json:"totalQuestions"`
	AnsweredQuestions    int     `json:"answeredQuestions"`
	EarnedPoints         int     `json:"earnedPoints"`
	TotalPoints          int     `json:"totalPoints"`
	LastActivity         string  `json:"lastActivity"`
}
