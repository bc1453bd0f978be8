package model

import "encoding/json"

const (
	DifficultyBeginner     = "beginner"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"
)

// Question 每日测验题目。Options 以 JSON 数组存储，元素带 "A) " 形式的字母前缀，
// 字母必须与列表位置一致（索引 0 为 A），选项乱序和判分逻辑都依赖该约定
// swagger:model Question
type Question struct {
	BaseModel
	CourseID      uint            `gorm:"not null;index:idx_course_day_q" json:"courseId"`
	DayNumber     int             `gorm:"not null;index:idx_course_day_q" json:"dayNumber"`
	Question      string          `gorm:"type:text;not null" json:"question"`
	Difficulty    string          `gorm:"size:20;not null" json:"difficulty"` // beginner, intermediate, advanced
	Points        int             `gorm:"not null" json:"points"`
	CorrectAnswer string          `gorm:"size:5;not null" json:"correctAnswer"` // 槽位字母 A-D
	Options       json.RawMessage `gorm:"type:json" json:"options"`
	Explanation   string          `gorm:"type:text" json:"explanation,omitempty"`
	QuestionType  string          `gorm:"size:50" json:"questionType"` // conceptual, code_analysis, debugging, algorithm, best_practice
	CodeSnippet   string          `gorm:"type:text" json:"codeSnippet,omitempty"`
}

func (Question) TableName() string {
	return "lp_questions"
}

// OptionList 反序列化选项列表，损坏的 JSON 视为空列表
func (q *Question) OptionList() []string {
	if len(q.Options) == 0 {
		return nil
	}
	var opts []string
	if err := json.Unmarshal(q.Options, &opts); err != nil {
		return nil
	}
	return opts
}

// SetOptions 序列化选项列表到持久化字段
func (q *Question) SetOptions(opts []string) error {
	raw, err := json.Marshal(opts)
	if err != nil {
		return err
	}
	q.Options = raw
	return nil
}
