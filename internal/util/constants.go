package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

// 题目生成数量约束
const (
	DefaultNumQuestions = 10
	MinNumQuestions     = 1
	MaxNumQuestions     = 20
)

// 近期正确率窗口：最近 N 次作答
const RecentAccuracyWindow = 5
