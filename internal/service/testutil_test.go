package service

import (
	"context"
	"encoding/json"
	"fmt"
	"learnpath_backend/internal/model"
	"learnpath_backend/internal/repository"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type llmReply struct {
	content string
	err     error
}

// mockLlmClient 按入队顺序吐出预设响应，记录收到的提示词。
// 队列耗尽后返回提供方错误，逼出兜底路径
type mockLlmClient struct {
	mu      sync.Mutex
	replies []llmReply
	prompts []string
}

func (m *mockLlmClient) enqueue(content string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.replies = append(m.replies, llmReply{content: content})
}

func (m *mockLlmClient) enqueueError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.replies = append(m.replies, llmReply{err: err})
}

func (m *mockLlmClient) Generate(ctx context.Context, prompt string, temperature float64, maxOutputTokens int) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prompts = append(m.prompts, prompt)
	if len(m.replies) == 0 {
		return "", &LlmProviderError{StatusCode: 503, Body: "no replies queued"}
	}
	reply := m.replies[0]
	m.replies = m.replies[1:]
	return reply.content, reply.err
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// 每个测试独立的命名内存库，shared cache 保证连接池内各连接看到同一份数据
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Course{},
		&model.CourseTemplate{},
		&model.StudyPlan{},
		&model.Question{},
		&model.Progress{},
	))
	return db
}

type fixture struct {
	db       *gorm.DB
	llm      *mockLlmClient
	learning *LearningService
	plans    *PlanService
	progress *ProgressService
	users    *repository.UserRepository
	courses  *repository.CourseRepository
}

func newFixture(t *testing.T, maxAttempts int) *fixture {
	t.Helper()
	db := newTestDB(t)
	log := zap.NewNop()

	userRepo := repository.NewUserRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	planRepo := repository.NewStudyPlanRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	progressRepo := repository.NewProgressRepository(db)

	llm := &mockLlmClient{}
	gen := NewGenerationService(llm, log, rand.New(rand.NewSource(1)))
	cache := NewProgressCache(nil, log)
	activity := NopActivityRecorder{}

	learning := NewLearningService(
		userRepo, courseRepo, planRepo, questionRepo, progressRepo,
		gen, activity, cache, log, maxAttempts)
	plans := NewPlanService(userRepo, courseRepo, planRepo, gen, activity, log)
	progress := NewProgressService(
		userRepo, courseRepo, questionRepo, progressRepo, learning, cache, log)

	return &fixture{
		db:       db,
		llm:      llm,
		learning: learning,
		plans:    plans,
		progress: progress,
		users:    userRepo,
		courses:  courseRepo,
	}
}

// seedCourse 直接入库一个学员 + 课程 + 每日计划
func (f *fixture) seedCourse(t *testing.T, username, courseName string, durationDays int) (*model.User, *model.Course) {
	t.Helper()
	user := &model.User{Name: "Test Learner", Username: username}
	require.NoError(t, f.users.Create(user))

	course := &model.Course{
		CourseName:   courseName,
		DurationDays: durationDays,
		UserID:       user.ID,
	}
	require.NoError(t, f.courses.Create(course))

	plans := make([]model.StudyPlan, 0, durationDays)
	for day := 1; day <= durationDays; day++ {
		plans = append(plans, model.StudyPlan{
			CourseID:  course.ID,
			DayNumber: day,
			Content:   fmt.Sprintf("Day %d: Study %s fundamentals and core concepts", day, courseName),
		})
	}
	require.NoError(t, f.db.Create(&plans).Error)
	return user, course
}

// seedCourseForUser 给已存在的学员追加一门课程和每日计划
func (f *fixture) seedCourseForUser(t *testing.T, userID uint, courseName string, durationDays int) *model.Course {
	t.Helper()
	course := &model.Course{
		CourseName:   courseName,
		DurationDays: durationDays,
		UserID:       userID,
	}
	require.NoError(t, f.courses.Create(course))

	plans := make([]model.StudyPlan, 0, durationDays)
	for day := 1; day <= durationDays; day++ {
		plans = append(plans, model.StudyPlan{
			CourseID:  course.ID,
			DayNumber: day,
			Content:   fmt.Sprintf("Day %d: Study %s fundamentals and core concepts", day, courseName),
		})
	}
	require.NoError(t, f.db.Create(&plans).Error)
	return course
}

// questionPayload 构造一道合法题目的 JSON 载荷
func questionPayload(question, correct string, points int) map[string]interface{} {
	return map[string]interface{}{
		"question":       question,
		"difficulty":     "beginner",
		"points":         points,
		"correct_answer": correct,
		"options": []string{
			"A) First option",
			"B) Second option",
			"C) Third option",
			"D) Fourth option",
		},
		"explanation":   "Because it is.",
		"question_type": "conceptual",
		"code_snippet":  "",
	}
}

func questionsJSON(t *testing.T, payloads ...map[string]interface{}) string {
	t.Helper()
	data, err := json.Marshal(payloads)
	require.NoError(t, err)
	return string(data)
}

// enqueueQuestions 排入一批合法题目的模型响应
func (f *fixture) enqueueQuestions(t *testing.T, n int) {
	t.Helper()
	payloads := make([]map[string]interface{}, 0, n)
	for i := 0; i < n; i++ {
		payloads = append(payloads, questionPayload(fmt.Sprintf("Question %d?", i+1), "A", 10))
	}
	f.llm.enqueue(questionsJSON(t, payloads...))
}

// answerAllForDay 把某天的所有题目全部答对，推动该天完成
func (f *fixture) answerAllForDay(t *testing.T, username string, courseID uint, day int) {
	t.Helper()
	var questions []model.Question
	require.NoError(t, f.db.Where("course_id = ? AND day_number = ?", courseID, day).Find(&questions).Error)
	require.NotEmpty(t, questions)
	for _, q := range questions {
		_, err := f.learning.SubmitAnswer(context.Background(), username, q.ID, q.CorrectAnswer)
		require.NoError(t, err)
	}
}
