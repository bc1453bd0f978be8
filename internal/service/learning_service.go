package service

import (
	"context"
	"errors"
	"learnpath_backend/internal/model"
	"learnpath_backend/internal/repository"
	"learnpath_backend/internal/util"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// LearningService 日级进度推进与测验的核心编排：解锁判定、按需出题、
// 重出题目、判分。所有写路径都会使相关进度缓存失效
type LearningService struct {
	users       *repository.UserRepository
	courses     *repository.CourseRepository
	plans       *repository.StudyPlanRepository
	questions   *repository.QuestionRepository
	progress    *repository.ProgressRepository
	gen         *GenerationService
	activity    ActivityRecorder
	cache       *ProgressCache
	log         *zap.Logger
	maxAttempts int
}

func NewLearningService(
	users *repository.UserRepository,
	courses *repository.CourseRepository,
	plans *repository.StudyPlanRepository,
	questions *repository.QuestionRepository,
	progress *repository.ProgressRepository,
	gen *GenerationService,
	activity ActivityRecorder,
	cache *ProgressCache,
	log *zap.Logger,
	maxAttempts int,
) *LearningService {
	return &LearningService{
		users:       users,
		courses:     courses,
		plans:       plans,
		questions:   questions,
		progress:    progress,
		gen:         gen,
		activity:    activity,
		cache:       cache,
		log:         log,
		maxAttempts: maxAttempts,
	}
}

func (s *LearningService) resolveUser(username string) (*model.User, error) {
	user, err := s.users.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *LearningService) resolveUserCourse(username, courseName string) (*model.User, *model.Course, error) {
	user, err := s.resolveUser(username)
	if err != nil {
		return nil, nil, err
	}
	course, err := s.courses.FindByUserAndName(user.ID, courseName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, util.ErrCourseNotFound
		}
		return nil, nil, err
	}
	return user, course, nil
}

// courseSnapshot 一次性读出全课程的题目和作答，天状态在内存里递推，
// 避免逐天回库导致的 O(天数) 查询
type courseSnapshot struct {
	totalByDay    map[int]int
	answeredByDay map[int]int
	answeredIDs   map[uint]model.Progress
}

func (s *LearningService) loadSnapshot(userID, courseID uint) (*courseSnapshot, error) {
	questions, err := s.questions.ListByCourse(courseID)
	if err != nil {
		return nil, err
	}
	progressList, err := s.progress.ListByUserAndCourse(userID, courseID)
	if err != nil {
		return nil, err
	}

	snap := &courseSnapshot{
		totalByDay:    make(map[int]int),
		answeredByDay: make(map[int]int),
		answeredIDs:   make(map[uint]model.Progress),
	}
	for _, p := range progressList {
		snap.answeredIDs[p.QuestionID] = p
	}
	for _, q := range questions {
		snap.totalByDay[q.DayNumber]++
		if _, ok := snap.answeredIDs[q.ID]; ok {
			snap.answeredByDay[q.DayNumber]++
		}
	}
	return snap, nil
}

// computeDayStatuses 从第 1 天起递推：第 1 天恒解锁，之后每天以前一天完成为前提。
// 完成 = 当天有题且全部作答。没有题的天不可能完成，因此也会挡住后续所有天
func computeDayStatuses(snap *courseSnapshot, durationDays int) []model.DayStatus {
	statuses := make([]model.DayStatus, 0, durationDays)
	prevCompleted := true

	for day := 1; day <= durationDays; day++ {
		total := snap.totalByDay[day]
		answered := snap.answeredByDay[day]

		st := model.DayStatus{
			DayNumber:         day,
			IsUnlocked:        prevCompleted,
			TotalQuestions:    total,
			AnsweredQuestions: answered,
			HasQuestions:      total > 0,
			HasProgress:       answered > 0,
		}
		if total > 0 {
			st.CompletionPercentage = float64(answered) / float64(total) * 100
			st.IsCompleted = answered == total
		}
		if st.IsUnlocked {
			st.IsCurrent = !st.IsCompleted
			st.NeedsQuestions = !st.HasQuestions
			st.CanRegenerate = st.HasQuestions && !st.IsCompleted
			st.CanContinue = st.HasQuestions && st.HasProgress && !st.IsCompleted
		}

		statuses = append(statuses, st)
		prevCompleted = st.IsCompleted
	}
	return statuses
}

// DayStatuses 返回整个课程每一天的状态
func (s *LearningService) DayStatuses(username, courseName string) ([]model.DayStatus, error) {
	user, course, err := s.resolveUserCourse(username, courseName)
	if err != nil {
		return nil, err
	}
	snap, err := s.loadSnapshot(user.ID, course.ID)
	if err != nil {
		return nil, err
	}
	return computeDayStatuses(snap, course.DurationDays), nil
}

// DayStatus 单天状态。天数越界返回 ErrInvalidDayNumber
func (s *LearningService) DayStatus(username, courseName string, dayNumber int) (*model.DayStatus, error) {
	user, course, err := s.resolveUserCourse(username, courseName)
	if err != nil {
		return nil, err
	}
	if dayNumber < 1 || dayNumber > course.DurationDays {
		return nil, util.ErrInvalidDayNumber
	}
	snap, err := s.loadSnapshot(user.ID, course.ID)
	if err != nil {
		return nil, err
	}
	statuses := computeDayStatuses(snap, course.DurationDays)
	return &statuses[dayNumber-1], nil
}

func normalizeNumQuestions(n int) (int, error) {
	if n == 0 {
		return util.DefaultNumQuestions, nil
	}
	if n < util.MinNumQuestions || n > util.MaxNumQuestions {
		return 0, util.ErrInvalidNumQuestion
	}
	return n, nil
}

// accuracyMetrics 整体正确率和最近一个窗口的正确率（百分比）。
// 没有作答时按 0 处理，新学员首日落在低难度档从基础题起步
func accuracyMetrics(progressList []model.Progress) (overall, recent float64, totalAnswered int) {
	totalAnswered = len(progressList)
	if totalAnswered == 0 {
		return 0, 0, 0
	}

	correct := 0
	for _, p := range progressList {
		if p.IsCorrect {
			correct++
		}
	}
	overall = float64(correct) / float64(totalAnswered) * 100

	windowStart := totalAnswered - util.RecentAccuracyWindow
	if windowStart < 0 {
		windowStart = 0
	}
	window := progressList[windowStart:]
	recentCorrect := 0
	for _, p := range window {
		if p.IsCorrect {
			recentCorrect++
		}
	}
	recent = float64(recentCorrect) / float64(len(window)) * 100
	return overall, recent, totalAnswered
}

func draftsToQuestions(courseID uint, dayNumber int, drafts []QuestionDraft) ([]model.Question, error) {
	questions := make([]model.Question, 0, len(drafts))
	for _, d := range drafts {
		q := model.Question{
			CourseID:      courseID,
			DayNumber:     dayNumber,
			Question:      d.Question,
			Difficulty:    d.Difficulty,
			Points:        d.Points,
			CorrectAnswer: d.CorrectAnswer,
			Explanation:   d.Explanation,
			QuestionType:  d.QuestionType,
			CodeSnippet:   d.CodeSnippet,
		}
		if err := q.SetOptions(d.Options); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, nil
}

// GenerateQuestionsForDay 幂等出题：当天已有题目直接返回，否则按学员近期表现
// 自适应生成并落库。并发同刻出题由仓储层的行锁保证只落一份
func (s *LearningService) GenerateQuestionsForDay(ctx context.Context, username, courseName string, dayNumber, numQuestions int) ([]model.Question, error) {
	numQuestions, err := normalizeNumQuestions(numQuestions)
	if err != nil {
		return nil, err
	}

	user, course, err := s.resolveUserCourse(username, courseName)
	if err != nil {
		return nil, err
	}
	if dayNumber < 1 || dayNumber > course.DurationDays {
		return nil, util.ErrInvalidDayNumber
	}

	snap, err := s.loadSnapshot(user.ID, course.ID)
	if err != nil {
		return nil, err
	}
	statuses := computeDayStatuses(snap, course.DurationDays)
	status := statuses[dayNumber-1]
	if !status.IsUnlocked {
		return nil, util.ErrDayLocked
	}
	if status.HasQuestions {
		return s.questions.ListByCourseAndDay(course.ID, dayNumber)
	}

	plan, err := s.plans.FindByCourseAndDay(course.ID, dayNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrPlanNotFound
		}
		return nil, err
	}

	progressList, err := s.progress.ListByUserAndCourse(user.ID, course.ID)
	if err != nil {
		return nil, err
	}
	overall, recent, totalAnswered := accuracyMetrics(progressList)

	drafts := s.gen.GenerateAdaptiveQuestions(ctx, AdaptiveParams{
		CourseName:      course.CourseName,
		DayNumber:       dayNumber,
		PlanContent:     plan.Content,
		NumQuestions:    numQuestions,
		TotalAnswered:   totalAnswered,
		OverallAccuracy: overall,
		RecentAccuracy:  recent,
	})

	candidates, err := draftsToQuestions(course.ID, dayNumber, drafts)
	if err != nil {
		return nil, err
	}

	stored, created, err := s.questions.InsertDayQuestionsIfAbsent(course.ID, dayNumber, candidates)
	if err != nil {
		return nil, err
	}
	if created {
		s.cache.Invalidate(ctx, user.ID, course.ID)
		s.activity.Record(username, "questions_generated", map[string]interface{}{
			"course": courseName,
			"day":    dayNumber,
			"count":  len(stored),
		})
		s.log.Info("为当天生成题目",
			zap.String("course", courseName),
			zap.Int("day", dayNumber),
			zap.Int("count", len(stored)))
	}
	return stored, nil
}

// GetQuestionsForDay 学员进入当天测验的入口，题目不存在时按需生成
func (s *LearningService) GetQuestionsForDay(ctx context.Context, username, courseName string, dayNumber int) ([]model.Question, error) {
	return s.GenerateQuestionsForDay(ctx, username, courseName, dayNumber, util.DefaultNumQuestions)
}

type RegenerateRequest struct {
	NumQuestions        int      `json:"numQuestions"`
	Difficulty          string   `json:"difficulty"` // easier, harder, balanced
	FocusAreas          []string `json:"focusAreas"`
	QuestionTypes       []string `json:"questionTypes"`
	SpecialInstructions string   `json:"specialInstructions"`
}

// RegenerateQuestionsForDay 按学员偏好整批重出当天题目，旧题与旧作答一并废弃。
// 已完成的天不可重出，未解锁的天同样拒绝
func (s *LearningService) RegenerateQuestionsForDay(ctx context.Context, username, courseName string, dayNumber int, req RegenerateRequest) ([]model.Question, error) {
	numQuestions, err := normalizeNumQuestions(req.NumQuestions)
	if err != nil {
		return nil, err
	}

	user, course, err := s.resolveUserCourse(username, courseName)
	if err != nil {
		return nil, err
	}
	if dayNumber < 1 || dayNumber > course.DurationDays {
		return nil, util.ErrInvalidDayNumber
	}

	snap, err := s.loadSnapshot(user.ID, course.ID)
	if err != nil {
		return nil, err
	}
	statuses := computeDayStatuses(snap, course.DurationDays)
	status := statuses[dayNumber-1]
	if !status.IsUnlocked {
		return nil, util.ErrDayLocked
	}
	if status.IsCompleted {
		return nil, util.ErrDayCompleted
	}

	plan, err := s.plans.FindByCourseAndDay(course.ID, dayNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrPlanNotFound
		}
		return nil, err
	}

	drafts := s.gen.GenerateCustomQuestions(ctx, CustomParams{
		CourseName:          course.CourseName,
		DayNumber:           dayNumber,
		PlanContent:         plan.Content,
		NumQuestions:        numQuestions,
		Difficulty:          req.Difficulty,
		FocusAreas:          req.FocusAreas,
		QuestionTypes:       req.QuestionTypes,
		SpecialInstructions: req.SpecialInstructions,
	})

	candidates, err := draftsToQuestions(course.ID, dayNumber, drafts)
	if err != nil {
		return nil, err
	}

	stored, err := s.questions.ReplaceDayQuestions(course.ID, dayNumber, candidates)
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, user.ID, course.ID)
	s.activity.Record(username, "questions_regenerated", map[string]interface{}{
		"course":     courseName,
		"day":        dayNumber,
		"difficulty": req.Difficulty,
		"count":      len(stored),
	})
	return stored, nil
}

type AnswerOutcome struct {
	IsCorrect     bool   `json:"isCorrect"`
	EarnedPoints  int    `json:"earnedPoints"`
	CorrectAnswer string `json:"correctAnswer"`
	Explanation   string `json:"explanation,omitempty"`
	Attempts      int    `json:"attempts"`
}

// gradeAnswer 判分对提交值做去空白并忽略大小写，"a" 与 " A " 均算答对 A。
// 答对得满分，答错 0 分，不给部分分
func gradeAnswer(submitted, correctAnswer string, points int) (bool, int) {
	if strings.EqualFold(strings.TrimSpace(submitted), strings.TrimSpace(correctAnswer)) {
		return true, points
	}
	return false, 0
}

// SubmitAnswer 提交作答。同一题重复提交覆盖旧记录并累计尝试次数，
// 达到尝试上限（配置，0 为不限）后拒绝
func (s *LearningService) SubmitAnswer(ctx context.Context, username string, questionID uint, answer string) (*AnswerOutcome, error) {
	user, err := s.resolveUser(username)
	if err != nil {
		return nil, err
	}

	question, err := s.questions.FindByID(questionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuestionNotFound
		}
		return nil, err
	}

	isCorrect, earned := gradeAnswer(answer, question.CorrectAnswer, question.Points)

	existing, err := s.progress.FindByUserAndQuestion(user.ID, questionID)
	if err != nil {
		return nil, err
	}

	attempts := 1
	if existing != nil {
		if s.maxAttempts > 0 && existing.Attempts >= s.maxAttempts {
			return nil, util.ErrMaxAttemptsReached
		}
		existing.IsCorrect = isCorrect
		existing.EarnedPoints = earned
		existing.UserAnswer = answer
		existing.Attempts++
		attempts = existing.Attempts
		if err := s.progress.Update(existing); err != nil {
			return nil, err
		}
	} else {
		record := &model.Progress{
			UserID:       user.ID,
			CourseID:     question.CourseID,
			QuestionID:   questionID,
			IsCorrect:    isCorrect,
			EarnedPoints: earned,
			UserAnswer:   answer,
			Attempts:     1,
		}
		if err := s.progress.Create(record); err != nil {
			return nil, err
		}
	}

	s.cache.Invalidate(ctx, user.ID, question.CourseID)
	s.activity.Record(username, "answer_submitted", map[string]interface{}{
		"question_id": questionID,
		"correct":     isCorrect,
		"attempts":    attempts,
	})

	return &AnswerOutcome{
		IsCorrect:     isCorrect,
		EarnedPoints:  earned,
		CorrectAnswer: question.CorrectAnswer,
		Explanation:   question.Explanation,
		Attempts:      attempts,
	}, nil
}

type QuestionReview struct {
	Question      model.Question `json:"question"`
	UserAnswer    string         `json:"userAnswer"`
	IsCorrect     bool           `json:"isCorrect"`
	EarnedPoints  int            `json:"earnedPoints"`
	CorrectAnswer string         `json:"correctAnswer"`
	Explanation   string         `json:"explanation,omitempty"`
}

// QuestionsReview 已完成天的带答案复盘，未完成的天拒绝，避免泄露答案
func (s *LearningService) QuestionsReview(username, courseName string, dayNumber int) ([]QuestionReview, error) {
	user, course, err := s.resolveUserCourse(username, courseName)
	if err != nil {
		return nil, err
	}
	if dayNumber < 1 || dayNumber > course.DurationDays {
		return nil, util.ErrInvalidDayNumber
	}

	snap, err := s.loadSnapshot(user.ID, course.ID)
	if err != nil {
		return nil, err
	}
	statuses := computeDayStatuses(snap, course.DurationDays)
	if !statuses[dayNumber-1].IsCompleted {
		return nil, util.ErrDayNotCompleted
	}

	questions, err := s.questions.ListByCourseAndDay(course.ID, dayNumber)
	if err != nil {
		return nil, err
	}

	reviews := make([]QuestionReview, 0, len(questions))
	for _, q := range questions {
		p := snap.answeredIDs[q.ID]
		reviews = append(reviews, QuestionReview{
			Question:      q,
			UserAnswer:    p.UserAnswer,
			IsCorrect:     p.IsCorrect,
			EarnedPoints:  p.EarnedPoints,
			CorrectAnswer: q.CorrectAnswer,
			Explanation:   q.Explanation,
		})
	}
	return reviews, nil
}
