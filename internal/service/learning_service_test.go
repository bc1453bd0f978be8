package service

import (
	"context"
	"learnpath_backend/internal/model"
	"learnpath_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayStatusesInduction(t *testing.T) {
	f := newFixture(t, 0)
	_, course := f.seedCourse(t, "alice", "Go", 5)
	ctx := context.Background()

	// 初始：只有第 1 天解锁，且为当前天
	statuses, err := f.learning.DayStatuses("alice", "Go")
	require.NoError(t, err)
	require.Len(t, statuses, 5)
	assert.True(t, statuses[0].IsUnlocked)
	assert.True(t, statuses[0].IsCurrent)
	assert.True(t, statuses[0].NeedsQuestions)
	for _, st := range statuses[1:] {
		assert.False(t, st.IsUnlocked, "day %d should be locked", st.DayNumber)
		assert.False(t, st.IsCurrent)
	}

	// 第 1 天出题并全部答对后，第 2 天解锁，第 3 天仍锁
	f.enqueueQuestions(t, 2)
	_, err = f.learning.GenerateQuestionsForDay(ctx, "alice", "Go", 1, 2)
	require.NoError(t, err)
	f.answerAllForDay(t, "alice", course.ID, 1)

	statuses, err = f.learning.DayStatuses("alice", "Go")
	require.NoError(t, err)
	assert.True(t, statuses[0].IsCompleted)
	assert.False(t, statuses[0].IsCurrent)
	assert.True(t, statuses[1].IsUnlocked)
	assert.True(t, statuses[1].IsCurrent)
	assert.False(t, statuses[2].IsUnlocked)
}

func TestDayStatusPartialAnswersDoNotUnlockNextDay(t *testing.T) {
	f := newFixture(t, 0)
	f.seedCourse(t, "bob", "Go", 3)
	ctx := context.Background()

	f.enqueueQuestions(t, 3)
	questions, err := f.learning.GenerateQuestionsForDay(ctx, "bob", "Go", 1, 3)
	require.NoError(t, err)
	require.Len(t, questions, 3)

	// 只答一题
	_, err = f.learning.SubmitAnswer(ctx, "bob", questions[0].ID, questions[0].CorrectAnswer)
	require.NoError(t, err)

	status, err := f.learning.DayStatus("bob", "Go", 1)
	require.NoError(t, err)
	assert.False(t, status.IsCompleted)
	assert.InDelta(t, 100.0/3.0, status.CompletionPercentage, 0.01)
	assert.True(t, status.CanContinue)

	status2, err := f.learning.DayStatus("bob", "Go", 2)
	require.NoError(t, err)
	assert.False(t, status2.IsUnlocked)
}

func TestGenerateQuestionsLockedDay(t *testing.T) {
	f := newFixture(t, 0)
	f.seedCourse(t, "carol", "SQL", 3)

	_, err := f.learning.GenerateQuestionsForDay(context.Background(), "carol", "SQL", 2, 3)
	assert.ErrorIs(t, err, util.ErrDayLocked)
}

func TestGenerateQuestionsValidation(t *testing.T) {
	f := newFixture(t, 0)
	f.seedCourse(t, "dave", "SQL", 3)
	ctx := context.Background()

	_, err := f.learning.GenerateQuestionsForDay(ctx, "dave", "SQL", 0, 3)
	assert.ErrorIs(t, err, util.ErrInvalidDayNumber)

	_, err = f.learning.GenerateQuestionsForDay(ctx, "dave", "SQL", 4, 3)
	assert.ErrorIs(t, err, util.ErrInvalidDayNumber)

	_, err = f.learning.GenerateQuestionsForDay(ctx, "dave", "SQL", 1, 21)
	assert.ErrorIs(t, err, util.ErrInvalidNumQuestion)

	_, err = f.learning.GenerateQuestionsForDay(ctx, "nobody", "SQL", 1, 3)
	assert.ErrorIs(t, err, util.ErrUserNotFound)

	_, err = f.learning.GenerateQuestionsForDay(ctx, "dave", "Rust", 1, 3)
	assert.ErrorIs(t, err, util.ErrCourseNotFound)
}

func TestGenerateQuestionsIdempotent(t *testing.T) {
	f := newFixture(t, 0)
	f.seedCourse(t, "erin", "Go", 3)
	ctx := context.Background()

	f.enqueueQuestions(t, 2)
	first, err := f.learning.GenerateQuestionsForDay(ctx, "erin", "Go", 1, 2)
	require.NoError(t, err)
	require.Len(t, first, 2)

	// 第二次调用不再走模型，返回同一批题目
	second, err := f.learning.GenerateQuestionsForDay(ctx, "erin", "Go", 1, 2)
	require.NoError(t, err)
	require.Len(t, second, 2)
	assert.Equal(t, first[0].ID, second[0].ID)
	assert.Len(t, f.llm.prompts, 1)
}

func TestAccuracyMetricsFreshLearnerStartsEasy(t *testing.T) {
	overall, recent, total := accuracyMetrics(nil)
	assert.Zero(t, overall)
	assert.Zero(t, recent)
	assert.Zero(t, total)

	// 没有任何作答记录的学员从低分值的基础题起步
	adjustment, focus, points := adaptivePolicy(AdaptiveParams{
		RecentAccuracy: recent,
		TotalAnswered:  total,
	})
	assert.Contains(t, adjustment, "easier")
	assert.Contains(t, focus, "fundamentals")
	assert.Equal(t, 10, points)
}

func TestAccuracyMetricsWindow(t *testing.T) {
	progress := make([]model.Progress, 0, 8)
	for i := 0; i < 8; i++ {
		// 前三次答错，之后全对：整体 5/8，最近窗口 5/5
		progress = append(progress, model.Progress{IsCorrect: i >= 3})
	}

	overall, recent, total := accuracyMetrics(progress)
	assert.Equal(t, 8, total)
	assert.InDelta(t, 62.5, overall, 0.01)
	assert.InDelta(t, 100, recent, 0.01)
}

func TestSubmitAnswerGrading(t *testing.T) {
	f := newFixture(t, 0)
	f.seedCourse(t, "frank", "Go", 2)
	ctx := context.Background()

	f.llm.enqueue(questionsJSON(t, questionPayload("Pick A", "A", 12)))
	questions, err := f.learning.GenerateQuestionsForDay(ctx, "frank", "Go", 1, 1)
	require.NoError(t, err)
	q := questions[0]

	// 判分忽略大小写和首尾空白
	outcome, err := f.learning.SubmitAnswer(ctx, "frank", q.ID, "  "+q.CorrectAnswer+" ")
	require.NoError(t, err)
	assert.True(t, outcome.IsCorrect)
	assert.Equal(t, q.Points, outcome.EarnedPoints)
	assert.Equal(t, q.CorrectAnswer, outcome.CorrectAnswer)

	var lower string
	if q.CorrectAnswer == "A" {
		lower = "a"
	} else {
		lower = string(q.CorrectAnswer[0] + 32)
	}
	outcome, err = f.learning.SubmitAnswer(ctx, "frank", q.ID, lower)
	require.NoError(t, err)
	assert.True(t, outcome.IsCorrect)
}

func TestSubmitAnswerWrongAnswerZeroPoints(t *testing.T) {
	f := newFixture(t, 0)
	f.seedCourse(t, "gina", "Go", 2)
	ctx := context.Background()

	f.llm.enqueue(questionsJSON(t, questionPayload("Pick right", "A", 10)))
	questions, err := f.learning.GenerateQuestionsForDay(ctx, "gina", "Go", 1, 1)
	require.NoError(t, err)
	q := questions[0]

	wrong := "A"
	if q.CorrectAnswer == "A" {
		wrong = "B"
	}
	outcome, err := f.learning.SubmitAnswer(ctx, "gina", q.ID, wrong)
	require.NoError(t, err)
	assert.False(t, outcome.IsCorrect)
	assert.Equal(t, 0, outcome.EarnedPoints)
}

func TestSubmitAnswerResubmissionOverwrites(t *testing.T) {
	f := newFixture(t, 0)
	_, course := f.seedCourse(t, "hana", "Go", 2)
	ctx := context.Background()

	f.llm.enqueue(questionsJSON(t, questionPayload("Overwrite me", "A", 10)))
	questions, err := f.learning.GenerateQuestionsForDay(ctx, "hana", "Go", 1, 1)
	require.NoError(t, err)
	q := questions[0]

	wrong := "B"
	if q.CorrectAnswer == "B" {
		wrong = "C"
	}
	first, err := f.learning.SubmitAnswer(ctx, "hana", q.ID, wrong)
	require.NoError(t, err)
	assert.False(t, first.IsCorrect)
	assert.Equal(t, 1, first.Attempts)

	second, err := f.learning.SubmitAnswer(ctx, "hana", q.ID, q.CorrectAnswer)
	require.NoError(t, err)
	assert.True(t, second.IsCorrect)
	assert.Equal(t, 2, second.Attempts)

	// 同一 (user, question) 只保留一条记录，且为最新结果
	var records []model.Progress
	require.NoError(t, f.db.Where("course_id = ?", course.ID).Find(&records).Error)
	require.Len(t, records, 1)
	assert.True(t, records[0].IsCorrect)
	assert.Equal(t, q.Points, records[0].EarnedPoints)
	assert.Equal(t, 2, records[0].Attempts)
}

func TestSubmitAnswerMaxAttempts(t *testing.T) {
	f := newFixture(t, 2)
	f.seedCourse(t, "ivan", "Go", 2)
	ctx := context.Background()

	f.llm.enqueue(questionsJSON(t, questionPayload("Limited tries", "A", 10)))
	questions, err := f.learning.GenerateQuestionsForDay(ctx, "ivan", "Go", 1, 1)
	require.NoError(t, err)
	q := questions[0]

	_, err = f.learning.SubmitAnswer(ctx, "ivan", q.ID, "B")
	require.NoError(t, err)
	_, err = f.learning.SubmitAnswer(ctx, "ivan", q.ID, "C")
	require.NoError(t, err)

	_, err = f.learning.SubmitAnswer(ctx, "ivan", q.ID, q.CorrectAnswer)
	assert.ErrorIs(t, err, util.ErrMaxAttemptsReached)
}

func TestSubmitAnswerUnknownQuestion(t *testing.T) {
	f := newFixture(t, 0)
	f.seedCourse(t, "judy", "Go", 2)

	_, err := f.learning.SubmitAnswer(context.Background(), "judy", 9999, "A")
	assert.ErrorIs(t, err, util.ErrQuestionNotFound)
}

func TestRegenerateReplacesQuestionsAndWipesProgress(t *testing.T) {
	f := newFixture(t, 0)
	_, course := f.seedCourse(t, "kate", "Go", 2)
	ctx := context.Background()

	f.enqueueQuestions(t, 2)
	questions, err := f.learning.GenerateQuestionsForDay(ctx, "kate", "Go", 1, 2)
	require.NoError(t, err)

	// 答一题但不是全部，天保持未完成
	_, err = f.learning.SubmitAnswer(ctx, "kate", questions[0].ID, questions[0].CorrectAnswer)
	require.NoError(t, err)

	f.llm.enqueue(questionsJSON(t,
		questionPayload("Fresh one", "A", 25),
		questionPayload("Fresh two", "B", 25),
		questionPayload("Fresh three", "C", 25)))
	fresh, err := f.learning.RegenerateQuestionsForDay(ctx, "kate", "Go", 1, RegenerateRequest{
		NumQuestions: 3,
		Difficulty:   "harder",
	})
	require.NoError(t, err)
	require.Len(t, fresh, 3)

	// 旧题与旧作答全部废弃
	var remaining []model.Question
	require.NoError(t, f.db.Where("course_id = ? AND day_number = ?", course.ID, 1).Find(&remaining).Error)
	require.Len(t, remaining, 3)
	for _, q := range remaining {
		assert.NotEqual(t, questions[0].ID, q.ID)
	}

	var progressCount int64
	require.NoError(t, f.db.Model(&model.Progress{}).Where("course_id = ?", course.ID).Count(&progressCount).Error)
	assert.Zero(t, progressCount)

	status, err := f.learning.DayStatus("kate", "Go", 1)
	require.NoError(t, err)
	assert.False(t, status.IsCompleted)
	assert.Equal(t, 3, status.TotalQuestions)
	assert.Zero(t, status.AnsweredQuestions)
}

func TestRegenerateForbiddenAfterCompletion(t *testing.T) {
	f := newFixture(t, 0)
	_, course := f.seedCourse(t, "liam", "Go", 2)
	ctx := context.Background()

	f.enqueueQuestions(t, 1)
	_, err := f.learning.GenerateQuestionsForDay(ctx, "liam", "Go", 1, 1)
	require.NoError(t, err)
	f.answerAllForDay(t, "liam", course.ID, 1)

	_, err = f.learning.RegenerateQuestionsForDay(ctx, "liam", "Go", 1, RegenerateRequest{})
	assert.ErrorIs(t, err, util.ErrDayCompleted)
}

func TestRegenerateForbiddenOnLockedDay(t *testing.T) {
	f := newFixture(t, 0)
	f.seedCourse(t, "mia", "Go", 3)

	_, err := f.learning.RegenerateQuestionsForDay(context.Background(), "mia", "Go", 2, RegenerateRequest{})
	assert.ErrorIs(t, err, util.ErrDayLocked)
}

func TestQuestionsReviewGating(t *testing.T) {
	f := newFixture(t, 0)
	_, course := f.seedCourse(t, "nina", "Go", 2)
	ctx := context.Background()

	f.enqueueQuestions(t, 2)
	_, err := f.learning.GenerateQuestionsForDay(ctx, "nina", "Go", 1, 2)
	require.NoError(t, err)

	// 未完成：拒绝复盘
	_, err = f.learning.QuestionsReview("nina", "Go", 1)
	assert.ErrorIs(t, err, util.ErrDayNotCompleted)

	f.answerAllForDay(t, "nina", course.ID, 1)

	reviews, err := f.learning.QuestionsReview("nina", "Go", 1)
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	for _, rv := range reviews {
		assert.NotEmpty(t, rv.CorrectAnswer)
		assert.True(t, rv.IsCorrect)
		assert.Equal(t, rv.Question.Points, rv.EarnedPoints)
	}
}

func TestThreeDayEndToEndProgression(t *testing.T) {
	f := newFixture(t, 0)
	_, course := f.seedCourse(t, "omar", "Go", 3)
	ctx := context.Background()

	for day := 1; day <= 3; day++ {
		f.enqueueQuestions(t, 2)
		questions, err := f.learning.GetQuestionsForDay(ctx, "omar", "Go", day)
		require.NoError(t, err, "day %d", day)
		require.Len(t, questions, 2)
		f.answerAllForDay(t, "omar", course.ID, day)
	}

	statuses, err := f.learning.DayStatuses("omar", "Go")
	require.NoError(t, err)
	for _, st := range statuses {
		assert.True(t, st.IsCompleted, "day %d", st.DayNumber)
	}

	summary, err := f.progress.GetCourseProgress(ctx, "omar", "Go")
	require.NoError(t, err)
	assert.Equal(t, 6, summary.TotalQuestions)
	assert.Equal(t, 6, summary.AnsweredQuestions)
	assert.Equal(t, 60, summary.EarnedPoints)
	assert.InDelta(t, 100, summary.CompletionPercentage, 0.01)
	assert.Equal(t, 3, summary.CurrentDay)
}
