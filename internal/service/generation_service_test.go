package service

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newGenService(llm *mockLlmClient) *GenerationService {
	return NewGenerationService(llm, zap.NewNop(), rand.New(rand.NewSource(1)))
}

func TestAdaptivePolicy(t *testing.T) {
	tests := []struct {
		name           string
		recent         float64
		totalAnswered  int
		wantPoints     int
		wantFocusParts string
	}{
		{"fresh learner", 0, 0, 10, "fundamentals"},
		{"strong recent run", 85, 20, 20, "advanced"},
		{"steady middle", 70, 10, 15, "practical"},
		{"struggling", 40, 3, 10, "fundamentals"},
		{"boundary eighty", 80, 15, 20, "advanced"},
		{"boundary sixty", 60, 5, 15, "practical"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, focus, points := adaptivePolicy(AdaptiveParams{
				RecentAccuracy: tt.recent,
				TotalAnswered:  tt.totalAnswered,
			})
			assert.Equal(t, tt.wantPoints, points)
			assert.Contains(t, focus, tt.wantFocusParts)
		})
	}
}

func TestCustomPolicy(t *testing.T) {
	_, points := customPolicy("easier")
	assert.Equal(t, 8, points)
	_, points = customPolicy("harder")
	assert.Equal(t, 25, points)
	_, points = customPolicy("balanced")
	assert.Equal(t, 15, points)
	_, points = customPolicy("")
	assert.Equal(t, 15, points)
}

func TestGenerateAdaptiveQuestionsParsesModelOutput(t *testing.T) {
	llm := &mockLlmClient{}
	llm.enqueue("```json\n[" +
		`{"question":"What is a goroutine?","difficulty":"beginner","points":10,"correct_answer":"A",` +
		`"options":["A) A lightweight thread","B) A package","C) A channel","D) A struct"],` +
		`"explanation":"Goroutines are lightweight.","question_type":"conceptual","code_snippet":""}` +
		"]\n```")
	gen := newGenService(llm)

	drafts := gen.GenerateAdaptiveQuestions(context.Background(), AdaptiveParams{
		CourseName:   "Go",
		DayNumber:    1,
		PlanContent:  "Day 1: basics",
		NumQuestions: 1,
	})

	require.Len(t, drafts, 1)
	assert.Equal(t, "What is a goroutine?", drafts[0].Question)
	require.Len(t, llm.prompts, 1)
	assert.Contains(t, llm.prompts[0], "day 1 of a Go course")
}

func TestGenerateAdaptiveQuestionsFallsBackOnError(t *testing.T) {
	llm := &mockLlmClient{}
	llm.enqueueError(&LlmTimeoutError{})
	gen := newGenService(llm)

	drafts := gen.GenerateAdaptiveQuestions(context.Background(), AdaptiveParams{
		CourseName:   "Go",
		DayNumber:    3,
		NumQuestions: 5,
	})

	require.Len(t, drafts, 1)
	d := drafts[0]
	assert.NotEmpty(t, d.Question)
	assert.Len(t, d.Options, 4)
	assert.Contains(t, []string{"A", "B", "C", "D"}, d.CorrectAnswer)
	assert.Greater(t, d.Points, 0)
}

func TestGenerateAdaptiveQuestionsFallsBackOnGarbage(t *testing.T) {
	llm := &mockLlmClient{}
	llm.enqueue("Sorry, I cannot help with that.")
	gen := newGenService(llm)

	drafts := gen.GenerateAdaptiveQuestions(context.Background(), AdaptiveParams{
		CourseName:   "Python",
		DayNumber:    1,
		NumQuestions: 3,
	})

	require.Len(t, drafts, 1)
	assert.Contains(t, []string{"A", "B", "C", "D"}, drafts[0].CorrectAnswer)
}

func TestGenerateCustomQuestionsUsesPreferenceBasePoints(t *testing.T) {
	llm := &mockLlmClient{}
	// 题目缺 points 字段，规范化应落到偏好基准分
	llm.enqueue(`[{"question":"Hard one?","difficulty":"advanced","correct_answer":"B",` +
		`"options":["A) a","B) b","C) c","D) d"]}]`)
	gen := newGenService(llm)

	drafts := gen.GenerateCustomQuestions(context.Background(), CustomParams{
		CourseName:          "Go",
		DayNumber:           2,
		NumQuestions:        1,
		Difficulty:          "harder",
		FocusAreas:          []string{"channels", "goroutine leaks"},
		QuestionTypes:       []string{"code_analysis"},
		SpecialInstructions: "include at least one snippet",
	})

	require.Len(t, drafts, 1)
	assert.Equal(t, 25, drafts[0].Points)
	require.Len(t, llm.prompts, 1)
	assert.Contains(t, llm.prompts[0], "harder")
	assert.Contains(t, llm.prompts[0], "channels, goroutine leaks")
	assert.Contains(t, llm.prompts[0], "code_analysis")
	assert.Contains(t, llm.prompts[0], "include at least one snippet")
}

func TestGenerateStudyPlanOutlineFillsMissingDays(t *testing.T) {
	llm := &mockLlmClient{}
	llm.enqueue(`[
		{"day": 1, "title": "Basics", "objectives": ["syntax"], "content": "Learn the syntax."},
		{"day": 3, "title": "Advanced", "content": "Go deeper."}
	]`)
	gen := newGenService(llm)

	outline := gen.GenerateStudyPlanOutline(context.Background(), "Rust", 3)

	require.Len(t, outline, 3)
	assert.Equal(t, "Learn the syntax.", outline[0].Content)
	// 缺失的第 2 天用确定性内容补齐
	assert.Equal(t, 2, outline[1].Day)
	assert.Contains(t, outline[1].Content, "Day 2: Study Rust fundamentals")
	assert.Equal(t, "Go deeper.", outline[2].Content)
}

func TestGenerateStudyPlanOutlineFallbackOnError(t *testing.T) {
	llm := &mockLlmClient{}
	llm.enqueueError(&LlmRateLimitError{Body: "slow down"})
	gen := newGenService(llm)

	outline := gen.GenerateStudyPlanOutline(context.Background(), "SQL", 5)

	require.Len(t, outline, 5)
	for i, o := range outline {
		assert.Equal(t, i+1, o.Day)
		assert.NotEmpty(t, o.Content)
	}
}

func TestPlanContentText(t *testing.T) {
	text := PlanContentText(DayOutline{
		Day:        1,
		Title:      "Getting Started",
		Objectives: []string{"install toolchain", "write hello world"},
		Content:    "Set up the environment and run your first program.",
	})
	assert.Contains(t, text, "Getting Started")
	assert.Contains(t, text, "- install toolchain")
	assert.Contains(t, text, "Set up the environment")
}
