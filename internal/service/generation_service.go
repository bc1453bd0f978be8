package service

import (
	"context"
	"encoding/json"
	"fmt"
	"learnpath_backend/pkg/monitoring"
	"math/rand"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	generationTemperature = 0.9
	planTemperature       = 0.7
	generationMaxTokens   = 4096
)

// GenerationService 封装所有走 LLM 的内容生成。对上层的约定：永不因为模型
// 失败而返回错误，解析不出有效内容时落到确定性兜底
type GenerationService struct {
	llm LlmClient
	log *zap.Logger
	rng *rand.Rand
}

func NewGenerationService(llm LlmClient, log *zap.Logger, rng *rand.Rand) *GenerationService {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &GenerationService{llm: llm, log: log, rng: rng}
}

type AdaptiveParams struct {
	CourseName      string
	DayNumber       int
	PlanContent     string
	NumQuestions    int
	TotalAnswered   int
	OverallAccuracy float64
	RecentAccuracy  float64
}

// adaptivePolicy 把近期表现映射为难度倾向、关注点和基准分值
func adaptivePolicy(p AdaptiveParams) (adjustment, focus string, basePoints int) {
	switch {
	case p.RecentAccuracy >= 80:
		adjustment = "make the questions noticeably harder than usual"
		basePoints = 20
	case p.RecentAccuracy >= 60:
		adjustment = "keep a balanced mix of difficulties"
		basePoints = 15
	default:
		adjustment = "make the questions easier and more encouraging"
		basePoints = 10
	}

	switch {
	case p.TotalAnswered < 5:
		focus = "fundamentals and basic concepts"
	case p.TotalAnswered < 15:
		focus = "practical application of the concepts"
	default:
		focus = "advanced problem-solving and nuanced cases"
	}
	return adjustment, focus, basePoints
}

// GenerateAdaptiveQuestions 按学员近期表现生成当日题目。返回的切片永远至少一题
func (s *GenerationService) GenerateAdaptiveQuestions(ctx context.Context, p AdaptiveParams) []QuestionDraft {
	start := time.Now()
	adjustment, focus, basePoints := adaptivePolicy(p)

	prompt := buildAdaptiveQuestionsPrompt(adaptivePromptParams{
		CourseName:           p.CourseName,
		DayNumber:            p.DayNumber,
		PlanContent:          p.PlanContent,
		NumQuestions:         p.NumQuestions,
		DifficultyAdjustment: adjustment,
		FocusArea:            focus,
		BasePoints:           basePoints,
		OverallAccuracy:      p.OverallAccuracy,
		RecentAccuracy:       p.RecentAccuracy,
		TotalAnswered:        p.TotalAnswered,
	})

	drafts := s.generateDrafts(ctx, "adaptive", prompt, basePoints)
	if len(drafts) == 0 {
		drafts = []QuestionDraft{s.fallbackQuestion(p.CourseName, p.DayNumber, basePoints)}
		monitoring.GenerationCounter.WithLabelValues("adaptive", "fallback").Inc()
	} else {
		monitoring.GenerationCounter.WithLabelValues("adaptive", "success").Inc()
	}
	monitoring.GenerationDuration.WithLabelValues("adaptive").Observe(time.Since(start).Seconds())
	return drafts
}

type CustomParams struct {
	CourseName          string
	DayNumber           int
	PlanContent         string
	NumQuestions        int
	Difficulty          string
	FocusAreas          []string
	QuestionTypes       []string
	SpecialInstructions string
}

// customPolicy 偏好难度决定基准分：easier 8、harder 25、其余 15
func customPolicy(difficulty string) (normalized string, basePoints int) {
	switch difficulty {
	case "easier":
		return "easier", 8
	case "harder":
		return "harder", 25
	default:
		return "balanced", 15
	}
}

// GenerateCustomQuestions 按学员显式偏好重新出题，用于重出题目流程
func (s *GenerationService) GenerateCustomQuestions(ctx context.Context, p CustomParams) []QuestionDraft {
	start := time.Now()
	difficulty, basePoints := customPolicy(p.Difficulty)

	prompt := buildCustomQuestionsPrompt(customPromptParams{
		CourseName:          p.CourseName,
		DayNumber:           p.DayNumber,
		PlanContent:         p.PlanContent,
		NumQuestions:        p.NumQuestions,
		Difficulty:          difficulty,
		FocusAreas:          p.FocusAreas,
		QuestionTypes:       p.QuestionTypes,
		SpecialInstructions: p.SpecialInstructions,
		BasePoints:          basePoints,
	})

	drafts := s.generateDrafts(ctx, "custom", prompt, basePoints)
	if len(drafts) == 0 {
		drafts = []QuestionDraft{s.fallbackQuestion(p.CourseName, p.DayNumber, basePoints)}
		monitoring.GenerationCounter.WithLabelValues("custom", "fallback").Inc()
	} else {
		monitoring.GenerationCounter.WithLabelValues("custom", "success").Inc()
	}
	monitoring.GenerationDuration.WithLabelValues("custom").Observe(time.Since(start).Seconds())
	return drafts
}

func (s *GenerationService) generateDrafts(ctx context.Context, kind, prompt string, basePoints int) []QuestionDraft {
	content, err := s.llm.Generate(ctx, prompt, generationTemperature, generationMaxTokens)
	if err != nil {
		s.log.Warn("题目生成调用失败，使用兜底题",
			zap.String("kind", kind),
			zap.Error(err))
		return nil
	}

	drafts := parseQuestionDrafts(s.rng, content, basePoints)
	if len(drafts) == 0 {
		s.log.Warn("题目生成结果无法解析，使用兜底题",
			zap.String("kind", kind),
			zap.Int("raw_length", len(content)))
	}
	return drafts
}

// fallbackQuestion 模型不可用时的保底单题，正确答案随机落位
func (s *GenerationService) fallbackQuestion(courseName string, dayNumber, points int) QuestionDraft {
	correctIdx := s.rng.Intn(len(optionLetters))
	options := make([]string, len(optionLetters))
	for i, letter := range optionLetters {
		text := fmt.Sprintf("A supporting concept from day %d", dayNumber)
		if i == correctIdx {
			text = fmt.Sprintf("The key concept covered on day %d of %s", dayNumber, courseName)
		}
		options[i] = fmt.Sprintf("%s) %s", letter, text)
	}
	if points <= 0 {
		points = 10
	}
	return QuestionDraft{
		Question:      fmt.Sprintf("Which concept is the main focus of day %d in your %s course?", dayNumber, courseName),
		Difficulty:    "beginner",
		Points:        points,
		CorrectAnswer: optionLetters[correctIdx],
		Options:       options,
		Explanation:   "Review today's study plan for the main concept.",
		QuestionType:  "conceptual",
		CodeSnippet:   "",
	}
}

type DayOutline struct {
	Day        int      `json:"day"`
	Title      string   `json:"title"`
	Objectives []string `json:"objectives"`
	Content    string   `json:"content"`
}

// GenerateStudyPlanOutline 生成整期学习计划。保证恰好 durationDays 天：
// 模型输出缺天或失败时用确定性内容补齐
func (s *GenerationService) GenerateStudyPlanOutline(ctx context.Context, courseName string, durationDays int) []DayOutline {
	start := time.Now()
	byDay := make(map[int]DayOutline)

	content, err := s.llm.Generate(ctx, buildStudyPlanPrompt(courseName, durationDays), planTemperature, generationMaxTokens)
	if err != nil {
		s.log.Warn("学习计划生成调用失败，使用兜底计划",
			zap.String("course", courseName),
			zap.Error(err))
	} else {
		var outlines []DayOutline
		if jsonErr := json.Unmarshal([]byte(stripJSONFence(content)), &outlines); jsonErr != nil {
			s.log.Warn("学习计划结果无法解析，使用兜底计划",
				zap.String("course", courseName),
				zap.Error(jsonErr))
		}
		for _, o := range outlines {
			if o.Day >= 1 && o.Day <= durationDays && strings.TrimSpace(o.Content) != "" {
				byDay[o.Day] = o
			}
		}
	}

	outcome := "success"
	result := make([]DayOutline, 0, durationDays)
	for day := 1; day <= durationDays; day++ {
		if o, ok := byDay[day]; ok {
			result = append(result, o)
			continue
		}
		outcome = "fallback"
		result = append(result, DayOutline{
			Day:     day,
			Title:   fmt.Sprintf("Day %d", day),
			Content: fmt.Sprintf("Day %d: Study %s fundamentals and core concepts", day, courseName),
		})
	}

	monitoring.GenerationCounter.WithLabelValues("plan", outcome).Inc()
	monitoring.GenerationDuration.WithLabelValues("plan").Observe(time.Since(start).Seconds())
	return result
}

// PlanContentText 把单日大纲渲染成存库的纯文本内容
func PlanContentText(o DayOutline) string {
	var b strings.Builder
	if strings.TrimSpace(o.Title) != "" && !strings.HasPrefix(o.Content, o.Title) {
		fmt.Fprintf(&b, "%s\n\n", o.Title)
	}
	if len(o.Objectives) > 0 {
		b.WriteString("Objectives:\n")
		for _, obj := range o.Objectives {
			fmt.Fprintf(&b, "- %s\n", obj)
		}
		b.WriteString("\n")
	}
	b.WriteString(o.Content)
	return b.String()
}
