package service

import (
	"fmt"
	"strings"
)

// 提示词统一在这里拼装，方便对照调优。所有提示词都要求模型只输出 JSON

const questionJSONContract = `Return ONLY a JSON array. Each element must be an object with exactly these keys:
- "question": the question text
- "difficulty": one of "beginner", "intermediate", "advanced"
- "points": a positive integer point value
- "correct_answer": a single letter "A", "B", "C" or "D"
- "options": an array of exactly 4 strings, each prefixed with its letter like "A) ..."
- "explanation": a short explanation of the correct answer
- "question_type": e.g. "conceptual", "practical", "code_analysis"
- "code_snippet": a code sample the question refers to, or "" if none`

func buildStudyPlanPrompt(courseName string, durationDays int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Create a %d-day study plan for learning %s.\n\n", durationDays, courseName)
	b.WriteString("The plan must progress from fundamentals to advanced topics, with each day building on the previous one.\n\n")
	b.WriteString("Return ONLY a JSON array with one object per day, with exactly these keys:\n")
	b.WriteString(`- "day": the day number, starting at 1` + "\n")
	b.WriteString(`- "title": a short title for the day` + "\n")
	b.WriteString(`- "objectives": an array of 2-4 learning objectives` + "\n")
	b.WriteString(`- "content": a paragraph describing what to study that day` + "\n")
	return b.String()
}

type adaptivePromptParams struct {
	CourseName           string
	DayNumber            int
	PlanContent          string
	NumQuestions         int
	DifficultyAdjustment string
	FocusArea            string
	BasePoints           int
	OverallAccuracy      float64
	RecentAccuracy       float64
	TotalAnswered        int
}

func buildAdaptiveQuestionsPrompt(p adaptivePromptParams) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate %d multiple-choice questions for day %d of a %s course.\n\n", p.NumQuestions, p.DayNumber, p.CourseName)
	fmt.Fprintf(&b, "Today's study plan:\n%s\n\n", p.PlanContent)
	fmt.Fprintf(&b, "Learner performance so far: %d questions answered, %.0f%% overall accuracy, %.0f%% accuracy on the most recent answers.\n", p.TotalAnswered, p.OverallAccuracy, p.RecentAccuracy)
	fmt.Fprintf(&b, "Based on this, %s. Focus on %s. Award around %d points per question.\n\n", p.DifficultyAdjustment, p.FocusArea, p.BasePoints)
	b.WriteString("Randomize which letter holds the correct answer so it is not always the same position.\n\n")
	b.WriteString(questionJSONContract)
	return b.String()
}

type customPromptParams struct {
	CourseName          string
	DayNumber           int
	PlanContent         string
	NumQuestions        int
	Difficulty          string
	FocusAreas          []string
	QuestionTypes       []string
	SpecialInstructions string
	BasePoints          int
}

func buildCustomQuestionsPrompt(p customPromptParams) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate %d fresh multiple-choice questions for day %d of a %s course. These replace an earlier set, so do not repeat common textbook phrasings.\n\n", p.NumQuestions, p.DayNumber, p.CourseName)
	fmt.Fprintf(&b, "Today's study plan:\n%s\n\n", p.PlanContent)
	fmt.Fprintf(&b, "The learner asked for %s questions. Award around %d points per question.\n", p.Difficulty, p.BasePoints)
	if len(p.FocusAreas) > 0 {
		fmt.Fprintf(&b, "Concentrate on: %s.\n", strings.Join(p.FocusAreas, ", "))
	}
	if len(p.QuestionTypes) > 0 {
		fmt.Fprintf(&b, "Prefer these question types: %s.\n", strings.Join(p.QuestionTypes, ", "))
	}
	if strings.TrimSpace(p.SpecialInstructions) != "" {
		fmt.Fprintf(&b, "Additional instructions from the learner: %s\n", p.SpecialInstructions)
	}
	b.WriteString("\nRandomize which letter holds the correct answer so it is not always the same position.\n\n")
	b.WriteString(questionJSONContract)
	return b.String()
}
