package service

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"regexp"
	"strings"
)

// QuestionDraft LLM 返回的单题载荷，入库前经过规范化与选项乱序
type QuestionDraft struct {
	Question      string   `json:"question"`
	Difficulty    string   `json:"difficulty"`
	Points        int      `json:"points"`
	CorrectAnswer string   `json:"correct_answer"`
	Options       []string `json:"options"`
	Explanation   string   `json:"explanation"`
	QuestionType  string   `json:"question_type"`
	CodeSnippet   string   `json:"code_snippet"`
}

var (
	codeBlockRegexp = regexp.MustCompile("(?s)```[a-zA-Z0-9+#_-]*\\s*\\n(.*?)\\n?```")
	optionLetters   = []string{"A", "B", "C", "D"}
)

// CleanMarkdownCodeBlock 剥离代码片段外层的 Markdown 围栏，保留内部内容原样
func CleanMarkdownCodeBlock(snippet string) string {
	if snippet == "" {
		return ""
	}
	if m := codeBlockRegexp.FindStringSubmatch(snippet); m != nil {
		return strings.TrimSpace(m[1])
	}
	cleaned := strings.ReplaceAll(snippet, "```", "")
	return strings.TrimSpace(cleaned)
}

// stripJSONFence 模型经常把 JSON 包在 ```json 围栏里，解析前去掉
func stripJSONFence(content string) string {
	content = strings.TrimSpace(content)
	if m := codeBlockRegexp.FindStringSubmatch(content); m != nil {
		return strings.TrimSpace(m[1])
	}
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}

func relabelOption(option, letter string) string {
	if len(option) >= 2 && option[1] == ')' && option[0] >= 'A' && option[0] <= 'Z' {
		return letter + option[1:]
	}
	return fmt.Sprintf("%s) %s", letter, option)
}

// RandomizeQuestionOptions 把正确选项随机挪到另一个字母位，两个选项的字母前缀
// 跟着改写，题面正文不动。选项数异常时原样返回
func RandomizeQuestionOptions(rng *rand.Rand, options []string, correctAnswer string) ([]string, string) {
	if len(options) < 2 || len(options) > len(optionLetters) {
		return options, correctAnswer
	}

	currentIdx := -1
	for i, opt := range options {
		if strings.HasPrefix(opt, correctAnswer+")") {
			currentIdx = i
			break
		}
	}
	if currentIdx == -1 {
		return options, correctAnswer
	}

	newIdx := rng.Intn(len(options))
	if newIdx == currentIdx {
		return options, correctAnswer
	}

	newOptions := make([]string, len(options))
	copy(newOptions, options)
	newOptions[currentIdx], newOptions[newIdx] = newOptions[newIdx], newOptions[currentIdx]
	for i := range newOptions {
		newOptions[i] = relabelOption(newOptions[i], optionLetters[i])
	}
	return newOptions, optionLetters[newIdx]
}

func defaultOptions() []string {
	return []string{
		"A) Option A",
		"B) Option B",
		"C) Option C",
		"D) Option D",
	}
}

func validDifficulty(d string) bool {
	switch d {
	case "beginner", "intermediate", "advanced":
		return true
	}
	return false
}

// normalizeQuestionDraft 补齐缺失字段并纠正非法值，保证任何畸形载荷
// 都能落成一道可答的题。缺正确答案时随机挑一个字母；占位题或补出来的
// 答案还要过一遍选项乱序，避免默认槽位形成规律
func normalizeQuestionDraft(rng *rand.Rand, draft QuestionDraft, index, fallbackPoints int) QuestionDraft {
	if strings.TrimSpace(draft.Question) == "" {
		draft.Question = fmt.Sprintf("Sample question %d", index+1)
	}
	if !validDifficulty(draft.Difficulty) {
		draft.Difficulty = "beginner"
	}
	if draft.Points <= 0 {
		if fallbackPoints > 0 {
			draft.Points = fallbackPoints
		} else {
			draft.Points = 10
		}
	}
	// 2-4 个选项都是合法载荷，原样保留；凑不成一道可答的题才补占位列表
	if len(draft.Options) < 2 {
		draft.Options = defaultOptions()
	} else if len(draft.Options) > len(optionLetters) {
		draft.Options = draft.Options[:len(optionLetters)]
	}
	letters := optionLetters[:len(draft.Options)]
	answerAssigned := false
	valid := false
	for _, l := range letters {
		if draft.CorrectAnswer == l {
			valid = true
			break
		}
	}
	if !valid {
		draft.CorrectAnswer = letters[rng.Intn(len(letters))]
		answerAssigned = true
	}
	if strings.TrimSpace(draft.Explanation) == "" {
		draft.Explanation = "Explanation not provided"
	}
	if strings.TrimSpace(draft.QuestionType) == "" {
		draft.QuestionType = "conceptual"
	}
	draft.CodeSnippet = CleanMarkdownCodeBlock(draft.CodeSnippet)

	if answerAssigned || strings.HasPrefix(draft.Question, "Sample question") {
		draft.Options, draft.CorrectAnswer = RandomizeQuestionOptions(rng, draft.Options, draft.CorrectAnswer)
	}
	return draft
}

// parseQuestionDrafts 解析模型输出为题目草稿列表。非对象元素直接跳过，
// 整体解析失败返回空列表，由调用方走兜底题
func parseQuestionDrafts(rng *rand.Rand, content string, fallbackPoints int) []QuestionDraft {
	content = stripJSONFence(content)

	var raw []json.RawMessage
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return nil
	}

	drafts := make([]QuestionDraft, 0, len(raw))
	for i, item := range raw {
		var draft QuestionDraft
		if err := json.Unmarshal(item, &draft); err != nil {
			continue
		}
		drafts = append(drafts, normalizeQuestionDraft(rng, draft, i, fallbackPoints))
	}
	return drafts
}
