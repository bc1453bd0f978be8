package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"learnpath_backend/internal/config"
	"net"
	"net/http"
)

// LlmClient 引擎依赖的外部生成能力。调用方必须容忍失败并自行降级，
// 生成相关接口不允许把原始 LLM 错误抛给最终调用者
type LlmClient interface {
	Generate(ctx context.Context, prompt string, temperature float64, maxOutputTokens int) (string, error)
}

// LlmTimeoutError 请求超时
type LlmTimeoutError struct {
	Err error
}

func (e *LlmTimeoutError) Error() string {
	return fmt.Sprintf("AI request timed out: %v", e.Err)
}

func (e *LlmTimeoutError) Unwrap() error { return e.Err }

// LlmRateLimitError 服务端限流（429）
type LlmRateLimitError struct {
	Body string
}

func (e *LlmRateLimitError) Error() string {
	return fmt.Sprintf("AI API rate limited: %s", e.Body)
}

// LlmProviderError 其余服务端错误
type LlmProviderError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *LlmProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("AI API error: %v", e.Err)
	}
	return fmt.Sprintf("AI API error (status %d): %s", e.StatusCode, e.Body)
}

func (e *LlmProviderError) Unwrap() error { return e.Err }

type AIService struct {
	config config.AIConfig
	client *http.Client
}

func NewAIService(cfg config.AIConfig) *AIService {
	return &AIService{
		config: cfg,
		client: &http.Client{Timeout: cfg.RequestTimeout},
	}
}

type AIChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatCompletionRequest struct {
	Model       string          `json:"model"`
	Messages    []AIChatMessage `json:"messages"`
	Temperature float64         `json:"temperature"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
}

type ChatCompletionResponse struct {
	Choices []struct {
		Message AIChatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (s *AIService) Generate(ctx context.Context, prompt string, temperature float64, maxOutputTokens int) (string, error) {
	messages := []AIChatMessage{
		{
			Role:    "system",
			Content: "You are an expert educator for a day-by-day learning platform. Always respond with valid JSON only, no additional text.",
		},
		{
			Role:    "user",
			Content: prompt,
		},
	}

	reqBody := ChatCompletionRequest{
		Model:       s.config.Model,
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   maxOutputTokens,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", &LlmProviderError{Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.config.BaseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", &LlmProviderError{Err: err}
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.config.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return "", &LlmTimeoutError{Err: err}
		}
		return "", &LlmProviderError{Err: err}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode == http.StatusTooManyRequests {
		return "", &LlmRateLimitError{Body: string(body)}
	}
	if resp.StatusCode != http.StatusOK {
		return "", &LlmProviderError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var result ChatCompletionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", &LlmProviderError{Err: err}
	}

	if result.Error != nil {
		return "", &LlmProviderError{StatusCode: resp.StatusCode, Body: result.Error.Message}
	}

	if len(result.Choices) > 0 {
		return result.Choices[0].Message.Content, nil
	}

	return "", &LlmProviderError{Err: errors.New("AI returned no choices")}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
