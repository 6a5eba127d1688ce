package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/NygerianPrynce/kalTrackV2/apperror"
)

const defaultOpenAIBaseURL = "https://api.openai.com/v1"

// OpenAIService is the single external AI collaborator: one blocking
// prompt/response round-trip against the chat-completions endpoint.
type OpenAIService struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

// NewOpenAIService initializes the OpenAIService with credentials and HTTP client
func NewOpenAIService() *OpenAIService {
	baseURL := os.Getenv("OPENAI_BASE_URL")
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}
	return &OpenAIService{
		apiKey:  os.Getenv("OPENAI_API_KEY"),
		baseURL: baseURL,
		model:   "gpt-4o-mini",
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	ResponseFormat *formatSpec   `json:"response_format,omitempty"`
	Temperature    float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type formatSpec struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends one system+user prompt pair and returns the raw completion
// text. Transport failures, non-success statuses and empty completions all
// surface as AITransport errors; a missing API key is a configuration fault.
func (s *OpenAIService) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if s.apiKey == "" {
		return "", apperror.Configuration("OPENAI_API_KEY not configured")
	}

	body, err := json.Marshal(chatRequest{
		Model: s.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		ResponseFormat: &formatSpec{Type: "json_object"},
		Temperature:    0.3,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", apperror.AITransport(fmt.Sprintf("failed to call OpenAI: %v", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", apperror.AITransport(fmt.Sprintf("OpenAI API error: %d %s", resp.StatusCode, string(detail)))
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", apperror.AITransport(fmt.Sprintf("failed to decode OpenAI response: %v", err))
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", apperror.AITransport("no content in OpenAI response")
	}
	return parsed.Choices[0].Message.Content, nil
}
