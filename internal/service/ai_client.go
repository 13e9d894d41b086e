package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pkoukk/tiktoken-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	openaigo "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// ErrAIGenerationFailed wraps any upstream AI failure.
var ErrAIGenerationFailed = errors.New("AI text generation failed")

// ErrPromptTooLarge is returned when the prompt exceeds the configured token
// budget before the request is ever sent.
var ErrPromptTooLarge = errors.New("prompt exceeds token budget")

var (
	aiRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentinel_ai_requests_total",
			Help: "Total number of requests to the AI API.",
		},
		[]string{"model", "status"},
	)
	aiRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sentinel_ai_request_duration_seconds",
			Help:    "Histogram of AI API request durations.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"model"},
	)
	aiTotalTokens = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sentinel_ai_total_tokens",
			Help:    "Histogram of total token counts (prompt + completion).",
			Buckets: prometheus.LinearBuckets(250, 250, 16),
		},
		[]string{"model"},
	)
)

// UsageInfo carries token usage reported by the AI API.
type UsageInfo struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// AIClient generates text from a system prompt and user input.
type AIClient interface {
	GenerateText(ctx context.Context, systemPrompt, userInput string) (string, UsageInfo, error)
}

type openAIClient struct {
	client          *openaigo.Client
	model           string
	maxPromptTokens int
	maxTokens       int
	logger          *zap.Logger
}

// AIConfig holds the settings for the OpenAI-compatible client.
type AIConfig struct {
	APIKey          string
	BaseURL         string
	Model           string
	MaxPromptTokens int
	MaxTokens       int
}

// NewOpenAIClient creates an AIClient backed by an OpenAI-compatible API.
func NewOpenAIClient(cfg AIConfig, logger *zap.Logger) AIClient {
	clientConfig := openaigo.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	return &openAIClient{
		client:          openaigo.NewClientWithConfig(clientConfig),
		model:           cfg.Model,
		maxPromptTokens: cfg.MaxPromptTokens,
		maxTokens:       cfg.MaxTokens,
		logger:          logger.Named("OpenAIClient"),
	}
}

func (c *openAIClient) GenerateText(ctx context.Context, systemPrompt, userInput string) (string, UsageInfo, error) {
	usageInfo := UsageInfo{}

	if strings.TrimSpace(systemPrompt) == "" {
		aiRequestsTotal.With(prometheus.Labels{"model": c.model, "status": "error"}).Inc()
		return "", usageInfo, fmt.Errorf("%w: empty system prompt", ErrAIGenerationFailed)
	}

	if err := c.checkPromptBudget(systemPrompt, userInput); err != nil {
		return "", usageInfo, err
	}

	messages := []openaigo.ChatCompletionMessage{
		{
			Role:    openaigo.ChatMessageRoleSystem,
			Content: systemPrompt,
		},
	}
	if userInput != "" {
		messages = append(messages, openaigo.ChatCompletionMessage{
			Role:    openaigo.ChatMessageRoleUser,
			Content: userInput,
		})
	}

	startTime := time.Now()
	resp, err := c.client.CreateChatCompletion(
		ctx,
		openaigo.ChatCompletionRequest{
			Model:     c.model,
			Messages:  messages,
			MaxTokens: c.maxTokens,
		},
	)
	duration := time.Since(startTime)

	if err != nil {
		c.logger.Error("AI API request failed", zap.Duration("duration", duration), zap.Error(err))
		aiRequestsTotal.With(prometheus.Labels{"model": c.model, "status": "error"}).Inc()
		return "", usageInfo, fmt.Errorf("%w: %v", ErrAIGenerationFailed, err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		aiRequestsTotal.With(prometheus.Labels{"model": c.model, "status": "error_empty_response"}).Inc()
		return "", usageInfo, fmt.Errorf("%w: empty response", ErrAIGenerationFailed)
	}

	aiRequestsTotal.With(prometheus.Labels{"model": c.model, "status": "success"}).Inc()
	aiRequestDuration.With(prometheus.Labels{"model": c.model}).Observe(duration.Seconds())

	if resp.Usage.TotalTokens > 0 {
		aiTotalTokens.With(prometheus.Labels{"model": c.model}).Observe(float64(resp.Usage.TotalTokens))
		usageInfo.PromptTokens = resp.Usage.PromptTokens
		usageInfo.CompletionTokens = resp.Usage.CompletionTokens
		usageInfo.TotalTokens = resp.Usage.TotalTokens
	}

	c.logger.Debug("AI response received",
		zap.Duration("duration", duration),
		zap.Int("totalTokens", usageInfo.TotalTokens))
	return resp.Choices[0].Message.Content, usageInfo, nil
}

// checkPromptBudget counts prompt tokens locally and rejects oversized input
// before spending an API call on it.
func (c *openAIClient) checkPromptBudget(systemPrompt, userInput string) error {
	if c.maxPromptTokens <= 0 {
		return nil
	}
	tke, err := tiktoken.EncodingForModel(c.model)
	if err != nil {
		// Unknown model encoding: fall back to the generic one rather than
		// skip the check entirely.
		tke, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			c.logger.Warn("Failed to load token encoding, skipping budget check", zap.Error(err))
			return nil
		}
	}
	count := len(tke.Encode(systemPrompt, nil, nil)) + len(tke.Encode(userInput, nil, nil))
	if count > c.maxPromptTokens {
		c.logger.Warn("Prompt over token budget",
			zap.Int("tokens", count),
			zap.Int("budget", c.maxPromptTokens))
		return fmt.Errorf("%w: %d tokens (budget %d)", ErrPromptTooLarge, count, c.maxPromptTokens)
	}
	return nil
}
