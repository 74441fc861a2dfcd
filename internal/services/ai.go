package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/huangang/codereview-assistant/internal/config"
	"github.com/huangang/codereview-assistant/internal/models"
	"github.com/huangang/codereview-assistant/pkg/logger"
	"github.com/ollama/ollama/api"
	"github.com/sashabaranov/go-openai"
	"google.golang.org/genai"
)

const defaultReviewPrompt = `You are an experienced senior software engineer doing a code review.
Review the following {{language}} code. Point out bugs, security risks, performance
problems, readability issues and departures from best practices, and suggest concrete
improvements. Finish with an overall assessment of the code quality.

{{hints}}

` + "```{{language}}\n{{code}}\n```"

var errNoProviders = errors.New("no AI provider configured")

// AIService generates reviews by trying the configured providers in order.
type AIService struct {
	providers []config.LLMProviderConfig
	usage     *AIUsageService
}

func NewAIService(cfg *config.AIConfig, usage *AIUsageService) *AIService {
	var providers []config.LLMProviderConfig
	if cfg != nil {
		providers = cfg.Providers
	}
	return &AIService{
		providers: providers,
		usage:     usage,
	}
}

// Providers returns the configured provider list.
func (s *AIService) Providers() []config.LLMProviderConfig {
	return s.providers
}

// Generate implements ReviewGenerator. The first provider to succeed wins.
func (s *AIService) Generate(ctx context.Context, code, language string) (string, error) {
	if len(s.providers) == 0 {
		return "", &GenerationError{Err: errNoProviders}
	}

	prompt := buildReviewPrompt(code, language)
	logger.Infof("[AI] Prompt length: %d chars, code length: %d chars, language: %s", len(prompt), len(code), language)

	var lastErr error
	var lastProvider string
	for i := range s.providers {
		p := &s.providers[i]
		logger.Infof("[AI] Attempting provider %d/%d: %s (model: %s)", i+1, len(s.providers), p.Name, p.Model)

		start := time.Now()
		content, err := s.callLLM(ctx, p, prompt)
		s.recordUsage(p, language, len(code), time.Since(start), err)
		if err == nil {
			logger.Infof("[AI] Success with provider: %s", p.Name)
			return content, nil
		}

		lastErr = err
		lastProvider = p.Name
		logger.Warnf("[AI] Provider %s failed: %v, trying next...", p.Name, err)

		if ctx.Err() != nil {
			break
		}
	}

	return "", &GenerationError{Provider: lastProvider, Err: fmt.Errorf("all providers failed, last error: %w", lastErr)}
}

func (s *AIService) recordUsage(p *config.LLMProviderConfig, language string, codeLength int, latency time.Duration, err error) {
	if s.usage == nil {
		return
	}
	entry := &models.AIUsageLog{
		Provider:   p.Provider,
		Model:      p.Model,
		Language:   language,
		CodeLength: codeLength,
		LatencyMs:  latency.Milliseconds(),
		Success:    err == nil,
	}
	if err != nil {
		entry.ErrorMessage = truncate(err.Error(), 500)
	}
	s.usage.Record(entry)
}

func buildReviewPrompt(code, language string) string {
	hint := LanguageHint(language)
	prompt := strings.ReplaceAll(defaultReviewPrompt, "{{hints}}", hint)
	if hint == "" {
		prompt = strings.Replace(prompt, "\n\n\n\n", "\n\n", 1)
	}
	prompt = strings.ReplaceAll(prompt, "{{language}}", language)
	// code goes last so placeholders inside it are left alone
	return strings.Replace(prompt, "{{code}}", code, 1)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// callLLM dispatches on the Provider field.
func (s *AIService) callLLM(ctx context.Context, p *config.LLMProviderConfig, prompt string) (string, error) {
	log := logger.Module("ai")
	log.Debug().Str("provider", p.Provider).Str("model", p.Model).Str("base_url", p.BaseURL).Msg("calling provider")

	switch p.Provider {
	case "anthropic":
		return s.callAnthropic(ctx, p, prompt)
	case "ollama":
		return s.callOllama(ctx, p, prompt)
	case "gemini":
		return s.callGemini(ctx, p, prompt)
	case "azure":
		return s.callAzure(ctx, p, prompt)
	default:
		// openai and OpenAI-compatible endpoints
		return s.callOpenAI(ctx, p, prompt)
	}
}

func temperatureOf(p *config.LLMProviderConfig) float32 {
	if p.Temperature > 0 {
		return float32(p.Temperature)
	}
	return 0.3
}

func (s *AIService) callOpenAI(ctx context.Context, p *config.LLMProviderConfig, prompt string) (string, error) {
	clientConfig := openai.DefaultConfig(p.APIKey)
	if p.BaseURL != "" {
		clientConfig.BaseURL = p.BaseURL
	}
	client := openai.NewClientWithConfig(clientConfig)

	req := openai.ChatCompletionRequest{
		Model: p.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: temperatureOf(p),
	}
	if p.MaxTokens > 0 {
		req.MaxTokens = p.MaxTokens
	}

	resp, err := client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from OpenAI")
	}

	content := resp.Choices[0].Message.Content
	logger.Infof("[AI] OpenAI response length: %d chars", len(content))
	return content, nil
}

// callAzure uses Model as the deployment name. BaseURL must be
// https://{resource}.openai.azure.com.
func (s *AIService) callAzure(ctx context.Context, p *config.LLMProviderConfig, prompt string) (string, error) {
	client := openai.NewClientWithConfig(openai.DefaultAzureConfig(p.APIKey, p.BaseURL))

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: temperatureOf(p),
	})
	if err != nil {
		return "", fmt.Errorf("Azure OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from Azure OpenAI")
	}

	content := resp.Choices[0].Message.Content
	logger.Infof("[AI] Azure OpenAI response length: %d chars", len(content))
	return content, nil
}

func (s *AIService) callAnthropic(ctx context.Context, p *config.LLMProviderConfig, prompt string) (string, error) {
	opts := []option.RequestOption{option.WithAPIKey(p.APIKey)}
	if p.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(p.BaseURL))
	}
	client := anthropic.NewClient(opts...)

	maxTokens := int64(p.MaxTokens)
	if maxTokens == 0 {
		maxTokens = 4096
	}
	model := p.Model
	if model == "" {
		model = "claude-sonnet-4-20250514"
	}

	resp, err := client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("Anthropic API error: %w", err)
	}

	var content strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			content.WriteString(block.Text)
		}
	}

	logger.Infof("[AI] Anthropic response length: %d chars", content.Len())
	return content.String(), nil
}

func (s *AIService) callOllama(ctx context.Context, p *config.LLMProviderConfig, prompt string) (string, error) {
	baseURL := p.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid Ollama base URL: %w", err)
	}
	client := api.NewClient(u, http.DefaultClient)

	model := p.Model
	if model == "" {
		model = "llama3"
	}

	var content strings.Builder
	err = client.Chat(ctx, &api.ChatRequest{
		Model: model,
		Messages: []api.Message{
			{Role: "user", Content: prompt},
		},
		Options: map[string]interface{}{
			"temperature": temperatureOf(p),
		},
	}, func(resp api.ChatResponse) error {
		content.WriteString(resp.Message.Content)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("Ollama API error: %w", err)
	}

	logger.Infof("[AI] Ollama response length: %d chars", content.Len())
	return content.String(), nil
}

func (s *AIService) callGemini(ctx context.Context, p *config.LLMProviderConfig, prompt string) (string, error) {
	if p.APIKey == "" {
		return "", fmt.Errorf("Gemini API key not set")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: p.APIKey,
	})
	if err != nil {
		return "", fmt.Errorf("Gemini client error: %w", err)
	}

	model := p.Model
	if model == "" {
		model = "gemini-2.0-flash-exp"
	}

	resp, err := client.Models.GenerateContent(ctx, model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}

	content := resp.Text()
	logger.Infof("[AI] Gemini response length: %d chars", len(content))
	return content, nil
}
