// Package genaisvc adapts hosted text-generation APIs to the planner's generation ports.
package genaisvc

import (
	"context"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/pkg/errors"

	"github.com/trezcool/studyplanner/core"
)

const (
	ProviderGemini    = "gemini"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"

	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"

	geminiBaseURL      = "https://generativelanguage.googleapis.com/v1beta/openai/"
	geminiModel        = "gemini-2.0-flash"
	openAIModel        = "gpt-4o-mini"
	anthropicModel     = "claude-sonnet-4-20250514"
	anthropicMaxTokens = 8192
)

var (
	ErrUnknownProvider = errors.New("unknown generation provider")
	ErrEmptyReply      = errors.New("generation service returned no text")
)

type (
	Message struct {
		Role    string
		Content string
	}

	// Provider completes a conversation with one reply.
	Provider interface {
		Name() string
		Complete(ctx context.Context, messages []Message) (string, error)
	}

	openAIProvider struct {
		client openai.Client
		name   string
		model  string
	}

	anthropicProvider struct {
		client anthropic.Client
		model  string
	}
)

var (
	_ Provider = (*openAIProvider)(nil)
	_ Provider = (*anthropicProvider)(nil)
)

// NewProvider builds the Provider named by conf.Provider. Gemini is reached through its OpenAI-compatible endpoint.
func NewProvider(conf core.GeneratorConfig) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(conf.Provider)) {
	case ProviderGemini, "":
		baseURL := conf.BaseURL
		if baseURL == "" {
			baseURL = geminiBaseURL
		}
		return newOpenAIProvider(ProviderGemini, conf.APIKey, baseURL, orDefault(conf.Model, geminiModel)), nil
	case ProviderOpenAI:
		return newOpenAIProvider(ProviderOpenAI, conf.APIKey, conf.BaseURL, orDefault(conf.Model, openAIModel)), nil
	case ProviderAnthropic:
		return newAnthropicProvider(conf.APIKey, conf.BaseURL, orDefault(conf.Model, anthropicModel)), nil
	default:
		return nil, errors.Wrap(ErrUnknownProvider, conf.Provider)
	}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func newOpenAIProvider(name, apiKey, baseURL, model string) *openAIProvider {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &openAIProvider{
		client: openai.NewClient(opts...),
		name:   name,
		model:  model,
	}
}

func (p *openAIProvider) Name() string { return p.name }

func (p *openAIProvider) Complete(ctx context.Context, messages []Message) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(p.model),
		Messages: make([]openai.ChatCompletionMessageParamUnion, 0, len(messages)),
	}
	for _, msg := range messages {
		switch msg.Role {
		case RoleSystem:
			params.Messages = append(params.Messages, openai.SystemMessage(msg.Content))
		case RoleAssistant:
			params.Messages = append(params.Messages, openai.AssistantMessage(msg.Content))
		default:
			params.Messages = append(params.Messages, openai.UserMessage(msg.Content))
		}
	}

	resp, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", errors.Wrap(err, p.name+" completion")
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", ErrEmptyReply
	}
	return resp.Choices[0].Message.Content, nil
}

func newAnthropicProvider(apiKey, baseURL, model string) *anthropicProvider {
	opts := []anthropicoption.RequestOption{anthropicoption.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, anthropicoption.WithBaseURL(baseURL))
	}
	return &anthropicProvider{
		client: anthropic.NewClient(opts...),
		model:  model,
	}
}

func (p *anthropicProvider) Name() string { return ProviderAnthropic }

func (p *anthropicProvider) Complete(ctx context.Context, messages []Message) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: anthropicMaxTokens,
		Messages:  make([]anthropic.MessageParam, 0, len(messages)),
	}
	for _, msg := range messages {
		switch msg.Role {
		case RoleSystem:
			params.System = append(params.System, anthropic.TextBlockParam{Text: msg.Content})
		case RoleAssistant:
			params.Messages = append(params.Messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Content)))
		default:
			params.Messages = append(params.Messages, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
		}
	}

	resp, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return "", errors.Wrap(err, "anthropic completion")
	}
	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return "", ErrEmptyReply
	}
	return sb.String(), nil
}
