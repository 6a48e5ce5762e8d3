package ai

import (
	"context"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"
	openai "github.com/sashabaranov/go-openai"

	"github.com/intentstack/intentstack/config"
	"github.com/intentstack/intentstack/dto"
	"github.com/intentstack/intentstack/interfaces"
	"github.com/intentstack/intentstack/internal/tracing"
)

const openAIProviderName = "openai"

type openAIProvider struct {
	client *openai.Client
	model  string
}

func NewOpenAIProvider(cfg *config.AIConfig) interfaces.AIProvider {
	return &openAIProvider{
		client: openai.NewClient(cfg.OpenAIApiKey),
		model:  cfg.OpenAIModel,
	}
}

func (p *openAIProvider) Name() string {
	return openAIProviderName
}

func (p *openAIProvider) DetectIntention(ctx context.Context, subject, content string) (*dto.IntentionDetection, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "openAIProvider.DetectIntention")
	defer span.Finish()
	tracing.TagComponentService(span)

	raw, err := p.complete(ctx, detectionPrompt(subject, content))
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}

	return &dto.IntentionDetection{
		DetectedIntention: stringFrom(raw, "detectedIntention"),
		Confidence:        confidenceFrom(raw),
		Reasoning:         stringFrom(raw, "reasoning"),
		Raw:               raw,
	}, nil
}

func (p *openAIProvider) ExtractInformation(ctx context.Context, subject, content string, fields []string) (map[string]interface{}, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "openAIProvider.ExtractInformation")
	defer span.Finish()
	tracing.TagComponentService(span)

	raw, err := p.complete(ctx, extractionPrompt(subject, content, fields))
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}
	return flattenExtraction(raw, fields), nil
}

func (p *openAIProvider) complete(ctx context.Context, prompt string) (map[string]interface{}, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.model,
		Temperature: 0.7,
		MaxTokens:   2048,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "openai completion failed")
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("openai returned no choices")
	}
	return parseJSONBlock(resp.Choices[0].Message.Content)
}
