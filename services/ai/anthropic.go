package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"

	"github.com/intentstack/intentstack/config"
	"github.com/intentstack/intentstack/dto"
	"github.com/intentstack/intentstack/interfaces"
	"github.com/intentstack/intentstack/internal/tracing"
)

const (
	anthropicProviderName = "anthropic"
	anthropicAPIVersion   = "2023-06-01"
)

type anthropicProvider struct {
	apiKey  string
	apiURL  string
	model   string
	httpCli *http.Client
}

func NewAnthropicProvider(cfg *config.AIConfig) interfaces.AIProvider {
	return &anthropicProvider{
		apiKey: cfg.AnthropicApiKey,
		apiURL: cfg.AnthropicApiUrl,
		model:  cfg.AnthropicModel,
		httpCli: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

func (p *anthropicProvider) Name() string {
	return anthropicProviderName
}

func (p *anthropicProvider) DetectIntention(ctx context.Context, subject, content string) (*dto.IntentionDetection, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "anthropicProvider.DetectIntention")
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

func (p *anthropicProvider) ExtractInformation(ctx context.Context, subject, content string, fields []string) (map[string]interface{}, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "anthropicProvider.ExtractInformation")
	defer span.Finish()
	tracing.TagComponentService(span)

	raw, err := p.complete(ctx, extractionPrompt(subject, content, fields))
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}
	return flattenExtraction(raw, fields), nil
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

func (p *anthropicProvider) complete(ctx context.Context, prompt string) (map[string]interface{}, error) {
	payload, err := json.Marshal(anthropicRequest{
		Model:     p.model,
		MaxTokens: 2048,
		Messages: []anthropicMessage{
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal payload")
	}

	req, err := http.NewRequestWithContext(ctx, "POST", p.apiURL+"/v1/messages", bytes.NewBuffer(payload))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", p.apiKey)
	req.Header.Set("anthropic-version", anthropicAPIVersion)

	resp, err := p.httpCli.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "unable to read response body")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("request failed with status code %d: %s", resp.StatusCode, string(body))
	}

	var response anthropicResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal response")
	}
	if len(response.Content) == 0 {
		return nil, errors.New("anthropic returned no content")
	}
	return parseJSONBlock(response.Content[0].Text)
}
