package ai

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intentstack/intentstack/dto"
	er "github.com/intentstack/intentstack/internal/errors"
	"github.com/intentstack/intentstack/internal/logger"
)

type stubProvider struct {
	name      string
	detection *dto.IntentionDetection
	extracted map[string]interface{}
	err       error
	calls     int
}

func (p *stubProvider) Name() string {
	return p.name
}

func (p *stubProvider) DetectIntention(ctx context.Context, subject, content string) (*dto.IntentionDetection, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return p.detection, nil
}

func (p *stubProvider) ExtractInformation(ctx context.Context, subject, content string, fields []string) (map[string]interface{}, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return p.extracted, nil
}

func getLogger() logger.Logger {
	appLogger := logger.NewAppLogger(&logger.Config{
		DevMode: true,
	})
	appLogger.InitLogger()
	return appLogger
}

func TestClassifierService_DetectIntention_FirstProviderWins(t *testing.T) {
	first := &stubProvider{
		name:      "first",
		detection: &dto.IntentionDetection{DetectedIntention: "meeting_request", Confidence: 0.9},
	}
	second := &stubProvider{
		name:      "second",
		detection: &dto.IntentionDetection{DetectedIntention: "invoice", Confidence: 0.5},
	}
	svc := NewClassifierService(getLogger(), first, second)

	detection, err := svc.DetectIntention(context.Background(), "Meeting tomorrow", "Can we meet?")
	require.NoError(t, err)
	assert.Equal(t, "meeting_request", detection.DetectedIntention)
	assert.Equal(t, "first", detection.Provider)
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 0, second.calls)
}

func TestClassifierService_DetectIntention_FallsThroughOnFailure(t *testing.T) {
	failing := &stubProvider{
		name: "failing",
		err:  errors.New("rate limited"),
	}
	fallback := &stubProvider{
		name:      "fallback",
		detection: &dto.IntentionDetection{DetectedIntention: "support_request", Confidence: 0.8},
	}
	svc := NewClassifierService(getLogger(), failing, fallback)

	detection, err := svc.DetectIntention(context.Background(), "Help", "Something is broken")
	require.NoError(t, err)
	assert.Equal(t, "support_request", detection.DetectedIntention)
	assert.Equal(t, "fallback", detection.Provider)
	assert.Equal(t, 1, failing.calls)
	assert.Equal(t, 1, fallback.calls)
}

func TestClassifierService_DetectIntention_AllProvidersFail(t *testing.T) {
	first := &stubProvider{name: "first", err: errors.New("down")}
	second := &stubProvider{name: "second", err: errors.New("also down")}
	svc := NewClassifierService(getLogger(), first, second)

	_, err := svc.DetectIntention(context.Background(), "Subject", "Content")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all AI providers failed")
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 1, second.calls)
}

func TestClassifierService_DetectIntention_NoProviders(t *testing.T) {
	svc := NewClassifierService(getLogger())

	_, err := svc.DetectIntention(context.Background(), "Subject", "Content")
	assert.ErrorIs(t, err, er.ErrNoProviderAvailable)
}

func TestClassifierService_ExtractInformation_EmptyFields(t *testing.T) {
	provider := &stubProvider{name: "provider"}
	svc := NewClassifierService(getLogger(), provider)

	extracted, err := svc.ExtractInformation(context.Background(), "Subject", "Content", nil)
	require.NoError(t, err)
	assert.Empty(t, extracted)
	assert.Equal(t, 0, provider.calls)
}

func TestClassifierService_ExtractInformation_Fallback(t *testing.T) {
	failing := &stubProvider{name: "failing", err: errors.New("timeout")}
	fallback := &stubProvider{
		name:      "fallback",
		extracted: map[string]interface{}{"date": "2025-06-01", "attendees": nil},
	}
	svc := NewClassifierService(getLogger(), failing, fallback)

	extracted, err := svc.ExtractInformation(context.Background(), "Subject", "Content", []string{"date", "attendees"})
	require.NoError(t, err)
	assert.Equal(t, "2025-06-01", extracted["date"])
	assert.Nil(t, extracted["attendees"])
}

func TestParseJSONBlock(t *testing.T) {
	raw, err := parseJSONBlock("Here is the result:\n```json\n{\"detectedIntention\": \"meeting_request\", \"confidence\": 0.85}\n```")
	require.NoError(t, err)
	assert.Equal(t, "meeting_request", raw["detectedIntention"])
	assert.Equal(t, 0.85, raw["confidence"])

	_, err = parseJSONBlock("no json here")
	assert.Error(t, err)
}

func TestFlattenExtraction(t *testing.T) {
	raw := map[string]interface{}{
		"date":    map[string]interface{}{"value": "2025-06-01", "confidence": 0.9},
		"amount":  map[string]interface{}{"value": nil, "confidence": 0.0},
		"literal": "plain",
	}
	flattened := flattenExtraction(raw, []string{"date", "amount", "literal", "missing"})

	assert.Equal(t, "2025-06-01", flattened["date"])
	assert.Nil(t, flattened["amount"])
	assert.Equal(t, "plain", flattened["literal"])
	assert.Nil(t, flattened["missing"])
}
