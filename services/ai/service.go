package ai

import (
	"context"
	"fmt"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"

	"github.com/intentstack/intentstack/dto"
	"github.com/intentstack/intentstack/interfaces"
	er "github.com/intentstack/intentstack/internal/errors"
	"github.com/intentstack/intentstack/internal/logger"
	"github.com/intentstack/intentstack/internal/tracing"
)

type classifierService struct {
	providers []interfaces.AIProvider
	log       logger.Logger
}

// NewClassifierService returns a classifier that delegates to the given
// providers in order. A provider failure falls through to the next one;
// the call only fails once every provider has been exhausted.
func NewClassifierService(log logger.Logger, providers ...interfaces.AIProvider) interfaces.IntentionClassifier {
	return &classifierService{
		providers: providers,
		log:       log,
	}
}

func (s *classifierService) DetectIntention(ctx context.Context, subject, content string) (*dto.IntentionDetection, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "classifierService.DetectIntention")
	defer span.Finish()
	tracing.TagComponentService(span)

	if len(s.providers) == 0 {
		return nil, er.ErrNoProviderAvailable
	}

	var lastErr error
	for _, provider := range s.providers {
		detection, err := provider.DetectIntention(ctx, subject, content)
		if err != nil {
			s.log.Warnf("Provider %s failed to detect intention: %v", provider.Name(), err)
			lastErr = errors.Wrap(err, fmt.Sprintf("provider %s", provider.Name()))
			continue
		}
		detection.Provider = provider.Name()
		span.LogKV("result.provider", provider.Name(), "result.intention", detection.DetectedIntention)
		return detection, nil
	}

	err := errors.Wrap(lastErr, "all AI providers failed")
	tracing.TraceErr(span, err)
	return nil, err
}

func (s *classifierService) ExtractInformation(ctx context.Context, subject, content string, fields []string) (map[string]interface{}, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "classifierService.ExtractInformation")
	defer span.Finish()
	tracing.TagComponentService(span)
	span.LogKV("fields", fields)

	if len(fields) == 0 {
		return map[string]interface{}{}, nil
	}
	if len(s.providers) == 0 {
		return nil, er.ErrNoProviderAvailable
	}

	var lastErr error
	for _, provider := range s.providers {
		extracted, err := provider.ExtractInformation(ctx, subject, content, fields)
		if err != nil {
			s.log.Warnf("Provider %s failed to extract information: %v", provider.Name(), err)
			lastErr = errors.Wrap(err, fmt.Sprintf("provider %s", provider.Name()))
			continue
		}
		return extracted, nil
	}

	err := errors.Wrap(lastErr, "all AI providers failed")
	tracing.TraceErr(span, err)
	return nil, err
}
