package interfaces

import (
	"golang.org/x/net/context"

	"github.com/intentstack/intentstack/dto"
)

// IntentionClassifier detects the sender's intention and extracts
// structured fields from an email
type IntentionClassifier interface {
	DetectIntention(ctx context.Context, subject, content string) (*dto.IntentionDetection, error)
	ExtractInformation(ctx context.Context, subject, content string, fields []string) (map[string]interface{}, error)
}

// AIProvider is one backend the classifier can delegate to. Providers are
// tried in order; a provider failure falls through to the next one.
type AIProvider interface {
	Name() string
	DetectIntention(ctx context.Context, subject, content string) (*dto.IntentionDetection, error)
	ExtractInformation(ctx context.Context, subject, content string, fields []string) (map[string]interface{}, error)
}
