package dto

// IntentionDetection is the classifier's verdict for one email
type IntentionDetection struct {
	DetectedIntention string                 `json:"detectedIntention"`
	Confidence        float64                `json:"confidence"`
	Reasoning         string                 `json:"reasoning,omitempty"`
	Provider          string                 `json:"provider,omitempty"`
	Raw               map[string]interface{} `json:"raw,omitempty"`
}

// ActionOutcome is the recorded result of one executed action
type ActionOutcome struct {
	ActionID string      `json:"actionId"`
	Status   string      `json:"status"`
	Result   interface{} `json:"result,omitempty"`
	Error    string      `json:"error,omitempty"`
}

const (
	ActionOutcomeSuccess = "success"
	ActionOutcomeError   = "error"
)
