package ai

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

var jsonBlockRegex = regexp.MustCompile(`(?s)\{.*\}`)

func detectionPrompt(subject, content string) string {
	return fmt.Sprintf(`Analyze the following email to detect its primary intention.

Subject: %s
Content: %s

Based on the email's content and subject, determine the main intention or purpose.
Consider factors like tone, urgency, and specific requests or actions mentioned.
Provide a confidence score between 0 and 1 indicating how certain you are about this intention.

Please provide your response in the following JSON format:
{
  "detectedIntention": "string - a brief label for the detected intention",
  "confidence": "number between 0 and 1",
  "reasoning": "string - brief explanation of why this intention was detected"
}

Ensure your response is valid JSON and follows this exact structure.`, subject, content)
}

func extractionPrompt(subject, content string, fields []string) string {
	return fmt.Sprintf(`Extract specific information from the following email:

Subject: %s
Content: %s

Please extract values for these fields: %s
For each field, provide the extracted value and a confidence score between 0 and 1.
If a field cannot be found, set its value to null and confidence to 0.

Respond with a single JSON object keyed by field name, each entry shaped as
{"value": "extracted value or null", "confidence": "number between 0 and 1"}.

Ensure your response is valid JSON and follows this exact structure.`, subject, content, strings.Join(fields, ", "))
}

// parseJSONBlock pulls the first JSON object out of a model response,
// tolerating surrounding prose and markdown fences
func parseJSONBlock(text string) (map[string]interface{}, error) {
	match := jsonBlockRegex.FindString(text)
	if match == "" {
		return nil, errors.New("no JSON found in response")
	}
	var result map[string]interface{}
	if err := json.Unmarshal([]byte(match), &result); err != nil {
		return nil, errors.Wrap(err, "failed to parse structured response")
	}
	return result, nil
}

// flattenExtraction converts {field: {value, confidence}} entries into a
// plain field to value map. Fields the model could not find come back nil.
func flattenExtraction(raw map[string]interface{}, fields []string) map[string]interface{} {
	result := make(map[string]interface{}, len(fields))
	for _, field := range fields {
		entry, ok := raw[field]
		if !ok {
			result[field] = nil
			continue
		}
		if wrapped, ok := entry.(map[string]interface{}); ok {
			if value, ok := wrapped["value"]; ok {
				result[field] = value
				continue
			}
		}
		result[field] = entry
	}
	return result
}

func confidenceFrom(raw map[string]interface{}) float64 {
	if v, ok := raw["confidence"].(float64); ok {
		if v < 0 {
			return 0
		}
		if v > 1 {
			return 1
		}
		return v
	}
	return 0
}

func stringFrom(raw map[string]interface{}, key string) string {
	if v, ok := raw[key].(string); ok {
		return v
	}
	return ""
}
