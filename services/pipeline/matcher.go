package pipeline

import (
	"strings"

	"github.com/intentstack/intentstack/internal/models"
)

// MatchIntention returns the first catalog intention with a keyword
// contained in the detected label, case-insensitively. Catalog order is
// the priority order, so given the same catalog and label the result is
// deterministic. Returns nil when nothing matches.
func MatchIntention(detectedIntention string, intentions []*models.Intention) *models.Intention {
	label := strings.ToLower(detectedIntention)
	if label == "" {
		return nil
	}
	for _, intention := range intentions {
		for _, keyword := range intention.Keywords {
			keyword = strings.ToLower(strings.TrimSpace(keyword))
			if keyword == "" {
				continue
			}
			if strings.Contains(label, keyword) {
				return intention
			}
		}
	}
	return nil
}
