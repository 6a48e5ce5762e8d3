package pipeline

import (
	"strings"

	"github.com/intentstack/intentstack/internal/models"
	"github.com/intentstack/intentstack/internal/utils"
)

// SelectPrice returns the first active price whose criteria all hold for
// the email, in catalog order. A price without criteria always applies.
// Returns nil when no price matches.
func SelectPrice(email *models.ProcessedEmail, prices []*models.Price) *models.Price {
	for _, price := range prices {
		if criteriaMatch(email, price.Criteria) {
			return price
		}
	}
	return nil
}

// criteriaMatch evaluates every criterion against the email; all must
// hold. An unknown criterion key evaluates false so a typo never
// silently widens a price rule.
func criteriaMatch(email *models.ProcessedEmail, criteria models.JSONMap) bool {
	if len(criteria) == 0 {
		return true
	}
	wordCount := utils.WordCount(email.Content)
	for key, raw := range criteria {
		switch key {
		case "minWordCount":
			threshold, ok := intValue(raw)
			if !ok || wordCount < threshold {
				return false
			}
		case "maxWordCount":
			threshold, ok := intValue(raw)
			if !ok || wordCount > threshold {
				return false
			}
		case "containsAttachments":
			expected, ok := raw.(bool)
			if !ok || email.HasAttachment != expected {
				return false
			}
		case "senderContains":
			fragment, ok := raw.(string)
			if !ok || !strings.Contains(strings.ToLower(email.Sender), strings.ToLower(fragment)) {
				return false
			}
		case "senderDomain":
			domain, ok := raw.(string)
			if !ok || !senderHasDomain(email.Sender, domain) {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// ComputeAmount applies the quota/overage formula: the base amount
// covers EmailQuota emails, each email beyond the quota adds
// AdditionalEmailPrice.
func ComputeAmount(price *models.Price, emailCount int) float64 {
	if emailCount <= price.EmailQuota {
		return price.Amount
	}
	additionalEmails := emailCount - price.EmailQuota
	return price.Amount + float64(additionalEmails)*price.AdditionalEmailPrice
}

func intValue(raw interface{}) (int, bool) {
	switch v := raw.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	}
	return 0, false
}

func senderHasDomain(sender, domain string) bool {
	at := strings.LastIndex(sender, "@")
	if at < 0 {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(sender[at+1:]), strings.TrimSpace(domain))
}
