package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/intentstack/intentstack/internal/models"
)

func templateContext() map[string]interface{} {
	return map[string]interface{}{
		"email": map[string]interface{}{
			"subject": "Meeting tomorrow",
			"sender":  "jo@acme.com",
		},
		"extracted": map[string]interface{}{
			"date": "2025-06-01",
		},
		"price": map[string]interface{}{
			"amount": 99.5,
			"quota":  float64(100),
		},
	}
}

func TestResolveTemplates_SimplePath(t *testing.T) {
	resolved := ResolveTemplates("Re: {{email.subject}}", templateContext())
	assert.Equal(t, "Re: Meeting tomorrow", resolved)
}

func TestResolveTemplates_MultiplePlaceholders(t *testing.T) {
	resolved := ResolveTemplates("{{email.sender}} asked about {{extracted.date}}", templateContext())
	assert.Equal(t, "jo@acme.com asked about 2025-06-01", resolved)
}

func TestResolveTemplates_MissingPathStaysLiteral(t *testing.T) {
	resolved := ResolveTemplates("value: {{email.nope}} and {{unknown.path}}", templateContext())
	assert.Equal(t, "value: {{email.nope}} and {{unknown.path}}", resolved)
}

func TestResolveTemplates_NumberFormatting(t *testing.T) {
	assert.Equal(t, "pay 99.5", ResolveTemplates("pay {{price.amount}}", templateContext()))
	assert.Equal(t, "quota 100", ResolveTemplates("quota {{price.quota}}", templateContext()))
}

func TestResolveTemplates_NestedStructures(t *testing.T) {
	config := map[string]interface{}{
		"to":      []interface{}{"{{email.sender}}", "admin@intentstack.io"},
		"subject": "Re: {{email.subject}}",
		"body": map[string]interface{}{
			"text": "Confirmed for {{extracted.date}}",
		},
		"retries": 3,
	}

	resolved := ResolveConfig(config, templateContext())

	to := resolved["to"].([]interface{})
	assert.Equal(t, "jo@acme.com", to[0])
	assert.Equal(t, "admin@intentstack.io", to[1])
	assert.Equal(t, "Re: Meeting tomorrow", resolved["subject"])
	body := resolved["body"].(map[string]interface{})
	assert.Equal(t, "Confirmed for 2025-06-01", body["text"])
	assert.Equal(t, 3, resolved["retries"])
}

func TestResolveTemplates_NonStringPassthrough(t *testing.T) {
	assert.Equal(t, 42, ResolveTemplates(42, templateContext()))
	assert.Equal(t, true, ResolveTemplates(true, templateContext()))
	assert.Nil(t, ResolveTemplates(nil, templateContext()))
}

func TestExecutionContext_ToMap(t *testing.T) {
	execCtx := &ExecutionContext{
		Email: &models.ProcessedEmail{
			ID:      "email_1",
			Subject: "Invoice #42",
			Sender:  "billing@acme.com",
		},
		User: &models.User{
			ID:    "user_1",
			Email: "me@intentstack.io",
		},
		Intention: &models.Intention{
			ID:   "int_invoice",
			Name: "Invoice",
		},
		Extracted: map[string]interface{}{"total": "42.00"},
		Price: &models.Price{
			ID:     "price_1",
			Amount: 10,
		},
	}

	m := execCtx.ToMap()

	resolved := ResolveTemplates("{{user.email}} / {{intention.name}} / {{extracted.total}} / {{price.amount}}", m)
	assert.Equal(t, "me@intentstack.io / Invoice / 42.00 / 10", resolved)
}

func TestExecutionContext_ToMap_PartialContext(t *testing.T) {
	execCtx := &ExecutionContext{
		Email: &models.ProcessedEmail{ID: "email_1", Subject: "Hello"},
	}

	m := execCtx.ToMap()
	assert.Contains(t, m, "email")
	assert.NotContains(t, m, "price")

	// Paths into absent sections stay literal
	resolved := ResolveTemplates("{{price.amount}}", m)
	assert.Equal(t, "{{price.amount}}", resolved)
}
