package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/intentstack/intentstack/internal/models"
)

func email(content, sender string, hasAttachment bool) *models.ProcessedEmail {
	return &models.ProcessedEmail{
		Content:       content,
		Sender:        sender,
		HasAttachment: hasAttachment,
	}
}

func TestSelectPrice_EmptyCriteriaAlwaysApplies(t *testing.T) {
	prices := []*models.Price{
		{ID: "price_1", Criteria: models.JSONMap{}},
	}

	selected := SelectPrice(email("short note", "a@b.com", false), prices)
	assert.NotNil(t, selected)
	assert.Equal(t, "price_1", selected.ID)
}

func TestSelectPrice_WordCountCriteria(t *testing.T) {
	prices := []*models.Price{
		{ID: "price_long", Criteria: models.JSONMap{"minWordCount": float64(5)}},
		{ID: "price_short", Criteria: models.JSONMap{"maxWordCount": float64(4)}},
	}

	selected := SelectPrice(email("one two three", "a@b.com", false), prices)
	assert.NotNil(t, selected)
	assert.Equal(t, "price_short", selected.ID)

	selected = SelectPrice(email("one two three four five six", "a@b.com", false), prices)
	assert.NotNil(t, selected)
	assert.Equal(t, "price_long", selected.ID)
}

func TestSelectPrice_AttachmentAndDomainCriteria(t *testing.T) {
	prices := []*models.Price{
		{ID: "price_attach", Criteria: models.JSONMap{"containsAttachments": true, "senderDomain": "acme.com"}},
	}

	assert.Nil(t, SelectPrice(email("hello", "jo@acme.com", false), prices))
	assert.Nil(t, SelectPrice(email("hello", "jo@other.com", true), prices))

	selected := SelectPrice(email("hello", "jo@ACME.com", true), prices)
	assert.NotNil(t, selected)
	assert.Equal(t, "price_attach", selected.ID)
}

func TestSelectPrice_SenderContainsCriterion(t *testing.T) {
	prices := []*models.Price{
		{ID: "price_vip", Criteria: models.JSONMap{"senderContains": "billing"}},
	}

	assert.Nil(t, SelectPrice(email("hello", "jo@acme.com", false), prices))

	selected := SelectPrice(email("hello", "Billing@acme.com", false), prices)
	assert.NotNil(t, selected)
	assert.Equal(t, "price_vip", selected.ID)
}

func TestSelectPrice_UnknownCriterionNeverMatches(t *testing.T) {
	prices := []*models.Price{
		{ID: "price_typo", Criteria: models.JSONMap{"minimumWords": float64(1)}},
		{ID: "price_fallback", Criteria: models.JSONMap{}},
	}

	selected := SelectPrice(email("hello world", "a@b.com", false), prices)
	assert.NotNil(t, selected)
	assert.Equal(t, "price_fallback", selected.ID)
}

func TestSelectPrice_CatalogOrderDecides(t *testing.T) {
	prices := []*models.Price{
		{ID: "price_first", Criteria: models.JSONMap{}},
		{ID: "price_second", Criteria: models.JSONMap{}},
	}

	selected := SelectPrice(email("anything", "a@b.com", false), prices)
	assert.Equal(t, "price_first", selected.ID)
}

func TestSelectPrice_NoPrices(t *testing.T) {
	assert.Nil(t, SelectPrice(email("anything", "a@b.com", false), nil))
}

func TestComputeAmount_WithinQuota(t *testing.T) {
	price := &models.Price{Amount: 100, EmailQuota: 100, AdditionalEmailPrice: 0.1}

	assert.Equal(t, 100.0, ComputeAmount(price, 50))
	assert.Equal(t, 100.0, ComputeAmount(price, 100))
	assert.Equal(t, 100.0, ComputeAmount(price, 0))
}

func TestComputeAmount_Overage(t *testing.T) {
	price := &models.Price{Amount: 100, EmailQuota: 100, AdditionalEmailPrice: 0.1}

	assert.InDelta(t, 105.0, ComputeAmount(price, 150), 0.0001)
	assert.InDelta(t, 100.1, ComputeAmount(price, 101), 0.0001)
}
