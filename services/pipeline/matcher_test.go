package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/intentstack/intentstack/internal/models"
)

func intention(id string, keywords ...string) *models.Intention {
	return &models.Intention{
		ID:       id,
		Name:     id,
		Keywords: keywords,
		IsActive: true,
	}
}

func TestMatchIntention_FirstCatalogMatchWins(t *testing.T) {
	catalog := []*models.Intention{
		intention("int_meeting", "meeting", "schedule"),
		intention("int_invoice", "invoice", "payment"),
		intention("int_generic", "request"),
	}

	// "meeting_request" contains both "meeting" and "request"; catalog
	// order decides
	matched := MatchIntention("meeting_request", catalog)
	assert.NotNil(t, matched)
	assert.Equal(t, "int_meeting", matched.ID)
}

func TestMatchIntention_CaseInsensitive(t *testing.T) {
	catalog := []*models.Intention{
		intention("int_invoice", "Invoice"),
	}

	matched := MatchIntention("INVOICE_RECEIVED", catalog)
	assert.NotNil(t, matched)
	assert.Equal(t, "int_invoice", matched.ID)
}

func TestMatchIntention_SubstringSemantics(t *testing.T) {
	catalog := []*models.Intention{
		intention("int_support", "support"),
	}

	assert.NotNil(t, MatchIntention("customer_support_request", catalog))
	assert.Nil(t, MatchIntention("suppor", catalog))
}

func TestMatchIntention_NoMatch(t *testing.T) {
	catalog := []*models.Intention{
		intention("int_meeting", "meeting"),
		intention("int_invoice", "invoice"),
	}

	assert.Nil(t, MatchIntention("newsletter", catalog))
	assert.Nil(t, MatchIntention("", catalog))
	assert.Nil(t, MatchIntention("meeting", nil))
}

func TestMatchIntention_SkipsBlankKeywords(t *testing.T) {
	catalog := []*models.Intention{
		intention("int_blank", "", "  "),
		intention("int_real", "meeting"),
	}

	matched := MatchIntention("meeting_request", catalog)
	assert.NotNil(t, matched)
	assert.Equal(t, "int_real", matched.ID)
}

func TestMatchIntention_Deterministic(t *testing.T) {
	catalog := []*models.Intention{
		intention("int_a", "alpha"),
		intention("int_b", "alpha"),
	}

	for i := 0; i < 10; i++ {
		matched := MatchIntention("alpha_event", catalog)
		assert.Equal(t, "int_a", matched.ID)
	}
}
