package pipeline

import (
	"github.com/intentstack/intentstack/internal/models"
)

// ExecutionContext carries everything an action template can reference
type ExecutionContext struct {
	Email     *models.ProcessedEmail
	User      *models.User
	Intention *models.Intention
	Extracted map[string]interface{}
	Price     *models.Price
}

// ToMap renders the context as the nested map the template resolver
// walks. Paths mirror the entities: email.subject, user.email,
// intention.name, extracted.<field>, price.amount.
func (c *ExecutionContext) ToMap() map[string]interface{} {
	result := map[string]interface{}{}

	if c.Email != nil {
		result["email"] = map[string]interface{}{
			"id":            c.Email.ID,
			"subject":       c.Email.Subject,
			"content":       c.Email.Content,
			"sender":        c.Email.Sender,
			"messageId":     c.Email.MessageID,
			"hasAttachment": c.Email.HasAttachment,
		}
	}
	if c.User != nil {
		result["user"] = map[string]interface{}{
			"id":    c.User.ID,
			"email": c.User.Email,
		}
	}
	if c.Intention != nil {
		result["intention"] = map[string]interface{}{
			"id":          c.Intention.ID,
			"name":        c.Intention.Name,
			"description": c.Intention.Description,
		}
	}
	if c.Extracted != nil {
		result["extracted"] = c.Extracted
	}
	if c.Price != nil {
		result["price"] = map[string]interface{}{
			"id":       c.Price.ID,
			"name":     c.Price.Name,
			"amount":   c.Price.Amount,
			"currency": c.Price.Currency,
		}
	}
	return result
}
