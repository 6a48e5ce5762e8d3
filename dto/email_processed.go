package dto

// EmailProcessed is published after an email reaches a terminal status
type EmailProcessed struct {
	EmailID     string `json:"emailId"`
	UserID      string `json:"userId"`
	Status      string `json:"status"`
	IntentionID string `json:"intentionId,omitempty"`
}

// Notification is the payload of a NOTIFICATION action
type Notification struct {
	Title      string   `json:"title"`
	Message    string   `json:"message"`
	Type       string   `json:"type"`
	Recipients []string `json:"recipients,omitempty"`
}
