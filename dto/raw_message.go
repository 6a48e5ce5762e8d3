package dto

import "time"

// RawMessage is one unseen message pulled from a mailbox, already parsed
// out of its MIME envelope
type RawMessage struct {
	MessageID     string     `json:"messageId"`
	Subject       string     `json:"subject"`
	BodyText      string     `json:"bodyText"`
	BodyHTML      string     `json:"bodyHtml"`
	From          string     `json:"from"`
	To            []string   `json:"to"`
	HasAttachment bool       `json:"hasAttachment"`
	ReceivedAt    *time.Time `json:"receivedAt"`
}
