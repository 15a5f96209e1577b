// internal/models/share.go
package models

import "time"

const (
	ChannelEmail = "email"
	ChannelSMS   = "sms"

	ShareStatusSent      = "sent"
	ShareStatusNoResults = "no_results"
	ShareStatusDisabled  = "disabled"
)

type ShareMessage struct {
	ID                string    `json:"id"`
	StudentID         string    `json:"studentId"`
	Channel           string    `json:"channel"` // "email", "sms"
	Recipient         string    `json:"recipient"`
	Status            string    `json:"status"` // "sent", "no_results", "disabled"
	Body              string    `json:"body"`
	ProviderMessageID string    `json:"providerMessageId,omitempty"`
	SentAt            time.Time `json:"sentAt"`
}
