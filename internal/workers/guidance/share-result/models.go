package shareresult

import (
	"context"

	"pathfinder-workers/internal/models"
)

type Input struct {
	StudentID string `json:"studentId"`
	Channel   string `json:"channel"`
	Recipient string `json:"recipient"`
}

type Output struct {
	ShareID   string `json:"shareId"`
	Channel   string `json:"channel"`
	Status    string `json:"status"`
	MessageID string `json:"messageId,omitempty"`
	SentAt    string `json:"sentAt,omitempty"`
}

type ResultLoader interface {
	Load(ctx context.Context, studentID string) (*models.SavedResult, error)
}

// EmailSender is satisfied by aws.SESClient.
type EmailSender interface {
	SendText(ctx context.Context, to, subject, body string) (string, error)
}

// SMSSender is satisfied by aws.SNSClient.
type SMSSender interface {
	SendSMS(ctx context.Context, phone, message string) (string, error)
}
