package loadsavedresults

import (
	"context"

	"pathfinder-workers/internal/models"
	"pathfinder-workers/internal/recommendation"
)

type Input struct {
	StudentID string `json:"studentId"`
}

type Output struct {
	Found           bool                            `json:"found"`
	Recommendations []recommendation.Recommendation `json:"recommendations"`
	RunID           string                          `json:"runId,omitempty"`
	TestID          string                          `json:"testId,omitempty"`
	SavedAt         string                          `json:"savedAt,omitempty"`
	Confidence      string                          `json:"confidence"`
	ConfidenceLabel string                          `json:"confidenceLabel,omitempty"`
}

type ResultLoader interface {
	Load(ctx context.Context, studentID string) (*models.SavedResult, error)
}
