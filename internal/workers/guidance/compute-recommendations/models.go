package computerecommendations

import (
	"context"

	"pathfinder-workers/internal/models"
	"pathfinder-workers/internal/recommendation"
)

type Input struct {
	TestID       string                        `json:"testId"`
	SurveyScores recommendation.InterestSurvey `json:"surveyScores,omitempty"`
	StudentID    string                        `json:"studentId,omitempty"`
}

type Output struct {
	TestID          string                          `json:"testId"`
	TestFound       bool                            `json:"testFound"`
	Recommendations []recommendation.Recommendation `json:"recommendations"`
	ResultCount     int                             `json:"resultCount"`
	Bridging        bool                            `json:"bridging"`
	Confidence      string                          `json:"confidence"`
	ConfidenceLabel string                          `json:"confidenceLabel,omitempty"`
	TopProgram      string                          `json:"topProgram,omitempty"`
	TopMatchPercent int                             `json:"topMatchPercent"`
	ResultRunID     string                          `json:"resultRunId,omitempty"`
}

// ResultSaver persists the top of a run for a student.
type ResultSaver interface {
	Save(ctx context.Context, studentID, testID string, recs []recommendation.Recommendation) (*models.SavedResult, error)
}
