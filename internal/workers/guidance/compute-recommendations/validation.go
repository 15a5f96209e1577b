package computerecommendations

import (
	"pathfinder-workers/internal/common/validation"
	"pathfinder-workers/internal/recommendation"
)

func surveyRating(description string) validation.Property {
	return validation.Property{Type: "integer", Description: description}
}

// GetInputSchema describes the job variables this worker reads. Other process
// variables are allowed through.
func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"testId"},
		Properties: map[string]validation.Property{
			"testId": {
				Type:        "string",
				Description: "Aptitude test identifier",
				MinLength:   validation.IntPtr(1),
				MaxLength:   validation.IntPtr(64),
			},
			"studentId": {
				Type:        "string",
				Description: "Student to save the result set for",
				MaxLength:   validation.IntPtr(128),
			},
			"surveyScores": {
				Type:        "object",
				Description: "Interest ratings per category, 1-5",
				Properties: map[string]validation.Property{
					recommendation.KeyQuantInterest:    surveyRating("Quantitative interest"),
					recommendation.KeyVerbalInterest:   surveyRating("Verbal interest"),
					recommendation.KeyLogicalInterest:  surveyRating("Logical interest"),
					recommendation.KeyCreativeInterest: surveyRating("Creative interest"),
				},
				AdditionalProperties: validation.BoolPtr(false),
			},
		},
	}
}
