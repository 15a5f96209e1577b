package aggregatesurvey

import "pathfinder-workers/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"responses"},
		Properties: map[string]validation.Property{
			"responses": {
				Type:        "object",
				Description: "Likert rating per question index",
				PatternProperties: map[string]validation.Property{
					".*": {Type: "integer"},
				},
			},
		},
	}
}
