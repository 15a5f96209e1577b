package loadsavedresults

import "pathfinder-workers/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"studentId"},
		Properties: map[string]validation.Property{
			"studentId": {
				Type:        "string",
				Description: "Student whose saved result set is read",
				MinLength:   validation.IntPtr(1),
				MaxLength:   validation.IntPtr(128),
			},
		},
	}
}
