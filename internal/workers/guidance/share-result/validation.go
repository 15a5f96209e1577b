package shareresult

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	apperrors "pathfinder-workers/internal/common/errors"
	"pathfinder-workers/internal/common/validation"
	"pathfinder-workers/internal/models"
)

var recipientValidator = validator.New()

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"studentId", "channel", "recipient"},
		Properties: map[string]validation.Property{
			"studentId": {
				Type:      "string",
				MinLength: validation.IntPtr(1),
				MaxLength: validation.IntPtr(128),
			},
			"channel": {
				Type:        "string",
				Description: "Delivery channel",
				Enum:        []string{models.ChannelEmail, models.ChannelSMS},
			},
			"recipient": {
				Type:        "string",
				Description: "Email address or E.164 phone number",
				MinLength:   validation.IntPtr(3),
				MaxLength:   validation.IntPtr(254),
			},
		},
	}
}

// validateRecipient checks the address against the channel: RFC 5322 email
// or E.164 phone.
func validateRecipient(channel, recipient string) error {
	switch channel {
	case models.ChannelEmail:
		if err := recipientValidator.Var(recipient, "required,email"); err != nil {
			return apperrors.NewInvalidInputError(fmt.Sprintf("recipient %q is not an email address", recipient))
		}
	case models.ChannelSMS:
		if err := recipientValidator.Var(recipient, "required,e164"); err != nil {
			return apperrors.NewInvalidInputError(fmt.Sprintf("recipient %q is not an E.164 phone number", recipient))
		}
	default:
		return apperrors.NewInvalidInputError(fmt.Sprintf("unsupported channel %q", channel))
	}
	return nil
}
