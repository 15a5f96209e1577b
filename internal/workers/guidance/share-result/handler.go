// internal/workers/guidance/share-result/handler.go
package shareresult

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"pathfinder-workers/internal/common/camunda"
	apperrors "pathfinder-workers/internal/common/errors"
	"pathfinder-workers/internal/common/logger"
	"pathfinder-workers/internal/common/validation"
	"pathfinder-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const TaskType = "share-result"

type Handler struct {
	config     *Config
	results    ResultLoader
	email      EmailSender
	sms        SMSSender
	validator  *validation.Validator
	errHandler *apperrors.ErrorHandler
	logger     logger.Logger
	now        func() time.Time
}

// NewHandler wires the worker. A nil sender disables its channel.
func NewHandler(config *Config, results ResultLoader, email EmailSender, sms SMSSender, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		results:    results,
		email:      email,
		sms:        sms,
		validator:  validation.MustValidator(GetInputSchema()),
		errHandler: apperrors.NewErrorHandler(log),
		logger:     log,
		now:        time.Now,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) error {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	input, err := h.parseInput(job)
	if err != nil {
		h.errHandler.HandleJobError(ctx, client, job, err)
		return err
	}

	output, err := h.Execute(ctx, input)
	if err != nil {
		h.errHandler.HandleJobError(ctx, client, job, err)
		return err
	}

	return camunda.CompleteJob(ctx, client, job, output)
}

func (h *Handler) parseInput(job entities.Job) (*Input, error) {
	if result := h.validator.ValidateJSON(job.Variables); !result.Valid {
		return nil, apperrors.NewInvalidInputError(result.Error())
	}

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		return nil, apperrors.NewInvalidInputError(err.Error())
	}
	return &input, nil
}

// ShareText is the message body for a result whose top entry is program at
// matchPercent.
func ShareText(program string, matchPercent int) string {
	return fmt.Sprintf("Pathfinder Result:\nTop Match: %s\nFit: %d%%", program, matchPercent)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	channel := strings.ToLower(strings.TrimSpace(input.Channel))
	recipient := strings.TrimSpace(input.Recipient)
	studentID := strings.TrimSpace(input.StudentID)

	if err := validateRecipient(channel, recipient); err != nil {
		return nil, err
	}

	msg := &models.ShareMessage{
		ID:        uuid.New().String(),
		StudentID: studentID,
		Channel:   channel,
		Recipient: recipient,
	}

	if !h.channelEnabled(channel) {
		msg.Status = models.ShareStatusDisabled
		h.logger.Warn("share channel disabled", map[string]interface{}{"channel": channel})
		return toOutput(msg), nil
	}

	saved, err := h.results.Load(ctx, studentID)
	if err != nil {
		return nil, apperrors.NewResultLoadFailedError(studentID, err)
	}
	if saved == nil || len(saved.Recommendations) == 0 {
		msg.Status = models.ShareStatusNoResults
		h.logger.Info("nothing to share", map[string]interface{}{"studentId": studentID})
		return toOutput(msg), nil
	}

	top := saved.Recommendations[0]
	msg.Body = ShareText(top.Program, top.MatchPercent)

	switch channel {
	case models.ChannelEmail:
		msg.ProviderMessageID, err = h.email.SendText(ctx, recipient, h.config.EmailSubject, msg.Body)
	case models.ChannelSMS:
		msg.ProviderMessageID, err = h.sms.SendSMS(ctx, recipient, msg.Body)
	}
	if err != nil {
		return nil, apperrors.NewShareSendFailedError(channel, err)
	}

	msg.Status = models.ShareStatusSent
	msg.SentAt = h.now().UTC()

	h.logger.Info("result shared", map[string]interface{}{
		"shareId":   msg.ID,
		"studentId": studentID,
		"channel":   channel,
		"program":   top.Program,
	})
	return toOutput(msg), nil
}

func (h *Handler) channelEnabled(channel string) bool {
	switch channel {
	case models.ChannelEmail:
		return h.config.EmailEnabled && h.email != nil
	case models.ChannelSMS:
		return h.config.SMSEnabled && h.sms != nil
	default:
		return false
	}
}

func toOutput(msg *models.ShareMessage) *Output {
	out := &Output{
		ShareID:   msg.ID,
		Channel:   msg.Channel,
		Status:    msg.Status,
		MessageID: msg.ProviderMessageID,
	}
	if !msg.SentAt.IsZero() {
		out.SentAt = msg.SentAt.Format(time.RFC3339)
	}
	return out
}
