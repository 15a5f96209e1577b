// internal/workers/guidance/load-saved-results/handler.go
package loadsavedresults

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"pathfinder-workers/internal/common/camunda"
	apperrors "pathfinder-workers/internal/common/errors"
	"pathfinder-workers/internal/common/logger"
	"pathfinder-workers/internal/common/validation"
	"pathfinder-workers/internal/recommendation"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "load-saved-results"

type Handler struct {
	config     *Config
	results    ResultLoader
	policy     recommendation.Policy
	validator  *validation.Validator
	errHandler *apperrors.ErrorHandler
	logger     logger.Logger
}

func NewHandler(config *Config, results ResultLoader, policy recommendation.Policy, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		results:    results,
		policy:     policy,
		validator:  validation.MustValidator(GetInputSchema()),
		errHandler: apperrors.NewErrorHandler(log),
		logger:     log,
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

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	studentID := strings.TrimSpace(input.StudentID)
	if studentID == "" {
		return nil, apperrors.NewInvalidInputError("studentId is blank")
	}

	saved, err := h.results.Load(ctx, studentID)
	if err != nil {
		return nil, apperrors.NewResultLoadFailedError(studentID, err)
	}

	output := &Output{
		Recommendations: []recommendation.Recommendation{},
		Confidence:      string(recommendation.ConfidenceNone),
	}
	if saved == nil {
		h.logger.Info("no saved results", map[string]interface{}{"studentId": studentID})
		return output, nil
	}

	confidence := h.policy.ConfidenceFor(saved.Recommendations)
	output.Found = true
	output.Recommendations = saved.Recommendations
	output.RunID = saved.RunID
	output.TestID = saved.TestID
	output.Confidence = string(confidence)
	output.ConfidenceLabel = confidence.Label()
	if !saved.SavedAt.IsZero() {
		output.SavedAt = saved.SavedAt.Format(time.RFC3339)
	}

	h.logger.Info("saved results loaded", map[string]interface{}{
		"studentId": studentID,
		"runId":     saved.RunID,
		"count":     len(saved.Recommendations),
	})
	return output, nil
}
