// internal/workers/guidance/aggregate-survey/handler.go
package aggregatesurvey

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"pathfinder-workers/internal/common/camunda"
	apperrors "pathfinder-workers/internal/common/errors"
	"pathfinder-workers/internal/common/logger"
	"pathfinder-workers/internal/common/validation"
	"pathfinder-workers/internal/survey"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "aggregate-survey"

type Handler struct {
	config     *Config
	validator  *validation.Validator
	errHandler *apperrors.ErrorHandler
	logger     logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
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

func (h *Handler) Execute(_ context.Context, input *Input) (*Output, error) {
	responses := make(map[int]int, len(input.Responses))
	for key, rating := range input.Responses {
		idx, err := strconv.Atoi(strings.TrimSpace(key))
		if err != nil {
			return nil, apperrors.NewSurveyInvalidError(fmt.Sprintf("question key %q is not an index", key))
		}
		responses[idx] = rating
	}

	scores, answered, err := survey.Aggregate(responses)
	if err != nil {
		if errors.Is(err, survey.ErrUnknownQuestion) {
			return nil, apperrors.NewSurveyInvalidError(err.Error())
		}
		return nil, err
	}

	h.logger.Debug("survey aggregated", map[string]interface{}{
		"answered": answered,
		"scores":   scores,
	})

	return &Output{
		SurveyScores:   scores,
		Answered:       answered,
		TotalQuestions: len(survey.Questionnaire),
	}, nil
}
