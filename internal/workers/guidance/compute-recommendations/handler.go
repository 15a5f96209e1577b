// internal/workers/guidance/compute-recommendations/handler.go
package computerecommendations

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"pathfinder-workers/internal/common/camunda"
	apperrors "pathfinder-workers/internal/common/errors"
	"pathfinder-workers/internal/common/logger"
	"pathfinder-workers/internal/common/validation"
	"pathfinder-workers/internal/recommendation"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "compute-recommendations"

type Handler struct {
	config     *Config
	engine     *recommendation.Engine
	results    ResultSaver
	validator  *validation.Validator
	errHandler *apperrors.ErrorHandler
	logger     logger.Logger
}

// NewHandler wires the worker. results may be nil, in which case nothing is
// persisted.
func NewHandler(config *Config, engine *recommendation.Engine, results ResultSaver, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		engine:     engine,
		results:    results,
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

	if err := camunda.CompleteJob(ctx, client, job, output); err != nil {
		h.logger.Error("failed to complete job", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
		return err
	}
	return nil
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

// Execute runs one recommendation pass for input and, when a student is
// named, saves the result set.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	testID := strings.TrimSpace(input.TestID)
	if testID == "" {
		return nil, apperrors.NewInvalidInputError("testId is blank")
	}

	run, err := h.engine.Run(ctx, testID, input.SurveyScores)
	if err != nil {
		return nil, h.mapEngineError(ctx, testID, err)
	}

	policy := h.engine.Policy()
	confidence := policy.ConfidenceFor(run.Recommendations)

	output := &Output{
		TestID:          testID,
		TestFound:       run.TestFound,
		Recommendations: run.Recommendations,
		ResultCount:     len(run.Recommendations),
		Bridging:        policy.IsBridging(run.Recommendations),
		Confidence:      string(confidence),
		ConfidenceLabel: confidence.Label(),
	}
	if len(run.Recommendations) > 0 {
		output.TopProgram = run.Recommendations[0].Program
		output.TopMatchPercent = run.Recommendations[0].MatchPercent
	}

	studentID := strings.TrimSpace(input.StudentID)
	if run.TestFound && studentID != "" && h.results != nil && h.config.SaveResults {
		saved, err := h.results.Save(ctx, studentID, testID, run.Recommendations)
		if err != nil {
			return nil, apperrors.NewResultStoreFailedError(studentID, err)
		}
		output.ResultRunID = saved.RunID
	}

	h.logger.Info("recommendations ready", map[string]interface{}{
		"testId":      testID,
		"testFound":   output.TestFound,
		"path":        string(run.Path),
		"resultCount": output.ResultCount,
		"confidence":  output.Confidence,
		"saved":       output.ResultRunID != "",
	})
	return output, nil
}

func (h *Handler) mapEngineError(ctx context.Context, testID string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return apperrors.NewScoringTimeoutError(testID)
	}
	if errors.Is(err, recommendation.ErrCatalogLoad) {
		return apperrors.NewCatalogLoadFailedError(err)
	}
	return apperrors.NewScoreLookupFailedError(testID, err)
}
