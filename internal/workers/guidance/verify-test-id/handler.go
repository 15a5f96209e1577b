// internal/workers/guidance/verify-test-id/handler.go
package verifytestid

import (
	"context"
	"encoding/json"
	"strings"

	"pathfinder-workers/internal/common/camunda"
	apperrors "pathfinder-workers/internal/common/errors"
	"pathfinder-workers/internal/common/logger"
	"pathfinder-workers/internal/recommendation"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "verify-test-id"

// Handler checks that a test id has stored aptitude scores before the
// student is sent through the survey.
type Handler struct {
	config     *Config
	scores     recommendation.ScoreSource
	errHandler *apperrors.ErrorHandler
	logger     logger.Logger
}

func NewHandler(config *Config, scores recommendation.ScoreSource, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		scores:     scores,
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

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		stdErr := apperrors.NewInvalidInputError(err.Error())
		h.errHandler.HandleJobError(ctx, client, job, stdErr)
		return stdErr
	}

	output, err := h.Execute(ctx, &input)
	if err != nil {
		h.errHandler.HandleJobError(ctx, client, job, err)
		return err
	}

	return camunda.CompleteJob(ctx, client, job, output)
}

// Execute never fails on a bad id; a blank or unknown id is simply invalid.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	testID := strings.TrimSpace(input.TestID)
	output := &Output{TestID: testID}
	if testID == "" {
		return output, nil
	}

	scores, err := h.scores.GetAptitudeScores(ctx, testID)
	if err != nil {
		return nil, apperrors.NewScoreLookupFailedError(testID, err)
	}
	output.Valid = scores != nil

	h.logger.Info("test id verified", map[string]interface{}{
		"testId": testID,
		"valid":  output.Valid,
	})
	return output, nil
}
