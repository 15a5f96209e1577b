// internal/workers/guidance/compute-recommendations/handler_test.go
package computerecommendations

import (
	"context"
	"errors"
	"testing"
	"time"

	"pathfinder-workers/internal/common/config"
	apperrors "pathfinder-workers/internal/common/errors"
	"pathfinder-workers/internal/common/logger"
	"pathfinder-workers/internal/models"
	"pathfinder-workers/internal/recommendation"
	"pathfinder-workers/internal/repository/resultstore"

	"github.com/alicebob/miniredis/v2"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

type testLogger struct {
	t *testing.T
}

func (tl *testLogger) Debug(msg string, fields map[string]interface{}) {
	tl.t.Logf("DEBUG: %s %v", msg, fields)
}

func (tl *testLogger) Info(msg string, fields map[string]interface{}) {
	tl.t.Logf("INFO: %s %v", msg, fields)
}

func (tl *testLogger) Warn(msg string, fields map[string]interface{}) {
	tl.t.Logf("WARN: %s %v", msg, fields)
}

func (tl *testLogger) Error(msg string, fields map[string]interface{}) {
	tl.t.Logf("ERROR: %s %v", msg, fields)
}

func (tl *testLogger) WithFields(fields map[string]interface{}) logger.Logger {
	return tl
}

func (tl *testLogger) WithError(err error) logger.Logger {
	return tl.WithFields(map[string]interface{}{"error": err})
}

func (tl *testLogger) With(fields map[string]interface{}) logger.Logger {
	return tl
}

func newTestLogger(t *testing.T) logger.Logger {
	return &testLogger{t: t}
}

type scoreTable map[string]recommendation.AptitudeScore

func (s scoreTable) GetAptitudeScores(_ context.Context, testID string) (*recommendation.AptitudeScore, error) {
	a, ok := s[testID]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

type blockingScores struct{}

func (blockingScores) GetAptitudeScores(ctx context.Context, _ string) (*recommendation.AptitudeScore, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

type staticCatalog struct {
	programs []recommendation.ProgramDefinition
	err      error
}

func (c staticCatalog) GetAllPrograms(context.Context) ([]recommendation.ProgramDefinition, error) {
	return c.programs, c.err
}

type failingSaver struct{}

func (failingSaver) Save(context.Context, string, string, []recommendation.Recommendation) (*models.SavedResult, error) {
	return nil, errors.New("READONLY You can't write against a read only replica")
}

func createTestScores() scoreTable {
	return scoreTable{
		"TEST001": {Quant: 85, Verbal: 70, Logical: 80},
		"TEST003": {Quant: 95, Verbal: 50, Logical: 90},
		"FAIL001": {Quant: 40, Verbal: 30, Logical: 35},
	}
}

func createTestCatalog() []recommendation.ProgramDefinition {
	return []recommendation.ProgramDefinition{
		{Name: "BSIT", ReqQuant: 0.8, ReqVerbal: 0.4, ReqLogical: 0.7},
		{Name: "BSEE", ReqQuant: 0.9, ReqVerbal: 0.3, ReqLogical: 0.6},
		{Name: "BSOA", ReqQuant: 0.4, ReqVerbal: 0.7, ReqLogical: 0.3},
		{Name: "BSBA", ReqQuant: 0.5, ReqVerbal: 0.8, ReqLogical: 0.4},
		{Name: "BSCE", ReqQuant: 0.7, ReqVerbal: 0.2, ReqLogical: 0.9},
	}
}

func createTestEngine(t *testing.T, scores recommendation.ScoreSource, catalog recommendation.CatalogSource) *recommendation.Engine {
	e, err := recommendation.NewEngine(recommendation.DefaultPolicy(), scores, catalog, newTestLogger(t))
	require.NoError(t, err)
	return e
}

func setupStore(t *testing.T) (*resultstore.Store, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return resultstore.New(rdb, resultstore.Config{TTL: time.Hour, MaxSaved: 3}, newTestLogger(t)), mr
}

func createTestHandler(t *testing.T, results ResultSaver) *Handler {
	engine := createTestEngine(t, createTestScores(), staticCatalog{programs: createTestCatalog()})
	return NewHandler(DefaultConfig(), engine, results, newTestLogger(t))
}

func assertErrorCode(t *testing.T, err error, code apperrors.ErrorCode) {
	t.Helper()
	require.Error(t, err)
	var stdErr *apperrors.StandardError
	require.True(t, errors.As(err, &stdErr), "expected StandardError, got %T", err)
	assert.Equal(t, code, stdErr.Code)
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_NormalPath(t *testing.T) {
	handler := createTestHandler(t, nil)

	output, err := handler.Execute(context.Background(), &Input{TestID: "TEST001"})
	require.NoError(t, err)

	assert.True(t, output.TestFound)
	assert.False(t, output.Bridging)
	assert.Equal(t, 3, output.ResultCount)
	assert.Equal(t, "BSIT", output.TopProgram)
	assert.Equal(t, 99, output.TopMatchPercent)
	assert.Equal(t, "high", output.Confidence)
	assert.Equal(t, "High (98%)", output.ConfidenceLabel)
	assert.Empty(t, output.ResultRunID)
}

func TestHandler_Execute_BridgingPath(t *testing.T) {
	handler := createTestHandler(t, nil)

	output, err := handler.Execute(context.Background(), &Input{TestID: " FAIL001 "})
	require.NoError(t, err)

	assert.Equal(t, "FAIL001", output.TestID)
	assert.True(t, output.Bridging)
	assert.Equal(t, 2, output.ResultCount)
	assert.Equal(t, "University Bridging Program", output.TopProgram)
	assert.Equal(t, 98, output.TopMatchPercent)
	assert.Equal(t, 39, output.Recommendations[1].MatchPercent)
	assert.Equal(t, "high", output.Confidence)
	assert.Equal(t, "High (98%)", output.ConfidenceLabel)
}

func TestHandler_Execute_SurveyChangesMatch(t *testing.T) {
	handler := createTestHandler(t, nil)

	output, err := handler.Execute(context.Background(), &Input{
		TestID: "FAIL001",
		SurveyScores: recommendation.InterestSurvey{
			recommendation.KeyQuantInterest:   1,
			recommendation.KeyVerbalInterest:  1,
			recommendation.KeyLogicalInterest: 1,
		},
	})
	require.NoError(t, err)
	// BSIT drops from 79 to 60 and the goal entry halves it
	assert.Equal(t, 30, output.Recommendations[1].MatchPercent)
}

func TestHandler_Execute_UnknownTestID(t *testing.T) {
	store, mr := setupStore(t)
	handler := createTestHandler(t, store)

	output, err := handler.Execute(context.Background(), &Input{TestID: "NOPE", StudentID: "student-1"})
	require.NoError(t, err)

	assert.False(t, output.TestFound)
	assert.NotNil(t, output.Recommendations)
	assert.Empty(t, output.Recommendations)
	assert.Equal(t, "none", output.Confidence)
	assert.Empty(t, output.ResultRunID)
	assert.False(t, mr.Exists("results:student-1"))
}

func TestHandler_Execute_SavesResults(t *testing.T) {
	store, mr := setupStore(t)
	handler := createTestHandler(t, store)

	output, err := handler.Execute(context.Background(), &Input{TestID: "TEST003", StudentID: "student-1"})
	require.NoError(t, err)

	require.NotEmpty(t, output.ResultRunID)
	assert.Equal(t, output.ResultRunID, mr.HGet("results:student-1", "run_id"))
	assert.Equal(t, "3", mr.HGet("results:student-1", "rec_count"))
	assert.Equal(t, "BSBA", mr.HGet("results:student-1", "rec_prog_2"))
}

func TestHandler_Execute_SaveDisabled(t *testing.T) {
	store, mr := setupStore(t)
	engine := createTestEngine(t, createTestScores(), staticCatalog{programs: createTestCatalog()})
	cfg := DefaultConfig()
	cfg.SaveResults = false

	handler := NewHandler(cfg, engine, store, newTestLogger(t))
	output, err := handler.Execute(context.Background(), &Input{TestID: "TEST001", StudentID: "student-1"})
	require.NoError(t, err)
	assert.Empty(t, output.ResultRunID)
	assert.False(t, mr.Exists("results:student-1"))
}

// ==========================
// Error Handling Tests
// ==========================

func TestHandler_Execute_Errors(t *testing.T) {
	tests := []struct {
		name    string
		scores  recommendation.ScoreSource
		catalog recommendation.CatalogSource
		saver   ResultSaver
		input   *Input
		timeout time.Duration
		code    apperrors.ErrorCode
	}{
		{
			name:    "blank test id",
			scores:  createTestScores(),
			catalog: staticCatalog{programs: createTestCatalog()},
			input:   &Input{TestID: "   "},
			code:    apperrors.ErrCodeInvalidInput,
		},
		{
			name:    "catalog failure",
			scores:  createTestScores(),
			catalog: staticCatalog{err: errors.New("connection refused")},
			input:   &Input{TestID: "TEST001"},
			code:    apperrors.ErrCodeCatalogLoadFailed,
		},
		{
			name:    "score lookup times out",
			scores:  blockingScores{},
			catalog: staticCatalog{programs: createTestCatalog()},
			input:   &Input{TestID: "TEST001"},
			timeout: 20 * time.Millisecond,
			code:    apperrors.ErrCodeScoringTimeout,
		},
		{
			name:    "result store failure",
			scores:  createTestScores(),
			catalog: staticCatalog{programs: createTestCatalog()},
			saver:   failingSaver{},
			input:   &Input{TestID: "TEST001", StudentID: "student-1"},
			code:    apperrors.ErrCodeResultStoreFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHandler(DefaultConfig(), createTestEngine(t, tt.scores, tt.catalog), tt.saver, newTestLogger(t))

			ctx := context.Background()
			if tt.timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, tt.timeout)
				defer cancel()
			}

			_, err := handler.Execute(ctx, tt.input)
			assertErrorCode(t, err, tt.code)
		})
	}
}

// ==========================
// Input Parsing Tests
// ==========================

func TestHandler_ParseInput(t *testing.T) {
	handler := createTestHandler(t, nil)

	tests := []struct {
		name      string
		variables string
		wantErr   bool
		check     func(t *testing.T, input *Input)
	}{
		{
			name:      "test id only",
			variables: `{"testId":"TEST001"}`,
			check: func(t *testing.T, input *Input) {
				assert.Equal(t, "TEST001", input.TestID)
				assert.Nil(t, input.SurveyScores)
			},
		},
		{
			name:      "full input with unrelated process variables",
			variables: `{"testId":"TEST001","studentId":"s-1","surveyScores":{"quant_interest":4,"creative_interest":5},"campus":"main"}`,
			check: func(t *testing.T, input *Input) {
				assert.Equal(t, "s-1", input.StudentID)
				assert.Equal(t, 4, input.SurveyScores[recommendation.KeyQuantInterest])
				assert.Equal(t, 5, input.SurveyScores[recommendation.KeyCreativeInterest])
			},
		},
		{name: "missing test id", variables: `{"studentId":"s-1"}`, wantErr: true},
		{name: "empty test id", variables: `{"testId":""}`, wantErr: true},
		{name: "unknown survey category", variables: `{"testId":"T","surveyScores":{"music_interest":3}}`, wantErr: true},
		{name: "fractional rating", variables: `{"testId":"T","surveyScores":{"quant_interest":3.5}}`, wantErr: true},
		{name: "malformed json", variables: `{"testId":`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job := entities.Job{ActivatedJob: &pb.ActivatedJob{Key: 1, Variables: tt.variables}}
			input, err := handler.parseInput(job)
			if tt.wantErr {
				assertErrorCode(t, err, apperrors.ErrCodeInvalidInput)
				return
			}
			require.NoError(t, err)
			tt.check(t, input)
		})
	}
}

func TestConfigFrom(t *testing.T) {
	cfg := ConfigFrom(config.WorkerConfig{Enabled: true, Timeout: 2500})
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 5, cfg.MaxJobsActive)
	assert.Equal(t, 2500*time.Millisecond, cfg.Timeout)
	assert.NoError(t, cfg.Validate())

	cfg.Timeout = 0
	assert.Error(t, cfg.Validate())
}

func TestConfigFrom_SaveResults(t *testing.T) {
	off, on := false, true
	tests := []struct {
		name string
		set  *bool
		want bool
	}{
		{"unset keeps default", nil, true},
		{"disabled", &off, false},
		{"enabled", &on, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := ConfigFrom(config.WorkerConfig{Enabled: true, MaxJobsActive: 1, Timeout: 1000, SaveResults: tt.set})
			assert.Equal(t, tt.want, cfg.SaveResults)
		})
	}
}
