package loadsavedresults

import (
	"context"
	"errors"
	"testing"
	"time"

	apperrors "pathfinder-workers/internal/common/errors"
	"pathfinder-workers/internal/common/logger"
	"pathfinder-workers/internal/recommendation"
	"pathfinder-workers/internal/repository/resultstore"

	"github.com/alicebob/miniredis/v2"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func setupStore(t *testing.T) *resultstore.Store {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return resultstore.New(rdb, resultstore.Config{MaxSaved: 3}, logger.NewTestLogger(t))
}

func createTestHandler(t *testing.T, loader ResultLoader) *Handler {
	return NewHandler(DefaultConfig(), loader, recommendation.DefaultPolicy(), logger.NewTestLogger(t))
}

func sampleRecommendations() []recommendation.Recommendation {
	return []recommendation.Recommendation{
		{Program: "BSIT", MatchPercent: 99, StoryWhy: "Balanced program.", RadarValues: recommendation.RadarValues{85, 70, 80}, TargetScore: 85, SuccessRate: 92},
		{Program: "BSEE", MatchPercent: 99, StoryWhy: "Heavy Math focus.", RadarValues: recommendation.RadarValues{85, 70, 80}, TargetScore: 85, SuccessRate: 92},
	}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_Found(t *testing.T) {
	store := setupStore(t)
	saved, err := store.Save(context.Background(), "student-1", "TEST001", sampleRecommendations())
	require.NoError(t, err)

	handler := createTestHandler(t, store)
	output, err := handler.Execute(context.Background(), &Input{StudentID: "student-1"})
	require.NoError(t, err)

	assert.True(t, output.Found)
	assert.Equal(t, saved.RunID, output.RunID)
	assert.Equal(t, "TEST001", output.TestID)
	assert.Equal(t, sampleRecommendations(), output.Recommendations)
	assert.Equal(t, "high", output.Confidence)

	_, err = time.Parse(time.RFC3339, output.SavedAt)
	assert.NoError(t, err)
}

func TestHandler_Execute_NotFound(t *testing.T) {
	handler := createTestHandler(t, setupStore(t))

	output, err := handler.Execute(context.Background(), &Input{StudentID: "student-9"})
	require.NoError(t, err)

	assert.False(t, output.Found)
	assert.NotNil(t, output.Recommendations)
	assert.Empty(t, output.Recommendations)
	assert.Equal(t, "none", output.Confidence)
}

func TestHandler_Execute_BridgingConfidence(t *testing.T) {
	store := setupStore(t)
	_, err := store.Save(context.Background(), "student-2", "FAIL001", []recommendation.Recommendation{
		{Program: "University Bridging Program", MatchPercent: 98},
		{Program: "BSIT", MatchPercent: 39},
	})
	require.NoError(t, err)

	output, err := createTestHandler(t, store).Execute(context.Background(), &Input{StudentID: "student-2"})
	require.NoError(t, err)
	assert.Equal(t, "high", output.Confidence)
	assert.Equal(t, "High (98%)", output.ConfidenceLabel)
}

// ==========================
// Error Handling Tests
// ==========================

func TestHandler_Execute_LoadError(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	mock.ExpectHGetAll("results:student-1").SetErr(errors.New("i/o timeout"))

	store := resultstore.New(rdb, resultstore.Config{}, logger.NewTestLogger(t))
	_, err := createTestHandler(t, store).Execute(context.Background(), &Input{StudentID: "student-1"})
	require.Error(t, err)

	var stdErr *apperrors.StandardError
	require.True(t, errors.As(err, &stdErr))
	assert.Equal(t, apperrors.ErrCodeResultLoadFailed, stdErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_ParseInput(t *testing.T) {
	handler := createTestHandler(t, setupStore(t))

	_, err := handler.parseInput(entities.Job{ActivatedJob: &pb.ActivatedJob{Variables: `{"studentId":"s-1"}`}})
	assert.NoError(t, err)

	for _, vars := range []string{`{}`, `{"studentId":""}`, `{"studentId":42}`} {
		_, err := handler.parseInput(entities.Job{ActivatedJob: &pb.ActivatedJob{Variables: vars}})
		assert.Error(t, err, vars)
	}
}
