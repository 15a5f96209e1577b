// internal/repository/resultstore/store.go
package resultstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"pathfinder-workers/internal/common/logger"
	"pathfinder-workers/internal/models"
	"pathfinder-workers/internal/recommendation"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type Config struct {
	KeyPrefix string
	TTL       time.Duration
	MaxSaved  int
}

// Store keeps the latest result set of each student in a Redis hash.
type Store struct {
	redis  *redis.Client
	config Config
	now    func() time.Time
	logger logger.Logger
}

func New(rdb *redis.Client, cfg Config, log logger.Logger) *Store {
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "results:"
	}
	if cfg.MaxSaved <= 0 {
		cfg.MaxSaved = 3
	}
	return &Store{
		redis:  rdb,
		config: cfg,
		now:    time.Now,
		logger: log.WithFields(map[string]interface{}{"component": "result-store"}),
	}
}

func (s *Store) key(studentID string) string {
	return s.config.KeyPrefix + studentID
}

// Save replaces the student's stored result with the top entries of recs and
// returns the new run id.
func (s *Store) Save(ctx context.Context, studentID, testID string, recs []recommendation.Recommendation) (*models.SavedResult, error) {
	studentID = strings.TrimSpace(studentID)
	if studentID == "" {
		return nil, fmt.Errorf("student id is required")
	}

	result := &models.SavedResult{
		RunID:           uuid.New().String(),
		StudentID:       studentID,
		TestID:          testID,
		SavedAt:         s.now().UTC().Truncate(time.Second),
		Recommendations: recs,
	}
	if len(result.Recommendations) > s.config.MaxSaved {
		result.Recommendations = result.Recommendations[:s.config.MaxSaved]
	}

	key := s.key(studentID)
	fields := result.Fields(s.config.MaxSaved)

	_, err := s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key, fields)
		if s.config.TTL > 0 {
			pipe.Expire(ctx, key, s.config.TTL)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("save results for %s: %w", studentID, err)
	}

	s.logger.Info("results saved", map[string]interface{}{
		"studentId": studentID,
		"runId":     result.RunID,
		"count":     len(result.Recommendations),
	})
	return result, nil
}

// Load returns the stored result for studentID, or nil when none exists.
func (s *Store) Load(ctx context.Context, studentID string) (*models.SavedResult, error) {
	studentID = strings.TrimSpace(studentID)
	if studentID == "" {
		return nil, nil
	}

	fields, err := s.redis.HGetAll(ctx, s.key(studentID)).Result()
	if err != nil {
		return nil, fmt.Errorf("load results for %s: %w", studentID, err)
	}
	if len(fields) == 0 {
		return nil, nil
	}

	result, err := models.DecodeSavedResult(studentID, fields)
	if err != nil {
		return nil, fmt.Errorf("decode results for %s: %w", studentID, err)
	}
	return result, nil
}

// Delete removes the stored result.
func (s *Store) Delete(ctx context.Context, studentID string) error {
	return s.redis.Del(ctx, s.key(strings.TrimSpace(studentID))).Err()
}
