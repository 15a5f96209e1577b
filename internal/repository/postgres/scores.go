// internal/repository/postgres/scores.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"pathfinder-workers/internal/common/logger"
	"pathfinder-workers/internal/models"
	"pathfinder-workers/internal/recommendation"
)

const selectScoresQuery = `SELECT quantitative, verbal, logical FROM test_scores WHERE test_id = $1`

// ScoreRepository reads aptitude results from the test_scores table.
type ScoreRepository struct {
	db     *sql.DB
	logger logger.Logger
}

func NewScoreRepository(db *sql.DB, log logger.Logger) *ScoreRepository {
	return &ScoreRepository{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"repository": "test_scores"}),
	}
}

// GetAptitudeScores returns nil, nil when no row matches the trimmed id.
func (r *ScoreRepository) GetAptitudeScores(ctx context.Context, testID string) (*recommendation.AptitudeScore, error) {
	testID = strings.TrimSpace(testID)
	if testID == "" {
		return nil, nil
	}

	row := models.TestScore{TestID: testID}
	err := r.db.QueryRowContext(ctx, selectScoresQuery, testID).Scan(
		&row.Quantitative, &row.Verbal, &row.Logical,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.logger.Debug("test id not found", map[string]interface{}{"testId": testID})
			return nil, nil
		}
		return nil, fmt.Errorf("query test scores for %s: %w", testID, err)
	}

	a := row.Aptitude()
	return &a, nil
}
