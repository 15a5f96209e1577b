// Package recommendation scores a student's aptitude and interest profile
// against the program catalog and produces ranked, narrated recommendations.
package recommendation

import (
	"context"
	"errors"
	"fmt"

	"pathfinder-workers/internal/common/logger"
	"pathfinder-workers/internal/common/metrics"
)

var (
	ErrScoreLookup = errors.New("aptitude score lookup failed")
	ErrCatalogLoad = errors.New("program catalog load failed")
)

// Engine is safe for concurrent use; it holds no per-run state.
type Engine struct {
	policy  Policy
	scores  ScoreSource
	catalog CatalogSource
	logger  logger.Logger
}

// NewEngine validates policy and binds the engine to its score and catalog
// sources. A nil logger is replaced by a no-op one.
func NewEngine(policy Policy, scores ScoreSource, catalog CatalogSource, log logger.Logger) (*Engine, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	if scores == nil || catalog == nil {
		return nil, errors.New("recommendation engine needs a score source and a catalog source")
	}
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Engine{
		policy:  policy,
		scores:  scores,
		catalog: catalog,
		logger:  log.WithFields(map[string]interface{}{"component": "recommendation-engine"}),
	}, nil
}

// Policy returns the policy the engine scores with.
func (e *Engine) Policy() Policy {
	return e.policy
}

// Result is the outcome of one recommendation run.
type Result struct {
	TestID          string
	TestFound       bool
	Aptitude        AptitudeScore
	Path            Path
	Recommendations []Recommendation
}

// ComputeRecommendations loads the scores for testID and the catalog, then
// scores them. An unknown testID yields an empty list and no error; errors
// only come from the sources and wrap ErrScoreLookup or ErrCatalogLoad.
func (e *Engine) ComputeRecommendations(ctx context.Context, testID string, survey InterestSurvey) ([]Recommendation, error) {
	res, err := e.Run(ctx, testID, survey)
	if err != nil {
		return nil, err
	}
	return res.Recommendations, nil
}

// Run is ComputeRecommendations with the run details kept.
func (e *Engine) Run(ctx context.Context, testID string, survey InterestSurvey) (*Result, error) {
	res := &Result{TestID: testID, Path: PathEmpty, Recommendations: []Recommendation{}}

	aptitude, err := e.scores.GetAptitudeScores(ctx, testID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScoreLookup, err)
	}
	if aptitude == nil {
		metrics.RecommendationRuns.WithLabelValues(string(PathEmpty)).Inc()
		e.logger.Info("no aptitude scores for test id", map[string]interface{}{"testId": testID})
		return res, nil
	}
	res.TestFound = true
	res.Aptitude = *aptitude

	programs, err := e.catalog.GetAllPrograms(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCatalogLoad, err)
	}

	res.Recommendations, res.Path = e.evaluate(*aptitude, survey, programs)

	metrics.RecommendationRuns.WithLabelValues(string(res.Path)).Inc()
	fields := map[string]interface{}{
		"testId":      testID,
		"path":        string(res.Path),
		"resultCount": len(res.Recommendations),
		"catalogSize": len(programs),
	}
	if len(res.Recommendations) > 0 {
		top := res.Recommendations[0]
		metrics.RecommendationMatchPercent.Observe(float64(top.MatchPercent))
		fields["topProgram"] = top.Program
		fields["topMatch"] = top.MatchPercent
	}
	e.logger.Info("recommendations computed", fields)

	return res, nil
}

// Score runs the pure pipeline: normalize, match, rank, gate, narrate.
func (e *Engine) Score(aptitude AptitudeScore, survey InterestSurvey, programs []ProgramDefinition) []Recommendation {
	recs, _ := e.evaluate(aptitude, survey, programs)
	return recs
}

func (e *Engine) evaluate(aptitude AptitudeScore, survey InterestSurvey, programs []ProgramDefinition) ([]Recommendation, Path) {
	ranked := e.policy.rank(aptitude, survey, programs)
	for _, rec := range ranked {
		e.logger.Debug("program scored", map[string]interface{}{
			"program":      rec.Program,
			"matchPercent": rec.MatchPercent,
		})
	}
	return e.policy.gate(aptitude, ranked)
}
