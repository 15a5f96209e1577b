// internal/survey/aggregate.go
package survey

import (
	"errors"
	"fmt"
	"math"

	"pathfinder-workers/internal/recommendation"
)

const (
	minRating     = 1
	maxRating     = 5
	neutralRating = 3
)

var ErrUnknownQuestion = errors.New("question index outside the questionnaire")

// Aggregate turns per-question ratings into per-category interest scores.
// Unanswered questions count as neutral. Ratings are clamped to 1-5 and each
// category is the mean of its questions, rounded half up. The second return
// value is the number of questions actually answered.
func Aggregate(responses map[int]int) (recommendation.InterestSurvey, int, error) {
	for idx := range responses {
		if idx < 0 || idx >= len(Questionnaire) {
			return nil, 0, fmt.Errorf("%w: %d (questionnaire has %d questions)", ErrUnknownQuestion, idx, len(Questionnaire))
		}
	}

	sums := make(map[string]int)
	counts := make(map[string]int)
	answered := 0

	for i, q := range Questionnaire {
		score, ok := responses[i]
		if ok {
			answered++
			score = clampRating(score)
		} else {
			score = neutralRating
		}
		sums[q.Category] += score
		counts[q.Category]++
	}

	out := make(recommendation.InterestSurvey, len(sums))
	for category, sum := range sums {
		avg := float64(sum) / float64(counts[category])
		out[category] = int(math.Floor(avg + 0.5))
	}
	return out, answered, nil
}

func clampRating(v int) int {
	if v < minRating {
		return minRating
	}
	if v > maxRating {
		return maxRating
	}
	return v
}
