// internal/recommendation/policy.go
package recommendation

import (
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Outlook is the target score / success rate pair shown next to a recommendation.
type Outlook struct {
	TargetScore int `validate:"gte=0,lte=100"`
	SuccessRate int `validate:"gte=0,lte=100"`
}

// BridgingPolicy describes the synthetic entry placed first when a student
// falls below the passing average.
type BridgingPolicy struct {
	Program      string `validate:"required"`
	MatchPercent int    `validate:"gte=0,lte=99"`
	Outlook      Outlook
	// GoalMatchFloor bounds the halved match of the eventual-goal entry.
	GoalMatchFloor int `validate:"gte=0,lte=99"`
}

// Policy holds every constant the scoring pipeline depends on.
type Policy struct {
	AptitudeWeight float64 `validate:"gte=0,lte=1"`
	InterestWeight float64 `validate:"gte=0,lte=1"`
	// MatchCap keeps matchPercent below 100.
	MatchCap           float64 `validate:"gt=0,lt=1"`
	PassingAverage     float64 `validate:"gte=0,lte=100"`
	MaxResults         int     `validate:"gte=1"`
	DominanceThreshold float64 `validate:"gte=0,lte=1"`
	HistoryOffset      int     `validate:"gte=0,lte=99"`
	Standard           Outlook
	Bridging           BridgingPolicy
}

// DefaultPolicy returns the production scoring constants.
func DefaultPolicy() Policy {
	return Policy{
		AptitudeWeight:     0.75,
		InterestWeight:     0.25,
		MatchCap:           0.99,
		PassingAverage:     45,
		MaxResults:         3,
		DominanceThreshold: 0.8,
		HistoryOffset:      5,
		Standard:           Outlook{TargetScore: 85, SuccessRate: 92},
		Bridging: BridgingPolicy{
			Program:        "University Bridging Program",
			MatchPercent:   98,
			Outlook:        Outlook{TargetScore: 65, SuccessRate: 85},
			GoalMatchFloor: 25,
		},
	}
}

// Validate checks the validator tags on the policy and the cross-field rules
// they cannot express.
func (p Policy) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("invalid scoring policy: %w", err)
	}
	if math.Abs(p.AptitudeWeight+p.InterestWeight-1) > 1e-9 {
		return fmt.Errorf("invalid scoring policy: aptitude and interest weights must sum to 1, got %.4f",
			p.AptitudeWeight+p.InterestWeight)
	}
	return nil
}

// IsBridging reports whether recs came out of the bridging path.
func (p Policy) IsBridging(recs []Recommendation) bool {
	return len(recs) > 0 && recs[0].Program == p.Bridging.Program
}
