package aggregatesurvey

import "pathfinder-workers/internal/recommendation"

// Input carries question index (as a JSON object key) to rating.
type Input struct {
	Responses map[string]int `json:"responses"`
}

type Output struct {
	SurveyScores   recommendation.InterestSurvey `json:"surveyScores"`
	Answered       int                           `json:"answered"`
	TotalQuestions int                           `json:"totalQuestions"`
}
