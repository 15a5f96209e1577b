// internal/recommendation/types.go
package recommendation

import "context"

// Survey category keys.
const (
	KeyQuantInterest    = "quant_interest"
	KeyVerbalInterest   = "verbal_interest"
	KeyLogicalInterest  = "logical_interest"
	KeyCreativeInterest = "creative_interest"
)

// SurveyKeys lists every category an InterestSurvey may carry.
var SurveyKeys = []string{KeyQuantInterest, KeyVerbalInterest, KeyLogicalInterest, KeyCreativeInterest}

// AptitudeScore holds the raw 0-100 results of one aptitude test.
type AptitudeScore struct {
	Quant   int `json:"quant"`
	Verbal  int `json:"verbal"`
	Logical int `json:"logical"`
}

// Average is the float mean of the three raw scores.
func (a AptitudeScore) Average() float64 {
	return float64(a.Quant+a.Verbal+a.Logical) / 3.0
}

// Radar returns the raw scores in radar-chart axis order.
func (a AptitudeScore) Radar() RadarValues {
	return RadarValues{a.Quant, a.Verbal, a.Logical}
}

// InterestSurvey maps a category key to a 1-5 rating. Missing keys are neutral.
type InterestSurvey map[string]int

// ProgramDefinition is one catalog entry with its aptitude weight vector.
type ProgramDefinition struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	ReqQuant    float64 `json:"reqQuant"`
	ReqVerbal   float64 `json:"reqVerbal"`
	ReqLogical  float64 `json:"reqLogical"`
}

// RadarValues is the raw (quant, verbal, logical) triple.
type RadarValues [3]int

// Recommendation is the engine's output record. Its field set is stable; the
// result store encodes it field by field.
type Recommendation struct {
	Program        string      `json:"program"`
	MatchPercent   int         `json:"matchPercent"`
	StoryWhy       string      `json:"storyWhy"`
	StoryHistory   string      `json:"storyHistory"`
	StoryCareers   string      `json:"storyCareers"`
	ItemInsight    string      `json:"itemInsight"`
	HardestLogical string      `json:"hardestLogical"`
	RadarValues    RadarValues `json:"radarValues"`
	TargetScore    int         `json:"targetScore"`
	SuccessRate    int         `json:"successRate"`
}

// ScoreSource looks up stored aptitude results. It returns nil, nil for an
// unknown test id.
type ScoreSource interface {
	GetAptitudeScores(ctx context.Context, testID string) (*AptitudeScore, error)
}

// CatalogSource returns the full program catalog in catalog order.
type CatalogSource interface {
	GetAllPrograms(ctx context.Context) ([]ProgramDefinition, error)
}
