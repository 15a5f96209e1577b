package recommendation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStoryWhy(t *testing.T) {
	p := DefaultPolicy()

	tests := []struct {
		name     string
		aptitude AptitudeScore
		prog     ProgramDefinition
		expected string
	}{
		{
			name:     "quant dominant above 75",
			aptitude: AptitudeScore{85, 70, 80},
			prog:     ProgramDefinition{Name: "BSEE", ReqQuant: 0.9, ReqVerbal: 0.3, ReqLogical: 0.6},
			expected: "Heavy Math focus. Your score of 85 exceeds the required level.",
		},
		{
			name:     "quant dominant at 75",
			aptitude: AptitudeScore{75, 70, 80},
			prog:     ProgramDefinition{Name: "BSEE", ReqQuant: 0.9},
			expected: "Heavy Math focus. Your score of 75 exceeds the required level.",
		},
		{
			name:     "quant dominant below 75",
			aptitude: AptitudeScore{74, 70, 80},
			prog:     ProgramDefinition{Name: "BSEE", ReqQuant: 0.9},
			expected: "Heavy Math focus. Your score of 74 is near the required level.",
		},
		{
			name:     "verbal dominant",
			aptitude: AptitudeScore{60, 70, 80},
			prog:     ProgramDefinition{Name: "BSJ", ReqQuant: 0.2, ReqVerbal: 0.9},
			expected: "Communication-driven. Your Verbal score (70) matches perfectly.",
		},
		{
			name:     "quant wins over verbal",
			aptitude: AptitudeScore{60, 70, 80},
			prog:     ProgramDefinition{Name: "X", ReqQuant: 0.85, ReqVerbal: 0.9},
			expected: "Heavy Math focus. Your score of 60 is near the required level.",
		},
		{
			name:     "threshold is strict",
			aptitude: AptitudeScore{60, 70, 80},
			prog:     ProgramDefinition{Name: "BSIT", ReqQuant: 0.8, ReqVerbal: 0.8},
			expected: "Balanced program. Your Logic score (80) gives you a clear edge.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, p.storyWhy(tt.aptitude, tt.prog))
		})
	}
}

func TestStoryCareers(t *testing.T) {
	assert.Equal(t, careerTable["BSIT"], storyCareers("BSIT"))
	assert.Equal(t, careerTable["BSIT"], storyCareers("bsit"))
	assert.Equal(t, careerTable["BSCE"], storyCareers(" bsce "))
	assert.Equal(t, "Specialist • Analyst • Coordinator", storyCareers("BSN"))
	assert.Equal(t, "Specialist • Analyst • Coordinator", storyCareers(""))
}

func TestStoryHistory(t *testing.T) {
	p := DefaultPolicy()
	assert.Equal(t, "Students with >94% match typically graduate in the top 20%.", p.storyHistory(99))
	assert.Equal(t, "Students with >0% match typically graduate in the top 20%.", p.storyHistory(5))
}

func TestInsightFor(t *testing.T) {
	tests := []struct {
		logical int
		insight string
	}{
		{100, "Strength: Pattern Recognition (Top 10%)"},
		{90, "Strength: Pattern Recognition (Top 10%)"},
		{89, "Strength: Logical Sequencing (Top 25%)"},
		{75, "Strength: Logical Sequencing (Top 25%)"},
		{74, "Growth Area: Abstract Reasoning"},
		{0, "Growth Area: Abstract Reasoning"},
		{-10, "Growth Area: Abstract Reasoning"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.insight, insightFor(tt.logical).insight, "logical=%d", tt.logical)
	}
}

func TestWithGoalFraming(t *testing.T) {
	p := DefaultPolicy()
	rec := Recommendation{Program: "BSIT", MatchPercent: 79, StoryWhy: "original", TargetScore: 1, SuccessRate: 2}

	goal := rec.WithGoalFraming(p)
	assert.Equal(t, 39, goal.MatchPercent)
	assert.Equal(t, goalWhy, goal.StoryWhy)
	assert.Equal(t, 85, goal.TargetScore)
	assert.Equal(t, 92, goal.SuccessRate)

	assert.Equal(t, 79, rec.MatchPercent)
	assert.Equal(t, "original", rec.StoryWhy)

	low := Recommendation{Program: "BSIT", MatchPercent: 40}.WithGoalFraming(p)
	assert.Equal(t, 25, low.MatchPercent)
}

func TestConfidenceFor(t *testing.T) {
	p := DefaultPolicy()
	bridge := Recommendation{Program: p.Bridging.Program, MatchPercent: 98}

	tests := []struct {
		name     string
		recs     []Recommendation
		expected Confidence
		label    string
	}{
		{name: "empty", recs: nil, expected: ConfidenceNone, label: ""},
		{name: "high", recs: []Recommendation{{Program: "BSIT", MatchPercent: 99}}, expected: ConfidenceHigh, label: "High (98%)"},
		{name: "high boundary", recs: []Recommendation{{Program: "BSIT", MatchPercent: 90}}, expected: ConfidenceHigh, label: "High (98%)"},
		{name: "moderate", recs: []Recommendation{{Program: "BSIT", MatchPercent: 75}}, expected: ConfidenceModerate, label: "Moderate (85%)"},
		{name: "low", recs: []Recommendation{{Program: "BSIT", MatchPercent: 74}}, expected: ConfidenceLow, label: "Low - Consider Bridging"},
		{name: "bridging bands the bridging entry", recs: []Recommendation{bridge, {Program: "BSIT", MatchPercent: 39}}, expected: ConfidenceHigh, label: "High (98%)"},
		{name: "bridging alone", recs: []Recommendation{bridge}, expected: ConfidenceHigh, label: "High (98%)"},
		{name: "only the top entry counts", recs: []Recommendation{{Program: "BSOA", MatchPercent: 60}, {Program: "BSIT", MatchPercent: 95}}, expected: ConfidenceLow, label: "Low - Consider Bridging"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.ConfidenceFor(tt.recs)
			assert.Equal(t, tt.expected, got)
			assert.Equal(t, tt.label, got.Label())
		})
	}
}

func TestIsBridging(t *testing.T) {
	p := DefaultPolicy()
	assert.False(t, p.IsBridging(nil))
	assert.False(t, p.IsBridging([]Recommendation{{Program: "BSIT"}}))
	assert.True(t, p.IsBridging([]Recommendation{{Program: "University Bridging Program"}}))
}
