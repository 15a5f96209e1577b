// internal/recommendation/rank.go
package recommendation

import "sort"

// Path names the gate outcome of a run.
type Path string

const (
	PathNormal   Path = "normal"
	PathBridging Path = "bridging"
	PathEmpty    Path = "empty"
)

// rank scores every program and orders the results by matchPercent,
// descending. Equal percentages keep catalog order.
func (p Policy) rank(a AptitudeScore, survey InterestSurvey, programs []ProgramDefinition) []Recommendation {
	aptitude := normalizeAptitude(a)
	interest := normalizeSurvey(survey)

	recs := make([]Recommendation, 0, len(programs))
	for _, prog := range programs {
		match := p.matchPercent(aptitude, interest, prog)
		recs = append(recs, p.newRecommendation(a, prog, match))
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].MatchPercent > recs[j].MatchPercent
	})
	return recs
}

// gate applies the passing-average cutoff to a ranked list.
func (p Policy) gate(a AptitudeScore, ranked []Recommendation) ([]Recommendation, Path) {
	if a.Average() < p.PassingAverage {
		out := make([]Recommendation, 0, 2)
		out = append(out, p.bridgingRecommendation(a))
		if len(ranked) > 0 {
			out = append(out, ranked[0].WithGoalFraming(p))
		}
		return out, PathBridging
	}

	if len(ranked) == 0 {
		return []Recommendation{}, PathEmpty
	}

	n := p.MaxResults
	if len(ranked) < n {
		n = len(ranked)
	}
	out := make([]Recommendation, n)
	copy(out, ranked[:n])
	return out, PathNormal
}
