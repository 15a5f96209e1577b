// internal/recommendation/normalize.go
package recommendation

const (
	scoreScale    = 100.0
	ratingScale   = 5.0
	minRating     = 1
	maxRating     = 5
	neutralRating = 3
)

// profile is a (quant, verbal, logical) triple of fractions in [0,1].
type profile struct {
	quant, verbal, logical float64
}

func normalizeAptitude(a AptitudeScore) profile {
	return profile{
		quant:   float64(clamp(a.Quant, 0, 100)) / scoreScale,
		verbal:  float64(clamp(a.Verbal, 0, 100)) / scoreScale,
		logical: float64(clamp(a.Logical, 0, 100)) / scoreScale,
	}
}

// normalizeSurvey turns ratings into fractions. A positive creative rating is
// folded into the verbal axis as the mean of the two fractions.
func normalizeSurvey(s InterestSurvey) profile {
	p := profile{
		quant:   rating(s, KeyQuantInterest),
		verbal:  rating(s, KeyVerbalInterest),
		logical: rating(s, KeyLogicalInterest),
	}
	if c, ok := s[KeyCreativeInterest]; ok && c > 0 {
		creative := float64(clamp(c, minRating, maxRating)) / ratingScale
		p.verbal = (p.verbal + creative) / 2
	}
	return p
}

func rating(s InterestSurvey, key string) float64 {
	v, ok := s[key]
	if !ok {
		v = neutralRating
	}
	return float64(clamp(v, minRating, maxRating)) / ratingScale
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
