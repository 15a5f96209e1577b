// internal/recommendation/confidence.go
package recommendation

// Confidence is a coarse band over the best program match of a run.
type Confidence string

const (
	ConfidenceHigh     Confidence = "high"
	ConfidenceModerate Confidence = "moderate"
	ConfidenceLow      Confidence = "low"
	ConfidenceNone     Confidence = "none"
)

// Label is the display text for the band.
func (c Confidence) Label() string {
	switch c {
	case ConfidenceHigh:
		return "High (98%)"
	case ConfidenceModerate:
		return "Moderate (85%)"
	case ConfidenceLow:
		return "Low - Consider Bridging"
	default:
		return ""
	}
}

// ConfidenceFor bands the top entry of recs, whatever path produced it. A
// bridging run is banded on its bridging entry.
func (p Policy) ConfidenceFor(recs []Recommendation) Confidence {
	if len(recs) == 0 {
		return ConfidenceNone
	}
	switch top := recs[0].MatchPercent; {
	case top >= 90:
		return ConfidenceHigh
	case top >= 75:
		return ConfidenceModerate
	default:
		return ConfidenceLow
	}
}
