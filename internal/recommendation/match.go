// internal/recommendation/match.go
package recommendation

// dot is the weighted sum of a profile against a program's weight vector.
// The float64 conversions stop the compiler from fusing multiply-adds, which
// would change the last bit on some architectures and with it the truncation.
func dot(p profile, prog ProgramDefinition) float64 {
	return float64(p.quant*prog.ReqQuant) + float64(p.verbal*prog.ReqVerbal) + float64(p.logical*prog.ReqLogical)
}

// matchPercent blends aptitude and interest fit for one program and returns
// the capped, truncated percentage.
func (p Policy) matchPercent(aptitude, interest profile, prog ProgramDefinition) int {
	testMatch := dot(aptitude, prog)
	interestMatch := dot(interest, prog)

	final := float64(testMatch*p.AptitudeWeight) + float64(interestMatch*p.InterestWeight)
	if final > p.MatchCap {
		final = p.MatchCap
	}
	if final < 0 {
		final = 0
	}
	return int(final * 100)
}
