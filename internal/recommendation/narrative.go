// internal/recommendation/narrative.go
package recommendation

import (
	"fmt"
	"strings"
)

// whyRule pairs a program predicate with the sentence used when it matches.
// Rules are tried in order; the last one always matches.
type whyRule struct {
	name    string
	applies func(p Policy, prog ProgramDefinition) bool
	render  func(a AptitudeScore) string
}

var whyRules = []whyRule{
	{
		name:    "quant-dominant",
		applies: func(p Policy, prog ProgramDefinition) bool { return prog.ReqQuant > p.DominanceThreshold },
		render: func(a AptitudeScore) string {
			verdict := "is near"
			if a.Quant >= 75 {
				verdict = "exceeds"
			}
			return fmt.Sprintf("Heavy Math focus. Your score of %d %s the required level.", a.Quant, verdict)
		},
	},
	{
		name:    "verbal-dominant",
		applies: func(p Policy, prog ProgramDefinition) bool { return prog.ReqVerbal > p.DominanceThreshold },
		render: func(a AptitudeScore) string {
			return fmt.Sprintf("Communication-driven. Your Verbal score (%d) matches perfectly.", a.Verbal)
		},
	},
	{
		name:    "balanced",
		applies: func(Policy, ProgramDefinition) bool { return true },
		render: func(a AptitudeScore) string {
			return fmt.Sprintf("Balanced program. Your Logic score (%d) gives you a clear edge.", a.Logical)
		},
	},
}

// insightTier selects item insight text by the raw logical score.
type insightTier struct {
	minLogical int
	insight    string
	hardest    string
}

// insightTiers is ordered by descending threshold.
var insightTiers = []insightTier{
	{minLogical: 90, insight: "Strength: Pattern Recognition (Top 10%)", hardest: "Q17: Advanced Circular Logic (solved)"},
	{minLogical: 75, insight: "Strength: Logical Sequencing (Top 25%)", hardest: "Q17: Advanced Circular Logic (partial credit)"},
	{minLogical: 0, insight: "Growth Area: Abstract Reasoning", hardest: "Q17: Advanced Circular Logic (review recommended)"},
}

// careerTable is keyed by upper-cased program name.
var careerTable = map[string]string{
	"BSIT": "Software Engineer • Data Analyst • Full-Stack Dev • Systems Architect",
	"BSEE": "Electronics Engineer • Power Systems • Automation • Embedded Systems",
	"BSOA": "HR Manager • Executive Assistant • Operations Lead • Corporate Trainer",
	"BSBA": "Business Analyst • Marketing Director • Financial Consultant • Entrepreneur",
	"BSCE": "Structural Engineer • Project Manager • Site Engineer • Design Lead",
}

const defaultCareers = "Specialist • Analyst • Coordinator"

// Bridging narrative.
const (
	bridgingHistory = "85% of bridging students successfully enter their target program within 1 year."
	bridgingPlan    = "Step 1: Complete Bridging Math 101\nStep 2: Re-take assessment\nStep 3: Enroll in BS degree"
	bridgingInsight = "Your potential is strong — just needs foundational reinforcement."
	goalWhy         = "Your target program. Complete Bridging Math 101 first."

	gapQuant  = "Algebraic Logic"
	gapVerbal = "Reading Comprehension"
)

func (p Policy) storyWhy(a AptitudeScore, prog ProgramDefinition) string {
	for _, rule := range whyRules {
		if rule.applies(p, prog) {
			return rule.render(a)
		}
	}
	return ""
}

func (p Policy) storyHistory(match int) string {
	return fmt.Sprintf("Students with >%d%% match typically graduate in the top 20%%.", match-p.HistoryOffset)
}

func storyCareers(program string) string {
	if careers, ok := careerTable[strings.ToUpper(strings.TrimSpace(program))]; ok {
		return careers
	}
	return defaultCareers
}

func insightFor(logical int) insightTier {
	for _, tier := range insightTiers {
		if logical >= tier.minLogical {
			return tier
		}
	}
	return insightTiers[len(insightTiers)-1]
}

// weakArea names the weaker of quant and verbal; ties count as verbal.
func weakArea(a AptitudeScore) string {
	if a.Quant < a.Verbal {
		return gapQuant
	}
	return gapVerbal
}

// newRecommendation builds the normal-path record for one program.
func (p Policy) newRecommendation(a AptitudeScore, prog ProgramDefinition, match int) Recommendation {
	tier := insightFor(a.Logical)
	return Recommendation{
		Program:        prog.Name,
		MatchPercent:   match,
		StoryWhy:       p.storyWhy(a, prog),
		StoryHistory:   p.storyHistory(match),
		StoryCareers:   storyCareers(prog.Name),
		ItemInsight:    tier.insight,
		HardestLogical: tier.hardest,
		RadarValues:    a.Radar(),
		TargetScore:    p.Standard.TargetScore,
		SuccessRate:    p.Standard.SuccessRate,
	}
}

// bridgingRecommendation builds the synthetic entry for the bridging path.
func (p Policy) bridgingRecommendation(a AptitudeScore) Recommendation {
	gap := weakArea(a)
	avg := (a.Quant + a.Verbal + a.Logical) / 3
	return Recommendation{
		Program:        p.Bridging.Program,
		MatchPercent:   p.Bridging.MatchPercent,
		StoryWhy:       fmt.Sprintf("Your average score (%d) is below the BS cutoff. Primary gap: %s.", avg, gap),
		StoryHistory:   bridgingHistory,
		StoryCareers:   bridgingPlan,
		ItemInsight:    bridgingInsight,
		HardestLogical: "Focus Area: " + gap,
		RadarValues:    a.Radar(),
		TargetScore:    p.Bridging.Outlook.TargetScore,
		SuccessRate:    p.Bridging.Outlook.SuccessRate,
	}
}

// WithGoalFraming returns a copy of r re-framed as the eventual goal behind a
// bridging program: halved match (bounded below) and a remediation message.
// r itself is left untouched.
func (r Recommendation) WithGoalFraming(p Policy) Recommendation {
	out := r
	out.MatchPercent = r.MatchPercent / 2
	if out.MatchPercent < p.Bridging.GoalMatchFloor {
		out.MatchPercent = p.Bridging.GoalMatchFloor
	}
	out.StoryWhy = goalWhy
	out.TargetScore = p.Standard.TargetScore
	out.SuccessRate = p.Standard.SuccessRate
	return out
}
