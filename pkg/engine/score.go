package engine

import "math"

// Family tags the strategy used to rank candidates. Each family re-weights the
// same objective terms to encode a different business preference.
type Family int

const (
	FamilyBalanced Family = iota
	FamilyMinPeople
	FamilyMaxSunday
	FamilyStability
)

// familyOrder is also the presentation order of the returned mixes.
var familyOrder = [4]Family{FamilyBalanced, FamilyMinPeople, FamilyMaxSunday, FamilyStability}

// Title is the human-readable strategy name attached to returned mixes.
func (f Family) Title() string {
	switch f {
	case FamilyBalanced:
		return "Recommended (balanced)"
	case FamilyMinPeople:
		return "Alternative (fewer people)"
	case FamilyMaxSunday:
		return "Alternative (better Sunday coverage)"
	case FamilyStability:
		return "Alternative (more stable, less part-time)"
	default:
		panic("engine: unhandled family")
	}
}

// rawMix carries the aggregates the scorer needs, cheap to recompute per leaf.
type rawMix struct {
	counts     []int
	headcount  int
	hoursTotal float64
	sundayCap  float64
	ptCount    int
	ptHours    float64
	coreCount  int
}

type familyWeights struct {
	slackCeiling   float64 // slack pct above which the steep term kicks in
	headPenalty    float64
	extraSlackOver float64 // extra linear penalty on positive slack hours
	ptHoursCeiling float64
	ptHoursPenalty float64
	ptCountCeiling float64
	ptCountPenalty float64
	sundayShortage float64 // extra per-unit penalty on Sunday shortfall
	corePenalty    float64
	minCoreLarge   bool // demand > 2 full weeks requires a 2-person core
}

func (f Family) weights() familyWeights {
	switch f {
	case FamilyBalanced:
		return familyWeights{
			slackCeiling: 0.30, headPenalty: 22,
			ptHoursCeiling: 0.45, ptHoursPenalty: 1700,
			ptCountCeiling: 0.50, ptCountPenalty: 1500,
			corePenalty: 1100,
		}
	case FamilyMinPeople:
		return familyWeights{
			slackCeiling: 0.40, headPenalty: 107, extraSlackOver: 1.5,
			ptHoursCeiling: 0.45, ptHoursPenalty: 1700,
			ptCountCeiling: 0.50, ptCountPenalty: 1500,
			corePenalty: 1100,
		}
	case FamilyMaxSunday:
		return familyWeights{
			slackCeiling: 0.30, headPenalty: 22,
			ptHoursCeiling: 0.55, ptHoursPenalty: 1200,
			ptCountCeiling: 0.60, ptCountPenalty: 1000,
			sundayShortage: 4000, corePenalty: 1100,
		}
	case FamilyStability:
		return familyWeights{
			slackCeiling: 0.25, headPenalty: 22,
			ptHoursCeiling: 0.35, ptHoursPenalty: 1900,
			ptCountCeiling: 0.45, ptCountPenalty: 1700,
			corePenalty: 1400, minCoreLarge: true,
		}
	default:
		panic("engine: unhandled family")
	}
}

// Sunday infeasibility must dominate every soft term so an infeasible-Sunday
// mix can never outrank a feasible one.
const (
	sundayShortfallBase = 7000.0
	sundayShortfallRate = 1200.0
	sundaySurplusRate   = 35.0
	slackRate           = 2.2
	slackOverflowRate   = 220.0
	stabilityBonus      = 160.0
)

// scoreMix computes the penalty of one candidate under a strategy family.
// Lower is better; zero would be a perfect mix.
func scoreMix(f Family, m rawMix, required, sundayReq, fullHours float64) float64 {
	w := f.weights()

	slack := m.hoursTotal - required
	slackPct := 0.0
	if required > 0 {
		slackPct = slack / required
	}

	p := math.Abs(slack) * slackRate
	p += math.Max(0, slackPct-w.slackCeiling) * slackOverflowRate
	p += float64(m.headcount) * w.headPenalty
	p += math.Max(0, slack) * w.extraSlackOver

	if sundayReq > 0 {
		shortfall := sundayReq - m.sundayCap
		if shortfall > 0 {
			p += sundayShortfallBase + shortfall*(sundayShortfallRate+w.sundayShortage)
		} else {
			p += -shortfall * sundaySurplusRate
		}
	}

	ptShareHours := 0.0
	if m.hoursTotal > 0 {
		ptShareHours = m.ptHours / m.hoursTotal
	}
	ptShareCount := 0.0
	if m.headcount > 0 {
		ptShareCount = float64(m.ptCount) / float64(m.headcount)
	}
	p += math.Max(0, ptShareHours-w.ptHoursCeiling) * w.ptHoursPenalty
	p += math.Max(0, ptShareCount-w.ptCountCeiling) * w.ptCountPenalty

	desiredCore := math.Max(1, math.Round(required/fullHours))
	if w.minCoreLarge && required > 2*fullHours {
		desiredCore = math.Max(desiredCore, 2)
	}
	p += math.Max(0, desiredCore-float64(m.coreCount)) * w.corePenalty

	// tie-break nudge toward reasonable-looking mixes
	if m.coreCount >= 1 && slackPct <= 0.22 {
		p -= stabilityBonus
	}

	return p
}
