package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreMix_SundayShortfallDominates(t *testing.T) {
	required, sundayReq, fullHours := 100.0, 2.0, 42.0

	feasible := rawMix{headcount: 4, hoursTotal: 120, sundayCap: 2.0, coreCount: 4}
	short := feasible
	short.sundayCap = 1.9

	for _, fam := range familyOrder {
		sFeasible := scoreMix(fam, feasible, required, sundayReq, fullHours)
		sShort := scoreMix(fam, short, required, sundayReq, fullHours)
		assert.Less(t, sFeasible, sShort, "family %v must rank the Sunday-feasible mix strictly better", fam)
		assert.Greater(t, sShort-sFeasible, sundayShortfallBase/2, "shortfall penalty must dominate")
	}
}

func TestScoreMix_PartTimeConcentrationPenalized(t *testing.T) {
	required, fullHours := 100.0, 42.0

	heavyPT := rawMix{headcount: 10, hoursTotal: 110, ptCount: 9, ptHours: 99, coreCount: 1}
	lightPT := rawMix{headcount: 10, hoursTotal: 110, ptCount: 4, ptHours: 40, coreCount: 6}

	assert.Greater(t,
		scoreMix(FamilyBalanced, heavyPT, required, 0, fullHours),
		scoreMix(FamilyBalanced, lightPT, required, 0, fullHours))
}

func TestScoreMix_MinPeopleFamilyPrefersFewerHeads(t *testing.T) {
	required, fullHours := 168.0, 42.0

	fewBig := rawMix{headcount: 4, hoursTotal: 168, coreCount: 4}
	manySmall := rawMix{headcount: 8, hoursTotal: 168, coreCount: 8}

	diffBalanced := scoreMix(FamilyBalanced, manySmall, required, 0, fullHours) -
		scoreMix(FamilyBalanced, fewBig, required, 0, fullHours)
	diffMinPeople := scoreMix(FamilyMinPeople, manySmall, required, 0, fullHours) -
		scoreMix(FamilyMinPeople, fewBig, required, 0, fullHours)

	assert.Greater(t, diffMinPeople, diffBalanced, "min-people family must weigh headcount harder")
}

func TestScoreMix_CoreDeficitPenalized(t *testing.T) {
	required, fullHours := 126.0, 42.0 // desired core = 3

	withCore := rawMix{headcount: 3, hoursTotal: 126, coreCount: 3}
	noCore := rawMix{headcount: 3, hoursTotal: 126, ptCount: 0, coreCount: 0}

	assert.Greater(t,
		scoreMix(FamilyBalanced, noCore, required, 0, fullHours),
		scoreMix(FamilyBalanced, withCore, required, 0, fullHours))
}

func TestScoreMix_StabilityTightensPartTimeCeiling(t *testing.T) {
	required, fullHours := 100.0, 42.0

	// 40% PT hours: below the balanced ceiling, above the stability ceiling
	m := rawMix{headcount: 5, hoursTotal: 110, ptCount: 2, ptHours: 44, coreCount: 3}

	balanced := scoreMix(FamilyBalanced, m, required, 0, fullHours)
	stability := scoreMix(FamilyStability, m, required, 0, fullHours)
	assert.Greater(t, stability, balanced)
}

func TestScoreMix_ExcessSundayCapacityCosts(t *testing.T) {
	required, sundayReq, fullHours := 100.0, 1.0, 42.0

	snug := rawMix{headcount: 4, hoursTotal: 110, sundayCap: 1.0, coreCount: 4}
	oversized := snug
	oversized.sundayCap = 4.0

	assert.Greater(t,
		scoreMix(FamilyBalanced, oversized, required, sundayReq, fullHours),
		scoreMix(FamilyBalanced, snug, required, sundayReq, fullHours))
}
