package engine

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dotaciones/staffing-api-go/pkg/models"
)

// Warning texts surfaced to callers. The no-variants and no-mixes conditions
// are structured outcomes, not errors: the result always comes back with an
// explanation instead of a failure.
const (
	WarnNoVariants = "No schedule patterns are possible with the current policy; enable more patterns or add an intermediate-hours contract."
	WarnNoMixes    = "No mix satisfies hours + Sunday coverage with the current schedule policy; try enabling more patterns or adding an intermediate contract (30/36h)."
	WarnBudget     = "Search budget exhausted; returned mixes may not cover the entire candidate space."
	WarnNoSunday   = "Sunday closed or without demand: the Sunday bottleneck does not apply."

	FallbackTitle = "Fallback: review parameters"
)

const maxMixesPerFamily = 3

// Calculate runs the full pipeline: demand aggregation, variant expansion,
// mix search, scoring, and per-day allocation. Pure and deterministic; the
// same input always yields the same result, mix order included.
func Calculate(input models.CalcInput) models.CalcResult {
	fullHours := input.FullHoursPerWeek
	if fullHours <= 0 {
		fullHours = models.DefaultFullHoursPerWeek
	}
	fullHours = clampF(fullHours, 1, 60)

	threshold := input.FullTimeThresholdHours
	if threshold <= 0 {
		threshold = models.DefaultFullTimeThresholdHours
	}
	// Nil means omitted; an explicit 0 ("this group never covers Sundays")
	// is honored, not replaced by the default.
	ftSunday := models.DefaultFullTimeSundayAvailability
	if input.FullTimeSundayAvailability != nil {
		ftSunday = clampF(*input.FullTimeSundayAvailability, 0, 1.5)
	}
	ptSunday := models.DefaultPartTimeSundayAvailability
	if input.PartTimeSundayAvailability != nil {
		ptSunday = clampF(*input.PartTimeSundayAvailability, 0, 1.5)
	}
	allowed := models.AllPatternsAllowed()
	if input.AllowedPatterns != nil {
		allowed = *input.AllowedPatterns
	}

	demand := AggregateDemand(input.Days)

	warnings := append([]string{}, demand.Warnings...)
	if demand.GapHours > 0 {
		warnings = append(warnings, fmt.Sprintf(
			"Break gap detected: breaks=%.2fh, overlap=%.2fh, gap=%.2fh.",
			demand.BreakHours, demand.OverlapHours, demand.GapHours))
	}
	if demand.SundayPeople == 0 {
		warnings = append(warnings, WarnNoSunday)
	}

	result := models.CalcResult{
		RequestID:     input.RequestID,
		CovHours:      round2(demand.CovHours),
		BreakHours:    round2(demand.BreakHours),
		OverlapHours:  round2(demand.OverlapHours),
		GapHours:      round2(demand.GapHours),
		RequiredHours: round2(demand.RequiredHours),
		FTE:           round2(demand.RequiredHours / fullHours),
		SundayReq:     float64(demand.SundayPeople),
		SundayHours:   round2(demand.SundayHours),
		PerDayHours:   roundedSlice(demand.PerDayHours),
		PeakPeople:    append([]int{}, demand.PeakPeople[:]...),
		Mixes:         []models.Mix{},
	}

	contracts := NormalizeContracts(input.Contracts)
	variants := ExpandVariants(contracts, Policy{
		Allowed:                    allowed,
		FullTimeThresholdHours:     threshold,
		FullTimeSundayAvailability: ftSunday,
		PartTimeSundayAvailability: ptSunday,
	})
	if len(variants) == 0 {
		result.Warnings = append(warnings, WarnNoVariants)
		return result
	}

	sundayReq := float64(demand.SundayPeople)
	sr := searchMixes(variants, demand.RequiredHours, sundayReq, fullHours)
	if sr.budgetExhausted {
		warnings = append(warnings, WarnBudget)
	}

	seen := make(map[string]bool)
	for _, fam := range familyOrder {
		taken := 0
		for _, cand := range sr.perFamily[fam] {
			if taken >= maxMixesPerFamily {
				break
			}
			key := countsKey(cand.counts)
			if seen[key] {
				continue
			}
			seen[key] = true
			mix := buildMix(variants, cand.counts, demand, fam.Title())
			mix.Coverage = coveragePtr(AllocateDays(variants, cand.counts, demand.PerDayHours))
			result.Mixes = append(result.Mixes, mix)
			taken++
		}
	}

	if len(result.Mixes) == 0 {
		warnings = append(warnings, WarnNoMixes)
		if fb, ok := fallbackMix(variants, demand); ok {
			result.Mixes = append(result.Mixes, fb)
		}
	}

	result.Warnings = warnings
	return result
}

// fallbackMix proposes enough heads of the preferred (>=30h, else first)
// variant to cover the hours, even when Sunday capacity still falls short.
// Clearly titled so callers can mark it as not meeting constraints.
func fallbackMix(variants []Variant, demand Demand) (models.Mix, bool) {
	pick := -1
	for i, v := range variants {
		if v.HoursPerWeek >= 30 {
			pick = i
			break
		}
	}
	if pick < 0 {
		pick = 0
	}
	v := variants[pick]
	if v.HoursPerWeek <= 0 {
		return models.Mix{}, false
	}

	counts := make([]int, len(variants))
	counts[pick] = int(math.Ceil(demand.RequiredHours / v.HoursPerWeek))
	if counts[pick] < 1 {
		counts[pick] = 1
	}

	mix := buildMix(variants, counts, demand, FallbackTitle)
	mix.Coverage = coveragePtr(AllocateDays(variants, counts, demand.PerDayHours))
	return mix, true
}

func buildMix(variants []Variant, counts []int, demand Demand, title string) models.Mix {
	var (
		headcount  int
		hoursTotal float64
		sundayCap  float64
		items      []models.MixItem
	)

	for i, v := range variants {
		c := 0
		if i < len(counts) {
			c = counts[i]
		}
		if c <= 0 {
			continue
		}
		headcount += c
		hoursTotal += float64(c) * v.HoursPerWeek
		sundayCap += float64(c) * v.SundayFactor

		items = append(items, models.MixItem{
			Count:        c,
			ContractName: v.ContractName,
			HoursPerWeek: v.HoursPerWeek,
			Pattern:      v.Pattern.Label(),
			SundayFactor: round2(v.SundayFactor),
		})
	}

	slack := hoursTotal - demand.RequiredHours
	slackPct := 0.0
	if demand.RequiredHours > 0 {
		slackPct = slack / demand.RequiredHours
	}
	sundayReq := float64(demand.SundayPeople)

	return models.Mix{
		Title:      title,
		Headcount:  headcount,
		HoursTotal: round2(hoursTotal),
		SlackHours: round2(slack),
		SlackPct:   round2(slackPct),
		SundayCap:  round2(sundayCap),
		SundayReq:  sundayReq,
		SundayOk:   sundayCap+feasibilityEpsilon >= sundayReq,
		Items:      items,
	}
}

func countsKey(counts []int) string {
	var b strings.Builder
	for i, c := range counts {
		if i > 0 {
			b.WriteByte('|')
		}
		b.WriteString(strconv.Itoa(c))
	}
	return b.String()
}

func coveragePtr(c models.MixCoverage) *models.MixCoverage {
	return &c
}

func roundedSlice(v [7]float64) []float64 {
	out := make([]float64, 7)
	for i, x := range v {
		out[i] = round2(x)
	}
	return out
}
