package engine

import (
	"testing"

	"github.com/dotaciones/staffing-api-go/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultPolicy() Policy {
	return Policy{
		Allowed:                    models.AllPatternsAllowed(),
		FullTimeThresholdHours:     models.DefaultFullTimeThresholdHours,
		FullTimeSundayAvailability: models.DefaultFullTimeSundayAvailability,
		PartTimeSundayAvailability: models.DefaultPartTimeSundayAvailability,
	}
}

func TestNormalizeContracts(t *testing.T) {
	in := []models.ContractType{
		{Name: "  Full ", HoursPerWeek: 42},
		{Name: "Full", HoursPerWeek: 42}, // dupe after trim
		{Name: "", HoursPerWeek: 30},
		{Name: "Zero", HoursPerWeek: 0},
		{Name: "Negative", HoursPerWeek: -10},
	}

	out := NormalizeContracts(in)

	require.Len(t, out, 2)
	assert.Equal(t, "Full", out[0].Name)
	assert.Equal(t, "Contract", out[1].Name)
}

func TestExpandVariants_FullTimePatterns(t *testing.T) {
	variants := ExpandVariants([]models.ContractType{{Name: "42h", HoursPerWeek: 42}}, defaultPolicy())

	// 42h exceeds the 40h cap, so no 4x3
	require.Len(t, variants, 2)
	for _, v := range variants {
		assert.True(t, v.IsCoreFullTime)
		assert.NotEqual(t, PatternFullTime4x3, v.Pattern)
	}
}

func TestExpandVariants_FourDayCapAt40(t *testing.T) {
	variants := ExpandVariants([]models.ContractType{{Name: "40h", HoursPerWeek: 40}}, defaultPolicy())

	patterns := make(map[PatternID]bool)
	for _, v := range variants {
		patterns[v.Pattern] = true
	}
	assert.True(t, patterns[PatternFullTime4x3])
	assert.True(t, patterns[PatternFullTime5x2])
	assert.True(t, patterns[PatternFullTime6x1])
}

func TestExpandVariants_PerPatternSundayFactors(t *testing.T) {
	variants := ExpandVariants([]models.ContractType{{Name: "40h", HoursPerWeek: 40}}, defaultPolicy())

	factors := make(map[PatternID]float64)
	for _, v := range variants {
		factors[v.Pattern] = v.SundayFactor
	}
	assert.InDelta(t, 0.55, factors[PatternFullTime6x1], 1e-9)
	assert.InDelta(t, 0.50, factors[PatternFullTime5x2], 1e-9)
	assert.InDelta(t, 0.45, factors[PatternFullTime4x3], 1e-9)
}

func TestExpandVariants_SmallContractsAreWeekendPT(t *testing.T) {
	variants := ExpandVariants([]models.ContractType{{Name: "20h", HoursPerWeek: 20}}, defaultPolicy())

	require.Len(t, variants, 1)
	assert.Equal(t, PatternPartTimeWeekend, variants[0].Pattern)
	assert.True(t, variants[0].IsPartTime)
	assert.InDelta(t, 1.0, variants[0].SundayFactor, 1e-9)
}

func TestExpandVariants_WeekendDisabledFallsBackToFlex(t *testing.T) {
	p := defaultPolicy()
	p.Allowed.PTWeekend = false

	variants := ExpandVariants([]models.ContractType{{Name: "10h", HoursPerWeek: 10}}, p)

	require.Len(t, variants, 1)
	assert.Equal(t, PatternPartTimeFlex, variants[0].Pattern)
}

func TestExpandVariants_IntermediateHoursAreFlexPT(t *testing.T) {
	variants := ExpandVariants([]models.ContractType{{Name: "25h", HoursPerWeek: 25}}, defaultPolicy())

	require.Len(t, variants, 1)
	assert.Equal(t, PatternPartTimeFlex, variants[0].Pattern)
}

func TestExpandVariants_AllDisabledYieldsEmptyCatalog(t *testing.T) {
	p := defaultPolicy()
	p.Allowed = models.AllowedPatterns{}

	variants := ExpandVariants([]models.ContractType{{Name: "42h", HoursPerWeek: 42}}, p)

	assert.Empty(t, variants)
}

func TestExpandVariants_FullTimeSortedFirstByHours(t *testing.T) {
	variants := ExpandVariants([]models.ContractType{
		{Name: "20h", HoursPerWeek: 20},
		{Name: "30h", HoursPerWeek: 30},
		{Name: "42h", HoursPerWeek: 42},
	}, defaultPolicy())

	require.NotEmpty(t, variants)
	sawPartTime := false
	lastHours := variants[0].HoursPerWeek
	for _, v := range variants {
		if v.IsPartTime {
			sawPartTime = true
		} else {
			assert.False(t, sawPartTime, "full-time variant after part-time")
			assert.LessOrEqual(t, v.HoursPerWeek, lastHours)
			lastHours = v.HoursPerWeek
		}
	}
	assert.True(t, sawPartTime)
}

func TestExpandVariants_CatalogCapped(t *testing.T) {
	var contracts []models.ContractType
	for h := 30.0; h < 46; h++ {
		contracts = append(contracts, models.ContractType{Name: "c", HoursPerWeek: h})
	}

	variants := ExpandVariants(contracts, defaultPolicy())

	assert.LessOrEqual(t, len(variants), maxCatalogSize)
}
