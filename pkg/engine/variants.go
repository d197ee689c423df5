package engine

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/dotaciones/staffing-api-go/pkg/models"
)

// Variant is one contract offered under one schedule pattern. Many variants
// may share a contract; they are immutable once expanded.
type Variant struct {
	ContractName   string
	HoursPerWeek   float64
	Pattern        PatternID
	DailyHours     float64
	SundayFactor   float64
	IsPartTime     bool
	IsCoreFullTime bool
}

// Policy bundles the pattern toggles and classification scalars the expander
// needs, already defaulted and clamped by the caller.
type Policy struct {
	Allowed                    models.AllowedPatterns
	FullTimeThresholdHours     float64
	FullTimeSundayAvailability float64
	PartTimeSundayAvailability float64
}

// maxCatalogSize bounds the search branching factor.
const maxCatalogSize = 12

// NormalizeContracts trims names, rounds hours, drops non-positive contracts
// (a zero-hours divisor would poison every later division) and dedupes by
// name+hours.
func NormalizeContracts(contracts []models.ContractType) []models.ContractType {
	seen := make(map[string]bool)
	out := make([]models.ContractType, 0, len(contracts))
	for _, c := range contracts {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			name = "Contract"
		}
		h := round2(c.HoursPerWeek)
		if math.IsNaN(h) || math.IsInf(h, 0) || h < 0.01 {
			continue
		}
		key := name + "__" + formatHours(h)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, models.ContractType{Name: name, HoursPerWeek: h})
	}
	return out
}

func formatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', -1, 64)
}

// ExpandVariants applies the contract→pattern policy rules:
//
//	hours <= 20                -> weekend-fixed PT (flex PT as fallback)
//	20 < hours < threshold     -> flexible PT
//	hours >= threshold         -> every allowed full-time pattern;
//	                              4x3 only when hours <= 40
//
// Contracts with no eligible pattern are dropped silently; an empty catalog is
// the caller's "no feasible configuration" signal.
func ExpandVariants(contracts []models.ContractType, p Policy) []Variant {
	var variants []Variant

	addPT := func(c models.ContractType, pat PatternID) {
		variants = append(variants, Variant{
			ContractName: c.Name,
			HoursPerWeek: c.HoursPerWeek,
			Pattern:      pat,
			DailyHours:   c.HoursPerWeek / float64(pat.DaysWorked()),
			SundayFactor: p.PartTimeSundayAvailability * pat.sundayWeight(),
			IsPartTime:   true,
		})
	}
	addFT := func(c models.ContractType, pat PatternID) {
		variants = append(variants, Variant{
			ContractName:   c.Name,
			HoursPerWeek:   c.HoursPerWeek,
			Pattern:        pat,
			DailyHours:     c.HoursPerWeek / float64(pat.DaysWorked()),
			SundayFactor:   p.FullTimeSundayAvailability * pat.sundayWeight(),
			IsCoreFullTime: true,
		})
	}

	for _, c := range contracts {
		h := c.HoursPerWeek

		if h <= 20 {
			if p.Allowed.PTWeekend {
				addPT(c, PatternPartTimeWeekend)
			} else if p.Allowed.PTFlex {
				addPT(c, PatternPartTimeFlex)
			}
			continue
		}

		if h < p.FullTimeThresholdHours {
			if p.Allowed.PTFlex {
				addPT(c, PatternPartTimeFlex)
			}
			continue
		}

		if p.Allowed.FT5x2 {
			addFT(c, PatternFullTime5x2)
		}
		if p.Allowed.FT6x1 {
			addFT(c, PatternFullTime6x1)
		}
		if p.Allowed.FT4x3 && h <= fourDayMaxHours {
			addFT(c, PatternFullTime4x3)
		}
	}

	// Full-time first, then larger contracts: the search and the allocator
	// both build the core body before layering part-time coverage.
	sort.SliceStable(variants, func(i, j int) bool {
		a, b := variants[i], variants[j]
		if a.IsCoreFullTime != b.IsCoreFullTime {
			return a.IsCoreFullTime
		}
		if a.HoursPerWeek != b.HoursPerWeek {
			return a.HoursPerWeek > b.HoursPerWeek
		}
		return a.Pattern < b.Pattern
	})

	if len(variants) > maxCatalogSize {
		variants = variants[:maxCatalogSize]
	}
	return variants
}
