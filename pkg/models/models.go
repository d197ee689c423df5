package models

import "encoding/json"

// Defaults applied when the request omits the corresponding field.
const (
	DefaultFullHoursPerWeek           = 42.0
	DefaultFullTimeThresholdHours     = 30.0
	DefaultFullTimeSundayAvailability = 0.5
	DefaultPartTimeSundayAvailability = 1.0
)

// 30-minute demand grid: slot 0 = 07:00, slot 47 = 06:30 next day.
const (
	SlotCount = 48
	SlotHours = 0.5
)

// DayOrder fixes weekday iteration order everywhere (maps don't).
var DayOrder = [7]string{"mon", "tue", "wed", "thu", "fri", "sat", "sun"}

const SundayIndex = 6

// DayInput describes one weekday of operation. When DemandSlots is set it
// takes precedence over HoursOpen/RequiredPeople for that day.
type DayInput struct {
	Open           bool    `json:"open"`
	HoursOpen      float64 `json:"hoursOpen"`
	RequiredPeople int     `json:"requiredPeople"`
	ShiftsPerDay   int     `json:"shiftsPerDay"`
	OverlapMinutes float64 `json:"overlapMinutes"`
	BreakMinutes   float64 `json:"breakMinutes"`
	DemandSlots    []int   `json:"demandSlots,omitempty"`
}

// ContractType is a weekly-hours employment contract offered by the business.
type ContractType struct {
	Name         string  `json:"name"`
	HoursPerWeek float64 `json:"hoursPerWeek"`
}

// AllowedPatterns toggles each schedule pattern independently.
type AllowedPatterns struct {
	FT6x1     bool `json:"FT_6X1"`
	FT5x2     bool `json:"FT_5X2"`
	FT4x3     bool `json:"FT_4X3"`
	PTWeekend bool `json:"PT_WEEKEND"`
	PTFlex    bool `json:"PT_3DAYS"`
}

// AllPatternsAllowed is the documented default policy.
func AllPatternsAllowed() AllowedPatterns {
	return AllowedPatterns{FT6x1: true, FT5x2: true, FT4x3: true, PTWeekend: true, PTFlex: true}
}

// UnmarshalJSON merges the provided keys over the all-enabled default, so a
// partial policy object only toggles the patterns it names. An omitted key
// leaves its pattern enabled.
func (a *AllowedPatterns) UnmarshalJSON(data []byte) error {
	var raw struct {
		FT6x1     *bool `json:"FT_6X1"`
		FT5x2     *bool `json:"FT_5X2"`
		FT4x3     *bool `json:"FT_4X3"`
		PTWeekend *bool `json:"PT_WEEKEND"`
		PTFlex    *bool `json:"PT_3DAYS"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*a = AllPatternsAllowed()
	if raw.FT6x1 != nil {
		a.FT6x1 = *raw.FT6x1
	}
	if raw.FT5x2 != nil {
		a.FT5x2 = *raw.FT5x2
	}
	if raw.FT4x3 != nil {
		a.FT4x3 = *raw.FT4x3
	}
	if raw.PTWeekend != nil {
		a.PTWeekend = *raw.PTWeekend
	}
	if raw.PTFlex != nil {
		a.PTFlex = *raw.PTFlex
	}
	return nil
}

// CalcInput is the request body for a staffing calculation.
type CalcInput struct {
	RequestID                  string              `json:"requestId,omitempty"`
	FullHoursPerWeek           float64             `json:"fullHoursPerWeek"`
	FullTimeThresholdHours     float64             `json:"fullTimeThresholdHours"`
	FullTimeSundayAvailability *float64            `json:"fullTimeSundayAvailability,omitempty"`
	PartTimeSundayAvailability *float64            `json:"partTimeSundayAvailability,omitempty"`
	AllowedPatterns            *AllowedPatterns    `json:"allowedJornadas,omitempty"`
	Days                       map[string]DayInput `json:"days"`
	Contracts                  []ContractType      `json:"contracts"`
}

// MixItem is one (contract, pattern) line of a proposed mix.
type MixItem struct {
	Count        int     `json:"count"`
	ContractName string  `json:"contractName"`
	HoursPerWeek float64 `json:"hoursPerWeek"`
	Pattern      string  `json:"jornada"`
	SundayFactor float64 `json:"sundayFactor"`
}

// MixCoverage is the day allocator's diagnostic for one mix: supplied hours
// and residual uncovered demand per weekday, in DayOrder.
type MixCoverage struct {
	SuppliedByDay  []float64 `json:"suppliedByDay"`
	RemainingByDay []float64 `json:"remainingByDay"`
	FullyCovered   bool      `json:"fullyCovered"`
}

// Mix is one proposed headcount allocation.
type Mix struct {
	Title      string       `json:"title"`
	Headcount  int          `json:"headcount"`
	HoursTotal float64      `json:"hoursTotal"`
	SlackHours float64      `json:"slackHours"`
	SlackPct   float64      `json:"slackPct"`
	SundayCap  float64      `json:"sundayCap"`
	SundayReq  float64      `json:"sundayReq"`
	SundayOk   bool         `json:"sundayOk"`
	Items      []MixItem    `json:"items"`
	Coverage   *MixCoverage `json:"coverage,omitempty"`
}

// CalcResult is the calculation response.
type CalcResult struct {
	RequestID     string    `json:"requestId,omitempty"`
	CovHours      float64   `json:"covHours"`
	BreakHours    float64   `json:"breakHours"`
	OverlapHours  float64   `json:"overlapHours"`
	GapHours      float64   `json:"gapHours"`
	RequiredHours float64   `json:"requiredHours"`
	FTE           float64   `json:"fte"`
	SundayReq     float64   `json:"sundayReq"`
	SundayHours   float64   `json:"sundayHours"`
	PerDayHours   []float64 `json:"perDayHours"`
	PeakPeople    []int     `json:"peakPeopleByDay"`
	Warnings      []string  `json:"warnings"`
	Mixes         []Mix     `json:"mixes"`
}
