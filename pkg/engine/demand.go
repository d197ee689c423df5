package engine

import (
	"fmt"
	"math"

	"github.com/dotaciones/staffing-api-go/pkg/models"
)

// Demand is the aggregated weekly staffing requirement.
type Demand struct {
	CovHours      float64
	BreakHours    float64
	OverlapHours  float64
	GapHours      float64
	RequiredHours float64

	// PerDayHours holds each day's base demand plus that day's break/overlap
	// gap, in DayOrder. This is the vector the day allocator packs against.
	PerDayHours [7]float64
	PeakPeople  [7]int

	// SundayPeople is the Sunday coverage requirement in person-units, the
	// same units as a mix's Sunday capacity. SundayHours is display-only.
	SundayPeople int
	SundayHours  float64

	Warnings []string
}

func clampF(n, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, n))
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// AggregateDemand converts the 7 day profiles into weekly person-hours.
//
// Aggregate mode per open day: base = people * hoursOpen. Slot mode (30-min
// grid present): base = sum(slot)*0.5, peak = max(slot); days without a grid
// fall back to the aggregate formula individually. Break time not absorbed by
// shift overlap becomes gap hours that inflate the requirement.
func AggregateDemand(days map[string]models.DayInput) Demand {
	var dm Demand

	for i, key := range models.DayOrder {
		d, ok := days[key]
		if !ok || !d.Open {
			continue
		}

		ppl := clampF(float64(d.RequiredPeople), 0, 200)
		hOpen := clampF(d.HoursOpen, 0, 24)
		shifts := d.ShiftsPerDay
		if shifts < 1 {
			shifts = 1
		}
		brk := math.Max(0, d.BreakMinutes)
		ovl := math.Max(0, d.OverlapMinutes)

		var base, peak float64
		if len(d.DemandSlots) > 0 {
			for _, v := range d.DemandSlots {
				sv := clampF(float64(v), 0, 200)
				base += sv * models.SlotHours
				peak = math.Max(peak, sv)
			}
		} else {
			base = ppl * hOpen
			peak = ppl
		}

		if shifts == 1 && ovl > 0 {
			dm.Warnings = append(dm.Warnings, fmt.Sprintf(
				"%s: overlapMinutes set with a single shift; overlap only applies between consecutive shifts", key))
		}

		dayBreak := peak * float64(shifts) * (brk / 60)
		dayOverlap := peak * float64(shifts-1) * (ovl / 60)
		dayGap := math.Max(0, dayBreak-dayOverlap)

		dm.CovHours += base
		dm.BreakHours += dayBreak
		dm.OverlapHours += dayOverlap
		dm.PerDayHours[i] = base + dayGap
		dm.PeakPeople[i] = int(peak)

		if i == models.SundayIndex {
			dm.SundayPeople = int(peak)
			if len(d.DemandSlots) > 0 {
				dm.SundayHours = base
			} else {
				dm.SundayHours = peak * hOpen
			}
		}
	}

	dm.GapHours = math.Max(0, dm.BreakHours-dm.OverlapHours)
	dm.RequiredHours = dm.CovHours + dm.GapHours
	return dm
}
