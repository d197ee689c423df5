package engine

import (
	"math"

	"github.com/dotaciones/staffing-api-go/pkg/models"
)

// AllocateDays greedily places each variant's worker-day slots on the days
// with the most unmet demand. The catalog is already ordered full-time first,
// so the core body claims days before part-time coverage is layered on.
//
// Per variant with count n and w worked days there are n*w slots; no day may
// receive more than n of them (one worker-day per head per day). Ties between
// days break by weekday order, which keeps the pass deterministic.
func AllocateDays(variants []Variant, counts []int, perDayDemand [7]float64) models.MixCoverage {
	supplied := make([]float64, 7)
	remaining := make([]float64, 7)
	copy(remaining, perDayDemand[:])

	for i, v := range variants {
		n := 0
		if i < len(counts) {
			n = counts[i]
		}
		if n <= 0 {
			continue
		}

		eligible := v.Pattern.EligibleDays()
		placed := make(map[int]int, len(eligible))
		slots := n * v.Pattern.DaysWorked()

		for s := 0; s < slots; s++ {
			day := -1
			best := math.Inf(-1)
			for _, d := range eligible {
				if placed[d] >= n {
					continue
				}
				if remaining[d] > best {
					best = remaining[d]
					day = d
				}
			}
			if day < 0 {
				break // every eligible day at this variant's cap
			}
			placed[day]++
			supplied[day] += v.DailyHours
			remaining[day] = math.Max(0, remaining[day]-v.DailyHours)
		}
	}

	var residual float64
	for _, r := range remaining {
		residual += r
	}

	for d := range supplied {
		supplied[d] = round2(supplied[d])
		remaining[d] = round2(remaining[d])
	}

	return models.MixCoverage{
		SuppliedByDay:  supplied,
		RemainingByDay: remaining,
		FullyCovered:   residual <= feasibilityEpsilon,
	}
}
