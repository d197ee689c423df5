package engine

import (
	"math"
	"sort"
)

// feasibilityEpsilon is the single tolerance used by every feasibility
// comparison (hours, Sunday capacity, residual coverage).
const feasibilityEpsilon = 1e-9

const (
	topKPerFamily   = 60
	candidateBudget = 4000
	perVariantSlack = 8
	absoluteHeadCap = 70
	minHeadCeiling  = 6
	overshootCap    = 5
)

type candidate struct {
	score  float64
	counts []int
}

type searchResult struct {
	perFamily       map[Family][]candidate
	budgetExhausted bool
}

type searcher struct {
	variants  []Variant
	required  float64
	sundayReq float64
	fullHours float64

	maxHead    int
	maxPer     []int
	bestHours  float64
	bestSunday float64

	counts   []int
	accepted int
	result   searchResult
}

// searchMixes enumerates count vectors over the variant catalog depth-first,
// pruning any subtree whose best-case remaining contribution cannot reach the
// hour or Sunday requirement, and keeps the top-K candidates per strategy
// family. Feasibility-then-optimize: not guaranteed optimal, but bounded.
func searchMixes(variants []Variant, required, sundayReq, fullHours float64) searchResult {
	s := &searcher{
		variants:  variants,
		required:  required,
		sundayReq: sundayReq,
		fullHours: fullHours,
		counts:    make([]int, len(variants)),
		result:    searchResult{perFamily: make(map[Family][]candidate, len(familyOrder))},
	}
	if len(variants) == 0 {
		return s.result
	}

	minHours := variants[0].HoursPerWeek
	for _, v := range variants {
		minHours = math.Min(minHours, v.HoursPerWeek)
		s.bestHours = math.Max(s.bestHours, v.HoursPerWeek)
		s.bestSunday = math.Max(s.bestSunday, v.SundayFactor)
	}

	s.maxHead = int(clampF(math.Ceil(required/math.Max(1, minHours))+perVariantSlack, minHeadCeiling, absoluteHeadCap))
	s.maxPer = make([]int, len(variants))
	for i, v := range variants {
		s.maxPer[i] = int(clampF(math.Ceil(required/v.HoursPerWeek)+perVariantSlack, 0, absoluteHeadCap))
	}

	s.walk(0, 0, 0, 0)
	return s.result
}

func (s *searcher) walk(i, headSoFar int, hoursSoFar, sundaySoFar float64) {
	if s.accepted >= candidateBudget {
		s.result.budgetExhausted = true
		return
	}

	headLeft := float64(s.maxHead - headSoFar)

	// best-case pruning: assume every remaining head is the strongest variant
	if hoursSoFar+headLeft*s.bestHours+feasibilityEpsilon < s.required {
		return
	}
	if s.sundayReq > 0 && sundaySoFar+headLeft*s.bestSunday+feasibilityEpsilon < s.sundayReq {
		return
	}

	if i == len(s.variants) {
		s.acceptLeaf(headSoFar, hoursSoFar, sundaySoFar)
		return
	}

	limit := s.maxPer[i]
	if hoursSoFar > s.required && limit > overshootCap {
		limit = overshootCap
	}

	v := s.variants[i]
	for c := 0; c <= limit; c++ {
		if headSoFar+c > s.maxHead {
			break
		}
		s.counts[i] = c
		s.walk(i+1, headSoFar+c, hoursSoFar+float64(c)*v.HoursPerWeek, sundaySoFar+float64(c)*v.SundayFactor)
	}
	s.counts[i] = 0
}

func (s *searcher) acceptLeaf(head int, hoursTotal, sundayCap float64) {
	if head == 0 || head > s.maxHead {
		return
	}
	if hoursTotal+feasibilityEpsilon < s.required {
		return
	}
	if s.sundayReq > 0 && sundayCap+feasibilityEpsilon < s.sundayReq {
		return
	}

	raw := rawMix{
		counts:     append([]int(nil), s.counts...),
		headcount:  head,
		hoursTotal: hoursTotal,
		sundayCap:  sundayCap,
	}
	for i, c := range s.counts {
		if c == 0 {
			continue
		}
		v := s.variants[i]
		if v.IsPartTime {
			raw.ptCount += c
			raw.ptHours += float64(c) * v.HoursPerWeek
		}
		if v.IsCoreFullTime {
			raw.coreCount += c
		}
	}

	s.accepted++
	for _, fam := range familyOrder {
		score := scoreMix(fam, raw, s.required, s.sundayReq, s.fullHours)
		list := append(s.result.perFamily[fam], candidate{score: score, counts: raw.counts})
		sort.SliceStable(list, func(a, b int) bool { return list[a].score < list[b].score })
		if len(list) > topKPerFamily {
			list = list[:topKPerFamily]
		}
		s.result.perFamily[fam] = list
	}
}
