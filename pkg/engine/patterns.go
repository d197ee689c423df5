package engine

// PatternID enumerates the weekly schedule patterns ("jornadas") the business
// can offer. The set is closed; every switch below lists all members so a new
// pattern cannot silently fall through.
type PatternID int

const (
	PatternFullTime6x1 PatternID = iota
	PatternFullTime5x2
	PatternFullTime4x3
	PatternPartTimeWeekend
	PatternPartTimeFlex
)

// fourDayMaxHours is a hard legal-style cap: the 4-day pattern only exists for
// contracts of 40 weekly hours or less.
const fourDayMaxHours = 40.0

// DaysWorked returns the number of worked days per week under the pattern.
func (p PatternID) DaysWorked() int {
	switch p {
	case PatternFullTime6x1:
		return 6
	case PatternFullTime5x2:
		return 5
	case PatternFullTime4x3:
		return 4
	case PatternPartTimeWeekend:
		return 2
	case PatternPartTimeFlex:
		return 3
	default:
		panic("engine: unhandled pattern")
	}
}

// Label is the human-readable pattern name used in mix items.
func (p PatternID) Label() string {
	switch p {
	case PatternFullTime6x1:
		return "6x1 (rotating)"
	case PatternFullTime5x2:
		return "5x2"
	case PatternFullTime4x3:
		return "4x3 (40h law)"
	case PatternPartTimeWeekend:
		return "PT weekend (Sat+Sun)"
	case PatternPartTimeFlex:
		return "PT 3 days (flex)"
	default:
		panic("engine: unhandled pattern")
	}
}

// sundayWeight scales the configured Sunday availability per pattern. More
// frequent rotations cover Sundays more often, so 6x1 > 5x2 > 4x3. With the
// default full-time availability of 0.5 this yields 0.55 / 0.50 / 0.45.
func (p PatternID) sundayWeight() float64 {
	switch p {
	case PatternFullTime6x1:
		return 1.1
	case PatternFullTime5x2:
		return 1.0
	case PatternFullTime4x3:
		return 0.9
	case PatternPartTimeWeekend:
		return 1.0
	case PatternPartTimeFlex:
		return 1.0
	default:
		panic("engine: unhandled pattern")
	}
}

// IsFullTime reports whether the pattern belongs to the full-time family.
func (p PatternID) IsFullTime() bool {
	switch p {
	case PatternFullTime6x1, PatternFullTime5x2, PatternFullTime4x3:
		return true
	case PatternPartTimeWeekend, PatternPartTimeFlex:
		return false
	default:
		panic("engine: unhandled pattern")
	}
}

// EligibleDays returns the weekday indexes (DayOrder) a worker on this pattern
// may be placed on. Weekend-fixed part-time is restricted to Sat+Sun.
func (p PatternID) EligibleDays() []int {
	switch p {
	case PatternPartTimeWeekend:
		return []int{5, 6}
	case PatternFullTime6x1, PatternFullTime5x2, PatternFullTime4x3, PatternPartTimeFlex:
		return []int{0, 1, 2, 3, 4, 5, 6}
	default:
		panic("engine: unhandled pattern")
	}
}
