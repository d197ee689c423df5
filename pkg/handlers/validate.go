package handlers

import (
	"fmt"
	"math"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dotaciones/staffing-api-go/pkg/models"
)

// validateCalcInput checks structural constraints before the engine runs.
// Semantic clamping (negative hours, oversized headcounts) happens inside the
// engine; this rejects only requests that are malformed beyond repair.
func validateCalcInput(input *models.CalcInput) (string, bool) {
	if input.Days == nil {
		return "days is required", false
	}
	for _, day := range models.DayOrder {
		d, ok := input.Days[day]
		if !ok {
			return "days." + day + " is required", false
		}
		if d.DemandSlots != nil && len(d.DemandSlots) != models.SlotCount {
			return fmt.Sprintf("days.%s.demandSlots must have exactly %d entries", day, models.SlotCount), false
		}
	}
	for name, day := range input.Days {
		if !validDayKey(name) {
			return "unknown day key: " + name, false
		}
		if badNumber(day.HoursOpen) || badNumber(day.OverlapMinutes) || badNumber(day.BreakMinutes) {
			return "days." + name + " contains a non-finite number", false
		}
	}

	if badNumber(input.FullHoursPerWeek) || badNumber(input.FullTimeThresholdHours) {
		return "configuration hours must be finite", false
	}
	if v := input.FullTimeSundayAvailability; v != nil && (badNumber(*v) || *v < 0 || *v > 1.5) {
		return "fullTimeSundayAvailability must be between 0 and 1.5", false
	}
	if v := input.PartTimeSundayAvailability; v != nil && (badNumber(*v) || *v < 0 || *v > 1.5) {
		return "partTimeSundayAvailability must be between 0 and 1.5", false
	}

	if len(input.Contracts) == 0 {
		return "at least one contract is required", false
	}
	for i, ct := range input.Contracts {
		if badNumber(ct.HoursPerWeek) || ct.HoursPerWeek <= 0 {
			return fmt.Sprintf("contracts[%d].hoursPerWeek must be a positive number", i), false
		}
	}

	return "", true
}

func validDayKey(name string) bool {
	for _, d := range models.DayOrder {
		if d == name {
			return true
		}
	}
	return false
}

func badNumber(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0)
}

// ValidateInput handles the JSON-based validation request. It never runs the
// search; it only reports whether the payload would be accepted.
func (h *Handler) ValidateInput(c *gin.Context) {
	var input models.CalcInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"valid": false,
			"error": err.Error(),
		})
		return
	}

	if msg, ok := validateCalcInput(&input); !ok {
		c.JSON(http.StatusOK, gin.H{"valid": false, "error": msg})
		return
	}

	openDays := 0
	slotDays := 0
	for _, d := range input.Days {
		if d.Open {
			openDays++
			if d.DemandSlots != nil {
				slotDays++
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"valid": true,
		"stats": gin.H{
			"open_days":      openDays,
			"slot_days":      slotDays,
			"contract_count": len(input.Contracts),
		},
	})
}
