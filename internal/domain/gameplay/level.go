package gameplay

import "math"

// XPRequiredForLevel returns the cumulative XP needed to reach level. The
// curve is quadratic: level 1 requires 0, level 2 requires 50, level 3
// requires 200, level 4 requires 450.
func XPRequiredForLevel(level int) int64 {
	if level <= 1 {
		return 0
	}
	return int64(50 * (level - 1) * (level - 1))
}

type LevelUp struct {
	PreviousLevel int `json:"previous_level"`
	NewLevel      int `json:"new_level"`
}

// CalculateLevelUp walks the level curve with the total of currentXP plus
// xpGained. It returns nil when no level is gained, and supports jumping
// several levels in a single award.
func CalculateLevelUp(currentXP, xpGained int64, currentLevel int) *LevelUp {
	if currentLevel < 1 {
		currentLevel = 1
	}

	total := currentXP + xpGained
	newLevel := currentLevel
	for XPRequiredForLevel(newLevel+1) <= total {
		newLevel++
	}

	if newLevel == currentLevel {
		return nil
	}

	return &LevelUp{PreviousLevel: currentLevel, NewLevel: newLevel}
}

// LevelFromXP returns the highest level whose cumulative requirement is
// covered by totalXP.
func LevelFromXP(totalXP int64) int {
	level := 1
	for XPRequiredForLevel(level+1) <= totalXP {
		level++
	}
	return level
}

type Progress struct {
	Current    int64   `json:"current"`
	Required   int64   `json:"required"`
	Percentage float64 `json:"percentage"`
}

// LevelProgress reports how far into the given level totalXP reaches. Inputs
// come straight from clients, so non-finite or out-of-range values are
// normalized: bad levels become 1, fractional levels are floored, bad XP
// becomes 0. Current is clamped to [0, Required] and Percentage to [0, 100].
func LevelProgress(level float64, totalXP float64) Progress {
	if math.IsNaN(level) || math.IsInf(level, 0) || level < 1 {
		level = 1
	}
	if math.IsNaN(totalXP) || math.IsInf(totalXP, 0) || totalXP < 0 {
		totalXP = 0
	}

	l := int(math.Floor(level))
	lower := XPRequiredForLevel(l)
	required := XPRequiredForLevel(l+1) - lower

	current := int64(math.Floor(totalXP)) - lower
	if current < 0 {
		current = 0
	}
	if current > required {
		current = required
	}

	percentage := float64(current) / float64(required) * 100
	if percentage > 100 {
		percentage = 100
	}

	return Progress{Current: current, Required: required, Percentage: percentage}
}
