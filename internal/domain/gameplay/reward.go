package gameplay

import (
	"math"

	"github.com/familyquest/backend/internal/entity"
)

// Rewards is one bundle of the four currencies. All calculator results are
// floored to whole units per currency, never rounded.
type Rewards struct {
	Gold        int64 `json:"gold"`
	XP          int64 `json:"xp"`
	Gems        int64 `json:"gems"`
	HonorPoints int64 `json:"honor_points"`
}

// ClassBonus carries the per-currency multipliers of a character class.
type ClassBonus struct {
	XP    float64
	Gold  float64
	Honor float64
	Gems  float64
}

var neutralBonus = ClassBonus{XP: 1.0, Gold: 1.0, Honor: 1.0, Gems: 1.0}

var classBonuses = map[entity.CharacterClass]ClassBonus{
	entity.ClassKnight: {XP: 1.05, Gold: 1.05, Honor: 1.0, Gems: 1.0},
	entity.ClassMage:   {XP: 1.2, Gold: 1.0, Honor: 1.0, Gems: 1.0},
	entity.ClassRogue:  {XP: 1.0, Gold: 1.15, Honor: 1.0, Gems: 1.0},
	entity.ClassHealer: {XP: 1.1, Gold: 1.0, Honor: 1.25, Gems: 1.0},
	entity.ClassRanger: {XP: 1.0, Gold: 1.0, Honor: 1.0, Gems: 1.3},
}

var difficultyMultipliers = map[entity.QuestDifficulty]float64{
	entity.DifficultyEasy:   1.0,
	entity.DifficultyMedium: 1.5,
	entity.DifficultyHard:   2.0,
}

// ClassBonusFor returns the multiplier table of class. Unknown classes get
// neutral multipliers so a misconfigured character never loses rewards.
func ClassBonusFor(class entity.CharacterClass) ClassBonus {
	if bonus, ok := classBonuses[class]; ok {
		return bonus
	}
	return neutralBonus
}

func DifficultyMultiplier(difficulty entity.QuestDifficulty) float64 {
	if m, ok := difficultyMultipliers[difficulty]; ok {
		return m
	}
	return 1.0
}

// CalculateQuestRewards composes base rewards with the difficulty multiplier
// (xp and gold only) and the class bonus, flooring once per currency at the
// end of the chain. The level parameter is reserved for future scaling and
// does not affect the result.
func CalculateQuestRewards(
	base Rewards,
	difficulty entity.QuestDifficulty,
	class entity.CharacterClass,
	level int,
) Rewards {
	dm := DifficultyMultiplier(difficulty)
	bonus := ClassBonusFor(class)

	return Rewards{
		Gold:        int64(math.Floor(float64(base.Gold) * dm * bonus.Gold)),
		XP:          int64(math.Floor(float64(base.XP) * dm * bonus.XP)),
		Gems:        int64(math.Floor(float64(base.Gems) * bonus.Gems)),
		HonorPoints: int64(math.Floor(float64(base.HonorPoints) * bonus.Honor)),
	}
}
