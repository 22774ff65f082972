package entity

import (
	"database/sql"

	"github.com/familyquest/backend/pkg/enum"
)

type CharacterClass string

var (
	ClassKnight = enum.New(CharacterClass("knight"))
	ClassMage   = enum.New(CharacterClass("mage"))
	ClassRanger = enum.New(CharacterClass("ranger"))
	ClassRogue  = enum.New(CharacterClass("rogue"))
	ClassHealer = enum.New(CharacterClass("healer"))
)

type Character struct {
	Base

	UserID string `gorm:"unique"`
	User   User   `gorm:"foreignKey:UserID"`

	FamilyID string `gorm:"index"`
	Family   Family `gorm:"foreignKey:FamilyID"`

	Class CharacterClass

	Level       int `gorm:"default:1"`
	XP          int64
	Gold        int64
	Gems        int64
	HonorPoints int64

	// ActiveFamilyQuestID points at the family quest this character currently
	// holds. At most one claim is outstanding per character.
	ActiveFamilyQuestID sql.NullString

	StreakCount int
}
