package entity

import (
	"database/sql"

	"github.com/familyquest/backend/pkg/enum"
)

type QuestType string

var (
	QuestIndividual = enum.New(QuestType("individual"))
	QuestFamily     = enum.New(QuestType("family"))
)

type QuestCategory string

var (
	CategoryDaily      = enum.New(QuestCategory("daily"))
	CategoryWeekly     = enum.New(QuestCategory("weekly"))
	CategoryBossBattle = enum.New(QuestCategory("boss_battle"))
)

type QuestDifficulty string

var (
	DifficultyEasy   = enum.New(QuestDifficulty("easy"))
	DifficultyMedium = enum.New(QuestDifficulty("medium"))
	DifficultyHard   = enum.New(QuestDifficulty("hard"))
)

type QuestStatus string

var (
	QuestAvailable  = enum.New(QuestStatus("available"))
	QuestClaimed    = enum.New(QuestStatus("claimed"))
	QuestPending    = enum.New(QuestStatus("pending"))
	QuestInProgress = enum.New(QuestStatus("in_progress"))
	QuestCompleted  = enum.New(QuestStatus("completed"))
	QuestApproved   = enum.New(QuestStatus("approved"))
	QuestExpired    = enum.New(QuestStatus("expired"))
	QuestMissed     = enum.New(QuestStatus("missed"))
)

// QuestTerminalStatuses are the statuses a quest instance never leaves.
var QuestTerminalStatuses = []QuestStatus{QuestApproved, QuestExpired, QuestMissed}

type QuestInstance struct {
	Base

	FamilyID string `gorm:"index"`
	Family   Family `gorm:"foreignKey:FamilyID"`

	// TemplateID records provenance for analytics only. Templates stay
	// independent blueprints; no foreign key is enforced.
	TemplateID sql.NullString

	Title       string
	Description string

	QuestType  QuestType
	Category   QuestCategory
	Difficulty QuestDifficulty

	XPReward    int64
	GoldReward  int64
	GemsReward  int64
	HonorReward int64

	Status QuestStatus `gorm:"index"`

	AssignedToID sql.NullString
	AssignedTo   User `gorm:"foreignKey:AssignedToID"`

	// VolunteeredBy references the character that claimed this family quest
	// themselves; manual GM assignment leaves it null.
	VolunteeredBy  sql.NullString
	VolunteerBonus sql.NullFloat64

	DueDate        sql.NullTime
	CycleStartDate sql.NullTime
	CycleEndDate   sql.NullTime
	CompletedAt    sql.NullTime
	ApprovedAt     sql.NullTime
}

type RecurrenceType string

var (
	RecurrenceDaily  = enum.New(RecurrenceType("daily"))
	RecurrenceWeekly = enum.New(RecurrenceType("weekly"))
	RecurrenceCustom = enum.New(RecurrenceType("custom"))
)

type QuestTemplate struct {
	Base

	FamilyID string `gorm:"index"`
	Family   Family `gorm:"foreignKey:FamilyID"`

	Title       string
	Description string

	QuestType  QuestType
	Category   QuestCategory
	Difficulty QuestDifficulty

	XPReward    int64
	GoldReward  int64
	GemsReward  int64
	HonorReward int64

	Recurrence RecurrenceType

	// CustomDays is the cycle length in days for the custom recurrence.
	CustomDays int

	IsActive bool
	IsPaused bool

	AssignedCharacterIDs Array[string]
	ClassBonuses         Map

	LastGeneratedAt sql.NullTime
}
