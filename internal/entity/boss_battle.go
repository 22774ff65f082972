package entity

import (
	"database/sql"
	"time"

	"gorm.io/gorm"

	"github.com/familyquest/backend/pkg/enum"
)

type BossBattleStatus string

var (
	BossBattleActive   = enum.New(BossBattleStatus("active"))
	BossBattleDefeated = enum.New(BossBattleStatus("defeated"))
)

type ParticipationStatus string

var (
	ParticipationApproved = enum.New(ParticipationStatus("approved"))
	ParticipationPartial  = enum.New(ParticipationStatus("partial"))
	ParticipationDenied   = enum.New(ParticipationStatus("denied"))
)

type BossBattle struct {
	Base

	FamilyID string `gorm:"index"`
	Family   Family `gorm:"foreignKey:FamilyID"`

	Name        string
	Description string

	Status BossBattleStatus

	RewardGold  int64
	RewardXP    int64
	HonorReward int64

	// RewardsDistributed guards reward distribution: once true, completion
	// calls short-circuit without reprocessing any participant.
	RewardsDistributed bool

	JoinWindowExpiresAt time.Time
	DefeatedAt          sql.NullTime
}

type BossBattleParticipant struct {
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`

	BossBattleID string     `gorm:"primaryKey"`
	BossBattle   BossBattle `gorm:"foreignKey:BossBattleID"`

	UserID string `gorm:"primaryKey"`
	User   User   `gorm:"foreignKey:UserID"`

	// ParticipationStatus is empty until the battle completes.
	ParticipationStatus ParticipationStatus

	AwardedGold  int64
	AwardedXP    int64
	HonorAwarded int64

	ApprovedAt sql.NullTime
	ApprovedBy sql.NullString
}
