package entity

import "github.com/familyquest/backend/pkg/enum"

type TransactionType string

var (
	TransactionQuestReward = enum.New(TransactionType("quest_reward"))
	TransactionBossVictory = enum.New(TransactionType("boss_victory"))
)

// Transaction is an append-only ledger entry recording a reward event. Rows
// are never updated or deleted; the ledger is the sole source for
// transaction-history views.
type Transaction struct {
	SnowFlakeBase

	UserID string `gorm:"index"`
	User   User   `gorm:"foreignKey:UserID"`

	FamilyID string `gorm:"index"`

	Type TransactionType

	GoldDelta  int64
	XPDelta    int64
	GemsDelta  int64
	HonorDelta int64

	Description string

	// RelatedID references the quest instance or boss battle that produced
	// this entry.
	RelatedID string
}
