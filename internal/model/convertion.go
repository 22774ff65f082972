package model

import (
	"database/sql"
	"strconv"
	"time"

	"github.com/familyquest/backend/internal/entity"
)

const DefaultTimeLayout string = time.RFC3339Nano

func formatNullTime(t sql.NullTime) string {
	if !t.Valid {
		return ""
	}
	return t.Time.Format(DefaultTimeLayout)
}

func ConvertQuest(quest *entity.QuestInstance) Quest {
	if quest == nil {
		return Quest{}
	}

	return Quest{
		ID:             quest.ID,
		FamilyID:       quest.FamilyID,
		TemplateID:     quest.TemplateID.String,
		Title:          quest.Title,
		Description:    quest.Description,
		QuestType:      string(quest.QuestType),
		Category:       string(quest.Category),
		Difficulty:     string(quest.Difficulty),
		XPReward:       quest.XPReward,
		GoldReward:     quest.GoldReward,
		GemsReward:     quest.GemsReward,
		HonorReward:    quest.HonorReward,
		Status:         string(quest.Status),
		AssignedToID:   quest.AssignedToID.String,
		VolunteeredBy:  quest.VolunteeredBy.String,
		VolunteerBonus: quest.VolunteerBonus.Float64,
		DueDate:        formatNullTime(quest.DueDate),
		CycleStartDate: formatNullTime(quest.CycleStartDate),
		CycleEndDate:   formatNullTime(quest.CycleEndDate),
		CompletedAt:    formatNullTime(quest.CompletedAt),
		ApprovedAt:     formatNullTime(quest.ApprovedAt),
		CreatedAt:      quest.CreatedAt.Format(DefaultTimeLayout),
	}
}

func ConvertBossBattle(battle *entity.BossBattle, participants []entity.BossBattleParticipant) BossBattle {
	if battle == nil {
		return BossBattle{}
	}

	modelParticipants := []BossBattleParticipant{}
	for _, p := range participants {
		modelParticipants = append(modelParticipants, BossBattleParticipant{
			UserID:              p.UserID,
			UserName:            p.User.Name,
			ParticipationStatus: string(p.ParticipationStatus),
			AwardedGold:         p.AwardedGold,
			AwardedXP:           p.AwardedXP,
			HonorAwarded:        p.HonorAwarded,
			ApprovedAt:          formatNullTime(p.ApprovedAt),
		})
	}

	return BossBattle{
		ID:                  battle.ID,
		FamilyID:            battle.FamilyID,
		Name:                battle.Name,
		Description:         battle.Description,
		Status:              string(battle.Status),
		RewardGold:          battle.RewardGold,
		RewardXP:            battle.RewardXP,
		HonorReward:         battle.HonorReward,
		RewardsDistributed:  battle.RewardsDistributed,
		JoinWindowExpiresAt: battle.JoinWindowExpiresAt.Format(DefaultTimeLayout),
		DefeatedAt:          formatNullTime(battle.DefeatedAt),
		Participants:        modelParticipants,
	}
}

func ConvertCharacter(character *entity.Character, progress LevelProgress) Character {
	if character == nil {
		return Character{}
	}

	return Character{
		ID:                  character.ID,
		UserID:              character.UserID,
		UserName:            character.User.Name,
		FamilyID:            character.FamilyID,
		Class:               string(character.Class),
		Level:               character.Level,
		XP:                  character.XP,
		Gold:                character.Gold,
		Gems:                character.Gems,
		HonorPoints:         character.HonorPoints,
		StreakCount:         character.StreakCount,
		ActiveFamilyQuestID: character.ActiveFamilyQuestID.String,
		Progress:            progress,
	}
}

func ConvertTransaction(tx *entity.Transaction) Transaction {
	if tx == nil {
		return Transaction{}
	}

	return Transaction{
		ID:          strconv.FormatInt(tx.ID, 10),
		UserID:      tx.UserID,
		FamilyID:    tx.FamilyID,
		Type:        string(tx.Type),
		GoldDelta:   tx.GoldDelta,
		XPDelta:     tx.XPDelta,
		GemsDelta:   tx.GemsDelta,
		HonorDelta:  tx.HonorDelta,
		Description: tx.Description,
		RelatedID:   tx.RelatedID,
		CreatedAt:   tx.CreatedAt.Format(DefaultTimeLayout),
	}
}

func ConvertUser(user *entity.User) User {
	if user == nil {
		return User{}
	}

	return User{
		ID:       user.ID,
		Name:     user.Name,
		Role:     string(user.Role),
		FamilyID: user.FamilyID.String,
	}
}

func ConvertFamily(family *entity.Family) Family {
	if family == nil {
		return Family{}
	}

	return Family{
		ID:       family.ID,
		Name:     family.Name,
		JoinCode: family.JoinCode,
	}
}
