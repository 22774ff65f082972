package model

type BossBattleParticipant struct {
	UserID              string `json:"user_id"`
	UserName            string `json:"user_name,omitempty"`
	ParticipationStatus string `json:"participation_status,omitempty"`
	AwardedGold         int64  `json:"awarded_gold"`
	AwardedXP           int64  `json:"awarded_xp"`
	HonorAwarded        int64  `json:"honor_awarded"`
	ApprovedAt          string `json:"approved_at,omitempty"`
}

type BossBattle struct {
	ID                  string                  `json:"id,omitempty"`
	FamilyID            string                  `json:"family_id,omitempty"`
	Name                string                  `json:"name,omitempty"`
	Description         string                  `json:"description,omitempty"`
	Status              string                  `json:"status,omitempty"`
	RewardGold          int64                   `json:"reward_gold"`
	RewardXP            int64                   `json:"reward_xp"`
	HonorReward         int64                   `json:"honor_reward"`
	RewardsDistributed  bool                    `json:"rewards_distributed"`
	JoinWindowExpiresAt string                  `json:"join_window_expires_at,omitempty"`
	DefeatedAt          string                  `json:"defeated_at,omitempty"`
	Participants        []BossBattleParticipant `json:"participants,omitempty"`
}

type CreateBossBattleRequest struct {
	Name              string `json:"name"`
	Description       string `json:"description"`
	RewardGold        int64  `json:"reward_gold"`
	RewardXP          int64  `json:"reward_xp"`
	HonorReward       int64  `json:"honor_reward"`
	JoinWindowMinutes int    `json:"join_window_minutes"`
}

type CreateBossBattleResponse struct {
	ID string `json:"id"`
}

type GetBossBattleRequest struct {
	ID string `json:"id"`
}

type GetBossBattleResponse BossBattle

type GetListBossBattleRequest struct{}

type GetListBossBattleResponse struct {
	BossBattles []BossBattle `json:"boss_battles"`
}

type JoinBossBattleRequest struct {
	BossBattleID string `json:"boss_battle_id"`
}

type JoinBossBattleResponse struct{}

// BossBattleDecision is one guild master ruling over a participant. Gold, XP
// and Honor are only consulted for a partial ruling; nil falls back to the
// battle's base rewards.
type BossBattleDecision struct {
	UserID string   `json:"user_id"`
	Status string   `json:"status"`
	Gold   *float64 `json:"gold,omitempty"`
	XP     *float64 `json:"xp,omitempty"`
	Honor  *float64 `json:"honor,omitempty"`
}

type CompleteBossBattleRequest struct {
	BossBattleID string               `json:"boss_battle_id"`
	Decisions    []BossBattleDecision `json:"decisions"`
}

type BossBattleAward struct {
	UserID string `json:"user_id"`
	Status string `json:"status"`
	Gold   int64  `json:"gold"`
	XP     int64  `json:"xp"`
	Honor  int64  `json:"honor"`
}

type CompleteBossBattleResponse struct {
	AlreadyCompleted bool              `json:"already_completed"`
	Awards           []BossBattleAward `json:"awards,omitempty"`
}

type ReopenBossBattleRequest struct {
	BossBattleID string `json:"boss_battle_id"`
	Minutes      int    `json:"minutes"`
}

type ReopenBossBattleResponse struct{}
