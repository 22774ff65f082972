package model

type Quest struct {
	ID             string  `json:"id,omitempty"`
	FamilyID       string  `json:"family_id,omitempty"`
	TemplateID     string  `json:"template_id,omitempty"`
	Title          string  `json:"title,omitempty"`
	Description    string  `json:"description,omitempty"`
	QuestType      string  `json:"quest_type,omitempty"`
	Category       string  `json:"category,omitempty"`
	Difficulty     string  `json:"difficulty,omitempty"`
	XPReward       int64   `json:"xp_reward"`
	GoldReward     int64   `json:"gold_reward"`
	GemsReward     int64   `json:"gems_reward"`
	HonorReward    int64   `json:"honor_reward"`
	Status         string  `json:"status,omitempty"`
	AssignedToID   string  `json:"assigned_to_id,omitempty"`
	VolunteeredBy  string  `json:"volunteered_by,omitempty"`
	VolunteerBonus float64 `json:"volunteer_bonus,omitempty"`
	DueDate        string  `json:"due_date,omitempty"`
	CycleStartDate string  `json:"cycle_start_date,omitempty"`
	CycleEndDate   string  `json:"cycle_end_date,omitempty"`
	CompletedAt    string  `json:"completed_at,omitempty"`
	ApprovedAt     string  `json:"approved_at,omitempty"`
	CreatedAt      string  `json:"created_at,omitempty"`
}

type CreateQuestRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	QuestType    string `json:"quest_type"`
	Category     string `json:"category"`
	Difficulty   string `json:"difficulty"`
	XPReward     int64  `json:"xp_reward"`
	GoldReward   int64  `json:"gold_reward"`
	GemsReward   int64  `json:"gems_reward"`
	HonorReward  int64  `json:"honor_reward"`
	AssignedToID string `json:"assigned_to_id"`
	DueDate      string `json:"due_date"`
}

type CreateQuestResponse struct {
	ID string `json:"id"`
}

type GetQuestRequest struct {
	ID string `json:"id"`
}

type GetQuestResponse Quest

type GetListQuestRequest struct {
	Status       string `json:"status"`
	QuestType    string `json:"quest_type"`
	AssignedToID string `json:"assigned_to_id"`
	Offset       int    `json:"offset"`
	Limit        int    `json:"limit"`
}

type GetListQuestResponse struct {
	Quests []Quest `json:"quests"`
}

type ClaimQuestRequest struct {
	QuestID string `json:"quest_id"`
}

type ClaimQuestResponse struct {
	Quest Quest `json:"quest"`
}

type ReleaseQuestRequest struct {
	QuestID string `json:"quest_id"`
}

type ReleaseQuestResponse struct{}

type AssignQuestRequest struct {
	QuestID string `json:"quest_id"`
	UserID  string `json:"user_id"`
}

type AssignQuestResponse struct {
	Quest Quest `json:"quest"`
}

type UpdateQuestStatusRequest struct {
	QuestID string `json:"quest_id"`
	Status  string `json:"status"`
}

type UpdateQuestStatusResponse struct {
	Quest Quest `json:"quest"`
}

// Rewards and LevelUp are the wire shapes of a reward grant.
type Rewards struct {
	Gold        int64 `json:"gold"`
	XP          int64 `json:"xp"`
	Gems        int64 `json:"gems"`
	HonorPoints int64 `json:"honor_points"`
}

type LevelUp struct {
	PreviousLevel int `json:"previous_level"`
	NewLevel      int `json:"new_level"`
}

type ApproveQuestRequest struct {
	QuestID string `json:"quest_id"`
}

type ApproveQuestResponse struct {
	// AlreadyApproved marks the idempotent no-op path; no rewards are
	// granted a second time.
	AlreadyApproved bool     `json:"already_approved"`
	Rewards         *Rewards `json:"rewards,omitempty"`
	LevelUp         *LevelUp `json:"level_up,omitempty"`
	TransactionID   string   `json:"transaction_id,omitempty"`
}

type DenyQuestRequest struct {
	QuestID string `json:"quest_id"`
}

type DenyQuestResponse struct {
	Quest Quest `json:"quest"`
}

type CancelQuestRequest struct {
	QuestID string `json:"quest_id"`
}

type CancelQuestResponse struct{}
